// Package app wires the bookkeeping core, frame sink and video worker into a
// single Controller. Front ends construct one Controller per process and
// call Shutdown before exiting.
package app

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/fakeyudi/studylapse/internal/config"
	"github.com/fakeyudi/studylapse/internal/frames"
	"github.com/fakeyudi/studylapse/internal/logging"
	"github.com/fakeyudi/studylapse/internal/report"
	"github.com/fakeyudi/studylapse/internal/studytime"
	"github.com/fakeyudi/studylapse/internal/tasklog"
	"github.com/fakeyudi/studylapse/internal/video"
)

// Deps holds the collaborators a Controller uses. Zero fields get defaults.
type Deps struct {
	Clock    func() time.Time
	Sink     frames.Sink
	Compiler video.Compiler
	Logger   *slog.Logger
}

// Controller serialises all bookkeeping mutations. Its methods are safe to
// call from the frame watcher and from worker callbacks.
//
// Several processes may share a data directory (a long-running watch plus
// one-shot start and add commands). Every mutation takes an exclusive lock
// on the directory and reloads the files before changing them. Reads reload
// under a shared lock.
type Controller struct {
	cfg     config.Config
	dataDir string
	clock   func() time.Time
	log     *slog.Logger
	lock    *flock.Flock

	mu        sync.Mutex
	counter   *studytime.Counter
	tracker   *tasklog.Tracker
	sink      frames.Sink
	worker    *video.Worker
	lastFrame time.Time
}

// New loads the bookkeeping files from cfg's data directory.
func New(cfg config.Config, deps Deps) (*Controller, error) {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logging.New(cfg.LogFormat, nil)
	}
	if deps.Sink == nil {
		deps.Sink = &frames.DiskSink{Dir: cfg.FramesDir}
	}
	if deps.Compiler == nil {
		deps.Compiler = &video.FFmpeg{Binary: cfg.FFmpegPath}
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	lock := flock.New(filepath.Join(dataDir, ".lock"))
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock data directory: %w", err)
	}
	defer lock.Unlock()

	counter, err := studytime.New(filepath.Join(dataDir, "study_time.json"), deps.Clock)
	if err != nil {
		return nil, err
	}
	tracker, err := tasklog.Open(tasklog.DefaultPaths(dataDir), deps.Clock)
	if err != nil {
		return nil, err
	}

	return &Controller{
		cfg:     cfg,
		dataDir: dataDir,
		clock:   deps.Clock,
		log:     logging.Component(deps.Logger, "controller"),
		lock:    lock,
		counter: counter,
		tracker: tracker,
		sink:    deps.Sink,
		worker:  video.NewWorker(deps.Compiler, logging.Component(deps.Logger, "video")),
	}, nil
}

// DataDir returns the directory holding the bookkeeping files.
func (c *Controller) DataDir() string { return c.dataDir }

// Config returns the effective configuration.
func (c *Controller) Config() config.Config { return c.cfg }

// SelectTask switches to name, closing any open session first.
func (c *Controller) SelectTask(name string) (tasklog.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var h tasklog.Handle
	err := c.locked(func() error {
		prev, hadPrev := c.tracker.Current()
		var err error
		h, err = c.tracker.Start(name)
		if err != nil {
			return err
		}
		if hadPrev {
			c.log.Info("task ended", "task", prev.TaskName, "total", c.tracker.TaskTime(prev.TaskName))
		}
		return nil
	})
	if err != nil {
		return tasklog.Handle{}, err
	}
	c.log.Info("task started", "task", h.TaskName, "session", h.ID)
	return h, nil
}

// StopTask closes the open session, if any.
func (c *Controller) StopTask() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locked(c.stopLocked)
}

func (c *Controller) stopLocked() error {
	h, ok := c.tracker.Current()
	if !ok {
		return nil
	}
	if err := c.tracker.End(h); err != nil {
		return err
	}
	c.log.Info("task ended", "task", h.TaskName, "total", c.tracker.TaskTime(h.TaskName))
	return nil
}

// locked runs fn with the data directory exclusively locked and the
// bookkeeping state reloaded from disk. c.mu must be held.
func (c *Controller) locked(fn func() error) error {
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("lock data directory: %w", err)
	}
	defer c.lock.Unlock()
	if err := c.reload(); err != nil {
		return err
	}
	return fn()
}

// refresh reloads the bookkeeping state before a read. On failure the last
// loaded state is served. c.mu must be held.
func (c *Controller) refresh() {
	if err := c.lock.RLock(); err != nil {
		c.log.Warn("lock data directory", "error", err)
		return
	}
	defer c.lock.Unlock()
	if err := c.reload(); err != nil {
		c.log.Warn("reload bookkeeping files", "error", err)
	}
}

func (c *Controller) reload() error {
	if err := c.counter.Reload(); err != nil {
		return err
	}
	return c.tracker.Reload()
}

// Tick credits seconds of study time to today.
func (c *Controller) Tick(seconds int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.locked(func() error { return c.counter.Add(seconds) }); err != nil {
		return err
	}
	c.log.Debug("study time credited", "seconds", seconds, "today", c.counter.Today())
	return nil
}

// SaveFrame hands img to the frame sink and credits the capture.
func (c *Controller) SaveFrame(img image.Image) (string, error) {
	at := c.clock()
	path, err := c.sink.Save(img, at)
	if err != nil {
		return "", err
	}
	return path, c.OnFrame(path, at)
}

// OnFrame credits the time since the previous frame. The first frame, and any
// frame after a gap longer than two capture intervals (capture was paused),
// is credited one capture interval.
func (c *Controller) OnFrame(path string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	interval := time.Duration(c.cfg.CaptureInterval) * time.Second
	credit := interval
	if !c.lastFrame.IsZero() {
		if gap := at.Sub(c.lastFrame); gap > 0 && gap <= 2*interval {
			credit = gap
		}
	}
	c.lastFrame = at

	secs := int64(credit.Round(time.Second) / time.Second)
	if err := c.locked(func() error { return c.counter.Add(secs) }); err != nil {
		return err
	}
	c.log.Debug("frame captured", "path", path, "credited", secs, "today", c.counter.Today())
	return nil
}

// Compile starts compiling date's frames in the background. onDone or onErr
// is called from the worker goroutine when it finishes. The returned error
// covers only failures to start (no frames, already compiling).
func (c *Controller) Compile(date string, fps int, onDone func(string), onErr func(error)) (string, error) {
	if fps <= 0 {
		fps = c.cfg.FPS
	}
	paths, err := frames.List(c.cfg.FramesDir, date)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("%w for %s", video.ErrNoFrames, date)
	}
	out := filepath.Join(c.cfg.OutputDir,
		fmt.Sprintf("timelapse_%s_%s.mp4", strings.ReplaceAll(date, "-", ""), c.clock().Format("150405")))

	if err := c.worker.Submit(video.Job{Frames: paths, FPS: fps, Out: out}, onDone, onErr); err != nil {
		return "", err
	}
	return out, nil
}

// Compiling reports whether a video is being compiled.
func (c *Controller) Compiling() bool { return c.worker.Busy() }

// WaitCompile blocks until a running compile has finished.
func (c *Controller) WaitCompile() { c.worker.Wait() }

// Status is a point-in-time view of the controller state.
type Status struct {
	Day          string
	StudySeconds int64
	CurrentTask  string
	CurrentID    string
	CurrentSince time.Time
	TaskSeconds  float64
	Compiling    bool
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()

	s := Status{
		Day:          c.counter.Day(),
		StudySeconds: c.counter.Today(),
		Compiling:    c.worker.Busy(),
	}
	if h, ok := c.tracker.Current(); ok {
		s.CurrentTask = h.TaskName
		s.CurrentID = h.ID
		s.CurrentSince = h.Start
		s.TaskSeconds = c.tracker.TaskTime(h.TaskName)
	}
	return s
}

// TaskTotal is one entry of the all-time totals list.
type TaskTotal struct {
	Name    string
	Seconds float64
}

// Tasks returns every known task with its cumulative time, sorted by name.
func (c *Controller) Tasks() []TaskTotal {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()

	names := c.tracker.AllTasks()
	out := make([]TaskTotal, 0, len(names))
	for _, n := range names {
		out = append(out, TaskTotal{Name: n, Seconds: c.tracker.TaskTime(n)})
	}
	return out
}

// Today returns the current local date key.
func (c *Controller) Today() string {
	return c.clock().Format(tasklog.DateLayout)
}

// DailyLog returns the sessions recorded for date.
func (c *Controller) DailyLog(date string) []tasklog.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.tracker.DailyLog(date)
}

// Log returns a copy of the full session log.
func (c *Controller) Log() tasklog.Log {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.tracker.Log()
}

// History returns the per-day study time history.
func (c *Controller) History() studytime.Daily {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.counter.All()
}

// HistoryDays returns the days with recorded study time, oldest first.
func (c *Controller) HistoryDays() []string {
	h := c.History()
	days := make([]string, 0, len(h))
	for d := range h {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// Report builds the daily report for date. It returns false when the day
// has no closed sessions.
func (c *Controller) Report(date string) (*report.DailyReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return report.Build(date, c.tracker.Log(), c.counter.All())
}

// Shutdown closes the open session and waits for a running compile.
func (c *Controller) Shutdown() error {
	c.mu.Lock()
	err := c.locked(c.stopLocked)
	c.mu.Unlock()

	c.worker.Close()
	return err
}
