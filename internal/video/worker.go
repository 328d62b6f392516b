package video

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrBusy is returned by Submit while a compile is already running.
var ErrBusy = errors.New("a video is already being compiled")

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("video worker closed")

// Job describes one compile request.
type Job struct {
	Frames []string
	FPS    int
	Out    string
}

// Worker runs at most one compile at a time on its own goroutine and reports
// the outcome through callbacks. Jobs cannot be cancelled.
type Worker struct {
	compiler Compiler
	log      *slog.Logger

	mu     sync.Mutex
	busy   bool
	closed bool
	wg     sync.WaitGroup
}

// NewWorker returns a Worker that compiles with c.
func NewWorker(c Compiler, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{compiler: c, log: log}
}

// Busy reports whether a job is running.
func (w *Worker) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Submit starts job in the background. Exactly one of onDone or onErr is
// called when it finishes, on the worker goroutine. Either may be nil.
func (w *Worker) Submit(job Job, onDone func(out string), onErr func(error)) error {
	if len(job.Frames) == 0 {
		return ErrNoFrames
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	w.busy = true
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()

		started := time.Now()
		w.log.Info("compiling video", "frames", len(job.Frames), "fps", job.FPS, "out", job.Out)
		err := w.compiler.Compile(context.Background(), job.Frames, job.FPS, job.Out)

		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()

		if err != nil {
			w.log.Error("video compile failed", "error", err)
			if onErr != nil {
				onErr(err)
			}
			return
		}
		w.log.Info("video compiled", "out", job.Out, "took", time.Since(started).Round(time.Millisecond))
		if onDone != nil {
			onDone(job.Out)
		}
	}()
	return nil
}

// Wait blocks until the running job, if any, has finished and its callback
// has returned.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// Close rejects further jobs and waits for the running one.
func (w *Worker) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.wg.Wait()
}
