// Package tasklog tracks task sessions and cumulative time per task.
//
// Two documents are kept in step: a totals index (task -> seconds) and an
// append-only per-day session log. Closing a session updates both before
// either is written. A third small document records the open session so that
// separate processes agree on the current task.
package tasklog

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/studylapse/internal/jsonstore"
)

var (
	// ErrEmptyTaskName is returned by Start for a blank task name.
	ErrEmptyTaskName = errors.New("task name must not be empty")

	// ErrNotCurrent is returned by End when the handle is not the open session.
	ErrNotCurrent = errors.New("session is not the current session")

	// ErrPersist wraps disk failures while writing bookkeeping files.
	ErrPersist = errors.New("failed to persist task log")
)

// Paths names the files backing a Tracker.
type Paths struct {
	Totals string
	Log    string
	Active string
}

// DefaultPaths returns the standard file names inside dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Totals: filepath.Join(dir, "tasks.json"),
		Log:    filepath.Join(dir, "task_log.json"),
		Active: filepath.Join(dir, "active.json"),
	}
}

// Tracker owns Totals and Log and is their only writer. It is not safe for
// concurrent use.
type Tracker struct {
	paths   Paths
	clock   func() time.Time
	totals  Totals
	log     Log
	current *Handle
}

// Open loads the tracker state. Missing files yield an empty store.
func Open(paths Paths, clock func() time.Time) (*Tracker, error) {
	if clock == nil {
		clock = time.Now
	}
	t := &Tracker{paths: paths, clock: clock}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the in-memory state with what is on disk, so that changes
// written by another process are not overwritten by the next save.
func (t *Tracker) Reload() error {
	totals, err := jsonstore.Load(t.paths.Totals, Totals{})
	if err != nil {
		return fmt.Errorf("load task totals: %w", err)
	}
	log, err := jsonstore.Load(t.paths.Log, Log{})
	if err != nil {
		return fmt.Errorf("load task log: %w", err)
	}
	active, err := jsonstore.Load[*Handle](t.paths.Active, nil)
	if err != nil {
		return fmt.Errorf("load active session: %w", err)
	}
	if totals == nil {
		totals = Totals{}
	}
	if log == nil {
		log = Log{}
	}

	t.totals, t.log, t.current = totals, log, nil
	// An active record whose entry never reached the log, or was already
	// closed, is stale.
	if active != nil {
		if i := t.indexOf(*active); i >= 0 && t.log[active.Day][i].Open() {
			t.current = active
		}
	}
	return nil
}

// Today returns the current local date key.
func (t *Tracker) Today() string {
	return t.clock().Format(DateLayout)
}

// Current returns the open session, if any.
func (t *Tracker) Current() (Handle, bool) {
	if t.current == nil {
		return Handle{}, false
	}
	return *t.current, true
}

// Start makes name the current task. Any open session is closed first, at the
// same instant the new one opens. Restarting the current task closes and
// reopens it.
func (t *Tracker) Start(name string) (Handle, error) {
	if strings.TrimSpace(name) == "" {
		return Handle{}, ErrEmptyTaskName
	}
	now := t.clock()

	if t.current != nil {
		if err := t.close(now); err != nil {
			return Handle{}, err
		}
	}

	if _, ok := t.totals[name]; !ok {
		t.totals[name] = 0
	}
	h := Handle{
		ID:       uuid.NewString(),
		Day:      now.Format(DateLayout),
		TaskName: name,
		Start:    now,
	}
	t.log[h.Day] = append(t.log[h.Day], Session{
		ID:        h.ID,
		TaskName:  name,
		StartTime: Timestamp{now},
	})
	t.current = &h

	return h, t.persist()
}

// End closes the session identified by h.
func (t *Tracker) End(h Handle) error {
	if t.current == nil || t.current.ID != h.ID {
		return fmt.Errorf("%w: %s", ErrNotCurrent, h.TaskName)
	}
	if err := t.close(t.clock()); err != nil {
		return err
	}
	return t.persist()
}

// EndCurrent closes the open session. It is a no-op if none is open.
func (t *Tracker) EndCurrent() error {
	if t.current == nil {
		return nil
	}
	return t.End(*t.current)
}

// close credits the open session and stamps its log entry with now.
func (t *Tracker) close(now time.Time) error {
	h := *t.current
	idx := t.indexOf(h)
	if idx < 0 {
		return fmt.Errorf("session %s for %q missing from log day %s", h.ID, h.TaskName, h.Day)
	}

	elapsed := now.Sub(h.Start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	t.totals[h.TaskName] += elapsed
	t.log[h.Day][idx].EndTime = &Timestamp{now}
	t.current = nil
	return nil
}

// indexOf locates h's entry in its start day. Entries written without an ID
// fall back to the last entry of the day.
func (t *Tracker) indexOf(h Handle) int {
	sessions := t.log[h.Day]
	if h.ID == "" {
		if n := len(sessions); n > 0 && sessions[n-1].Open() {
			return n - 1
		}
		return -1
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].ID == h.ID {
			return i
		}
	}
	return -1
}

func (t *Tracker) persist() error {
	if err := jsonstore.Save(t.paths.Totals, t.totals); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := jsonstore.Save(t.paths.Log, t.log); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	var err error
	if t.current != nil {
		err = jsonstore.Save(t.paths.Active, t.current)
	} else {
		err = jsonstore.Remove(t.paths.Active)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// TaskTime returns the cumulative seconds recorded for name, or 0.
func (t *Tracker) TaskTime(name string) float64 {
	return t.totals[name]
}

// AllTasks returns every known task name, from the totals index and from any
// day of the log, sorted.
func (t *Tracker) AllTasks() []string {
	seen := make(map[string]struct{}, len(t.totals))
	for name := range t.totals {
		seen[name] = struct{}{}
	}
	for _, sessions := range t.log {
		for _, s := range sessions {
			seen[s.TaskName] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// DailyLog returns a copy of the sessions recorded for date (YYYY-MM-DD).
func (t *Tracker) DailyLog(date string) []Session {
	return cloneSessions(t.log[date])
}

// Totals returns a copy of the totals index.
func (t *Tracker) Totals() Totals {
	return maps.Clone(t.totals)
}

// Log returns a copy of the full session log.
func (t *Tracker) Log() Log {
	return t.log.clone()
}
