// Package studytime keeps the per-day study-time counter.
package studytime

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/fakeyudi/studylapse/internal/jsonstore"
)

// DateLayout is the key format for calendar days (local time).
const DateLayout = "2006-01-02"

// ErrNegativeDuration is returned by Add for seconds < 0.
var ErrNegativeDuration = errors.New("study time must not be negative")

// Daily maps a local calendar day to accumulated seconds.
type Daily map[string]int64

// Counter accumulates seconds for a single day and persists on every change.
//
// The day is fixed when the Counter is created. A process that runs past
// local midnight keeps crediting the day it started on.
type Counter struct {
	path  string
	today string
	data  Daily
}

// New loads the counter file at path. A missing file starts an empty history.
func New(path string, clock func() time.Time) (*Counter, error) {
	if clock == nil {
		clock = time.Now
	}
	c := &Counter{
		path:  path,
		today: clock().Format(DateLayout),
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the history from disk, picking up writes made by other
// processes. The counter's day does not change.
func (c *Counter) Reload() error {
	data, err := jsonstore.Load(c.path, Daily{})
	if err != nil {
		return fmt.Errorf("load study time: %w", err)
	}
	if data == nil {
		data = Daily{}
	}
	c.data = data
	return nil
}

// Day returns the date key this counter credits.
func (c *Counter) Day() string { return c.today }

// Today returns the seconds recorded for the counter's day, or 0.
func (c *Counter) Today() int64 {
	return c.data[c.today]
}

// Add credits seconds to today and writes the full history to disk.
func (c *Counter) Add(seconds int64) error {
	if seconds < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDuration, seconds)
	}
	c.data[c.today] += seconds
	if err := jsonstore.Save(c.path, c.data); err != nil {
		return fmt.Errorf("save study time: %w", err)
	}
	return nil
}

// All returns a copy of the full history.
func (c *Counter) All() Daily {
	return maps.Clone(c.data)
}
