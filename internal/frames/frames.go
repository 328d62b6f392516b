// Package frames stores captured frames on disk and watches for new ones.
//
// Frames live under <dir>/<YYYY-MM-DD>/frame_<YYYYmmdd_HHMMSS>.png. Capture
// and overlay rendering happen elsewhere; this package only names, writes and
// lists the files.
package frames

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	dateLayout = "2006-01-02"
	fileLayout = "20060102_150405"
	prefix     = "frame_"
	ext        = ".png"
)

// Sink accepts a captured, annotated frame.
type Sink interface {
	Save(img image.Image, at time.Time) (string, error)
}

// DiskSink writes frames as PNG files under Dir.
type DiskSink struct {
	Dir string
}

// Save encodes img to <Dir>/<date>/frame_<stamp>.png and returns the path.
func (s *DiskSink) Save(img image.Image, at time.Time) (string, error) {
	dayDir := filepath.Join(s.Dir, at.Format(dateLayout))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return "", fmt.Errorf("create frame directory: %w", err)
	}
	path := filepath.Join(dayDir, FileName(at))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write frame: %w", err)
	}
	return path, nil
}

// FileName returns the frame file name for a capture at t.
func FileName(t time.Time) string {
	return prefix + t.Format(fileLayout) + ext
}

// ParseTime recovers the capture time from a frame path.
func ParseTime(path string) (time.Time, bool) {
	base := filepath.Base(path)
	if !IsFrame(base) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(base, prefix), ext)
	t, err := time.ParseInLocation(fileLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsFrame reports whether name looks like a frame file.
func IsFrame(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, prefix) && strings.EqualFold(filepath.Ext(base), ext)
}

// DayDir returns the directory holding frames for date.
func DayDir(dir, date string) string {
	return filepath.Join(dir, date)
}

// List returns the frame paths for date in capture order.
// A missing directory yields an empty list.
func List(dir, date string) ([]string, error) {
	entries, err := os.ReadDir(DayDir(dir, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list frames: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsFrame(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(DayDir(dir, date), e.Name()))
	}
	// Names embed a sortable timestamp.
	slices.Sort(paths)
	return paths, nil
}

// Watch watches dir (and every day directory beneath it) and calls onFrame
// for each newly created frame file until ctx is cancelled. onFrame runs on
// the watcher goroutine.
func Watch(ctx context.Context, dir string, onFrame func(path string, at time.Time)) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create frames directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	report := func(path string) {
		at, ok := ParseTime(path)
		if !ok {
			at = time.Now()
		}
		onFrame(path, at)
	}
	seen := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			// A new day directory: watch it too. Frames written before the
			// watch was in place produce no event, so report them now.
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if err := watcher.Add(event.Name); err != nil {
					continue
				}
				entries, err := os.ReadDir(event.Name)
				if err != nil {
					continue
				}
				for _, e := range entries {
					if e.IsDir() || !IsFrame(e.Name()) {
						continue
					}
					path := filepath.Join(event.Name, e.Name())
					seen[path] = true
					report(path)
				}
				continue
			}
			if !IsFrame(event.Name) {
				continue
			}
			// Already reported by the directory scan.
			if seen[event.Name] {
				delete(seen, event.Name)
				continue
			}
			report(event.Name)
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
		}
	}
}
