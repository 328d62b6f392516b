// Package video turns a day's frames into a time-lapse video off the caller's
// goroutine.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrNoFrames is returned when there is nothing to compile.
	ErrNoFrames = errors.New("no frames to compile")

	// ErrCodecMissing is returned when the encoder binary cannot be found.
	ErrCodecMissing = errors.New("video encoder not available")
)

// Compiler encodes frames, in order, into a video file at out.
type Compiler interface {
	Compile(ctx context.Context, frames []string, fps int, out string) error
}

// FFmpeg compiles frames with the ffmpeg binary using the concat demuxer.
type FFmpeg struct {
	Binary string // defaults to "ffmpeg"
}

func (f *FFmpeg) Compile(ctx context.Context, frames []string, fps int, out string) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if fps < 1 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	bin := f.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCodecMissing, bin, err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	list, err := writeConcatList(frames, fps)
	if err != nil {
		return err
	}
	defer os.Remove(list)

	cmd := exec.CommandContext(ctx, bin,
		"-y", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", list,
		"-r", strconv.Itoa(fps),
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// writeConcatList writes an ffmpeg concat script showing each frame for 1/fps
// seconds and returns its path.
func writeConcatList(frames []string, fps int) (string, error) {
	f, err := os.CreateTemp("", "studylapse-frames-*.txt")
	if err != nil {
		return "", fmt.Errorf("create frame list: %w", err)
	}
	dur := 1.0 / float64(fps)

	var sb strings.Builder
	for _, p := range frames {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		fmt.Fprintf(&sb, "file '%s'\nduration %.6f\n", strings.ReplaceAll(abs, "'", `'\''`), dur)
	}
	// The concat demuxer ignores the last duration unless the file repeats.
	last, _ := filepath.Abs(frames[len(frames)-1])
	fmt.Fprintf(&sb, "file '%s'\n", strings.ReplaceAll(last, "'", `'\''`))

	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write frame list: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write frame list: %w", err)
	}
	return f.Name(), nil
}
