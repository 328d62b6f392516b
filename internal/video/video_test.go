package video

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockingCompiler blocks until release is closed, then returns err.
type blockingCompiler struct {
	release chan struct{}
	err     error

	mu    sync.Mutex
	calls []Job
}

func (b *blockingCompiler) Compile(ctx context.Context, frames []string, fps int, out string) error {
	b.mu.Lock()
	b.calls = append(b.calls, Job{Frames: frames, FPS: fps, Out: out})
	b.mu.Unlock()
	<-b.release
	return b.err
}

func TestWorkerRejectsSecondSubmitWhileBusy(t *testing.T) {
	c := &blockingCompiler{release: make(chan struct{})}
	w := NewWorker(c, quietLogger())

	job := Job{Frames: []string{"a.png"}, FPS: 2, Out: "out.mp4"}
	done := make(chan string, 1)
	if err := w.Submit(job, func(out string) { done <- out }, nil); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if !w.Busy() {
		t.Error("worker should be busy")
	}
	if err := w.Submit(job, nil, nil); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit: expected ErrBusy, got %v", err)
	}

	close(c.release)
	w.Wait()

	if got := <-done; got != "out.mp4" {
		t.Errorf("onDone: got %q", got)
	}
	if w.Busy() {
		t.Error("worker should be idle after completion")
	}
	// Retryable once idle.
	c.release = make(chan struct{})
	close(c.release)
	if err := w.Submit(job, nil, nil); err != nil {
		t.Errorf("Submit after completion: %v", err)
	}
	w.Wait()
}

func TestWorkerReportsError(t *testing.T) {
	boom := errors.New("encode failed")
	c := &blockingCompiler{release: make(chan struct{}), err: boom}
	close(c.release)
	w := NewWorker(c, quietLogger())

	var got error
	var doneCalled bool
	if err := w.Submit(Job{Frames: []string{"a.png"}, FPS: 1, Out: "x.mp4"},
		func(string) { doneCalled = true },
		func(err error) { got = err },
	); err != nil {
		t.Fatal(err)
	}
	w.Wait()

	if !errors.Is(got, boom) {
		t.Errorf("onErr: got %v, want %v", got, boom)
	}
	if doneCalled {
		t.Error("onDone should not be called on failure")
	}
}

func TestWorkerNoFrames(t *testing.T) {
	w := NewWorker(&blockingCompiler{release: make(chan struct{})}, quietLogger())
	if err := w.Submit(Job{FPS: 2, Out: "x.mp4"}, nil, nil); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestWorkerClosed(t *testing.T) {
	w := NewWorker(&blockingCompiler{release: make(chan struct{})}, quietLogger())
	w.Close()
	if err := w.Submit(Job{Frames: []string{"a.png"}}, nil, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestFFmpegMissingBinary(t *testing.T) {
	f := &FFmpeg{Binary: "studylapse-no-such-encoder"}
	err := f.Compile(context.Background(), []string{"a.png"}, 2, "out.mp4")
	if !errors.Is(err, ErrCodecMissing) {
		t.Errorf("expected ErrCodecMissing, got %v", err)
	}
}

func TestFFmpegNoFrames(t *testing.T) {
	if err := (&FFmpeg{}).Compile(context.Background(), nil, 2, "out.mp4"); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestWriteConcatList(t *testing.T) {
	path, err := writeConcatList([]string{"/f/a.png", "/f/it's.png"}, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		"file '/f/a.png'\nduration 0.250000\n",
		`file '/f/it'\''s.png'`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("concat list missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "file '") != 3 {
		t.Errorf("last frame should be repeated:\n%s", out)
	}
}
