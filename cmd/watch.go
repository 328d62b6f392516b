package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/app"
	"github.com/fakeyudi/studylapse/internal/frames"
	"github.com/fakeyudi/studylapse/internal/video"
)

var watchCompile bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Credit study time for frames as they are captured",
	Long: `Watch the frames directory and credit study time for every new frame.
On interrupt the current task is closed. With --compile, today's frames are
then compiled into a time-lapse video.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", c.Config().FramesDir)

		watchErr := frames.Watch(ctx, c.Config().FramesDir, func(path string, at time.Time) {
			if err := c.OnFrame(path, at); err != nil {
				logger.Error("crediting frame failed", "path", path, "err", err)
				return
			}
			size := uint64(0)
			if info, err := os.Stat(path); err == nil {
				size = uint64(info.Size())
			}
			logger.Info("frame", "path", path, "size", humanize.Bytes(size), "today", c.Status().StudySeconds)
		})

		if watchCompile {
			compileToday(c, out)
		}
		if err := c.Shutdown(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Stopped. Study time today: %s\n", formatStudy(c))
		return watchErr
	},
}

// compileToday compiles today's frames and waits for the result.
func compileToday(c *app.Controller, out io.Writer) {
	path, err := runCompile(context.Background(), c, c.Today(), 0)
	switch {
	case errors.Is(err, video.ErrNoFrames):
		fmt.Fprintln(out, "No frames captured today, skipping video")
	case err != nil:
		fmt.Fprintf(out, "Video failed: %v\n", err)
	default:
		fmt.Fprintf(out, "Video saved: %s\n", path)
	}
}

func init() {
	watchCmd.Flags().BoolVar(&watchCompile, "compile", false, "Compile today's frames into a video on exit")
	rootCmd.AddCommand(watchCmd)
}
