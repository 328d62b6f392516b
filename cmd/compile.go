package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/app"
	"github.com/fakeyudi/studylapse/internal/report"
)

var compileDate string
var compileFPS int

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a day's frames into a time-lapse video",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}
		date, err := resolveDate(c, compileDate)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Compiling %s…\n", date)
		path, err := runCompile(cmd.Context(), c, date, compileFPS)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Video saved: %s\n", path)
		return nil
	},
}

// runCompile submits a compile job and blocks until it finishes or ctx is
// cancelled.
func runCompile(ctx context.Context, c *app.Controller, date string, fps int) (string, error) {
	done := make(chan string, 1)
	failed := make(chan error, 1)
	if _, err := c.Compile(date, fps,
		func(out string) { done <- out },
		func(err error) { failed <- err },
	); err != nil {
		return "", err
	}

	select {
	case out := <-done:
		return out, nil
	case err := <-failed:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func formatStudy(c *app.Controller) string {
	return report.FormatSeconds(c.Status().StudySeconds)
}

func init() {
	compileCmd.Flags().StringVar(&compileDate, "date", "", "Day to compile (YYYY-MM-DD, default today)")
	compileCmd.Flags().IntVar(&compileFPS, "fps", 0, "Frames per second (default from config)")
	rootCmd.AddCommand(compileCmd)
}
