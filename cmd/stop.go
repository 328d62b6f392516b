package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/report"
	"github.com/fakeyudi/studylapse/internal/tasklog"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "End the current task session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}

		st := c.Status()
		if st.CurrentTask == "" {
			return errors.New("no active task")
		}
		if err := c.StopTask(); err != nil {
			return err
		}

		var elapsed time.Duration
		for _, s := range c.DailyLog(st.CurrentSince.Format(tasklog.DateLayout)) {
			if s.ID == st.CurrentID && !s.Open() {
				elapsed = s.Duration()
			}
		}
		var total float64
		for _, t := range c.Tasks() {
			if t.Name == st.CurrentTask {
				total = t.Seconds
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Stopped %q after %s. Total: %s\n",
			st.CurrentTask,
			report.FormatSeconds(int64(elapsed.Seconds())),
			report.FormatSeconds(int64(total)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
