package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/report"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's study time and the current task",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}

		st := c.Status()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Day: %s\n", st.Day)
		fmt.Fprintf(out, "Study time: %s\n", report.FormatSeconds(st.StudySeconds))
		if st.CurrentTask == "" {
			fmt.Fprintln(out, "No active task")
			return nil
		}
		fmt.Fprintf(out, "Current task: %s (started %s)\n", st.CurrentTask, humanize.Time(st.CurrentSince))
		fmt.Fprintf(out, "Task total: %s\n", report.FormatSeconds(int64(st.TaskSeconds)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
