package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/report"
	"github.com/fakeyudi/studylapse/internal/tui"
)

var viewDate string
var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse study time, sessions and task hours",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}
		date, err := resolveDate(c, viewDate)
		if err != nil {
			return err
		}

		load := tui.ControllerLoader(c)
		if plainOutput {
			printSnapshot(cmd.OutOrStdout(), load(date))
			return nil
		}
		return tui.Run(load, date)
	},
}

// printSnapshot writes a plain-text version of the viewer's tabs.
func printSnapshot(w io.Writer, s tui.Snapshot) {
	fmt.Fprintf(w, "## Summary %s\n", s.Date)
	fmt.Fprintf(w, "  Study time:   %s\n", report.FormatSeconds(s.History[s.Date]))
	if s.Status.CurrentTask != "" {
		fmt.Fprintf(w, "  Current task: %s\n", s.Status.CurrentTask)
	} else {
		fmt.Fprintln(w, "  Current task: (none)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Sessions")
	if len(s.Sessions) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, sess := range s.Sessions {
		end := "running"
		if !sess.Open() {
			end = sess.EndTime.Format("15:04:05")
		}
		fmt.Fprintf(w, "  %s → %s  %s\n", sess.StartTime.Format("15:04:05"), end, sess.TaskName)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Hours")
	if s.Report == nil {
		fmt.Fprintln(w, "  No completed sessions")
	} else {
		for _, row := range s.Report.Rows {
			fmt.Fprintf(w, "  %-24s %6.2f\n", row.Task, row.Hours)
		}
		fmt.Fprintf(w, "  %-24s %6.2f\n", "Total", s.Report.TotalHours)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Tasks")
	if len(s.Tasks) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, t := range s.Tasks {
		fmt.Fprintf(w, "  %s  %s\n", report.FormatSeconds(int64(t.Seconds)), t.Name)
	}
}

func init() {
	viewCmd.Flags().StringVar(&viewDate, "date", "", "Day to open (YYYY-MM-DD, default today)")
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
