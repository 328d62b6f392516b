package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/report"
)

var logDate string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List the task sessions of a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}
		date, err := resolveDate(c, logDate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		sessions := c.DailyLog(date)
		if len(sessions) == 0 {
			fmt.Fprintf(out, "No sessions on %s\n", date)
			return nil
		}
		for _, s := range sessions {
			if s.Open() {
				fmt.Fprintf(out, "%s → running   %8s  %s\n", s.StartTime.Format("15:04:05"), "", s.TaskName)
				continue
			}
			fmt.Fprintf(out, "%s → %s  %s  %s\n",
				s.StartTime.Format("15:04:05"),
				s.EndTime.Format("15:04:05"),
				report.FormatSeconds(int64(s.Duration().Seconds())),
				s.TaskName)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "Day to show (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(logCmd)
}
