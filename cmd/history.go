package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show study time per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		days := c.HistoryDays()
		if len(days) == 0 {
			fmt.Fprintln(out, "No study time recorded")
			return nil
		}
		history := c.History()
		var total int64
		for _, d := range days {
			fmt.Fprintf(out, "%s  %s\n", d, report.FormatSeconds(history[d]))
			total += history[d]
		}
		fmt.Fprintf(out, "Total       %s\n", report.FormatSeconds(total))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
