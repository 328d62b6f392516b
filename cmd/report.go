package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/report"
)

var reportDate string
var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show hours per task for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := report.ForFormat(reportFormat)
		if err != nil {
			return err
		}
		c, err := newController()
		if err != nil {
			return err
		}
		date, err := resolveDate(c, reportDate)
		if err != nil {
			return err
		}

		rep, ok := c.Report(date)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No completed sessions on %s\n", date)
			return nil
		}
		data, err := renderer.Render(rep)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Day to report (YYYY-MM-DD, default today)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "Output format: text, markdown or json")
	rootCmd.AddCommand(reportCmd)
}
