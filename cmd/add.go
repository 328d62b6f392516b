package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/report"
)

var addCmd = &cobra.Command{
	Use:   "add <seconds>",
	Short: "Credit study time to today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secs, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seconds %q: %w", args[0], err)
		}

		c, err := newController()
		if err != nil {
			return err
		}
		if err := c.Tick(secs); err != nil {
			return err
		}

		st := c.Status()
		fmt.Fprintf(cmd.OutOrStdout(), "Added %ds. Study time %s: %s\n", secs, st.Day, report.FormatSeconds(st.StudySeconds))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
