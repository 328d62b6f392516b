package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/report"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List every known task with its cumulative time",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		tasks := c.Tasks()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks yet")
			return nil
		}
		current := c.Status().CurrentTask
		for _, t := range tasks {
			mark := " "
			if t.Name == current {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s  %s\n", mark, report.FormatSeconds(int64(t.Seconds)), t.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
