package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/app"
)

var startCmd = &cobra.Command{
	Use:   "start [task]",
	Short: "Start working on a task, closing the current one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			// Only prompt when stdin is an interactive terminal.
			if !term.IsTerminal(os.Stdin.Fd()) {
				return errors.New("task name required")
			}
			name, err = pickTask(c.Tasks())
			if err != nil {
				return fmt.Errorf("task selection cancelled: %w", err)
			}
		}

		prev := c.Status()
		h, err := c.SelectTask(name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if prev.CurrentTask != "" {
			fmt.Fprintf(out, "Stopped %q.\n", prev.CurrentTask)
		}
		fmt.Fprintf(out, "Started %q at %s.\n", h.TaskName, h.Start.Format("15:04:05"))
		return nil
	},
}

const newTaskOption = "\x00new"

// pickTask asks for a task with a huh form. Known tasks are offered first,
// with an option to type a new name.
func pickTask(known []app.TaskTotal) (string, error) {
	if len(known) > 0 {
		opts := make([]huh.Option[string], 0, len(known)+1)
		for _, t := range known {
			opts = append(opts, huh.NewOption(t.Name, t.Name))
		}
		opts = append(opts, huh.NewOption("+ New task", newTaskOption))

		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().Title("Task").Options(opts...).Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			return "", err
		}
		if choice != newTaskOption {
			return choice, nil
		}
	}

	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("New task name").Value(&name).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name cannot be empty")
				}
				return nil
			}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

func init() {
	rootCmd.AddCommand(startCmd)
}
