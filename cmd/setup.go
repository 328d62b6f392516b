package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/config"
)

var setupProject bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Edit studylapse settings (re-run anytime)",
	// Bypass the normal PersistentPreRunE so setup can repair a bad config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := saveSetup(setupProject, runSetupForm)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  ✓ Settings saved to %s\n", path)
		return nil
	},
}

// saveSetup prefills edit with the effective settings and writes the result.
// The global file gets the full config. The project file gets only the
// fields that differ from the global settings, so later global changes still
// apply in this directory.
func saveSetup(project bool, edit func(config.Config) (config.Config, error)) (string, error) {
	// An unreadable file starts from defaults so setup can overwrite it.
	global, err := config.LoadGlobal()
	if err != nil {
		d := config.Defaults()
		global = &d
	}
	base := config.Merge(global, nil)

	current := base
	path := config.ProjectPath
	if project {
		if p, err := config.LoadProject(); err == nil {
			current = config.Merge(global, p)
		}
	} else {
		if path, err = config.GlobalPath(); err != nil {
			return "", err
		}
	}

	updated, err := edit(current)
	if err != nil {
		return "", fmt.Errorf("setup cancelled: %w", err)
	}
	if err := updated.Validate(); err != nil {
		return "", fmt.Errorf("invalid settings: %w", err)
	}
	if project {
		updated = config.Diff(base, updated)
	}
	if err := config.Save(path, updated); err != nil {
		return "", fmt.Errorf("saving config: %w", err)
	}
	return path, nil
}

// runSetupForm shows the settings form prefilled with c.
func runSetupForm(c config.Config) (config.Config, error) {
	interval := strconv.Itoa(c.CaptureInterval)
	fps := strconv.Itoa(c.FPS)
	textSize := strconv.Itoa(c.TextSize)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Capture interval (seconds)").Value(&interval).Validate(intIn(1, 60)),
			huh.NewInput().Title("Video frame rate (fps)").Value(&fps).Validate(intIn(1, 30)),
			huh.NewInput().Title("Overlay text size").Value(&textSize).Validate(intIn(10, 50)),
			huh.NewInput().Title("Overlay text color (#RRGGBB)").Value(&c.TextColor),
		),
		huh.NewGroup(
			huh.NewInput().Title("Frames directory").Value(&c.FramesDir),
			huh.NewInput().Title("Video output directory").Value(&c.OutputDir),
			huh.NewInput().Title("Data directory (empty for default)").Value(&c.DataDir),
			huh.NewSelect[string]().Title("Log format").
				Options(
					huh.NewOption("Text", "text"),
					huh.NewOption("JSON", "json"),
				).Value(&c.LogFormat),
		),
	)
	if err := form.Run(); err != nil {
		return c, err
	}

	c.CaptureInterval, _ = strconv.Atoi(interval)
	c.FPS, _ = strconv.Atoi(fps)
	c.TextSize, _ = strconv.Atoi(textSize)
	return c, nil
}

func intIn(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("must be a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func init() {
	setupCmd.Flags().BoolVar(&setupProject, "project", false, "Write ./"+config.ProjectPath+" instead of the global config")
	rootCmd.AddCommand(setupCmd)
}
