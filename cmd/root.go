package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/app"
	"github.com/fakeyudi/studylapse/internal/config"
	"github.com/fakeyudi/studylapse/internal/logging"
	"github.com/fakeyudi/studylapse/internal/tasklog"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger is the process logger, built from cfg.LogFormat.
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:          "studylapse",
	Short:        "Track study time per task and build time-lapse videos of study sessions",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger = logging.New(cfg.LogFormat, cmd.ErrOrStderr())
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// newController opens the bookkeeping files for the current config.
func newController() (*app.Controller, error) {
	if logger == nil {
		logger = logging.New(cfg.LogFormat, nil)
	}
	return app.New(cfg, app.Deps{Logger: logger})
}

// resolveDate returns date, or today when date is empty. A non-empty date
// must be YYYY-MM-DD.
func resolveDate(c *app.Controller, date string) (string, error) {
	if date == "" {
		return c.Today(), nil
	}
	if _, err := time.Parse(tasklog.DateLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
	}
	return date, nil
}
