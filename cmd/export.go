package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studylapse/internal/export"
)

var exportFormat string
var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session log and study history to csv, json or sqlite",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newController()
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			ext := strings.ToLower(exportFormat)
			if ext == "sqlite" {
				ext = "db"
			}
			path = filepath.Join(c.Config().OutputDir, "studylapse-"+time.Now().Format("20060102-150405")+"."+ext)
		}
		if err := ensureParent(path); err != nil {
			return err
		}

		if err := export.Write(exportFormat, path, c.Log(), c.History()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

// ensureParent creates the directory that will hold path.
func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format: csv, json or sqlite")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default <output_dir>/studylapse-<timestamp>.<ext>)")
	rootCmd.AddCommand(exportCmd)
}
