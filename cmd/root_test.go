package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs a cobra command with the given args and captures stdout.
// Log output goes to a separate buffer.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// resetFlags restores every flag under c to its default so values do not
// leak between runs.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// setupEnv points HOME, XDG_DATA_HOME and the working directory at a temp dir
// so tests never touch real state.
func setupEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Chdir(tmp)
	resetFlags(rootCmd)
	logger = nil
	return tmp
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCommand(rootCmd, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestInvalidProjectConfigRejected(t *testing.T) {
	tmp := setupEnv(t)
	if err := os.WriteFile(filepath.Join(tmp, ".studylapse.json"), []byte(`{"fps": 99}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := executeCommand(rootCmd, "status")
	if err == nil {
		t.Fatal("expected an error for fps out of range")
	}
	if !strings.Contains(err.Error(), "invalid config") || !strings.Contains(err.Error(), "fps") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMalformedProjectConfigRejected(t *testing.T) {
	tmp := setupEnv(t)
	if err := os.WriteFile(filepath.Join(tmp, ".studylapse.json"), []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := executeCommand(rootCmd, "status")
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestDataDirFromProjectConfig(t *testing.T) {
	tmp := setupEnv(t)
	if err := os.WriteFile(filepath.Join(tmp, ".studylapse.json"), []byte(`{"data_dir": "books"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	mustRun(t, "add", "10")
	if _, err := os.Stat(filepath.Join(tmp, "books", "study_time.json")); err != nil {
		t.Errorf("study_time.json not written to configured data dir: %v", err)
	}
}

func TestInvalidDateFlag(t *testing.T) {
	setupEnv(t)
	_, err := executeCommand(rootCmd, "log", "--date", "15/03/2024")
	if err == nil || !strings.Contains(err.Error(), "invalid date") {
		t.Errorf("expected invalid date error, got %v", err)
	}
}
