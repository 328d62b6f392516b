package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// Project values win over global, global over defaults.
func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasCaptureInterval") {
			cfg.CaptureInterval = rapid.IntRange(1, 60).Draw(t, "captureInterval")
		}
		if rapid.Bool().Draw(t, "hasFPS") {
			cfg.FPS = rapid.IntRange(1, 30).Draw(t, "fps")
		}
		if rapid.Bool().Draw(t, "hasFramesDir") {
			cfg.FramesDir = nonEmptyString.Draw(t, "framesDir")
		}
		if rapid.Bool().Draw(t, "hasOutputDir") {
			cfg.OutputDir = nonEmptyString.Draw(t, "outputDir")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkField(t, "CaptureInterval", global.CaptureInterval, project.CaptureInterval, defaults.CaptureInterval, merged.CaptureInterval)
		checkField(t, "FPS", global.FPS, project.FPS, defaults.FPS, merged.FPS)
		checkField(t, "FramesDir", global.FramesDir, project.FramesDir, defaults.FramesDir, merged.FramesDir)
		checkField(t, "OutputDir", global.OutputDir, project.OutputDir, defaults.OutputDir, merged.OutputDir)
	})
}

// checkField asserts the merge precedence rule for a single field:
//   - project set → merged == project
//   - project unset, global set → merged == global
//   - both unset → merged == defaultVal
func checkField[T comparable](t *rapid.T, name string, globalVal, projectVal, defaultVal, mergedVal T) {
	t.Helper()
	var zero T
	switch {
	case projectVal != zero:
		if mergedVal != projectVal {
			t.Fatalf("%s: both set, expected project value %v, got %v", name, projectVal, mergedVal)
		}
	case globalVal != zero:
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set, expected global value %v, got %v", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set, expected default %v, got %v", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.CaptureInterval != 5 {
		t.Errorf("CaptureInterval: want 5, got %d", d.CaptureInterval)
	}
	if d.FPS != 2 {
		t.Errorf("FPS: want 2, got %d", d.FPS)
	}
	if d.TextSize != 20 || d.TextColor != "#FFFFFF" {
		t.Errorf("text defaults: got %d %q", d.TextSize, d.TextColor)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidateRanges(t *testing.T) {
	c := Defaults()
	c.CaptureInterval = 0
	c.FPS = 31
	c.TextColor = "white"
	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"capture_interval", "fps", "text_color"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	if *cfg != Defaults() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".config", "studylapse")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestSaveThenLoadGlobal(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	want := Defaults()
	want.CaptureInterval = 30
	want.TextColor = "#00FF00"
	path, err := GlobalPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadGlobal()
	if err != nil {
		t.Fatal(err)
	}
	if *got != want {
		t.Errorf("got %+v, want %+v", *got, want)
	}
}

func TestResolveDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	if got, _ := (Config{}).ResolveDataDir(); got != filepath.Join("/xdg", "studylapse") {
		t.Errorf("XDG: got %q", got)
	}
	if got, _ := (Config{DataDir: "/custom"}).ResolveDataDir(); got != "/custom" {
		t.Errorf("explicit: got %q", got)
	}
}

// Merging a Diff over its base reproduces the edited config.
func TestDiffMergesBackToEdited(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := Defaults()
		edited := base
		if rapid.Bool().Draw(t, "editInterval") {
			edited.CaptureInterval = rapid.IntRange(1, 60).Draw(t, "interval")
		}
		if rapid.Bool().Draw(t, "editFPS") {
			edited.FPS = rapid.IntRange(1, 30).Draw(t, "fps")
		}
		if rapid.Bool().Draw(t, "editFrames") {
			edited.FramesDir = rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "frames")
		}
		if rapid.Bool().Draw(t, "editLog") {
			edited.LogFormat = rapid.SampledFrom([]string{"text", "json"}).Draw(t, "logFormat")
		}

		d := Diff(base, edited)
		if got := Merge(&base, &d); got != edited {
			t.Fatalf("Merge(base, Diff) = %+v, want %+v", got, edited)
		}
		if d.TextColor != "" || d.OutputDir != "" {
			t.Fatalf("unchanged fields leaked into diff: %+v", d)
		}
	})
}
