package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fakeyudi/studylapse/internal/jsonstore"
)

// Config holds all configurable studylapse settings.
type Config struct {
	CaptureInterval int    `json:"capture_interval,omitempty"` // seconds between frames
	FPS             int    `json:"fps,omitempty"`              // time-lapse frame rate
	TextSize        int    `json:"text_size,omitempty"`        // overlay font size
	TextColor       string `json:"text_color,omitempty"`       // overlay color, "#RRGGBB"
	FontPath        string `json:"font_path,omitempty"`
	FramesDir       string `json:"frames_dir,omitempty"`
	OutputDir       string `json:"output_dir,omitempty"`
	DataDir         string `json:"data_dir,omitempty"`   // bookkeeping files; empty means XDG data dir
	LogFormat       string `json:"log_format,omitempty"` // "text" | "json"
	FFmpegPath      string `json:"ffmpeg_path,omitempty"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		CaptureInterval: 5,
		FPS:             2,
		TextSize:        20,
		TextColor:       "#FFFFFF",
		FontPath:        "assets/fonts/Arial.ttf",
		FramesDir:       "frames",
		OutputDir:       "output",
		LogFormat:       "text",
		FFmpegPath:      "ffmpeg",
	}
}

// GlobalPath returns ~/.config/studylapse/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "studylapse", "config.json"), nil
}

// ProjectPath is the per-directory override file.
const ProjectPath = ".studylapse.json"

// LoadGlobal reads the global config. Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .studylapse.json in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(ProjectPath, false)
}

func loadFile(path string, returnDefaults bool) (*Config, error) {
	cfg, err := jsonstore.Load[*Config](path, nil)
	if err != nil {
		var pe *jsonstore.ParseError
		if errors.As(err, &pe) {
			return nil, &ParseError{Path: path, Err: pe.Err}
		}
		return nil, err
	}
	if cfg == nil && returnDefaults {
		d := Defaults()
		return &d, nil
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	return jsonstore.Save(path, cfg)
}

// Merge combines global and project configs, with project taking precedence.
// Zero values fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, src := range []*Config{global, project} {
		if src == nil {
			continue
		}
		if src.CaptureInterval != 0 {
			result.CaptureInterval = src.CaptureInterval
		}
		if src.FPS != 0 {
			result.FPS = src.FPS
		}
		if src.TextSize != 0 {
			result.TextSize = src.TextSize
		}
		if src.TextColor != "" {
			result.TextColor = src.TextColor
		}
		if src.FontPath != "" {
			result.FontPath = src.FontPath
		}
		if src.FramesDir != "" {
			result.FramesDir = src.FramesDir
		}
		if src.OutputDir != "" {
			result.OutputDir = src.OutputDir
		}
		if src.DataDir != "" {
			result.DataDir = src.DataDir
		}
		if src.LogFormat != "" {
			result.LogFormat = src.LogFormat
		}
		if src.FFmpegPath != "" {
			result.FFmpegPath = src.FFmpegPath
		}
	}
	return result
}

// Diff returns the fields of c that differ from base, leaving the rest zero.
// Merging the result over base yields c, so it is suitable as a project
// override file.
func Diff(base, c Config) Config {
	var d Config
	if c.CaptureInterval != base.CaptureInterval {
		d.CaptureInterval = c.CaptureInterval
	}
	if c.FPS != base.FPS {
		d.FPS = c.FPS
	}
	if c.TextSize != base.TextSize {
		d.TextSize = c.TextSize
	}
	if c.TextColor != base.TextColor {
		d.TextColor = c.TextColor
	}
	if c.FontPath != base.FontPath {
		d.FontPath = c.FontPath
	}
	if c.FramesDir != base.FramesDir {
		d.FramesDir = c.FramesDir
	}
	if c.OutputDir != base.OutputDir {
		d.OutputDir = c.OutputDir
	}
	if c.DataDir != base.DataDir {
		d.DataDir = c.DataDir
	}
	if c.LogFormat != base.LogFormat {
		d.LogFormat = c.LogFormat
	}
	if c.FFmpegPath != base.FFmpegPath {
		d.FFmpegPath = c.FFmpegPath
	}
	return d
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.CaptureInterval < 1 || c.CaptureInterval > 60 {
		errs = append(errs, fmt.Errorf("capture_interval must be 1..60, got %d", c.CaptureInterval))
	}
	if c.FPS < 1 || c.FPS > 30 {
		errs = append(errs, fmt.Errorf("fps must be 1..30, got %d", c.FPS))
	}
	if c.TextSize < 10 || c.TextSize > 50 {
		errs = append(errs, fmt.Errorf("text_size must be 10..50, got %d", c.TextSize))
	}
	if !hexColor.MatchString(c.TextColor) {
		errs = append(errs, fmt.Errorf("text_color must look like #RRGGBB, got %q", c.TextColor))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// ResolveDataDir returns c.DataDir if set, else the XDG data directory:
// $XDG_DATA_HOME/studylapse or ~/.local/share/studylapse.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving data directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "studylapse"), nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
