// Package config resolves the tool's settings: where the status document
// lives, where history is kept, how to log, and the optional access gate.
//
// Settings come from DefaultConfig overlaid with an optional .roadmap.yaml
// found by walking up from the working directory. Relative paths in the
// file are resolved against the directory that holds it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up from the working directory.
	FileName = ".roadmap.yaml"
	// DataDir holds generated state next to the document.
	DataDir = ".roadmap"
	// HistoryFile is the SQLite database name inside DataDir.
	HistoryFile = "history.db"
)

// Config holds every tool setting.
type Config struct {
	// Document is the path of status.json.
	Document  string          `yaml:"document"`
	History   HistoryConfig   `yaml:"history"`
	Log       LogConfig       `yaml:"log"`
	Gate      GateConfig      `yaml:"gate"`
	Starfield StarfieldConfig `yaml:"starfield"`

	// Root is the directory the config was resolved from. Not read from YAML.
	Root string `yaml:"-"`
	// Source is the config file that was loaded, empty when none was found.
	Source string `yaml:"-"`
}

// HistoryConfig controls the revision history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// GateConfig configures the access gate of the terminal viewer. An empty
// SHA256 disables the gate.
type GateConfig struct {
	SHA256      string `yaml:"sha256"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// StarfieldConfig tunes the viewer background.
type StarfieldConfig struct {
	ReducedMotion bool `yaml:"reduced_motion"`
	FPS           int  `yaml:"fps"`
}

// DefaultConfig returns the settings used when no file overrides them.
func DefaultConfig(root string) Config {
	return Config{
		Document: filepath.Join(root, "status.json"),
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(root, DataDir, HistoryFile),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Gate: GateConfig{
			MaxAttempts: 8,
		},
		Starfield: StarfieldConfig{
			FPS: 30,
		},
		Root: root,
	}
}

// Load resolves configuration starting at dir. An explicit path wins over
// the upward search; a missing explicit file is an error, a missing
// discovered file is not.
func Load(dir, explicit string) (Config, error) {
	path := explicit
	if path == "" {
		path = Find(dir)
	}

	if path == "" {
		return DefaultConfig(dir), nil
	}

	root := filepath.Dir(path)
	cfg := DefaultConfig(root)

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.Root = root
	cfg.Source = path
	cfg.Document = resolve(root, cfg.Document)
	cfg.History.Path = resolve(root, cfg.History.Path)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from dir looking for FileName. It returns "" when the
// filesystem root is reached without a match.
func Find(dir string) string {
	current := dir
	for {
		candidate := filepath.Join(current, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Document == "" {
		errs = append(errs, errors.New("document must not be empty"))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path must be set when history is enabled"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: must be one of: debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: must be one of: console, json", c.Log.Format))
	}
	if c.Gate.MaxAttempts < 1 {
		errs = append(errs, errors.New("gate.max_attempts must be at least 1"))
	}
	if c.Starfield.FPS < 1 || c.Starfield.FPS > 120 {
		errs = append(errs, fmt.Errorf("starfield.fps %d: must be between 1 and 120", c.Starfield.FPS))
	}
	return errors.Join(errs...)
}

func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
