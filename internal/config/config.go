// Package config loads repcount settings from the global and project config
// files and merges them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fakeyudi/repcount/internal/rep"
	"github.com/fakeyudi/repcount/internal/workout"
)

// ProjectFile is the per-directory config file name.
const ProjectFile = ".repcountconfig"

// Config holds all configurable repcount settings. Zero fields mean "not
// set" and fall through to the next layer.
type Config struct {
	Goal          int                 `json:"goal"`
	CountdownFrom int                 `json:"countdown_from"`
	DefaultFormat string              `json:"default_format"` // "markdown" | "json"
	OutputDir     string              `json:"output_dir"`
	HistoryDir    string              `json:"history_dir"` // overrides the XDG data dir
	Detection     *rep.Config         `json:"detection,omitempty"`
	Gate          *workout.GateConfig `json:"gate,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	det := rep.DefaultConfig()
	gate := workout.DefaultGate()
	return Config{
		Goal:          10,
		CountdownFrom: workout.DefaultCountdown,
		DefaultFormat: "markdown",
		OutputDir:     ".",
		Detection:     &det,
		Gate:          &gate,
	}
}

// GlobalPath returns ~/.config/repcount/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "repcount", "config.json"), nil
}

// LoadGlobal reads ~/.config/repcount/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .repcountconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(ProjectFile, false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	apply(&result, global)
	apply(&result, project)
	return result
}

func apply(dst *Config, src *Config) {
	if src == nil {
		return
	}
	if src.Goal != 0 {
		dst.Goal = src.Goal
	}
	if src.CountdownFrom != 0 {
		dst.CountdownFrom = src.CountdownFrom
	}
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.OutputDir != "" {
		dst.OutputDir = src.OutputDir
	}
	if src.HistoryDir != "" {
		dst.HistoryDir = src.HistoryDir
	}
	if src.Detection != nil {
		d := *src.Detection
		dst.Detection = &d
	}
	if src.Gate != nil {
		g := *src.Gate
		dst.Gate = &g
	}
}

// Validate checks a merged config before it is handed to a session.
func (c Config) Validate() error {
	if c.Goal < 0 {
		return fmt.Errorf("goal: %w", workout.ErrInvalidGoal)
	}
	if c.CountdownFrom < 0 {
		return fmt.Errorf("countdown_from: %w", workout.ErrInvalidCountdown)
	}
	switch c.DefaultFormat {
	case "", "markdown", "json":
	default:
		return fmt.Errorf("default_format: unknown format %q", c.DefaultFormat)
	}
	if c.Detection != nil {
		if err := c.Detection.Validate(); err != nil {
			return fmt.Errorf("detection: %w", err)
		}
	}
	if c.Gate != nil {
		if err := c.Gate.Validate(); err != nil {
			return fmt.Errorf("gate: %w", err)
		}
	}
	return nil
}

// DetectionConfig returns the rep thresholds, or the defaults when unset.
func (c Config) DetectionConfig() rep.Config {
	if c.Detection == nil {
		return rep.DefaultConfig()
	}
	return *c.Detection
}

// GateConfig returns the alignment band, or the default when unset.
func (c Config) GateConfig() workout.GateConfig {
	if c.Gate == nil {
		return workout.DefaultGate()
	}
	return *c.Gate
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
