package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Prompt modes for the interactive menu.
const (
	PromptsAuto   = "auto"
	PromptsAlways = "always"
	PromptsNever  = "never"
)

const (
	defaultLogLevel     = "info"
	defaultCalendarName = "Event Reminder"
)

// Config is the top-level application configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Prompts controls whether menu and field prompts are printed:
	//   - "auto" (default): only when stdin is a terminal
	//   - "always"
	//   - "never": useful when piping scripted input
	Prompts string `yaml:"prompts" json:"prompts"`

	// CalendarName is written as X-WR-CALNAME in the ICS export.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// ExportPath, if set, receives an ICS snapshot of the schedule when the
	// session ends.
	ExportPath string `yaml:"export_path,omitempty" json:"export_path,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     defaultLogLevel,
		Prompts:      PromptsAuto,
		CalendarName: defaultCalendarName,
	}
}

// Normalize fills in missing values and replaces unknown prompt modes.
func (c *Config) Normalize() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	switch c.Prompts {
	case PromptsAuto, PromptsAlways, PromptsNever:
	default:
		c.Prompts = PromptsAuto
	}
	if c.CalendarName == "" {
		c.CalendarName = defaultCalendarName
	}
}

// Load reads configuration from the given YAML path.
//
// A missing file is created with defaults (0600) and the defaults are
// returned. If that write fails the defaults are still returned together
// with the error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data next to path and renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventreminder-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
