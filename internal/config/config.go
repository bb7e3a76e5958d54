// Package config loads and persists application settings. Validation
// happens here, at the input boundary; the timer state machine never
// observes an invalid configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/akshat/stint/internal/timer"
)

// Config holds all user-editable settings.
type Config struct {
	StudyMinutes  int  `yaml:"study_minutes"`
	BreakMinutes  int  `yaml:"break_minutes"`
	Notifications bool `yaml:"notifications"`
	Sound         bool `yaml:"sound"`
}

// Default returns the out-of-the-box configuration.
func Default() Config {
	return Config{
		StudyMinutes:  25,
		BreakMinutes:  5,
		Notifications: true,
		Sound:         true,
	}
}

// Timer converts the settings into a validated timer configuration.
func (c Config) Timer() (timer.Config, error) {
	tc := timer.Config{StudyMinutes: c.StudyMinutes, BreakMinutes: c.BreakMinutes}
	if err := tc.Validate(); err != nil {
		return timer.Config{}, err
	}
	return tc, nil
}

// Path returns the config file location: STINT_CONFIG, then
// $XDG_CONFIG_HOME/stint/config.yaml, then ~/.config/stint/config.yaml.
func Path() string {
	if p := os.Getenv("STINT_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stint", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stint", "config.yaml")
}

// Load reads the config file at path, falling back to defaults when the
// file is missing. A present but invalid file is an error; silently
// reverting a user's timer lengths would be worse than failing.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.Timer(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config atomically (temp file + rename).
func Save(path string, cfg Config) error {
	if _, err := cfg.Timer(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
