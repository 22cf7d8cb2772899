package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/sleeplit/internal/constants"
	"github.com/julianstephens/sleeplit/internal/utils"
)

// Config is the optional YAML file at ~/.config/sleeplit/config.yaml.
type Config struct {
	// Storage is a file path (.db for SQLite, .json for a JSON document),
	// "memory:", or a postgres:// / redis:// URL.
	Storage string `yaml:"storage"`
	Debug   bool   `yaml:"debug"`

	Backup BackupConfig `yaml:"backup"`
	TUI    TUIConfig    `yaml:"tui"`

	// dir is the directory the file was loaded from; logs and the lockfile
	// live next to it.
	dir string
}

type BackupConfig struct {
	// Auto takes a backup each time the dashboard starts.
	Auto bool `yaml:"auto"`
	Max  int  `yaml:"max"`
}

type TUIConfig struct {
	// Refresh is the clock tick, e.g. "1s".
	Refresh string `yaml:"refresh"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage: constants.DefaultStoragePath,
		Backup: BackupConfig{
			Auto: true,
			Max:  constants.MaxBackups,
		},
		TUI: TUIConfig{
			Refresh: constants.DefaultRefreshInterval.String(),
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return cfg, err
	}
	cfg.dir = filepath.Dir(expanded)

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c Config) Validate() error {
	if c.Storage == "" {
		return fmt.Errorf("storage must not be empty")
	}
	if c.Backup.Max < 1 {
		return fmt.Errorf("backup.max must be at least 1, got %d", c.Backup.Max)
	}
	if _, err := c.RefreshInterval(); err != nil {
		return err
	}
	return nil
}

// RefreshInterval parses TUI.Refresh, falling back to one second when unset.
func (c Config) RefreshInterval() (time.Duration, error) {
	if c.TUI.Refresh == "" {
		return constants.DefaultRefreshInterval, nil
	}
	d, err := time.ParseDuration(c.TUI.Refresh)
	if err != nil {
		return 0, fmt.Errorf("tui.refresh: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tui.refresh must be positive, got %s", d)
	}
	return d, nil
}

// Dir is the configuration directory.
func (c Config) Dir() string {
	if c.dir == "" {
		dir, err := utils.ExpandPath(constants.DefaultConfigDir)
		if err != nil {
			return "."
		}
		return dir
	}
	return c.dir
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c Config) Save(path string) error {
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(expanded, data, 0600)
}
