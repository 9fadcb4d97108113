// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds pydeploy configuration
type Config struct {
	DefaultPython string        `yaml:"default_python"` // Release line used when --python is omitted
	OutputDir     string        `yaml:"output_dir"`     // Default package output directory
	CachePath     string        `yaml:"cache_path"`     // Where downloads land during provisioning
	HTTPTimeout   time.Duration `yaml:"http_timeout"`   // Per-artifact transfer timeout
	Debug         bool          `yaml:"debug"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultPython: "3.12",
		OutputDir:     "output",
		CachePath:     getDefaultCachePath(),
		HTTPTimeout:   10 * time.Minute,
		Debug:         false,
	}
}

// LoadConfig loads configuration from file. An empty path uses the
// default location; a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".config", "pydeploy", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".config", "pydeploy", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getDefaultCachePath() string {
	if path := os.Getenv("PYDEPLOY_CACHE_PATH"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pydeploy")
	}

	return filepath.Join(home, ".cache", "pydeploy")
}
