package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// The returned render parameters are already sanitized.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)
	cfg.Render = cfg.Render.Sanitize()

	return cfg, nil
}

// Path returns the config file Load would read, or "" when none exists.
func Path() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	return findConfigFile()
}

// ReloadParams re-reads the render section of a config file on top of the defaults.
func ReloadParams(path string) (Params, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return Params{}, fmt.Errorf("reloading params from %s: %w", path, err)
	}
	return cfg.Render.Sanitize(), nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./isopixel.yaml",
		filepath.Join(ConfigDir(), "isopixel.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "isopixel")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "isopixel")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "isopixel")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "isopixel")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
