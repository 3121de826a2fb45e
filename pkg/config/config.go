package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDebounceMs is the quiet window for draft and editor auto-save,
// in milliseconds.
const DefaultDebounceMs = 500

// Config holds application configuration
type Config struct {
	DataPath   string `yaml:"dataPath"`
	BackupPath string `yaml:"backupPath"`
	LogLevel   string `yaml:"logLevel"`
	DebounceMs int    `yaml:"debounceMs"`
}

// DebounceWindow returns the configured quiet window as a duration.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// GetDefaultDataPath returns the default path for storing notes
func GetDefaultDataPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}

	defaultPath := filepath.Join(homeDir, "Documents", "Notedeck")
	if err := os.MkdirAll(defaultPath, 0755); err != nil {
		return "./data"
	}

	return defaultPath
}

// GetConfigFilePath returns the path where the config file should be stored
func GetConfigFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	configPath := filepath.Join(homeDir, ".config", "notedeck")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return "./config.yaml"
	}

	return filepath.Join(configPath, "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	dataPath := GetDefaultDataPath()
	return &Config{
		DataPath:   dataPath,
		BackupPath: filepath.Join(dataPath, "backups"),
		LogLevel:   "info",
		DebounceMs: DefaultDebounceMs,
	}
}

// Load loads configuration from file, using defaults if file doesn't exist.
// Fields the file leaves unset fall back to defaults derived from the fields
// it does set, so a file carrying only dataPath still gets a backup dir
// under it.
func Load() (*Config, error) {
	cfg := &Config{}

	configFile := GetConfigFilePath()
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DataPath == "" {
		cfg.DataPath = GetDefaultDataPath()
	}
	if cfg.BackupPath == "" {
		cfg.BackupPath = filepath.Join(cfg.DataPath, "backups")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = DefaultDebounceMs
	}

	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(GetConfigFilePath(), data, 0644)
}
