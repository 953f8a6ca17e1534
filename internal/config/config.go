package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete daylog host configuration
type Config struct {
	Logger      Settings          `mapstructure:"logger" yaml:"logger"`
	Storage     StorageConfig     `mapstructure:"storage" yaml:"storage"`
	Host        HostConfig        `mapstructure:"host" yaml:"host"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics" yaml:"diagnostics"`
}

// StorageConfig controls where log directories live
type StorageConfig struct {
	// BaseDir is the storage base the log directory is created under.
	// Defaults to the user's data directory.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
	// HashKey is the secret mixed into log file names. An empty key still
	// produces stable names, they are just easier to guess.
	HashKey string `mapstructure:"hash_key" yaml:"hash_key"`
}

// HostConfig describes the host the channel runs in
type HostConfig struct {
	// Ready reports whether the host has finished starting. While false the
	// channel accepts records but never touches the filesystem.
	Ready bool `mapstructure:"ready" yaml:"ready"`
}

// DiagnosticsConfig controls daylog's own diagnostics output
type DiagnosticsConfig struct {
	// Level is "debug", "info", "warn" or "error" (default: "warn")
	Level string `mapstructure:"level" yaml:"level"`
	// File receives JSON diagnostics. Empty means stderr.
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logger: DefaultSettings(),
		Storage: StorageConfig{
			BaseDir: DataDir(),
		},
		Host: HostConfig{
			Ready: true,
		},
		Diagnostics: DiagnosticsConfig{
			Level: "warn",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Logger defaults
	viper.SetDefault("logger."+KeyLevel, defaults.Logger.Level)
	viper.SetDefault("logger."+KeyDirName, defaults.Logger.DirName)
	viper.SetDefault("logger."+KeyChannel, defaults.Logger.Channel)
	viper.SetDefault("logger."+KeyDaysToRetainLogs, defaults.Logger.DaysToRetainLogs)

	// Storage defaults
	viper.SetDefault("storage.base_dir", defaults.Storage.BaseDir)
	viper.SetDefault("storage.hash_key", defaults.Storage.HashKey)

	// Host defaults
	viper.SetDefault("host.ready", defaults.Host.Ready)

	// Diagnostics defaults
	viper.SetDefault("diagnostics.level", defaults.Diagnostics.Level)
	viper.SetDefault("diagnostics.file", defaults.Diagnostics.File)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Overrides returns the logger section as the key/value map a channel
// merges onto its defaults.
func (c *Config) Overrides() map[string]any {
	return map[string]any{
		KeyLevel:            c.Logger.Level,
		KeyDirName:          c.Logger.DirName,
		KeyChannel:          c.Logger.Channel,
		KeyDaysToRetainLogs: c.Logger.DaysToRetainLogs,
	}
}

// LogDirectory returns the directory log files are written to.
func (c *Config) LogDirectory() string {
	return filepath.Join(c.Storage.BaseDir, c.Logger.DirName)
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "daylog")
	}
	// Fall back to ~/.config/daylog
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daylog"
	}
	return filepath.Join(home, ".config", "daylog")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the default storage base
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "daylog")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daylog"
	}
	return filepath.Join(home, ".local", "share", "daylog")
}
