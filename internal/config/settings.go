package config

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/Iron-Ham/daylog/internal/errors"
	"github.com/Iron-Ham/daylog/internal/level"
)

// Keys accepted by Settings.Apply and the "logger" section of the config file.
const (
	KeyLevel            = "level"
	KeyDirName          = "dir_name"
	KeyChannel          = "channel"
	KeyDaysToRetainLogs = "days_to_retain_logs"
)

// Default values for Settings.
const (
	DefaultLevel            = "DEBUG"
	DefaultDirName          = "daylog"
	DefaultChannel          = "dev"
	DefaultDaysToRetainLogs = 30
)

// channelNameRegex restricts channel names to characters that are safe in a
// file name.
var channelNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Settings is the configuration a log channel runs with.
type Settings struct {
	// Level is the canonical name of the minimum level. It is informational;
	// the channel does not filter records by it.
	Level string `mapstructure:"level" yaml:"level"`
	// DirName is the log directory, relative to the storage base.
	DirName string `mapstructure:"dir_name" yaml:"dir_name"`
	// Channel prefixes every log file name.
	Channel string `mapstructure:"channel" yaml:"channel"`
	// DaysToRetainLogs is the retention window. Zero or less disables pruning.
	DaysToRetainLogs int `mapstructure:"days_to_retain_logs" yaml:"days_to_retain_logs"`
}

// DefaultSettings returns the settings a channel uses without overrides.
func DefaultSettings() Settings {
	return Settings{
		Level:            DefaultLevel,
		DirName:          DefaultDirName,
		Channel:          DefaultChannel,
		DaysToRetainLogs: DefaultDaysToRetainLogs,
	}
}

// SettingsKeys returns the keys Apply understands.
func SettingsKeys() []string {
	return []string{KeyLevel, KeyDirName, KeyChannel, KeyDaysToRetainLogs}
}

// Apply converts value and stores it under key. Levels are resolved
// through levels, or the default registry when levels is nil. On error
// the settings are left unchanged and the error is a *errors.ConfigError.
func (s *Settings) Apply(levels *level.Registry, key string, value any) error {
	switch key {
	case KeyLevel:
		if levels == nil {
			levels = level.Default()
		}
		raw, err := cast.ToStringE(value)
		if err != nil {
			return errors.NewConfigError(key, value, "not a level").WithCause(err)
		}
		_, name, err := levels.Resolve(level.Parse(raw))
		if err != nil {
			return errors.NewConfigError(key, value, "unknown level").WithCause(err)
		}
		s.Level = name

	case KeyDirName:
		dir, err := cast.ToStringE(value)
		if err != nil {
			return errors.NewConfigError(key, value, "not a string").WithCause(err)
		}
		if msg := checkDirName(dir); msg != "" {
			return errors.NewConfigError(key, value, msg)
		}
		s.DirName = dir

	case KeyChannel:
		name, err := cast.ToStringE(value)
		if err != nil {
			return errors.NewConfigError(key, value, "not a string").WithCause(err)
		}
		if !channelNameRegex.MatchString(name) {
			return errors.NewConfigError(key, value, "must start with a letter or digit and contain only letters, digits, '.', '_' or '-'")
		}
		s.Channel = name

	case KeyDaysToRetainLogs:
		days, err := cast.ToIntE(value)
		if err != nil {
			return errors.NewConfigError(key, value, "not an integer").WithCause(err)
		}
		s.DaysToRetainLogs = days

	default:
		return errors.NewConfigError(key, value, "unknown key, use one of: "+strings.Join(SettingsKeys(), ", "))
	}
	return nil
}

// Merge applies overrides onto the defaults. Keys are applied in sorted
// order so the result does not depend on map iteration. A key that fails
// keeps its default; all failures are joined into the returned error.
func Merge(levels *level.Registry, overrides map[string]any) (Settings, error) {
	s := DefaultSettings()

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		if err := s.Apply(levels, k, overrides[k]); err != nil {
			errs = append(errs, err)
		}
	}
	return s, errors.Join(errs...)
}

// checkDirName returns a message describing why dir cannot be used as a
// log directory name, or "" if it can.
func checkDirName(dir string) string {
	if strings.TrimSpace(dir) == "" {
		return "must not be empty"
	}
	if filepath.IsAbs(dir) {
		return "must be relative to the storage base"
	}
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return "must not leave the storage base"
		}
	}
	return ""
}
