package config

import (
	"testing"

	"github.com/Iron-Ham/daylog/internal/errors"
	"github.com/Iron-Ham/daylog/internal/level"
)

func TestSettings_Apply(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		check func(Settings) bool
	}{
		{"level by name", KeyLevel, "warning", func(s Settings) bool { return s.Level == "WARNING" }},
		{"level by number", KeyLevel, 400, func(s Settings) bool { return s.Level == "ERROR" }},
		{"level by typed value", KeyLevel, level.Alert, func(s Settings) bool { return s.Level == "ALERT" }},
		{"dir name", KeyDirName, "logs/app", func(s Settings) bool { return s.DirName == "logs/app" }},
		{"channel", KeyChannel, "billing", func(s Settings) bool { return s.Channel == "billing" }},
		{"retention from string", KeyDaysToRetainLogs, "14", func(s Settings) bool { return s.DaysToRetainLogs == 14 }},
		{"retention zero", KeyDaysToRetainLogs, 0, func(s Settings) bool { return s.DaysToRetainLogs == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			if err := s.Apply(nil, tt.key, tt.value); err != nil {
				t.Fatalf("Apply(%q, %v) error = %v", tt.key, tt.value, err)
			}
			if !tt.check(s) {
				t.Errorf("Apply(%q, %v) gave %+v", tt.key, tt.value, s)
			}
		})
	}
}

func TestSettings_ApplyRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"unknown key", "colour", "red"},
		{"unknown level", KeyLevel, "LOUD"},
		{"undefined numeric level", KeyLevel, 42},
		{"empty dir name", KeyDirName, ""},
		{"parent dir name", KeyDirName, ".."},
		{"channel with slash", KeyChannel, "a/b"},
		{"empty channel", KeyChannel, ""},
		{"non-numeric retention", KeyDaysToRetainLogs, "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			err := s.Apply(nil, tt.key, tt.value)
			if !errors.Is(err, errors.ErrInvalidConfig) {
				t.Fatalf("Apply(%q, %v) error = %v, want ErrInvalidConfig", tt.key, tt.value, err)
			}
			if s != DefaultSettings() {
				t.Errorf("settings changed on error: %+v", s)
			}
		})
	}
}

func TestSettings_ApplyUsesRegistry(t *testing.T) {
	custom := level.NewRegistry(map[level.Level]string{1: "LOW", 2: "HIGH"})
	s := DefaultSettings()

	if err := s.Apply(custom, KeyLevel, "high"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if s.Level != "HIGH" {
		t.Errorf("Level = %q, want HIGH", s.Level)
	}
	if err := s.Apply(custom, KeyLevel, "DEBUG"); err == nil {
		t.Error("DEBUG should not resolve through a custom registry")
	}
}

func TestMerge(t *testing.T) {
	t.Run("no overrides", func(t *testing.T) {
		s, err := Merge(nil, nil)
		if err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		if s != DefaultSettings() {
			t.Errorf("Merge(nil) = %+v", s)
		}
	})

	t.Run("overrides replace defaults", func(t *testing.T) {
		s, err := Merge(nil, map[string]any{
			KeyChannel:          "api",
			KeyDaysToRetainLogs: 3,
		})
		if err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		want := DefaultSettings()
		want.Channel = "api"
		want.DaysToRetainLogs = 3
		if s != want {
			t.Errorf("Merge() = %+v, want %+v", s, want)
		}
	})

	t.Run("bad keys keep defaults", func(t *testing.T) {
		s, err := Merge(nil, map[string]any{
			KeyChannel: "api",
			KeyLevel:   "LOUD",
			"bogus":    true,
		})
		if err == nil {
			t.Fatal("Merge() should report bad keys")
		}
		if s.Channel != "api" {
			t.Errorf("Channel = %q, want api", s.Channel)
		}
		if s.Level != DefaultLevel {
			t.Errorf("Level = %q, want default", s.Level)
		}

		var cfgErr *errors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("expected joined *errors.ConfigError, got %T", err)
		}
	})
}
