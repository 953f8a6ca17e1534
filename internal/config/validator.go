package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/daylog/internal/level"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "logger.channel")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidDiagnosticsLevels returns the list of valid diagnostics levels
func ValidDiagnosticsLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateLogger()...)
	errors = append(errors, c.validateStorage()...)
	errors = append(errors, c.validateDiagnostics()...)

	return errors
}

// validateLogger checks every logger key the same way Settings.Apply does,
// so a file that validates can always be merged onto the defaults.
func (c *Config) validateLogger() []ValidationError {
	var errors []ValidationError

	var scratch Settings
	for key, value := range c.Overrides() {
		if key == KeyLevel && value == "" {
			continue // unset falls back to the default
		}
		if err := scratch.Apply(level.Default(), key, value); err != nil {
			errors = append(errors, ValidationError{
				Field:   "logger." + key,
				Value:   value,
				Message: settingsMessage(key),
			})
		}
	}

	// Map iteration order is random; report fields in a stable order.
	slices.SortFunc(errors, func(a, b ValidationError) int {
		return strings.Compare(a.Field, b.Field)
	})
	return errors
}

func settingsMessage(key string) string {
	switch key {
	case KeyLevel:
		names := make([]string, 0, 8)
		reg := level.Default()
		for _, l := range reg.Levels() {
			name, _ := reg.Name(l)
			names = append(names, name)
		}
		return fmt.Sprintf("must be one of: %s", strings.Join(names, ", "))
	case KeyDirName:
		return "must be a non-empty path relative to the storage base"
	case KeyChannel:
		return "must contain only letters, digits, '.', '_' or '-'"
	default:
		return "is invalid"
	}
}

// validateStorage validates the StorageConfig
func (c *Config) validateStorage() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Storage.BaseDir) == "" {
		errors = append(errors, ValidationError{
			Field:   "storage.base_dir",
			Value:   c.Storage.BaseDir,
			Message: "must not be empty",
		})
	}

	return errors
}

// validateDiagnostics validates the DiagnosticsConfig
func (c *Config) validateDiagnostics() []ValidationError {
	var errors []ValidationError

	if c.Diagnostics.Level != "" && !slices.Contains(ValidDiagnosticsLevels(), strings.ToLower(c.Diagnostics.Level)) {
		errors = append(errors, ValidationError{
			Field:   "diagnostics.level",
			Value:   c.Diagnostics.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidDiagnosticsLevels(), ", ")),
		})
	}

	return errors
}
