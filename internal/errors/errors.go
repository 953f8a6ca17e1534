// Package errors provides the error taxonomy for daylog. It defines
// sentinel errors, typed errors carrying the context a caller needs to act
// on a failure, and classification helpers.
//
// # Error Types
//
// Validation errors are programmer-facing and are always returned to the
// caller:
//   - LevelError: a level integer or name is not in the level table
//
// Environment errors degrade gracefully. They are surfaced once and then
// turn later operations into no-ops:
//   - DirectoryError: the log directory cannot be created or written
//
// Viewer errors are shown to the admin user as messages:
//   - ViewerError: a requested log file is missing or its name is unsafe
//
// # Usage
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrInvalidLevel) { ... }
//
//	var dirErr *errors.DirectoryError
//	if errors.As(err, &dirErr) {
//	    fmt.Println(dirErr.Path)
//	}
//
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidLevel indicates a level that is not in the level table.
	ErrInvalidLevel = New("invalid log level")
	// ErrDirectoryUnavailable indicates the log directory cannot be created or written.
	ErrDirectoryUnavailable = New("log directory unavailable")
	// ErrFileNotFound indicates a requested log file does not exist.
	ErrFileNotFound = New("log file not found")
	// ErrPathTraversal indicates a file name that would escape the log directory.
	ErrPathTraversal = New("path traversal rejected")
	// ErrInvalidConfig indicates a configuration key or value that cannot be applied.
	ErrInvalidConfig = New("invalid configuration")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// DaylogError is the base interface for all daylog errors.
type DaylogError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// LevelError
// -----------------------------------------------------------------------------

// LevelError reports a level that is not in the level table. ByName tells
// whether the level was given as Name or as Value.
//
// Example:
//
//	err := errors.NewLevelError(42, []int{100, 200})
//	fmt.Println(err) // `level "42" is not defined, use one of: 100, 200`
type LevelError struct {
	baseError
	Value  int
	Name   string
	ByName bool
	Valid  []int
}

// NewLevelError creates a LevelError for an unknown numeric level.
func NewLevelError(value int, valid []int) *LevelError {
	return &LevelError{
		baseError: baseError{
			message:  "unknown level",
			cause:    ErrInvalidLevel,
			severity: SeverityError,
		},
		Value: value,
		Valid: append([]int(nil), valid...),
	}
}

// NewLevelNameError creates a LevelError for an unknown level name.
func NewLevelNameError(name string, valid []int) *LevelError {
	e := NewLevelError(0, valid)
	e.Name = name
	e.ByName = true
	return e
}

// Error returns the formatted error message.
func (e *LevelError) Error() string {
	attempted := strconv.Itoa(e.Value)
	if e.ByName {
		attempted = e.Name
	}
	valid := make([]string, len(e.Valid))
	for i, v := range e.Valid {
		valid[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("level %q is not defined, use one of: %s", attempted, strings.Join(valid, ", "))
}

// Is reports whether target is ErrInvalidLevel or another *LevelError.
func (e *LevelError) Is(target error) bool {
	if _, ok := target.(*LevelError); ok {
		return true
	}
	return target == ErrInvalidLevel
}

// -----------------------------------------------------------------------------
// DirectoryError
// -----------------------------------------------------------------------------

// DirectoryError reports that the log directory could not be prepared.
//
// Example:
//
//	err := errors.NewDirectoryError("/var/log/app", "mkdir", cause)
//	fmt.Println(err) // "log directory unavailable [op=mkdir, path=/var/log/app]: permission denied"
type DirectoryError struct {
	baseError
	Path string
	Op   string
}

// NewDirectoryError creates a DirectoryError for the given path and operation.
func NewDirectoryError(path, op string, cause error) *DirectoryError {
	return &DirectoryError{
		baseError: baseError{
			message:  "log directory unavailable",
			cause:    cause,
			severity: SeverityCritical,
		},
		Path: path,
		Op:   op,
	}
}

// Error returns the formatted error message.
func (e *DirectoryError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	prefix := e.message
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", e.message, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is reports whether target is ErrDirectoryUnavailable, another
// *DirectoryError, or matches the cause.
func (e *DirectoryError) Is(target error) bool {
	if _, ok := target.(*DirectoryError); ok {
		return true
	}
	if target == ErrDirectoryUnavailable {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// ViewerError
// -----------------------------------------------------------------------------

// ViewerError reports a viewer request that could not be served. Kind is
// ErrFileNotFound or ErrPathTraversal.
type ViewerError struct {
	baseError
	File string
	Op   string
	Kind error
}

// NewFileNotFoundError creates a ViewerError for a missing log file.
func NewFileNotFoundError(op, file string) *ViewerError {
	return &ViewerError{
		baseError: baseError{
			message:    fmt.Sprintf("log file %q not found", file),
			severity:   SeverityWarning,
			userFacing: true,
		},
		File: file,
		Op:   op,
		Kind: ErrFileNotFound,
	}
}

// NewPathTraversalError creates a ViewerError for an unsafe file name.
func NewPathTraversalError(op, file string) *ViewerError {
	return &ViewerError{
		baseError: baseError{
			message:    fmt.Sprintf("file name %q is not a bare log file name", file),
			severity:   SeverityWarning,
			userFacing: true,
		},
		File: file,
		Op:   op,
		Kind: ErrPathTraversal,
	}
}

// WithCause adds a cause to the error.
func (e *ViewerError) WithCause(cause error) *ViewerError {
	e.cause = cause
	return e
}

// Is reports whether target is the error's Kind or another *ViewerError.
func (e *ViewerError) Is(target error) bool {
	if _, ok := target.(*ViewerError); ok {
		return true
	}
	if target == e.Kind {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// ConfigError
// -----------------------------------------------------------------------------

// ConfigError reports a configuration key or value that could not be applied.
type ConfigError struct {
	baseError
	Key   string
	Value any
}

// NewConfigError creates a ConfigError.
func NewConfigError(key string, value any, message string) *ConfigError {
	return &ConfigError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
		Key:   key,
		Value: value,
	}
}

// WithCause adds a cause to the error.
func (e *ConfigError) WithCause(cause error) *ConfigError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	base := fmt.Sprintf("config error [key=%s, value=%v]: %s", e.Key, e.Value, e.message)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is reports whether target is ErrInvalidConfig or another *ConfigError.
func (e *ConfigError) Is(target error) bool {
	if _, ok := target.(*ConfigError); ok {
		return true
	}
	if target == ErrInvalidConfig {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end
// users, such as on the admin page.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var daylogErr DaylogError
	if As(err, &daylogErr) {
		return daylogErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement DaylogError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var daylogErr DaylogError
	if As(err, &daylogErr) {
		return daylogErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
