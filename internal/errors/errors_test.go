package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevelError(t *testing.T) {
	valid := []int{100, 200, 250}

	t.Run("numeric", func(t *testing.T) {
		err := NewLevelError(42, valid)
		want := `level "42" is not defined, use one of: 100, 200, 250`
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, ErrInvalidLevel) {
			t.Error("errors.Is(err, ErrInvalidLevel) = false, want true")
		}
		if err.Value != 42 {
			t.Errorf("Value = %d, want 42", err.Value)
		}
	})

	t.Run("named", func(t *testing.T) {
		err := NewLevelNameError("VERBOSE", valid)
		if !strings.Contains(err.Error(), `"VERBOSE"`) {
			t.Errorf("Error() = %q, want it to mention the name", err.Error())
		}
		if err.Name != "VERBOSE" {
			t.Errorf("Name = %q, want VERBOSE", err.Name)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		err := NewLevelNameError("", valid)
		want := `level "" is not defined, use one of: 100, 200, 250`
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("valid list is copied", func(t *testing.T) {
		in := []int{100}
		err := NewLevelError(1, in)
		in[0] = 999
		if err.Valid[0] != 100 {
			t.Errorf("Valid[0] = %d, want 100", err.Valid[0])
		}
	})

	t.Run("programmer facing", func(t *testing.T) {
		if IsUserFacing(NewLevelError(1, valid)) {
			t.Error("IsUserFacing() = true, want false")
		}
	})
}

func TestDirectoryError(t *testing.T) {
	err := NewDirectoryError("/srv/logs", "mkdir", fs.ErrPermission)

	if !errors.Is(err, ErrDirectoryUnavailable) {
		t.Error("errors.Is(err, ErrDirectoryUnavailable) = false, want true")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is(err, fs.ErrPermission) = false, want true")
	}

	want := "log directory unavailable [op=mkdir, path=/srv/logs]: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if GetSeverity(err) != SeverityCritical {
		t.Errorf("GetSeverity() = %v, want %v", GetSeverity(err), SeverityCritical)
	}

	wrapped := fmt.Errorf("bootstrap: %w", err)
	var dirErr *DirectoryError
	if !As(wrapped, &dirErr) {
		t.Fatal("As() failed to find *DirectoryError")
	}
	if dirErr.Path != "/srv/logs" {
		t.Errorf("Path = %q, want /srv/logs", dirErr.Path)
	}
}

func TestViewerError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ViewerError
		kind    error
		notKind error
	}{
		{"not found", NewFileNotFoundError("read", "a.log"), ErrFileNotFound, ErrPathTraversal},
		{"traversal", NewPathTraversalError("delete", "../x"), ErrPathTraversal, ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(err, %v) = false, want true", tt.kind)
			}
			if errors.Is(tt.err, tt.notKind) {
				t.Errorf("errors.Is(err, %v) = true, want false", tt.notKind)
			}
			if !IsUserFacing(tt.err) {
				t.Error("IsUserFacing() = false, want true")
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("days_to_retain_logs", "soon", "expected an integer")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("errors.Is(err, ErrInvalidConfig) = false, want true")
	}
	if !strings.Contains(err.Error(), "key=days_to_retain_logs") {
		t.Errorf("Error() = %q, want key context", err.Error())
	}
}

func TestClassification_Nil(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true")
	}
	if GetSeverity(nil) != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want debug", GetSeverity(nil))
	}
	if GetSeverity(New("plain")) != SeverityError {
		t.Error("GetSeverity(plain) should default to error")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	err := Wrapf(ErrFileNotFound, "reading %s", "a.log")
	if !Is(err, ErrFileNotFound) {
		t.Error("Wrapf lost the cause")
	}
	if err.Error() != "reading a.log: log file not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}
