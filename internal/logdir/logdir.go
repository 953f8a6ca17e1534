// Package logdir prepares and maintains the log directory: it creates the
// directory, drops a deny-all access marker into it, and prunes log files
// that have outlived the retention window.
//
// Only directory creation can fail the caller. Marker creation and
// per-file pruning are best effort; their outcomes are reported in result
// values and written to the diagnostics logger.
package logdir

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/daylog/internal/errors"
	"github.com/Iron-Ham/daylog/internal/logging"
	"github.com/Iron-Ham/daylog/internal/logpath"
)

// MarkerName is the access marker file placed in the log directory.
const MarkerName = ".htaccess"

// MarkerContent denies all web access to the directory.
const MarkerContent = "Deny from all\n"

// Outcome is the result of a best-effort step.
type Outcome int

const (
	// OutcomeNotRun means the step was never attempted.
	OutcomeNotRun Outcome = iota
	// OutcomeCreated means the step did its work.
	OutcomeCreated
	// OutcomeSkipped means there was nothing to do.
	OutcomeSkipped
	// OutcomeFailed means the step failed; the failure is recoverable.
	OutcomeFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNotRun:
		return "not run"
	case OutcomeCreated:
		return "created"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes a best-effort step. Err is set only when Outcome is
// OutcomeFailed.
type Result struct {
	Outcome Outcome
	Err     error
}

// PruneFailure records one file that could not be deleted.
type PruneFailure struct {
	Name string
	Err  error
}

// PruneReport describes a retention sweep.
type PruneReport struct {
	// Disabled is true when retention was not positive and nothing was examined.
	Disabled bool
	// Deleted lists the names of removed files.
	Deleted []string
	// Kept counts log files that were young enough to stay.
	Kept int
	// Failures lists files whose deletion failed.
	Failures []PruneFailure
	// Err is set when the directory itself could not be listed.
	Err error
}

// Pruned returns the number of deleted files.
func (r PruneReport) Pruned() int {
	return len(r.Deleted)
}

// BootstrapReport collects the outcomes of Bootstrap.
type BootstrapReport struct {
	Marker Result
	Prune  PruneReport
}

// Manager runs directory maintenance against a filesystem.
type Manager struct {
	fs  afero.Fs
	log *logging.Logger
}

// New creates a Manager. A nil logger discards diagnostics.
func New(fs afero.Fs, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Manager{fs: fs, log: log.WithComponent("logdir")}
}

// EnsureDirectory creates path and its parents if they are missing. It is
// safe to call repeatedly. Failure is a *errors.DirectoryError.
func (m *Manager) EnsureDirectory(path string) error {
	info, err := m.fs.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return errors.NewDirectoryError(path, "stat", errors.New("exists and is not a directory"))
	}
	if !os.IsNotExist(err) {
		return errors.NewDirectoryError(path, "stat", err)
	}

	if err := m.fs.MkdirAll(path, 0755); err != nil {
		return errors.NewDirectoryError(path, "mkdir", err)
	}
	m.log.Info("created log directory", "path", path)
	return nil
}

// EnsureAccessProtection writes the access marker into path unless it is
// already there. An existing marker is never rewritten.
func (m *Manager) EnsureAccessProtection(path string) Result {
	info, err := m.fs.Stat(path)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		m.log.Warn("access marker not created", "path", path, "error", err.Error())
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	markerPath := filepath.Join(path, MarkerName)
	f, err := m.fs.OpenFile(markerPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return Result{Outcome: OutcomeSkipped}
		}
		m.log.Warn("access marker not created", "path", markerPath, "error", err.Error())
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	_, werr := f.WriteString(MarkerContent)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		m.log.Warn("access marker incomplete", "path", markerPath, "error", werr.Error())
		return Result{Outcome: OutcomeFailed, Err: werr}
	}

	m.log.Info("created access marker", "path", markerPath)
	return Result{Outcome: OutcomeCreated}
}

// PruneOlderThan deletes log files in path whose modification time is
// more than retentionDays days before now. A non-positive retentionDays
// disables pruning. Files that do not follow the log file naming
// convention are never touched. A failed deletion is recorded and the
// sweep continues.
func (m *Manager) PruneOlderThan(path string, retentionDays int, now time.Time) PruneReport {
	if retentionDays <= 0 {
		return PruneReport{Disabled: true}
	}

	var report PruneReport
	entries, err := afero.ReadDir(m.fs, path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Warn("failed to list log directory", "path", path, "error", err.Error())
		}
		report.Err = err
		return report
	}

	maxAge := time.Duration(retentionDays) * 24 * time.Hour
	for _, entry := range entries {
		if !entry.Mode().IsRegular() || !logpath.IsLogFileName(entry.Name()) {
			continue
		}
		if now.Sub(entry.ModTime()) <= maxAge {
			report.Kept++
			continue
		}

		name := entry.Name()
		if err := m.fs.Remove(filepath.Join(path, name)); err != nil {
			m.log.Warn("failed to prune log file", "file", name, "error", err.Error())
			report.Failures = append(report.Failures, PruneFailure{Name: name, Err: err})
			continue
		}
		m.log.Info("pruned log file", "file", name, "modified", entry.ModTime())
		report.Deleted = append(report.Deleted, name)
	}

	return report
}

// Bootstrap prepares path for writing: it ensures the directory, the
// access marker, and then prunes. Only a directory failure is returned;
// in that case neither later step runs.
func (m *Manager) Bootstrap(path string, retentionDays int, now time.Time) (BootstrapReport, error) {
	var report BootstrapReport
	if err := m.EnsureDirectory(path); err != nil {
		m.log.Error("log directory unavailable", "path", path, "error", err.Error())
		return report, err
	}
	report.Marker = m.EnsureAccessProtection(path)
	report.Prune = m.PruneOlderThan(path, retentionDays, now)
	return report, nil
}
