package logdir

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/daylog/internal/errors"
	"github.com/Iron-Ham/daylog/internal/logging"
	"github.com/Iron-Ham/daylog/internal/logpath"
)

const dir = "/srv/uploads/daylog"

var now = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, fs afero.Fs, name string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := afero.WriteFile(fs, path, []byte("x\n"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	if err := fs.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("failed to set times on %s: %v", path, err)
	}
}

func TestEnsureDirectory(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		m := New(fs, nil)

		if err := m.EnsureDirectory(dir); err != nil {
			t.Fatalf("EnsureDirectory() = %v", err)
		}
		ok, err := afero.DirExists(fs, dir)
		if err != nil || !ok {
			t.Fatalf("directory not created: ok=%v err=%v", ok, err)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		m := New(fs, nil)
		for i := 0; i < 3; i++ {
			if err := m.EnsureDirectory(dir); err != nil {
				t.Fatalf("call %d: EnsureDirectory() = %v", i, err)
			}
		}
	})

	t.Run("existing directory on read-only fs", func(t *testing.T) {
		base := afero.NewMemMapFs()
		if err := base.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		m := New(afero.NewReadOnlyFs(base), nil)
		if err := m.EnsureDirectory(dir); err != nil {
			t.Errorf("EnsureDirectory() = %v, want nil", err)
		}
	})

	t.Run("creation failure", func(t *testing.T) {
		m := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), nil)

		err := m.EnsureDirectory(dir)
		if !errors.Is(err, errors.ErrDirectoryUnavailable) {
			t.Fatalf("EnsureDirectory() = %v, want ErrDirectoryUnavailable", err)
		}
		var dirErr *errors.DirectoryError
		if !errors.As(err, &dirErr) {
			t.Fatalf("expected *errors.DirectoryError, got %T", err)
		}
		if dirErr.Path != dir || dirErr.Op != "mkdir" {
			t.Errorf("DirectoryError = %+v", dirErr)
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, dir, []byte("oops"), 0644); err != nil {
			t.Fatal(err)
		}
		err := New(fs, nil).EnsureDirectory(dir)
		if !errors.Is(err, errors.ErrDirectoryUnavailable) {
			t.Errorf("EnsureDirectory() = %v, want ErrDirectoryUnavailable", err)
		}
	})
}

func TestEnsureAccessProtection(t *testing.T) {
	t.Run("creates marker once", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		m := New(fs, nil)
		if err := m.EnsureDirectory(dir); err != nil {
			t.Fatal(err)
		}

		first := m.EnsureAccessProtection(dir)
		if first.Outcome != OutcomeCreated || first.Err != nil {
			t.Fatalf("first call = %+v, want created", first)
		}
		second := m.EnsureAccessProtection(dir)
		if second.Outcome != OutcomeSkipped {
			t.Errorf("second call = %+v, want skipped", second)
		}

		data, err := afero.ReadFile(fs, filepath.Join(dir, MarkerName))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "Deny from all\n" {
			t.Errorf("marker content = %q", data)
		}
	})

	t.Run("never overwrites an existing marker", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		custom := "Require all denied\n"
		if err := afero.WriteFile(fs, filepath.Join(dir, MarkerName), []byte(custom), 0644); err != nil {
			t.Fatal(err)
		}

		res := New(fs, nil).EnsureAccessProtection(dir)
		if res.Outcome != OutcomeSkipped {
			t.Errorf("Outcome = %v, want skipped", res.Outcome)
		}
		data, _ := afero.ReadFile(fs, filepath.Join(dir, MarkerName))
		if string(data) != custom {
			t.Errorf("marker rewritten: %q", data)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		var buf bytes.Buffer
		m := New(afero.NewMemMapFs(), logging.NewWriterLogger(&buf, logging.LevelDebug))

		res := m.EnsureAccessProtection(dir)
		if res.Outcome != OutcomeFailed || res.Err == nil {
			t.Errorf("result = %+v, want failed with error", res)
		}
		if !strings.Contains(buf.String(), "access marker not created") {
			t.Errorf("expected a diagnostic, got %q", buf.String())
		}
	})

	t.Run("unwritable directory", func(t *testing.T) {
		base := afero.NewMemMapFs()
		if err := base.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		res := New(afero.NewReadOnlyFs(base), nil).EnsureAccessProtection(dir)
		if res.Outcome != OutcomeFailed {
			t.Errorf("Outcome = %v, want failed", res.Outcome)
		}
	})
}

func TestPruneOlderThan(t *testing.T) {
	t.Run("deletes only expired log files", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "dev-2024-02-25-aa.log", now.Add(-35*24*time.Hour))
		writeFile(t, fs, "dev-2024-03-06-bb.log", now.Add(-25*24*time.Hour))
		writeFile(t, fs, "dev-2024-03-31-cc.log", now)
		writeFile(t, fs, "notes.txt", now.Add(-90*24*time.Hour))
		writeFile(t, fs, MarkerName, now.Add(-90*24*time.Hour))

		report := New(fs, nil).PruneOlderThan(dir, 30, now)

		if report.Pruned() != 1 || report.Deleted[0] != "dev-2024-02-25-aa.log" {
			t.Errorf("Deleted = %v", report.Deleted)
		}
		if report.Kept != 2 {
			t.Errorf("Kept = %d, want 2", report.Kept)
		}

		entries, _ := afero.ReadDir(fs, dir)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		sort.Strings(names)
		want := []string{MarkerName, "dev-2024-03-06-bb.log", "dev-2024-03-31-cc.log", "notes.txt"}
		if strings.Join(names, ",") != strings.Join(want, ",") {
			t.Errorf("remaining = %v, want %v", names, want)
		}
	})

	t.Run("age must strictly exceed retention", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "dev-2024-03-01-aa.log", now.Add(-30*24*time.Hour))
		writeFile(t, fs, "dev-2024-02-29-bb.log", now.Add(-30*24*time.Hour-time.Second))

		report := New(fs, nil).PruneOlderThan(dir, 30, now)
		if report.Pruned() != 1 || report.Deleted[0] != "dev-2024-02-29-bb.log" {
			t.Errorf("Deleted = %v", report.Deleted)
		}
	})

	t.Run("hash suffixes may contain dashes and dots", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		for _, suffix := range []string{"ab-cd", "Zm9v.YmFy_-"} {
			r := logpath.NewResolver(logpath.HasherFunc(func(string) string { return suffix }))
			writeFile(t, fs, r.FileName("dev", now.AddDate(0, 0, -90)), now.Add(-90*24*time.Hour))
		}

		report := New(fs, nil).PruneOlderThan(dir, 30, now)
		sort.Strings(report.Deleted)
		want := []string{"dev-2024-01-01-Zm9v.YmFy_-.log", "dev-2024-01-01-ab-cd.log"}
		if strings.Join(report.Deleted, ",") != strings.Join(want, ",") {
			t.Errorf("Deleted = %v, want %v", report.Deleted, want)
		}
	})

	t.Run("non-positive retention disables pruning", func(t *testing.T) {
		for _, days := range []int{0, -1} {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, "dev-2020-01-01-aa.log", now.Add(-1000*24*time.Hour))

			report := New(fs, nil).PruneOlderThan(dir, days, now)
			if !report.Disabled || report.Pruned() != 0 {
				t.Errorf("days=%d: report = %+v", days, report)
			}
			if ok, _ := afero.Exists(fs, filepath.Join(dir, "dev-2020-01-01-aa.log")); !ok {
				t.Errorf("days=%d: file was deleted", days)
			}
		}
	})

	t.Run("per-file failures do not abort the sweep", func(t *testing.T) {
		base := afero.NewMemMapFs()
		writeFile(t, base, "dev-2024-01-01-aa.log", now.Add(-90*24*time.Hour))
		writeFile(t, base, "dev-2024-01-02-bb.log", now.Add(-89*24*time.Hour))

		var buf bytes.Buffer
		m := New(afero.NewReadOnlyFs(base), logging.NewWriterLogger(&buf, logging.LevelDebug))
		report := m.PruneOlderThan(dir, 30, now)

		if report.Pruned() != 0 {
			t.Errorf("Pruned() = %d, want 0", report.Pruned())
		}
		if len(report.Failures) != 2 {
			t.Errorf("Failures = %v, want 2 entries", report.Failures)
		}
		if got := strings.Count(buf.String(), "failed to prune log file"); got != 2 {
			t.Errorf("expected 2 diagnostics, got %d", got)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		report := New(afero.NewMemMapFs(), nil).PruneOlderThan(dir, 30, now)
		if report.Err == nil || report.Pruned() != 0 {
			t.Errorf("report = %+v", report)
		}
	})
}

func TestBootstrap(t *testing.T) {
	t.Run("runs every step", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "dev-2024-01-01-aa.log", now.Add(-90*24*time.Hour))

		report, err := New(fs, nil).Bootstrap(dir, 30, now)
		if err != nil {
			t.Fatalf("Bootstrap() = %v", err)
		}
		if report.Marker.Outcome != OutcomeCreated {
			t.Errorf("Marker = %+v", report.Marker)
		}
		if report.Prune.Pruned() != 1 {
			t.Errorf("Pruned() = %d, want 1", report.Prune.Pruned())
		}
	})

	t.Run("directory failure stops early", func(t *testing.T) {
		report, err := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), nil).Bootstrap(dir, 30, now)
		if !errors.Is(err, errors.ErrDirectoryUnavailable) {
			t.Fatalf("Bootstrap() = %v", err)
		}
		if report.Marker.Outcome != OutcomeNotRun {
			t.Errorf("Marker = %+v, want not run", report.Marker)
		}
	})
}

func TestOutcomeString(t *testing.T) {
	tests := map[Outcome]string{
		OutcomeNotRun:  "not run",
		OutcomeCreated: "created",
		OutcomeSkipped: "skipped",
		OutcomeFailed:  "failed",
		Outcome(9):     "unknown",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
}
