// Package viewer reads the log directory back: it lists log files, returns
// one file's contents, and deletes one file. Every operation that takes a
// file name refuses names that could reach outside the directory.
package viewer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/daylog/internal/errors"
	"github.com/Iron-Ham/daylog/internal/logging"
	"github.com/Iron-Ham/daylog/internal/logpath"
)

// FileInfo describes one log file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Viewer reads log directories on a filesystem.
type Viewer struct {
	fs  afero.Fs
	log *logging.Logger
}

// New creates a Viewer. A nil logger discards diagnostics.
func New(fs afero.Fs, log *logging.Logger) *Viewer {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Viewer{fs: fs, log: log.WithComponent("viewer")}
}

// ListLogFiles returns the names of the regular files in dir that end in
// the log extension. A missing directory has no files. The order is not
// significant.
func (v *Viewer) ListLogFiles(dir string) ([]string, error) {
	infos, err := v.ListLogFileInfo(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names, nil
}

// ListLogFileInfo is ListLogFiles with sizes and modification times,
// newest first.
func (v *Viewer) ListLogFileInfo(dir string) ([]FileInfo, error) {
	entries, err := afero.ReadDir(v.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Mode().IsRegular() || !strings.HasSuffix(e.Name(), logpath.Extension) {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: e.Size(), ModTime: e.ModTime()})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name > files[j].Name
	})
	return files, nil
}

// ReadLogFile returns the full contents of name in dir.
func (v *Viewer) ReadLogFile(dir, name string) (string, error) {
	path, err := v.resolve("read", dir, name)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(v.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileNotFoundError("read", name).WithCause(err)
		}
		return "", errors.Wrapf(err, "failed to read %s", name)
	}
	return string(data), nil
}

// DeleteLogFile removes name from dir. It reports whether a file was
// removed; a file that is already gone is not an error.
func (v *Viewer) DeleteLogFile(dir, name string) (bool, error) {
	if err := v.guard("delete", name); err != nil {
		return false, err
	}

	path := filepath.Join(dir, name)
	info, err := v.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to stat %s", name)
	}
	if !info.Mode().IsRegular() {
		return false, errors.NewFileNotFoundError("delete", name)
	}

	if err := v.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to delete %s", name)
	}
	v.log.Info("deleted log file", "file", name)
	return true, nil
}

// guard rejects names that are not bare log file names.
func (v *Viewer) guard(op, name string) error {
	if err := CheckName(name); err != nil {
		v.log.Warn("rejected log file name", "op", op, "file", name, "reason", err.Error())
		return errors.NewPathTraversalError(op, name).WithCause(err)
	}
	if !strings.HasSuffix(name, logpath.Extension) {
		return errors.NewFileNotFoundError(op, name)
	}
	return nil
}

// resolve applies the guard and returns the path of an existing log file.
func (v *Viewer) resolve(op, dir, name string) (string, error) {
	if err := v.guard(op, name); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	info, err := v.fs.Stat(path)
	if err != nil {
		return "", errors.NewFileNotFoundError(op, name).WithCause(err)
	}
	if !info.Mode().IsRegular() {
		return "", errors.NewFileNotFoundError(op, name)
	}
	return path, nil
}

// CheckName returns an error unless name is a bare file name: not empty,
// not "." or "..", and free of path separators and NUL bytes.
func CheckName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return errors.New("not a file name")
	case strings.ContainsAny(name, `/\`+"\x00"):
		return errors.New("file name contains a separator")
	case filepath.Base(name) != name:
		return errors.New("file name is not bare")
	}
	return nil
}
