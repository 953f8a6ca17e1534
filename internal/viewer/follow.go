package viewer

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/daylog/internal/errors"
)

// Follow copies bytes appended to name into out until ctx is done or the
// file is removed. It starts at the current end of the file. fsnotify only
// sees the OS filesystem, so Follow needs a Viewer over afero.NewOsFs.
func (v *Viewer) Follow(ctx context.Context, dir, name string, out io.Writer) error {
	return v.follow(ctx, dir, name, out, nil)
}

// follow is Follow with a hook that runs once the watch is installed.
func (v *Viewer) follow(ctx context.Context, dir, name string, out io.Writer, ready func()) error {
	path, err := v.resolve("follow", dir, name)
	if err != nil {
		return err
	}
	info, err := v.fs.Stat(path)
	if err != nil {
		return errors.NewFileNotFoundError("follow", name).WithCause(err)
	}
	offset := info.Size()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file so removal is reported
	// reliably on every platform.
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	if ready != nil {
		ready()
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				v.log.Info("followed file removed", "file", name)
				return errors.NewFileNotFoundError("follow", name)
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			offset, err = v.copyFrom(path, offset, out)
			if err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			v.log.Warn("watcher error", "file", name, "error", err.Error())
		}
	}
}

// copyFrom writes the bytes of path after offset to out and returns the
// new offset. A file that shrank is read again from the start.
func (v *Viewer) copyFrom(path string, offset int64, out io.Writer) (int64, error) {
	f, err := v.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return offset, nil
		}
		return offset, errors.Wrap(err, "failed to open followed file")
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return offset, errors.Wrap(err, "failed to stat followed file")
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, errors.Wrap(err, "failed to seek followed file")
	}

	n, err := io.Copy(out, f)
	offset += n
	if err != nil {
		return offset, errors.Wrap(err, "failed to copy followed file")
	}
	return offset, nil
}
