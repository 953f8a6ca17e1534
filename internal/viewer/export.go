package viewer

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/Iron-Ham/daylog/internal/errors"
)

// ExportExtension is appended to a log file name for its compressed copy.
const ExportExtension = ".zst"

// Export writes a zstd-compressed copy of name to w and returns the number
// of uncompressed bytes. The same name guard as ReadLogFile applies.
func (v *Viewer) Export(dir, name string, w io.Writer) (int64, error) {
	path, err := v.resolve("export", dir, name)
	if err != nil {
		return 0, err
	}

	f, err := v.fs.Open(path)
	if err != nil {
		return 0, errors.NewFileNotFoundError("export", name).WithCause(err)
	}
	defer func() { _ = f.Close() }()

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return 0, errors.Wrap(err, "failed to create encoder")
	}
	n, err := io.Copy(enc, f)
	if err != nil {
		_ = enc.Close()
		return n, errors.Wrapf(err, "failed to compress %s", name)
	}
	if err := enc.Close(); err != nil {
		return n, errors.Wrapf(err, "failed to finish %s", name)
	}

	v.log.Debug("exported log file", "file", name, "bytes", n)
	return n, nil
}
