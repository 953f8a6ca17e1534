// Package channel is the log channel: it validates a record's level,
// formats the record as one text line, and appends it to the current
// per-day log file.
//
// A Channel is built once at startup with New and passed to whoever needs
// it. There is no package-level instance. A Channel is not safe for
// concurrent use: one owner writes to it and changes its configuration.
// Use SlogHandler for a handle that serializes access.
package channel

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/daylog/internal/config"
	"github.com/Iron-Ham/daylog/internal/errors"
	"github.com/Iron-Ham/daylog/internal/level"
	"github.com/Iron-Ham/daylog/internal/logdir"
	"github.com/Iron-Ham/daylog/internal/logging"
	"github.com/Iron-Ham/daylog/internal/logpath"
)

// State is where a Channel is in its lifecycle.
type State int

const (
	// StateUninitialized is a Channel that New has not finished building.
	StateUninitialized State = iota
	// StateReady writes records.
	StateReady
	// StateDeferred means the host was not ready at construction. Nothing
	// was written to disk and no record ever will be.
	StateDeferred
	// StateUnavailable means the log directory could not be prepared.
	// Records are dropped.
	StateUnavailable
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDeferred:
		return "deferred"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Readiness tells the channel whether the host has finished starting.
type Readiness interface {
	Ready() bool
}

// ReadyFunc adapts a function to Readiness.
type ReadyFunc func() bool

// Ready calls f.
func (f ReadyFunc) Ready() bool { return f() }

// StorageBaseFunc returns the directory log directories are created under.
type StorageBaseFunc func() (string, error)

// Options configures New. Only StorageBase is required.
type Options struct {
	// Overrides are merged onto the default settings. See config.Merge.
	Overrides map[string]any
	// Readiness is consulted once. Nil means the host is ready.
	Readiness Readiness
	// StorageBase resolves the storage base directory.
	StorageBase StorageBaseFunc
	// Hasher produces the file name suffix. Nil uses an unkeyed BLAKE2b.
	Hasher logpath.Hasher
	// Fs is the filesystem to write to. Nil uses the OS filesystem.
	Fs afero.Fs
	// Clock returns the current time. Nil uses time.Now.
	Clock func() time.Time
	// Levels is the level table. Nil uses level.Default().
	Levels *level.Registry
	// Logger receives diagnostics. Nil discards them.
	Logger *logging.Logger
}

// Channel appends formatted records to the current log file.
type Channel struct {
	settings config.Settings
	levels   *level.Registry
	resolver *logpath.Resolver
	fs       afero.Fs
	clock    func() time.Time
	log      *logging.Logger

	state State
	base  string
	boot  logdir.BootstrapReport
	err   error
}

// New builds a Channel. It merges the overrides, asks the host whether it
// is ready, and if so prepares the log directory and prunes old files.
//
// New always returns a usable Channel. When the log directory cannot be
// prepared the Channel is in StateUnavailable and the returned error is a
// *errors.DirectoryError; every later write reports false without
// returning that error again. Bad overrides are reported to the logger and
// fall back to their defaults.
func New(opts Options) (*Channel, error) {
	c := &Channel{
		levels: opts.Levels,
		fs:     opts.Fs,
		clock:  opts.Clock,
		log:    opts.Logger,
	}
	if c.levels == nil {
		c.levels = level.Default()
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.log == nil {
		c.log = logging.NopLogger()
	}
	c.log = c.log.WithComponent("channel")

	hasher := opts.Hasher
	if hasher == nil {
		hasher = logpath.NewKeyedHasher(nil)
	}
	c.resolver = logpath.NewResolver(hasher)

	settings, err := config.Merge(c.levels, opts.Overrides)
	if err != nil {
		c.log.Warn("ignored invalid configuration", "error", err.Error())
	}
	c.settings = settings

	if opts.Readiness != nil && !opts.Readiness.Ready() {
		c.state = StateDeferred
		c.log.Info("host not ready, channel deferred")
		return c, nil
	}

	if opts.StorageBase == nil {
		return c.unavailable("", errors.NewDirectoryError("", "resolve", errors.New("no storage base configured")))
	}
	base, err := opts.StorageBase()
	if err == nil && base == "" {
		err = errors.New("storage base is empty")
	}
	if err != nil {
		return c.unavailable("", errors.NewDirectoryError("", "resolve", err))
	}
	c.base = base

	dir := c.Directory()
	manager := logdir.New(c.fs, opts.Logger)
	report, err := manager.Bootstrap(dir, c.settings.DaysToRetainLogs, c.clock())
	c.boot = report
	if err != nil {
		return c.unavailable(dir, err)
	}

	c.state = StateReady
	c.log.Debug("channel ready",
		"dir", dir,
		"channel", c.settings.Channel,
		"marker", report.Marker.Outcome.String(),
		"pruned", report.Prune.Pruned())
	return c, nil
}

func (c *Channel) unavailable(dir string, err error) (*Channel, error) {
	c.state = StateUnavailable
	c.err = err
	c.log.Error("log directory unavailable, records will be dropped", "dir", dir, "error", err.Error())
	return c, err
}

// Log writes one record at ref. An unknown level is always an error, in
// every state, and nothing is written. Otherwise Log reports whether the
// record reached the file; environment failures are sent to the
// diagnostics logger, not returned.
func (c *Channel) Log(ref level.Ref, message string, fields Fields) (bool, error) {
	_, name, err := c.levels.Resolve(ref)
	if err != nil {
		return false, err
	}
	if c.state != StateReady {
		return false, nil
	}

	now := c.clock()
	line, err := FormatRecord(now, name, message, fields)
	if err != nil {
		c.log.Warn("failed to encode record context", "level", name, "error", err.Error())
		return false, nil
	}

	path := c.resolver.FinalPath(c.base, c.settings.DirName, c.settings.Channel, now)
	if err := c.appendLine(path, line); err != nil {
		c.log.Warn("failed to write record", "file", path, "error", err.Error())
		return false, nil
	}
	return true, nil
}

// appendLine writes line with a single append so concurrent writers never
// interleave within a record.
func (c *Channel) appendLine(path string, line []byte) error {
	f, err := c.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	n, werr := f.Write(line)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	if n != len(line) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(line))
	}
	return cerr
}

func (c *Channel) logAt(l level.Level, message string, fields Fields) bool {
	ok, err := c.Log(l, message, fields)
	if err != nil {
		c.log.Error("level missing from registry", "level", int(l), "error", err.Error())
	}
	return ok
}

// Debug logs at DEBUG.
func (c *Channel) Debug(message string, fields Fields) bool {
	return c.logAt(level.Debug, message, fields)
}

// Info logs at INFO.
func (c *Channel) Info(message string, fields Fields) bool {
	return c.logAt(level.Info, message, fields)
}

// Notice logs at NOTICE.
func (c *Channel) Notice(message string, fields Fields) bool {
	return c.logAt(level.Notice, message, fields)
}

// Warning logs at WARNING.
func (c *Channel) Warning(message string, fields Fields) bool {
	return c.logAt(level.Warning, message, fields)
}

// Error logs at ERROR.
func (c *Channel) Error(message string, fields Fields) bool {
	return c.logAt(level.Error, message, fields)
}

// Critical logs at CRITICAL.
func (c *Channel) Critical(message string, fields Fields) bool {
	return c.logAt(level.Critical, message, fields)
}

// Alert logs at ALERT.
func (c *Channel) Alert(message string, fields Fields) bool {
	return c.logAt(level.Alert, message, fields)
}

// Emergency logs at EMERGENCY.
func (c *Channel) Emergency(message string, fields Fields) bool {
	return c.logAt(level.Emergency, message, fields)
}

// SetChannel renames the channel. Later records go to files with the new
// prefix. An invalid name is reported and ignored.
func (c *Channel) SetChannel(name string) *Channel {
	return c.SetConfig(config.KeyChannel, name)
}

// SetConfig replaces one setting. The directory is prepared only by New,
// so a new dir_name must already exist for writes to succeed. An unknown
// key or a value that does not convert is reported and ignored.
func (c *Channel) SetConfig(key string, value any) *Channel {
	if err := c.settings.Apply(c.levels, key, value); err != nil {
		c.log.Warn("ignored configuration change", "key", key, "error", err.Error())
	}
	return c
}

// State returns the lifecycle state.
func (c *Channel) State() State { return c.state }

// Settings returns a copy of the current settings.
func (c *Channel) Settings() config.Settings { return c.settings }

// MinimumLevel returns the configured minimum level. Records below it are
// still written.
func (c *Channel) MinimumLevel() level.Level {
	if l, err := c.levels.Lookup(c.settings.Level); err == nil {
		return l
	}
	if all := c.levels.Levels(); len(all) > 0 {
		return all[0]
	}
	return 0
}

// Directory returns the log directory. It is empty while the storage base
// is unknown.
func (c *Channel) Directory() string {
	if c.base == "" {
		return ""
	}
	return logpath.DirectoryPath(c.base, c.settings.DirName)
}

// CurrentFile returns the file a record written now would go to.
func (c *Channel) CurrentFile() string {
	if c.base == "" {
		return ""
	}
	return c.resolver.FinalPath(c.base, c.settings.DirName, c.settings.Channel, c.clock())
}

// Bootstrap returns what New did to the directory.
func (c *Channel) Bootstrap() logdir.BootstrapReport { return c.boot }

// Err returns the construction error of an unavailable channel.
func (c *Channel) Err() error { return c.err }
