// Package logging provides daylog's own diagnostics logger.
//
// This is not the log channel. The channel (package channel) writes the
// host application's records to per-day text files. This package reports
// what the channel and its helpers did internally: directories created,
// access markers skipped, files pruned, writes that failed. Those events
// never reach the host as errors, so they are written here instead.
//
// The logger wraps Go's log/slog and emits one JSON object per line.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/daylog/diagnostics.log", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Warn("access marker not created", "path", dir, "error", err)
//
// Child loggers carry persistent attributes:
//
//	pruneLog := logger.WithComponent("logdir").With("dir", dir)
//	pruneLog.Info("pruned log file", "file", name)
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a
// bytes.Buffer to assert on entries.
//
// # Log Levels
//
// The package defines four levels: [LevelDebug], [LevelInfo] (default),
// [LevelWarn] and [LevelError]. Use [ParseLevel] to normalize
// user-provided strings and [ValidLevels] to list them.
package logging
