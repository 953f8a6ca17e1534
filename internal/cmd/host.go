package cmd

import (
	"fmt"

	"github.com/Iron-Ham/daylog/internal/channel"
	"github.com/Iron-Ham/daylog/internal/config"
	"github.com/Iron-Ham/daylog/internal/logging"
	"github.com/Iron-Ham/daylog/internal/logpath"
	"github.com/Iron-Ham/daylog/internal/viewer"
	"github.com/spf13/afero"
)

// host bundles what every command needs: the loaded configuration, the
// diagnostics logger and the filesystem.
type host struct {
	cfg *config.Config
	log *logging.Logger
	fs  afero.Fs
}

// openHost loads and validates the configuration and opens diagnostics.
// Callers must Close the host.
func openHost() (*host, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log, err := logging.NewLogger(cfg.Diagnostics.File, cfg.Diagnostics.Level)
	if err != nil {
		return nil, err
	}
	return &host{cfg: cfg, log: log, fs: afero.NewOsFs()}, nil
}

func (h *host) Close() error {
	return h.log.Close()
}

// dir is the log directory the viewer commands operate on.
func (h *host) dir() string {
	return h.cfg.LogDirectory()
}

func (h *host) viewer() *viewer.Viewer {
	return viewer.New(h.fs, h.log)
}

// channel builds a log channel from the configuration. The returned error
// is the channel's bootstrap error; the channel is usable either way.
func (h *host) channel() (*channel.Channel, error) {
	ready := h.cfg.Host.Ready
	base := h.cfg.Storage.BaseDir
	storageBase := func() (string, error) { return base, nil }
	return channel.New(channel.Options{
		Overrides:   h.cfg.Overrides(),
		Readiness:   channel.ReadyFunc(func() bool { return ready }),
		StorageBase: storageBase,
		Hasher:      logpath.NewKeyedHasher([]byte(h.cfg.Storage.HashKey)),
		Fs:          h.fs,
		Logger:      h.log,
	})
}
