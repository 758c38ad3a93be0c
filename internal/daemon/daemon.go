// Package daemon wires the window observer to the dock, taskbar and
// workspace views and exposes them over IPC.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/tsumiki/internal/apps"
	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/dock"
	"github.com/1broseidon/tsumiki/internal/hotkeys"
	"github.com/1broseidon/tsumiki/internal/icons"
	"github.com/1broseidon/tsumiki/internal/ipc"
	"github.com/1broseidon/tsumiki/internal/pinned"
	"github.com/1broseidon/tsumiki/internal/platform"
	"github.com/1broseidon/tsumiki/internal/runtimepath"
	"github.com/1broseidon/tsumiki/internal/taskbar"
	"github.com/1broseidon/tsumiki/internal/wm"
	"github.com/1broseidon/tsumiki/internal/workspaces"
)

// Options configures a Daemon. Zero values select the defaults.
type Options struct {
	ConfigPath string
	SocketPath string
	// DataDirs overrides the XDG data directories used for desktop
	// entries and icons.
	DataDirs []string
	// Backend skips environment detection.
	Backend platform.Backend
	Mode    platform.Mode
	Getenv  func(string) string
	// LogLevel, when set, follows log_level across reloads.
	LogLevel       *slog.LevelVar
	RescanInterval time.Duration
	Logger         *slog.Logger
}

// Daemon owns the observer and every view built on it.
type Daemon struct {
	opts    Options
	logger  *slog.Logger
	started time.Time

	cfgMu sync.RWMutex
	cfg   *config.Config

	backend    platform.Backend
	observer   *wm.Service
	store      *pinned.Store
	resolver   *icons.Resolver
	index      *apps.Index
	dock       *dock.Bar
	taskbar    *taskbar.Taskbar
	workspaces *workspaces.Bar
	server     *ipc.Server
	hotkeys    *hotkeys.Handler
}

// New builds the daemon. Nothing talks to the display until Run.
func New(cfg *config.Config, opts Options) (*Daemon, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.DataDirs == nil {
		opts.DataDirs = runtimepath.DataDirs()
	}
	if opts.ConfigPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		opts.ConfigPath = path
	}
	if opts.SocketPath == "" {
		path, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		opts.SocketPath = path
	}
	logger := opts.Logger
	setLevel(opts.LogLevel, cfg.LogLevel)

	pinnedPath := cfg.PinnedFile
	if pinnedPath == "" {
		path, err := pinned.DefaultPath()
		if err != nil {
			return nil, err
		}
		pinnedPath = path
	}
	store, err := pinned.Open(pinnedPath)
	if err != nil {
		return nil, err
	}

	backend, mode := opts.Backend, opts.Mode
	if backend == nil {
		backend, mode = platform.Detect(opts.Getenv, logger)
	}

	d := &Daemon{
		opts:     opts,
		logger:   logger,
		started:  time.Now(),
		cfg:      cfg,
		backend:  backend,
		observer: wm.New(backend, mode, logger.With("component", "observer")),
		store:    store,
		resolver: icons.NewResolver(opts.DataDirs, logger),
		index:    apps.Load(opts.DataDirs, logger),
	}
	d.dock = dock.New(d.observer, d.store, d.resolver, d.index, cfg.Modules.Dock, logger.With("component", "dock"))
	d.taskbar = taskbar.New(d.observer, d.resolver, cfg.Modules.Taskbar, logger.With("component", "taskbar"))
	d.workspaces = workspaces.New(d.observer, cfg.Modules.Workspaces, logger.With("component", "workspaces"))
	d.server = ipc.NewServer(opts.SocketPath, d, logger.With("component", "ipc"))
	return d, nil
}

// Config returns the config in effect.
func (d *Daemon) Config() *config.Config {
	d.cfgMu.RLock()
	defer d.cfgMu.RUnlock()
	return d.cfg
}

// Observer returns the shared window observer.
func (d *Daemon) Observer() *wm.Service { return d.observer }

// Run starts every component and blocks until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.backend.Close()

	d.dock.Start()
	d.taskbar.Start()
	d.workspaces.Start()
	defer d.dock.Stop()
	defer d.taskbar.Stop()
	defer d.workspaces.Stop()

	if err := d.server.Start(); err != nil {
		return err
	}
	defer d.server.Stop()

	d.setupHotkeys()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		watcher := config.NewWatcher(d.opts.ConfigPath, d.apply, d.logger.With("component", "config"))
		if err := watcher.Run(ctx); err != nil {
			d.logger.Warn("config hot reload disabled", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		NewRescanner(d.opts.RescanInterval, d.rescan, d.logger).Run(ctx)
	}()

	d.logger.Info("tsumiki daemon started", "backend", d.observer.Backend(), "state", d.observer.State().String())
	err := d.observer.Run(ctx)
	cancel()
	wg.Wait()
	d.logger.Info("tsumiki daemon stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (d *Daemon) setupHotkeys() {
	h, err := hotkeys.NewHandler(d.backend, d, d.logger.With("component", "hotkeys"))
	if err != nil {
		d.logger.Info("global hotkeys unavailable", "reason", err)
		return
	}
	d.hotkeys = h
	if err := h.Bind(d.Config().Hotkeys); err != nil {
		d.logger.Warn("some hotkeys were not registered", "error", err)
	}
}

// Reload re-reads the config file and applies it.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.opts.ConfigPath)
	if err != nil {
		return err
	}
	d.apply(res)
	return nil
}

func (d *Daemon) apply(res *config.LoadResult) {
	cfg := res.Config
	d.cfgMu.Lock()
	d.cfg = cfg
	d.cfgMu.Unlock()

	setLevel(d.opts.LogLevel, cfg.LogLevel)
	d.dock.ApplyConfig(cfg.Modules.Dock)
	d.taskbar.ApplyConfig(cfg.Modules.Taskbar)
	d.workspaces.ApplyConfig(cfg.Modules.Workspaces)
	if d.hotkeys != nil {
		if err := d.hotkeys.Bind(cfg.Hotkeys); err != nil {
			d.logger.Warn("some hotkeys were not registered", "error", err)
		}
	}
	d.logger.Info("config applied", "files", len(res.Files))
}

// rescan picks up newly installed applications and icons.
func (d *Daemon) rescan() {
	d.index.Reload(d.opts.DataDirs, d.logger)
	d.resolver.Purge()
	d.dock.Refresh()
	d.taskbar.Refresh()
}

func setLevel(v *slog.LevelVar, level string) {
	if v == nil {
		return
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	v.Set(l)
}
