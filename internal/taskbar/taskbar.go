// Package taskbar keeps one button per open window, rebuilt on every
// windows-changed notification.
package taskbar

import (
	"image"
	"log/slog"
	"sync"

	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/icons"
	"github.com/1broseidon/tsumiki/internal/platform"
	"github.com/1broseidon/tsumiki/internal/reconcile"
)

// Observer is the subset of the window observer the taskbar needs.
type Observer interface {
	Windows() []platform.Window
	ActivateWindow(id platform.WindowID)
	OnWindowsChanged(fn func()) (cancel func())
}

// IconSource resolves an icon for windows that expose none.
type IconSource interface {
	Lookup(appID string, size int) image.Image
}

// Button is one window entry.
type Button struct {
	WindowID platform.WindowID
	AppID    string
	Tooltip  string
	Icon     image.Image
	Active   bool
	Urgent   bool
}

// Taskbar is the per-window button model.
type Taskbar struct {
	obs    Observer
	icons  IconSource
	logger *slog.Logger

	mu     sync.Mutex
	cfg    config.TaskbarConfig
	cancel func()

	buttons reconcile.List[Button]
}

// New creates a taskbar.
func New(obs Observer, iconSource IconSource, cfg config.TaskbarConfig, logger *slog.Logger) *Taskbar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Taskbar{obs: obs, icons: iconSource, cfg: cfg, logger: logger}
}

// Start subscribes to windows-changed and builds the initial buttons.
func (t *Taskbar) Start() {
	cancel := t.obs.OnWindowsChanged(t.Refresh)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()
	t.Refresh()
}

// Stop unsubscribes.
func (t *Taskbar) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// ApplyConfig swaps the settings and rebuilds.
func (t *Taskbar) ApplyConfig(cfg config.TaskbarConfig) {
	t.mu.Lock()
	t.cfg = cfg
	t.mu.Unlock()
	t.Refresh()
}

// Refresh rebuilds every button from a fresh window snapshot.
func (t *Taskbar) Refresh() {
	t.mu.Lock()
	cfg := t.cfg
	t.mu.Unlock()

	windows := t.obs.Windows()
	buttons := make([]Button, 0, len(windows))
	for _, w := range windows {
		b := Button{
			WindowID: w.ID,
			AppID:    w.AppID,
			Active:   w.Active,
			Urgent:   w.Urgent,
		}
		if cfg.Tooltip {
			b.Tooltip = w.Title
		}
		if w.Icon != nil {
			b.Icon = icons.ScaleOrKeep(w.Icon, cfg.IconSize, t.logger)
		} else {
			b.Icon = t.icons.Lookup(w.AppID, cfg.IconSize)
		}
		buttons = append(buttons, b)
	}
	reconcile.Rebuild[Button](&t.buttons, buttons)
}

// Buttons returns the current buttons in observer order.
func (t *Taskbar) Buttons() []Button { return t.buttons.Items() }

// OnRebuild registers a renderer hook.
func (t *Taskbar) OnRebuild(fn func([]Button)) { t.buttons.OnRebuild(fn) }

// Activate focuses the window behind a button. Unknown ids are forwarded
// too; the observer ignores stale windows.
func (t *Taskbar) Activate(id platform.WindowID) {
	t.obs.ActivateWindow(id)
}
