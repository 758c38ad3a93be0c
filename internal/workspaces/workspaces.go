// Package workspaces keeps the workspace switcher buttons in sync with the
// observer's workspace snapshot.
package workspaces

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/platform"
	"github.com/1broseidon/tsumiki/internal/reconcile"
)

// Observer is the subset of the window observer the switcher needs.
type Observer interface {
	Workspaces() []platform.Workspace
	ActivateWorkspace(id int)
	OnWorkspacesChanged(fn func()) (cancel func())
}

// Button is one workspace entry.
type Button struct {
	ID       int
	Name     string
	Label    string
	HasLabel bool
	Active   bool
	Occupied bool
}

// Classes returns the style classes of the button.
func (b Button) Classes() []string {
	classes := make([]string, 0, 2)
	if b.Active {
		classes = append(classes, "active")
	}
	if b.Occupied {
		classes = append(classes, "occupied")
	} else {
		classes = append(classes, "unoccupied")
	}
	return classes
}

// Bar is the workspace switcher model.
type Bar struct {
	obs    Observer
	logger *slog.Logger

	mu     sync.Mutex
	cfg    config.WorkspacesConfig
	cancel func()

	buttons reconcile.List[Button]
}

// New creates a workspace switcher.
func New(obs Observer, cfg config.WorkspacesConfig, logger *slog.Logger) *Bar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bar{obs: obs, cfg: cfg, logger: logger}
}

// Start subscribes to workspaces-changed and builds the initial buttons.
func (b *Bar) Start() {
	cancel := b.obs.OnWorkspacesChanged(b.Refresh)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
	b.Refresh()
}

// Stop unsubscribes.
func (b *Bar) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// ApplyConfig swaps the settings and rebuilds.
func (b *Bar) ApplyConfig(cfg config.WorkspacesConfig) {
	b.mu.Lock()
	b.cfg = cfg
	b.mu.Unlock()
	b.Refresh()
}

// Refresh rebuilds the buttons from a fresh workspace snapshot.
func (b *Bar) Refresh() {
	b.mu.Lock()
	cfg := b.cfg
	b.mu.Unlock()

	buttons := Build(b.obs.Workspaces(), cfg)
	stats := reconcile.Rebuild[Button](&b.buttons, buttons)
	b.logger.Debug("workspace buttons rebuilt", "count", stats.Added)
}

// Build applies the configured filters and labels to a snapshot: ignored ids
// and ids above count are dropped, and with hide_unoccupied so is every
// empty workspace, the active one included.
func Build(workspaces []platform.Workspace, cfg config.WorkspacesConfig) []Button {
	buttons := make([]Button, 0, len(workspaces))
	for _, ws := range workspaces {
		if cfg.IsIgnored(ws.ID) {
			continue
		}
		if cfg.Count > 0 && ws.ID > cfg.Count {
			continue
		}
		if cfg.HideUnoccupied && !ws.Occupied {
			continue
		}
		label, ok := cfg.WorkspaceLabel(ws.ID)
		buttons = append(buttons, Button{
			ID:       ws.ID,
			Name:     ws.Name,
			Label:    label,
			HasLabel: ok,
			Active:   ws.Active,
			Occupied: ws.Occupied,
		})
	}
	return buttons
}

// Buttons returns the current buttons.
func (b *Bar) Buttons() []Button { return b.buttons.Items() }

// OnRebuild registers a renderer hook.
func (b *Bar) OnRebuild(fn func([]Button)) { b.buttons.OnRebuild(fn) }

// Activate switches to workspace id. Stale ids are ignored by the observer.
func (b *Bar) Activate(id int) {
	b.obs.ActivateWorkspace(id)
}
