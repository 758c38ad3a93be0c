// Package dock builds the dock model: running applications grouped by app
// id, the persisted pinned section, per-group menus and the reveal state.
// Every observer notification triggers a full rebuild.
package dock

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/1broseidon/tsumiki/internal/apps"
	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/icons"
	"github.com/1broseidon/tsumiki/internal/platform"
	"github.com/1broseidon/tsumiki/internal/reconcile"
)

// Observer is the window state the dock consumes.
type Observer interface {
	Windows() []platform.Window
	Workspaces() []platform.Workspace
	ActivateWindow(id platform.WindowID)
	CloseWindow(id platform.WindowID)
	OnWindowsChanged(fn func()) (cancel func())
	OnWorkspacesChanged(fn func()) (cancel func())
}

// PinStore persists pinned app ids.
type PinStore interface {
	List() []string
	Contains(appID string) bool
	Pin(appID string) (bool, error)
	Unpin(appID string) (bool, error)
	Move(appID string, index int) error
}

// IconSource resolves icons for apps without a window icon.
type IconSource interface {
	LookupIcon(appID, iconName string, size int) image.Image
}

// AppFinder maps app ids to installed applications.
type AppFinder interface {
	Find(appID string) (apps.Entry, bool)
}

// Item is one running-app button.
type Item struct {
	Key        string
	AppID      string
	Tooltip    string
	Icon       image.Image
	Active     bool
	Count      int
	Indicators int
	WindowIDs  []platform.WindowID
}

// PinnedItem is one pinned-app button. Apps that are not installed still get
// an inert button with a fallback icon.
type PinnedItem struct {
	AppID     string
	Name      string
	Icon      image.Image
	Running   bool
	Installed bool
}

// Bar is the dock model.
type Bar struct {
	obs    Observer
	store  PinStore
	icons  IconSource
	finder AppFinder
	logger *slog.Logger

	launch func(apps.Entry) error

	// refreshMu serialises rebuilds so a rebuild from an older snapshot
	// never lands after a newer one.
	refreshMu sync.Mutex

	mu       sync.Mutex
	cfg      config.DockConfig
	groups   []Group
	revealed bool
	cancels  []func()

	running reconcile.List[Item]
	pinned  reconcile.List[PinnedItem]
}

// New creates a dock. Call Start to subscribe to observer notifications.
func New(obs Observer, store PinStore, iconSource IconSource, finder AppFinder, cfg config.DockConfig, logger *slog.Logger) *Bar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bar{
		obs:    obs,
		store:  store,
		icons:  iconSource,
		finder: finder,
		logger: logger,
		launch: apps.Entry.Launch,
		cfg:    cfg,
	}
}

// Start subscribes to both observer signals and builds the initial model.
func (b *Bar) Start() {
	b.mu.Lock()
	b.cancels = append(b.cancels,
		b.obs.OnWindowsChanged(b.Refresh),
		b.obs.OnWorkspacesChanged(b.Refresh),
	)
	b.mu.Unlock()
	b.Refresh()
}

// Stop unsubscribes from the observer.
func (b *Bar) Stop() {
	b.mu.Lock()
	cancels := b.cancels
	b.cancels = nil
	b.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// ApplyConfig swaps the dock settings and rebuilds.
func (b *Bar) ApplyConfig(cfg config.DockConfig) {
	b.mu.Lock()
	b.cfg = cfg
	b.mu.Unlock()
	b.Refresh()
}

// Refresh rebuilds the running and pinned sections from fresh snapshots.
// Concurrent callers run one at a time, each reading its own snapshot.
func (b *Bar) Refresh() {
	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	windows := b.obs.Windows()
	workspaces := b.obs.Workspaces()

	b.mu.Lock()
	cfg := b.cfg
	groups := GroupWindows(windows, cfg.GroupApps, cfg.IsIgnoredApp)
	b.groups = groups
	b.revealed = ShouldReveal(cfg, windows, workspaces)
	b.mu.Unlock()

	items := make([]Item, 0, len(groups))
	for _, g := range groups {
		items = append(items, b.buildItem(cfg, g))
	}
	stats := reconcile.Rebuild[Item](&b.running, items)
	b.refreshPinned(cfg, groups)

	b.logger.Debug("dock rebuilt", "groups", stats.Added, "removed", stats.Removed)
}

func (b *Bar) buildItem(cfg config.DockConfig, g Group) Item {
	item := Item{
		Key:        g.Key,
		AppID:      g.AppID,
		Active:     g.Active(),
		Count:      len(g.Windows),
		Indicators: 1,
		WindowIDs:  g.WindowIDs(),
		Icon:       b.groupIcon(cfg, g),
	}
	if cfg.GroupApps {
		item.Indicators = g.Indicators()
	}
	if cfg.Tooltip {
		item.Tooltip = g.Windows[0].Title
	}
	return item
}

func (b *Bar) groupIcon(cfg config.DockConfig, g Group) image.Image {
	if icon := g.Icon(); icon != nil {
		return icons.ScaleOrKeep(icon, cfg.IconSize, b.logger)
	}
	iconName := ""
	if entry, ok := b.finder.Find(g.AppID); ok {
		iconName = entry.Icon
	}
	return b.icons.LookupIcon(g.AppID, iconName, cfg.IconSize)
}

func (b *Bar) refreshPinned(cfg config.DockConfig, groups []Group) {
	running := make(map[string]bool, len(groups))
	for _, g := range groups {
		running[g.AppID] = true
	}

	ids := b.store.List()
	items := make([]PinnedItem, 0, len(ids))
	for _, id := range ids {
		item := PinnedItem{AppID: id, Name: id, Running: running[id]}
		iconName := ""
		if entry, ok := b.finder.Find(id); ok {
			item.Name = entry.DisplayName()
			item.Installed = true
			iconName = entry.Icon
		}
		item.Icon = b.icons.LookupIcon(id, iconName, cfg.IconSize)
		items = append(items, item)
	}
	reconcile.Rebuild[PinnedItem](&b.pinned, items)
}

// Running returns the current running-app buttons.
func (b *Bar) Running() []Item { return b.running.Items() }

// Pinned returns the current pinned-app buttons.
func (b *Bar) Pinned() []PinnedItem { return b.pinned.Items() }

// OnRebuild registers a renderer hook for the running section.
func (b *Bar) OnRebuild(fn func([]Item)) { b.running.OnRebuild(fn) }

// Revealed reports the reveal state computed on the last refresh.
func (b *Bar) Revealed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revealed
}

// Groups returns the groups from the last refresh.
func (b *Bar) Groups() []Group {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Group(nil), b.groups...)
}

func (b *Bar) group(key string) (Group, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, g := range b.groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Activate focuses the next window of the group with key. It reports false
// for an unknown key (for example a group that vanished since the last
// refresh).
func (b *Bar) Activate(key string) bool {
	g, ok := b.group(key)
	if !ok {
		return false
	}
	target, ok := g.Next()
	if !ok {
		return false
	}
	b.obs.ActivateWindow(target.ID)
	return true
}

// CycleActive activates the next window of the group holding the focused
// window.
func (b *Bar) CycleActive() bool {
	b.mu.Lock()
	key := ""
	for _, g := range b.groups {
		if g.Active() {
			key = g.Key
			break
		}
	}
	b.mu.Unlock()

	if key == "" {
		return false
	}
	return b.Activate(key)
}

// CloseAll closes every window of the group and returns how many close
// requests were sent.
func (b *Bar) CloseAll(key string) int {
	g, ok := b.group(key)
	if !ok {
		return 0
	}
	for _, w := range g.Windows {
		b.obs.CloseWindow(w.ID)
	}
	return len(g.Windows)
}

// HasGroup reports whether a running group with key exists.
func (b *Bar) HasGroup(key string) bool {
	_, ok := b.group(key)
	return ok
}

// IsPinned reports whether appID is pinned.
func (b *Bar) IsPinned(appID string) bool {
	return b.store.Contains(appID)
}

// Pin adds appID to the pinned section and persists it.
func (b *Bar) Pin(appID string) error {
	changed, err := b.store.Pin(appID)
	if err != nil {
		return err
	}
	if changed {
		b.rebuildPinned()
	}
	return nil
}

// Unpin removes appID from the pinned section and persists it.
func (b *Bar) Unpin(appID string) error {
	changed, err := b.store.Unpin(appID)
	if err != nil {
		return err
	}
	if changed {
		b.rebuildPinned()
	}
	return nil
}

// MovePinned reorders a pinned app.
func (b *Bar) MovePinned(appID string, index int) error {
	if err := b.store.Move(appID, index); err != nil {
		return err
	}
	b.rebuildPinned()
	return nil
}

// rebuildPinned rebuilds only the pinned section against the groups of the
// last refresh; the running section and the backend are left alone.
func (b *Bar) rebuildPinned() {
	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	b.mu.Lock()
	cfg, groups := b.cfg, b.groups
	b.mu.Unlock()
	b.refreshPinned(cfg, groups)
}

// Launch starts a new instance of appID.
func (b *Bar) Launch(appID string) error {
	entry, ok := b.finder.Find(appID)
	if !ok {
		return fmt.Errorf("no installed application matches %q", appID)
	}
	b.logger.Info("launching application", "app_id", appID, "entry", entry.ID)
	return b.launch(entry)
}
