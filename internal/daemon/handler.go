package daemon

import (
	"fmt"
	"time"

	"github.com/1broseidon/tsumiki/internal/dock"
	"github.com/1broseidon/tsumiki/internal/ipc"
	"github.com/1broseidon/tsumiki/internal/platform"
)

var (
	_ ipc.Handler = (*Daemon)(nil)
)

// Status implements ipc.Handler.
func (d *Daemon) Status() ipc.StatusData {
	return ipc.StatusData{
		Backend:        d.observer.Backend(),
		State:          d.observer.State().String(),
		WindowCount:    len(d.observer.Windows()),
		WorkspaceCount: len(d.observer.Workspaces()),
		PinnedCount:    len(d.store.List()),
		UptimeSeconds:  int64(time.Since(d.started) / time.Second),
		DaemonRunning:  true,
	}
}

// Windows implements ipc.Handler.
func (d *Daemon) Windows() []ipc.WindowInfo {
	windows := d.observer.Windows()
	out := make([]ipc.WindowInfo, 0, len(windows))
	for _, w := range windows {
		out = append(out, ipc.WindowInfo{
			ID:        uint64(w.ID),
			Title:     w.Title,
			AppID:     w.AppID,
			Active:    w.Active,
			Workspace: w.Workspace,
			Urgent:    w.Urgent,
		})
	}
	return out
}

// Workspaces implements ipc.Handler. Labels follow the workspace switcher
// settings; the list itself is unfiltered.
func (d *Daemon) Workspaces() []ipc.WorkspaceInfo {
	cfg := d.Config().Modules.Workspaces
	list := d.observer.Workspaces()
	out := make([]ipc.WorkspaceInfo, 0, len(list))
	for _, ws := range list {
		label, _ := cfg.WorkspaceLabel(ws.ID)
		out = append(out, ipc.WorkspaceInfo{
			ID:       ws.ID,
			Name:     ws.Name,
			Label:    label,
			Occupied: ws.Occupied,
			Active:   ws.Active,
		})
	}
	return out
}

// ActivateWindow implements ipc.Handler.
func (d *Daemon) ActivateWindow(id uint64) {
	d.observer.ActivateWindow(platform.WindowID(id))
}

// ActivateWorkspace implements ipc.Handler and hotkeys.Actions.
func (d *Daemon) ActivateWorkspace(id int) {
	d.observer.ActivateWorkspace(id)
}

// Dock implements ipc.Handler.
func (d *Daemon) Dock() ipc.DockData {
	data := ipc.DockData{Revealed: d.dock.Revealed()}
	for _, item := range d.dock.Running() {
		ids := make([]uint64, len(item.WindowIDs))
		for i, id := range item.WindowIDs {
			ids[i] = uint64(id)
		}
		data.Items = append(data.Items, ipc.DockItem{
			Key:       item.Key,
			AppID:     item.AppID,
			Tooltip:   item.Tooltip,
			Active:    item.Active,
			Pinned:    d.dock.IsPinned(item.AppID),
			Count:     item.Count,
			WindowIDs: ids,
		})
	}
	for _, p := range d.dock.Pinned() {
		data.Pinned = append(data.Pinned, ipc.PinnedApp{
			AppID:     p.AppID,
			Name:      p.Name,
			Running:   p.Running,
			Installed: p.Installed,
		})
	}
	return data
}

// ActivateGroup implements ipc.Handler.
func (d *Daemon) ActivateGroup(key string) bool {
	return d.dock.Activate(key)
}

// Pin implements ipc.Handler.
func (d *Daemon) Pin(appID string) error { return d.dock.Pin(appID) }

// Unpin implements ipc.Handler.
func (d *Daemon) Unpin(appID string) error { return d.dock.Unpin(appID) }

// DockMenu implements ipc.Handler.
func (d *Daemon) DockMenu(key string) ([]ipc.MenuEntry, bool) {
	items := d.dock.Menu(key)
	if items == nil {
		return nil, false
	}
	out := make([]ipc.MenuEntry, 0, len(items))
	for _, item := range items {
		out = append(out, ipc.MenuEntry{
			Kind:     item.Kind.String(),
			Label:    item.Label,
			WindowID: uint64(item.WindowID),
		})
	}
	return out, true
}

// SelectMenu implements ipc.Handler. The menu is rebuilt at selection time,
// so index refers to the menu as DockMenu would return it now.
func (d *Daemon) SelectMenu(key string, index int) error {
	items := d.dock.Menu(key)
	if items == nil {
		return fmt.Errorf("unknown dock group: %s", key)
	}
	if index < 0 || index >= len(items) {
		return fmt.Errorf("menu index %d out of range (0-%d)", index, len(items)-1)
	}
	if items[index].Kind == dock.MenuSeparator {
		return fmt.Errorf("menu entry %d is a separator", index)
	}
	return d.dock.Select(key, items[index])
}

// CloseGroup implements ipc.Handler.
func (d *Daemon) CloseGroup(key string) (int, bool) {
	if !d.dock.HasGroup(key) {
		return 0, false
	}
	return d.dock.CloseAll(key), true
}

// Launch implements ipc.Handler.
func (d *Daemon) Launch(appID string) error { return d.dock.Launch(appID) }

// MovePinned implements ipc.Handler.
func (d *Daemon) MovePinned(appID string, index int) error {
	return d.dock.MovePinned(appID, index)
}

// CycleActive implements hotkeys.Actions.
func (d *Daemon) CycleActive() bool { return d.dock.CycleActive() }

// CloseActive implements hotkeys.Actions.
func (d *Daemon) CloseActive() bool {
	for _, w := range d.observer.Windows() {
		if w.Active {
			d.observer.CloseWindow(w.ID)
			return true
		}
	}
	return false
}
