package platform

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/tsumiki/internal/icons"
	"github.com/1broseidon/tsumiki/internal/x11"
)

// FallbackAppID is used when a window exposes no class name.
const FallbackAppID = "x11"

// X11Backend wraps an X11 connection behind the Backend interface using EWMH.
type X11Backend struct {
	conn   *x11.Connection
	logger *slog.Logger
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend creates a backend from an existing X11 connection.
func NewX11Backend(conn *x11.Connection, logger *slog.Logger) *X11Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &X11Backend{conn: conn, logger: logger}
}

// NewX11BackendFromDisplay creates a new X11 backend by opening a fresh connection.
func NewX11BackendFromDisplay(logger *slog.Logger) (*X11Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := x11.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if name, err := conn.WMName(); err == nil {
		logger.Info("connected to window manager", "wm", name)
	} else {
		logger.Warn("no EWMH window manager detected", "error", err)
	}
	return NewX11Backend(conn, logger), nil
}

// Name implements Backend.
func (b *X11Backend) Name() string { return "x11" }

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *X11Backend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *X11Backend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Close closes the underlying X11 connection.
func (b *X11Backend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Windows lists taskbar-visible clients in _NET_CLIENT_LIST order. Windows
// that vanish while being read are omitted.
func (b *X11Backend) Windows() ([]Window, error) {
	clients, err := b.readClients()
	if err != nil {
		return nil, err
	}

	active, activeErr := b.conn.GetActiveWindow()

	windows := make([]Window, 0, len(clients))
	for _, c := range clients {
		if !listed(c) {
			continue
		}
		windows = append(windows, Window{
			ID:        WindowID(c.ID),
			Title:     c.Title,
			AppID:     clientAppID(c),
			Active:    activeErr == nil && c.ID == active,
			Workspace: workspaceFromDesktop(c.Desktop),
			Urgent:    c.Urgent(),
			Icon:      clientIcon(c),
		})
	}
	return windows, nil
}

// Workspaces returns desktops numbered from 1, with occupancy derived from
// the desktop of every taskbar-visible client.
func (b *X11Backend) Workspaces() ([]Workspace, error) {
	count, err := b.conn.GetDesktopCount()
	if err != nil {
		return nil, err
	}
	current, currentErr := b.conn.GetCurrentDesktop()
	names := b.conn.DesktopNames()

	var occupied map[int]bool
	if clients, err := b.readClients(); err == nil {
		occupied = occupiedDesktops(clients)
	}

	return buildWorkspaces(count, current, currentErr == nil, names, occupied), nil
}

// listed reports whether c shows up in window lists.
func listed(c x11.Client) bool {
	return !c.SkipTaskbar() && c.IsNormal()
}

// occupiedDesktops returns the 0-based desktops holding a listed window.
// Sticky and unplaced windows occupy nothing.
func occupiedDesktops(clients []x11.Client) map[int]bool {
	occupied := make(map[int]bool)
	for _, c := range clients {
		if !listed(c) || c.Desktop < 0 {
			continue
		}
		occupied[c.Desktop] = true
	}
	return occupied
}

// ActivateWindow focuses the window if it is still managed.
func (b *X11Backend) ActivateWindow(id WindowID) error {
	clients, err := b.conn.ClientList()
	if err != nil {
		return err
	}
	for _, win := range clients {
		if WindowID(win) == id {
			return b.conn.FocusWindow(win)
		}
	}
	return nil
}

// ActivateWorkspace switches desktops if the 1-based id still exists.
func (b *X11Backend) ActivateWorkspace(id int) error {
	count, err := b.conn.GetDesktopCount()
	if err != nil {
		return err
	}
	if id < 1 || id > count {
		return nil
	}
	return b.conn.SetCurrentDesktop(id - 1)
}

// CloseWindow requests a graceful close if the window is still managed.
func (b *X11Backend) CloseWindow(id WindowID) error {
	clients, err := b.conn.ClientList()
	if err != nil {
		return err
	}
	for _, win := range clients {
		if WindowID(win) == id {
			return b.conn.CloseWindow(win)
		}
	}
	return nil
}

// Watch listens for EWMH property changes and runs the X event loop until
// ctx is cancelled.
func (b *X11Backend) Watch(ctx context.Context, notify func(Change)) error {
	err := b.conn.WatchProperties(func(changed x11.Changed) {
		var c Change
		if changed&x11.ChangedClients != 0 {
			c |= ChangeWindows
		}
		if changed&x11.ChangedDesktops != 0 {
			c |= ChangeWorkspaces
		}
		if c != 0 {
			notify(c)
		}
	})
	if err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, b.conn.Quit)
	defer stop()

	b.logger.Debug("x11 event loop started")
	b.conn.EventLoop()
	b.logger.Debug("x11 event loop stopped")
	return ctx.Err()
}

func (b *X11Backend) readClients() ([]x11.Client, error) {
	ids, err := b.conn.ClientList()
	if err != nil {
		return nil, err
	}
	clients := make([]x11.Client, 0, len(ids))
	for _, id := range ids {
		c, err := b.conn.ReadClient(id)
		if err != nil {
			b.logger.Debug("skipping unreadable window", "window_id", uint32(id), "error", err)
			continue
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func clientAppID(c x11.Client) string {
	if c.Class != "" {
		return c.Class
	}
	if c.Instance != "" {
		return c.Instance
	}
	return FallbackAppID
}

func clientIcon(c x11.Client) image.Image {
	if c.Icon == nil {
		return nil
	}
	img := icons.FromARGB(int(c.Icon.Width), int(c.Icon.Height), c.Icon.Data)
	if img == nil {
		return nil
	}
	return img
}

func workspaceFromDesktop(desktop int) int {
	if desktop < 0 {
		return 0
	}
	return desktop + 1
}

func buildWorkspaces(count, current int, hasCurrent bool, names []string, occupied map[int]bool) []Workspace {
	workspaces := make([]Workspace, 0, count)
	for i := 0; i < count; i++ {
		id := i + 1
		name := fmt.Sprintf("%d", id)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		workspaces = append(workspaces, Workspace{
			ID:       id,
			Name:     name,
			Occupied: occupied[i],
			Active:   hasCurrent && i == current,
		})
	}
	return workspaces
}
