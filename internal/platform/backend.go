package platform

import (
	"context"
	"image"
)

// WindowID is a backend-native window handle (X11 XID or compositor address).
type WindowID uint64

// Window is one open, taskbar-visible window. Values are snapshots: every
// query builds fresh records and callers must not mutate them.
type Window struct {
	ID        WindowID
	Title     string
	AppID     string
	Active    bool
	Workspace int         // 1-based; 0 when the window has no workspace
	Urgent    bool        // window demands attention
	Icon      image.Image // raw backend icon, nil when none is exposed
}

// HasWorkspace reports whether the window belongs to a specific workspace.
func (w Window) HasWorkspace() bool {
	return w.Workspace > 0
}

// Workspace is one virtual desktop.
type Workspace struct {
	ID       int // 1-based
	Name     string
	Occupied bool
	Active   bool
}

// Change is a bitmask describing which snapshots a backend event invalidated.
type Change uint8

const (
	ChangeWindows Change = 1 << iota
	ChangeWorkspaces

	ChangeAll = ChangeWindows | ChangeWorkspaces
)

// Has reports whether c includes every bit of other.
func (c Change) Has(other Change) bool {
	return c&other == other && other != 0
}

func (c Change) String() string {
	switch c {
	case 0:
		return "none"
	case ChangeWindows:
		return "windows"
	case ChangeWorkspaces:
		return "workspaces"
	case ChangeAll:
		return "windows+workspaces"
	default:
		return "unknown"
	}
}

// Mode is the windowing environment chosen at startup.
type Mode int

const (
	ModeDisabled Mode = iota
	ModeX11
	ModeWayland
)

func (m Mode) String() string {
	switch m {
	case ModeX11:
		return "x11"
	case ModeWayland:
		return "wayland"
	default:
		return "disabled"
	}
}

// Backend abstracts the windowing system. Implementations that cannot
// support an operation return empty snapshots or treat commands as no-ops
// rather than failing.
type Backend interface {
	// Name returns the backend name (e.g., "x11", "hyprland", "null").
	Name() string

	// Windows returns the current taskbar-visible windows.
	Windows() ([]Window, error)

	// Workspaces returns the current virtual desktops.
	Workspaces() ([]Workspace, error)

	// ActivateWindow focuses a window. Unknown ids are a no-op.
	ActivateWindow(id WindowID) error

	// ActivateWorkspace switches to a 1-based workspace. Unknown ids are a no-op.
	ActivateWorkspace(id int) error

	// CloseWindow asks a window to close. Unknown ids are a no-op.
	CloseWindow(id WindowID) error

	// Watch calls notify once per backend event batch until ctx is done.
	// It blocks; notify is always invoked from a single goroutine.
	Watch(ctx context.Context, notify func(Change)) error

	// Close releases the backend connection.
	Close()
}
