package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// StickyDesktop is returned by WindowDesktop for windows shown on every desktop.
const StickyDesktop = -1

// Client is the raw EWMH/ICCCM view of one managed window.
type Client struct {
	ID       xproto.Window
	Title    string
	Class    string
	Instance string
	Desktop  int // 0-indexed, StickyDesktop, or -2 when unset
	States   []string
	Types    []string
	Icon     *ewmh.WmIcon
}

// SkipTaskbar reports whether the window asked to be left out of task lists.
func (c Client) SkipTaskbar() bool {
	for _, s := range c.States {
		if s == "_NET_WM_STATE_SKIP_TASKBAR" {
			return true
		}
	}
	return false
}

// Urgent reports whether the window demands attention.
func (c Client) Urgent() bool {
	for _, s := range c.States {
		if s == "_NET_WM_STATE_DEMANDS_ATTENTION" {
			return true
		}
	}
	return false
}

// IsNormal checks if the window is a normal application window
func (c Client) IsNormal() bool {
	for _, t := range c.Types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" || t == "_NET_WM_WINDOW_TYPE_DIALOG" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" ||
			t == "_NET_WM_WINDOW_TYPE_TOOLBAR" ||
			t == "_NET_WM_WINDOW_TYPE_MENU" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return true
}

// ClientList returns the managed windows in _NET_CLIENT_LIST order.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// ReadClient collects the properties of a single client window. It fails only
// when the window no longer exists; missing optional properties are left empty.
func (c *Connection) ReadClient(windowID xproto.Window) (Client, error) {
	if _, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply(); err != nil {
		return Client{}, fmt.Errorf("window %d vanished: %w", windowID, err)
	}

	client := Client{
		ID:      windowID,
		Title:   c.windowTitle(windowID),
		Desktop: -2,
	}

	if wmClass, err := icccm.WmClassGet(c.XUtil, windowID); err == nil && wmClass != nil {
		client.Class = strings.TrimSpace(wmClass.Class)
		client.Instance = strings.TrimSpace(wmClass.Instance)
	}
	if desktop, err := c.WindowDesktop(windowID); err == nil {
		client.Desktop = desktop
	}
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		client.States = states
	}
	if types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID); err == nil {
		client.Types = types
	}
	client.Icon = c.largestIcon(windowID)

	return client, nil
}

// GetActiveWindow returns the window named by _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// CloseWindow requests graceful window close via WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	deleteAtom, err := c.internAtom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocolsAtom, err := c.internAtom("WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// largestIcon picks the biggest _NET_WM_ICON entry, or nil when none is set.
func (c *Connection) largestIcon(windowID xproto.Window) *ewmh.WmIcon {
	icons, err := ewmh.WmIconGet(c.XUtil, windowID)
	if err != nil || len(icons) == 0 {
		return nil
	}
	best := 0
	for i := range icons {
		if icons[i].Width*icons[i].Height > icons[best].Width*icons[best].Height {
			best = i
		}
	}
	icon := icons[best]
	if icon.Width == 0 || icon.Height == 0 || len(icon.Data) < int(icon.Width*icon.Height) {
		return nil
	}
	return &icon
}

func (c *Connection) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}
