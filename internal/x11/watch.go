package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Changed classifies what a property change affects.
type Changed uint8

const (
	ChangedClients Changed = 1 << iota
	ChangedDesktops
)

// ClassifyRootProperty maps a root window property to the state it affects.
func ClassifyRootProperty(name string) Changed {
	switch name {
	case "_NET_CLIENT_LIST", "_NET_ACTIVE_WINDOW":
		return ChangedClients
	case "_NET_CURRENT_DESKTOP", "_NET_NUMBER_OF_DESKTOPS", "_NET_DESKTOP_NAMES":
		return ChangedDesktops
	default:
		return 0
	}
}

// ClassifyClientProperty maps a client window property to the state it affects.
// Moving a window between desktops changes desktop occupancy as well.
func ClassifyClientProperty(name string) Changed {
	switch name {
	case "_NET_WM_NAME", "WM_NAME", "_NET_WM_STATE", "WM_HINTS", "WM_CLASS", "_NET_WM_ICON":
		return ChangedClients
	case "_NET_WM_DESKTOP":
		return ChangedClients | ChangedDesktops
	default:
		return 0
	}
}

type propertyWatch struct {
	conn    *Connection
	notify  func(Changed)
	clients map[xproto.Window]struct{}
}

// WatchProperties subscribes to PropertyNotify on the root window and on every
// managed client, calling notify once per relevant event. Handlers run on the
// EventLoop goroutine; call this before EventLoop.
func (c *Connection) WatchProperties(notify func(Changed)) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	w := &propertyWatch{
		conn:    c,
		notify:  notify,
		clients: make(map[xproto.Window]struct{}),
	}
	xevent.PropertyNotifyFun(w.onRoot).Connect(c.XUtil, c.Root)
	w.syncClients()
	return nil
}

func (w *propertyWatch) onRoot(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	changed := ClassifyRootProperty(name)
	if name == "_NET_CLIENT_LIST" {
		// Open/close alters occupancy.
		w.syncClients()
		changed |= ChangedDesktops
	}
	if changed != 0 {
		w.notify(changed)
	}
}

func (w *propertyWatch) onClient(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	if changed := ClassifyClientProperty(name); changed != 0 {
		w.notify(changed)
	}
}

// syncClients attaches property listeners to new clients and detaches
// handlers from windows that left the client list.
func (w *propertyWatch) syncClients() {
	current, err := w.conn.ClientList()
	if err != nil {
		return
	}

	seen := make(map[xproto.Window]struct{}, len(current))
	for _, win := range current {
		seen[win] = struct{}{}
		if _, ok := w.clients[win]; ok {
			continue
		}
		// The window may already be gone; it will drop out on the next sync.
		if err := xwindow.New(w.conn.XUtil, win).Listen(xproto.EventMaskPropertyChange); err != nil {
			continue
		}
		xevent.PropertyNotifyFun(w.onClient).Connect(w.conn.XUtil, win)
		w.clients[win] = struct{}{}
	}

	for win := range w.clients {
		if _, ok := seen[win]; !ok {
			xevent.Detach(w.conn.XUtil, win)
			delete(w.clients, win)
		}
	}
}
