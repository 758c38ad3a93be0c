// Package x11 reads and drives an EWMH window manager over xgbutil.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection is one X display connection shared by the window reader, the
// property watcher and the hotkey handler.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// Open connects to display, or to $DISPLAY when display is empty. The
// keybind tables are loaded so hotkeys can be grabbed later.
func Open(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		if display == "" {
			display = "$DISPLAY"
		}
		return nil, fmt.Errorf("failed to open display %s: %w", display, err)
	}
	keybind.Initialize(xu)
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

// WMName returns the name advertised by an EWMH-compliant window manager.
func (c *Connection) WMName() (string, error) {
	return ewmh.GetEwmhWM(c.XUtil)
}

// EventLoop dispatches X events until Quit.
func (c *Connection) EventLoop() { xevent.Main(c.XUtil) }

// Quit stops a running EventLoop after the current event.
func (c *Connection) Quit() { xevent.Quit(c.XUtil) }

func (c *Connection) Close() { c.XUtil.Conn().Close() }
