package wm

import "github.com/1broseidon/tsumiki/internal/platform"

// State is the observer lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateDetecting
	StateX11Watching
	StateWaylandPassive
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDetecting:
		return "detecting"
	case StateX11Watching:
		return "x11-watching"
	case StateWaylandPassive:
		return "wayland-passive"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Watching reports whether the backend delivers change events in this state.
func (s State) Watching() bool {
	return s == StateX11Watching || s == StateWaylandPassive
}

func stateForMode(mode platform.Mode) State {
	switch mode {
	case platform.ModeX11:
		return StateX11Watching
	case platform.ModeWayland:
		return StateWaylandPassive
	default:
		return StateDisabled
	}
}
