package wm

import "github.com/1broseidon/tsumiki/internal/platform"

// NormalizeWindows returns a copy of windows in which at most one record is
// active: the first active one in snapshot order.
func NormalizeWindows(windows []platform.Window) []platform.Window {
	out := make([]platform.Window, len(windows))
	copy(out, windows)

	seen := false
	for i := range out {
		if !out[i].Active {
			continue
		}
		if seen {
			out[i].Active = false
		}
		seen = true
	}
	return out
}

// NormalizeWorkspaces applies the same single-active rule to workspaces.
func NormalizeWorkspaces(workspaces []platform.Workspace) []platform.Workspace {
	out := make([]platform.Workspace, len(workspaces))
	copy(out, workspaces)

	seen := false
	for i := range out {
		if !out[i].Active {
			continue
		}
		if seen {
			out[i].Active = false
		}
		seen = true
	}
	return out
}
