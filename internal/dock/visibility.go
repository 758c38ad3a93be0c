package dock

import (
	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/platform"
)

// ShouldReveal decides whether the dock is shown without pointer hover.
// Intellihide with show_when_no_windows reveals the dock only while the
// active workspace is empty.
func ShouldReveal(cfg config.DockConfig, windows []platform.Window, workspaces []platform.Workspace) bool {
	switch cfg.Behavior {
	case config.BehaviorAlwaysShow:
		return true
	case config.BehaviorIntellihide:
		if cfg.ShowWhenNoWindows {
			return !activeWorkspaceHasWindows(windows, workspaces)
		}
		return false
	default:
		return false
	}
}

func activeWorkspaceHasWindows(windows []platform.Window, workspaces []platform.Workspace) bool {
	if len(windows) == 0 {
		return false
	}
	activeID := 0
	for _, ws := range workspaces {
		if ws.Active {
			activeID = ws.ID
			break
		}
	}
	if activeID == 0 {
		return true
	}
	for _, w := range windows {
		if w.Workspace == activeID {
			return true
		}
	}
	return false
}
