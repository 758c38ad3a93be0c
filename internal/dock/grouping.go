package dock

import (
	"fmt"
	"image"

	"github.com/1broseidon/tsumiki/internal/platform"
)

// MaxIndicators caps the per-group window dots.
const MaxIndicators = 5

// Group is the set of windows shown as one dock button.
type Group struct {
	Key     string
	AppID   string
	Windows []platform.Window
}

// GroupWindows partitions windows into groups in first-encounter order.
// With groupApps the key is the app id; otherwise every window is its own
// group keyed "<appID>-<windowID>". Windows whose app id is ignored are
// dropped; an empty app id is treated as platform.FallbackAppID.
func GroupWindows(windows []platform.Window, groupApps bool, ignored func(appID string) bool) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, w := range windows {
		appID := w.AppID
		if appID == "" {
			appID = platform.FallbackAppID
		}
		if ignored != nil && ignored(appID) {
			continue
		}

		key := appID
		if !groupApps {
			key = fmt.Sprintf("%s-%d", appID, w.ID)
		}

		if i, ok := index[key]; ok {
			groups[i].Windows = append(groups[i].Windows, w)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, AppID: appID, Windows: []platform.Window{w}})
	}
	return groups
}

// Active reports whether any member window is focused.
func (g Group) Active() bool {
	return g.ActiveIndex() >= 0
}

// ActiveIndex returns the position of the focused member, or -1.
func (g Group) ActiveIndex() int {
	for i, w := range g.Windows {
		if w.Active {
			return i
		}
	}
	return -1
}

// Next returns the window that activating the group should focus: the one
// after the focused member (wrapping), or the first when none is focused.
func (g Group) Next() (platform.Window, bool) {
	if len(g.Windows) == 0 {
		return platform.Window{}, false
	}
	return g.Windows[(g.ActiveIndex()+1)%len(g.Windows)], true
}

// Icon returns the first member icon, or nil when no member has one.
func (g Group) Icon() image.Image {
	for _, w := range g.Windows {
		if w.Icon != nil {
			return w.Icon
		}
	}
	return nil
}

// Indicators is the number of dots drawn under the group button.
func (g Group) Indicators() int {
	return max(1, min(len(g.Windows), MaxIndicators))
}

// WindowIDs lists member ids in order.
func (g Group) WindowIDs() []platform.WindowID {
	ids := make([]platform.WindowID, len(g.Windows))
	for i, w := range g.Windows {
		ids[i] = w.ID
	}
	return ids
}
