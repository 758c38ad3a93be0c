package dock

import "github.com/1broseidon/tsumiki/internal/platform"

// MenuKind identifies a group menu entry.
type MenuKind int

const (
	MenuWindow MenuKind = iota
	MenuSeparator
	MenuCloseAll
	MenuPin
	MenuUnpin
	MenuNewWindow
)

var menuKindNames = [...]string{"window", "separator", "close_all", "pin", "unpin", "new_window"}

func (k MenuKind) String() string {
	if k < 0 || int(k) >= len(menuKindNames) {
		return "unknown"
	}
	return menuKindNames[k]
}

// MenuItem is one entry of a group's context menu.
type MenuItem struct {
	Kind     MenuKind
	Label    string
	WindowID platform.WindowID // for MenuWindow
}

const truncateSuffix = "..."

// Truncate shortens s to at most n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= len(truncateSuffix) {
		return string(r[:n])
	}
	return string(r[:n-len(truncateSuffix)]) + truncateSuffix
}

// Menu returns the context menu for the group with key: one entry per
// window, then Close All, Pin or Unpin, and New Window when the app is
// installed. It returns nil for an unknown key.
func (b *Bar) Menu(key string) []MenuItem {
	g, ok := b.group(key)
	if !ok {
		return nil
	}

	b.mu.Lock()
	limit := b.cfg.TruncationSize
	b.mu.Unlock()

	items := make([]MenuItem, 0, len(g.Windows)+4)
	for _, w := range g.Windows {
		title := w.Title
		if title == "" {
			title = g.AppID
		}
		items = append(items, MenuItem{Kind: MenuWindow, Label: Truncate(title, limit), WindowID: w.ID})
	}
	items = append(items,
		MenuItem{Kind: MenuSeparator},
		MenuItem{Kind: MenuCloseAll, Label: "Close All"},
	)
	if b.store.Contains(g.AppID) {
		items = append(items, MenuItem{Kind: MenuUnpin, Label: "Unpin"})
	} else {
		items = append(items, MenuItem{Kind: MenuPin, Label: "Pin"})
	}
	if _, ok := b.finder.Find(g.AppID); ok {
		items = append(items, MenuItem{Kind: MenuNewWindow, Label: "New Window"})
	}
	return items
}

// Select performs the action of a menu entry for the group with key.
func (b *Bar) Select(key string, item MenuItem) error {
	g, ok := b.group(key)
	if !ok {
		return nil
	}
	switch item.Kind {
	case MenuWindow:
		b.obs.ActivateWindow(item.WindowID)
	case MenuCloseAll:
		b.CloseAll(key)
	case MenuPin:
		return b.Pin(g.AppID)
	case MenuUnpin:
		return b.Unpin(g.AppID)
	case MenuNewWindow:
		return b.Launch(g.AppID)
	}
	return nil
}
