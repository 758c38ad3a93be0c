package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Orientation is the dock layout direction.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// DockBehavior controls when the dock is revealed.
type DockBehavior string

const (
	BehaviorAlwaysShow  DockBehavior = "always_show"
	BehaviorAlwaysHide  DockBehavior = "always_hide"
	BehaviorIntellihide DockBehavior = "intellihide"
)

// DockConfig configures the dock's running and pinned app sections.
type DockConfig struct {
	IconSize          int          `yaml:"icon_size"`
	Orientation       Orientation  `yaml:"orientation"`
	GroupApps         bool         `yaml:"group_apps"`
	TruncationSize    int          `yaml:"truncation_size"` // max menu title length
	IgnoredApps       []string     `yaml:"ignored_apps"`
	Tooltip           bool         `yaml:"tooltip"`
	Behavior          DockBehavior `yaml:"behavior"`
	ShowWhenNoWindows bool         `yaml:"show_when_no_windows"` // intellihide only
}

// TaskbarConfig configures the per-window taskbar.
type TaskbarConfig struct {
	IconSize int  `yaml:"icon_size"`
	Tooltip  bool `yaml:"tooltip"`
}

// WorkspacesConfig configures the workspace buttons.
type WorkspacesConfig struct {
	Ignored            []int             `yaml:"ignored"`
	IconMap            map[string]string `yaml:"icon_map"` // workspace id -> label
	DefaultLabelFormat string            `yaml:"default_label_format"`
	Count              int               `yaml:"count"`
	HideUnoccupied     bool              `yaml:"hide_unoccupied"`
	ShowNumbered       bool              `yaml:"show_numbered"`
}

// ModulesConfig groups per-view settings.
type ModulesConfig struct {
	Dock       DockConfig       `yaml:"dock"`
	Taskbar    TaskbarConfig    `yaml:"taskbar"`
	Workspaces WorkspacesConfig `yaml:"workspaces"`
}

// HotkeyBinding maps an xgbutil key sequence (e.g. "Mod4-1") to an action.
type HotkeyBinding struct {
	Keys   string `yaml:"keys"`
	Action string `yaml:"action"`
}

// CheatsheetEntry is one documented key binding.
type CheatsheetEntry struct {
	Key         string `yaml:"key"`
	Description string `yaml:"description"`
}

// CheatsheetGroup is a titled list of bindings.
type CheatsheetGroup struct {
	Title   string            `yaml:"title"`
	Entries []CheatsheetEntry `yaml:"entries"`
}

// Config is the effective tsumiki configuration.
type Config struct {
	LogLevel   string            `yaml:"log_level"`
	PinnedFile string            `yaml:"pinned_file"` // empty = default location
	Modules    ModulesConfig     `yaml:"modules"`
	Hotkeys    []HotkeyBinding   `yaml:"hotkeys"`
	Cheatsheet []CheatsheetGroup `yaml:"cheatsheet"`
}

// Default values.
const (
	DefaultDockIconSize       = 30
	DefaultTruncationSize     = 20
	DefaultTaskbarIconSize    = 22
	DefaultWorkspaceCount     = 8
	DefaultLabelFormat        = "{id}"
	DefaultLogLevel           = "info"
	maxIconSize               = 512
	workspaceLabelPlaceholder = "{id}"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Modules: ModulesConfig{
			Dock: DockConfig{
				IconSize:       DefaultDockIconSize,
				Orientation:    OrientationHorizontal,
				GroupApps:      true,
				TruncationSize: DefaultTruncationSize,
				Tooltip:        true,
				Behavior:       BehaviorAlwaysShow,
			},
			Taskbar: TaskbarConfig{
				IconSize: DefaultTaskbarIconSize,
				Tooltip:  true,
			},
			Workspaces: WorkspacesConfig{
				IconMap:            map[string]string{},
				DefaultLabelFormat: DefaultLabelFormat,
				Count:              DefaultWorkspaceCount,
				ShowNumbered:       true,
			},
		},
		Hotkeys:    defaultHotkeys(),
		Cheatsheet: defaultCheatsheet(),
	}
}

func defaultHotkeys() []HotkeyBinding {
	bindings := make([]HotkeyBinding, 0, 11)
	for i := 1; i <= 9; i++ {
		bindings = append(bindings, HotkeyBinding{
			Keys:   fmt.Sprintf("Mod4-%d", i),
			Action: fmt.Sprintf("workspace:%d", i),
		})
	}
	bindings = append(bindings,
		HotkeyBinding{Keys: "Mod4-Tab", Action: "cycle"},
		HotkeyBinding{Keys: "Mod4-q", Action: "close"},
	)
	return bindings
}

func defaultCheatsheet() []CheatsheetGroup {
	return []CheatsheetGroup{
		{
			Title: "Launcher",
			Entries: []CheatsheetEntry{
				{Key: "Super + Space", Description: "Toggle the app launcher."},
				{Key: "Alt + F1", Description: "Show this cheatsheet again."},
			},
		},
		{
			Title: "Workspaces & Windows",
			Entries: []CheatsheetEntry{
				{Key: "Super + 1…9", Description: "Jump to workspace 1-9."},
				{Key: "Super + Tab", Description: "Cycle windows of the focused app."},
				{Key: "Super + Q", Description: "Close the currently focused window."},
			},
		},
		{
			Title: "Apps",
			Entries: []CheatsheetEntry{
				{Key: "Super + C", Description: "Launch Visual Studio Code."},
				{Key: "Super + T", Description: "Launch the terminal."},
			},
		},
	}
}

// ActionKind identifies what a hotkey does.
type ActionKind string

const (
	ActionWorkspace ActionKind = "workspace"
	ActionCycle     ActionKind = "cycle"
	ActionClose     ActionKind = "close"
)

// HotkeyAction is a parsed HotkeyBinding.Action.
type HotkeyAction struct {
	Kind      ActionKind
	Workspace int // for ActionWorkspace
}

// ParseAction parses "workspace:<n>", "cycle" or "close".
func ParseAction(s string) (HotkeyAction, error) {
	s = strings.TrimSpace(s)
	switch s {
	case string(ActionCycle):
		return HotkeyAction{Kind: ActionCycle}, nil
	case string(ActionClose):
		return HotkeyAction{Kind: ActionClose}, nil
	}

	name, arg, ok := strings.Cut(s, ":")
	if !ok || name != string(ActionWorkspace) {
		return HotkeyAction{}, fmt.Errorf("unknown action %q (expected workspace:<n>, cycle or close)", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return HotkeyAction{}, fmt.Errorf("invalid workspace in action %q", s)
	}
	return HotkeyAction{Kind: ActionWorkspace, Workspace: n}, nil
}

// WorkspaceLabel returns the label for a workspace id: the icon_map entry,
// else default_label_format with {id} substituted. ok is false when labels
// are disabled.
func (w WorkspacesConfig) WorkspaceLabel(id int) (label string, ok bool) {
	if !w.ShowNumbered {
		return "", false
	}
	key := strconv.Itoa(id)
	if label, found := w.IconMap[key]; found {
		return label, true
	}
	return strings.ReplaceAll(w.DefaultLabelFormat, workspaceLabelPlaceholder, key), true
}

// IsIgnored reports whether the workspace id is filtered out.
func (w WorkspacesConfig) IsIgnored(id int) bool {
	for _, ignored := range w.Ignored {
		if ignored == id {
			return true
		}
	}
	return false
}

// IsIgnoredApp reports whether the dock hides appID.
func (d DockConfig) IsIgnoredApp(appID string) bool {
	for _, ignored := range d.IgnoredApps {
		if ignored == appID {
			return true
		}
	}
	return false
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("must be one of debug, info, warn, error (got %q)", c.LogLevel)}
	}

	dock := c.Modules.Dock
	if err := validateIconSize(dock.IconSize); err != nil {
		return &ValidationError{Path: "modules.dock.icon_size", Err: err}
	}
	switch dock.Orientation {
	case OrientationHorizontal, OrientationVertical:
	default:
		return &ValidationError{Path: "modules.dock.orientation", Err: fmt.Errorf("must be horizontal or vertical (got %q)", dock.Orientation)}
	}
	switch dock.Behavior {
	case BehaviorAlwaysShow, BehaviorAlwaysHide, BehaviorIntellihide:
	default:
		return &ValidationError{Path: "modules.dock.behavior", Err: fmt.Errorf("must be always_show, always_hide or intellihide (got %q)", dock.Behavior)}
	}
	if dock.TruncationSize < 1 {
		return &ValidationError{Path: "modules.dock.truncation_size", Err: fmt.Errorf("must be >= 1")}
	}

	if err := validateIconSize(c.Modules.Taskbar.IconSize); err != nil {
		return &ValidationError{Path: "modules.taskbar.icon_size", Err: err}
	}

	ws := c.Modules.Workspaces
	if ws.Count < 1 {
		return &ValidationError{Path: "modules.workspaces.count", Err: fmt.Errorf("must be >= 1")}
	}
	if strings.TrimSpace(ws.DefaultLabelFormat) == "" {
		return &ValidationError{Path: "modules.workspaces.default_label_format", Err: fmt.Errorf("must not be empty")}
	}
	for key := range ws.IconMap {
		if n, err := strconv.Atoi(key); err != nil || n < 1 {
			return &ValidationError{Path: "modules.workspaces.icon_map", Err: fmt.Errorf("key %q is not a workspace id", key)}
		}
	}

	seen := make(map[string]bool, len(c.Hotkeys))
	for i, binding := range c.Hotkeys {
		if strings.TrimSpace(binding.Keys) == "" {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("entry %d: keys is required", i)}
		}
		if seen[binding.Keys] {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("entry %d: %q is bound more than once", i, binding.Keys)}
		}
		seen[binding.Keys] = true
		if _, err := ParseAction(binding.Action); err != nil {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("entry %d: %w", i, err)}
		}
	}

	for i, group := range c.Cheatsheet {
		if strings.TrimSpace(group.Title) == "" {
			return &ValidationError{Path: "cheatsheet", Err: fmt.Errorf("group %d: title is required", i)}
		}
	}
	return nil
}

func validateIconSize(size int) error {
	if size < 1 || size > maxIconSize {
		return fmt.Errorf("must be between 1 and %d (got %d)", maxIconSize, size)
	}
	return nil
}
