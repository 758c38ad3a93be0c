package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	dock := cfg.Modules.Dock
	assert.Equal(t, 30, dock.IconSize)
	assert.Equal(t, OrientationHorizontal, dock.Orientation)
	assert.True(t, dock.GroupApps)
	assert.Equal(t, 20, dock.TruncationSize)
	assert.True(t, dock.Tooltip)
	assert.Equal(t, BehaviorAlwaysShow, dock.Behavior)

	assert.Equal(t, 22, cfg.Modules.Taskbar.IconSize)
	assert.Equal(t, 8, cfg.Modules.Workspaces.Count)
	assert.Equal(t, "{id}", cfg.Modules.Workspaces.DefaultLabelFormat)
	assert.True(t, cfg.Modules.Workspaces.ShowNumbered)
	assert.False(t, cfg.Modules.Workspaces.HideUnoccupied)

	assert.Len(t, cfg.Hotkeys, 11)
	assert.Len(t, cfg.Cheatsheet, 3)
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), res.Config)
	assert.Empty(t, res.Files)
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Modules, res.Config.Modules)
	assert.Len(t, res.Files, 1)
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"log_level: DEBUG",
		"modules:",
		"  dock:",
		"    icon_size: 48",
		"    group_apps: false",
		"    behavior: intellihide",
		"    show_when_no_windows: true",
		"    ignored_apps: [Steam, Steam, \"\"]",
		"  workspaces:",
		"    ignored: [9, 9]",
		"    icon_map:",
		"      \"1\": web",
		"    count: 5",
		"    hide_unoccupied: true",
		"hotkeys:",
		"  - keys: Mod1-Tab",
		"    action: cycle",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	require.NoError(t, err)
	cfg := res.Config

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 48, cfg.Modules.Dock.IconSize)
	assert.False(t, cfg.Modules.Dock.GroupApps)
	assert.Equal(t, BehaviorIntellihide, cfg.Modules.Dock.Behavior)
	assert.True(t, cfg.Modules.Dock.ShowWhenNoWindows)
	assert.Equal(t, []string{"Steam"}, cfg.Modules.Dock.IgnoredApps)
	assert.Equal(t, 20, cfg.Modules.Dock.TruncationSize, "unset fields keep defaults")

	assert.Equal(t, []int{9}, cfg.Modules.Workspaces.Ignored)
	assert.Equal(t, map[string]string{"1": "web"}, cfg.Modules.Workspaces.IconMap)
	assert.Equal(t, 5, cfg.Modules.Workspaces.Count)
	assert.True(t, cfg.Modules.Workspaces.HideUnoccupied)

	assert.Equal(t, []HotkeyBinding{{Keys: "Mod1-Tab", Action: "cycle"}}, cfg.Hotkeys)
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "modules:\n  dock:\n    icon_sise: 10\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "icon_sise")
}

func TestLoadFromPath_ValidationErrorHasFilePosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "modules:\n  dock:\n    orientation: diagonal\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "modules.dock.orientation", verr.Path)
	assert.Equal(t, SourceFile, verr.Source.Kind)
	assert.Equal(t, 3, verr.Source.Line)
	assert.Contains(t, err.Error(), ":3:")
	assert.Contains(t, err.Error(), "diagonal")
}

func TestLoadFromPath_Includes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf.d", "10-dock.yaml"), "modules:\n  dock:\n    icon_size: 40\n    tooltip: false\n")
	writeFile(t, filepath.Join(dir, "conf.d", "20-ws.yml"), "modules:\n  workspaces:\n    icon_map:\n      \"2\": code\n")
	writeFile(t, filepath.Join(dir, "conf.d", "notes.txt"), "ignored")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: conf.d\nmodules:\n  dock:\n    icon_size: 36\n  workspaces:\n    icon_map:\n      \"1\": web\n")

	res, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 36, res.Config.Modules.Dock.IconSize, "including file wins")
	assert.False(t, res.Config.Modules.Dock.Tooltip)
	assert.Equal(t, map[string]string{"1": "web", "2": "code"}, res.Config.Modules.Workspaces.IconMap)
	assert.Len(t, res.Files, 3)
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"dock icon size", func(c *Config) { c.Modules.Dock.IconSize = 0 }, "modules.dock.icon_size"},
		{"behavior", func(c *Config) { c.Modules.Dock.Behavior = "sometimes" }, "modules.dock.behavior"},
		{"truncation", func(c *Config) { c.Modules.Dock.TruncationSize = 0 }, "modules.dock.truncation_size"},
		{"taskbar icon size", func(c *Config) { c.Modules.Taskbar.IconSize = 4096 }, "modules.taskbar.icon_size"},
		{"count", func(c *Config) { c.Modules.Workspaces.Count = 0 }, "modules.workspaces.count"},
		{"label format", func(c *Config) { c.Modules.Workspaces.DefaultLabelFormat = " " }, "modules.workspaces.default_label_format"},
		{"icon map key", func(c *Config) { c.Modules.Workspaces.IconMap = map[string]string{"web": "x"} }, "modules.workspaces.icon_map"},
		{"hotkey action", func(c *Config) { c.Hotkeys = []HotkeyBinding{{Keys: "Mod4-x", Action: "explode"}} }, "hotkeys"},
		{"duplicate hotkey", func(c *Config) {
			c.Hotkeys = []HotkeyBinding{{Keys: "Mod4-x", Action: "cycle"}, {Keys: "Mod4-x", Action: "close"}}
		}, "hotkeys"},
		{"cheatsheet title", func(c *Config) { c.Cheatsheet = []CheatsheetGroup{{}} }, "cheatsheet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("workspace:3")
	require.NoError(t, err)
	assert.Equal(t, HotkeyAction{Kind: ActionWorkspace, Workspace: 3}, a)

	a, err = ParseAction(" cycle ")
	require.NoError(t, err)
	assert.Equal(t, ActionCycle, a.Kind)

	for _, bad := range []string{"", "workspace", "workspace:0", "workspace:x", "desk:1"} {
		_, err := ParseAction(bad)
		assert.Error(t, err, bad)
	}
}

func TestWorkspaceLabel(t *testing.T) {
	ws := DefaultConfig().Modules.Workspaces
	ws.IconMap = map[string]string{"1": "web"}
	ws.DefaultLabelFormat = "ws {id}"

	label, ok := ws.WorkspaceLabel(1)
	assert.True(t, ok)
	assert.Equal(t, "web", label)

	label, ok = ws.WorkspaceLabel(4)
	assert.True(t, ok)
	assert.Equal(t, "ws 4", label)

	ws.ShowNumbered = false
	_, ok = ws.WorkspaceLabel(4)
	assert.False(t, ok)
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "modules:\n  dock:\n    tooltip: false\n  workspaces:\n    icon_map:\n      \"1\": web\n")

	res, err := LoadFromPath(path)
	require.NoError(t, err)

	value, src, err := Explain(res, "modules.workspaces.icon_map.1")
	require.NoError(t, err)
	assert.Equal(t, "web", value)
	assert.Equal(t, SourceFile, src.Kind)

	value, src, err = Explain(res, "modules.dock.icon_size")
	require.NoError(t, err)
	assert.Equal(t, 30, value)
	assert.Equal(t, SourceDefault, src.Kind)

	value, src, err = Explain(res, "modules.dock.tooltip")
	require.NoError(t, err)
	assert.Equal(t, false, value)
	assert.Equal(t, SourceFile, src.Kind)
	assert.Equal(t, 3, src.Line)

	_, src, err = Explain(res, "modules.taskbar")
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, src.Kind)

	_, _, err = Explain(res, "modules.nope")
	assert.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", td)
	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(td, "tsumiki", "config.yaml"), path)
}

func TestWatcher_ReloadsValidChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\n")

	reloaded := make(chan *LoadResult, 4)
	w := NewWatcher(path, func(res *LoadResult) { reloaded <- res }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	writeFile(t, path, "log_level: [broken\n")
	writeFile(t, path, "log_level: debug\n")

	select {
	case res := <-reloaded:
		assert.Equal(t, "debug", res.Config.LogLevel)
	case <-time.After(3 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
