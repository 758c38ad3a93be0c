package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/ipc"
)

func TestFormatSource(t *testing.T) {
	assert.Equal(t, "default", formatSource(config.Source{Kind: config.SourceDefault}))
	assert.Equal(t, "file", formatSource(config.Source{Kind: config.SourceFile}))
	assert.Equal(t, "file:/a.yaml", formatSource(config.Source{Kind: config.SourceFile, File: "/a.yaml"}))
	assert.Equal(t, "file:/a.yaml:3:5", formatSource(config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 5}))
}

func TestFormatStatus(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	out := formatStatus(&ipc.StatusData{
		Backend:       "x11",
		State:         "x11-watching",
		WindowCount:   4,
		UptimeSeconds: int64((3 * time.Hour).Seconds()),
	}, now)

	assert.Contains(t, out, "backend:    x11\n")
	assert.Contains(t, out, "state:      x11-watching\n")
	assert.Contains(t, out, "windows:    4\n")
	assert.Contains(t, out, "3 hours ago")
}

func TestTables(t *testing.T) {
	out := windowsTable([]ipc.WindowInfo{
		{ID: 0x2a, AppID: "kitty", Title: "~", Workspace: 2, Active: true},
		{ID: 7, AppID: "firefox", Title: "News", Urgent: true},
	})
	assert.Contains(t, out, "0x2a")
	assert.Contains(t, out, "kitty")
	assert.Contains(t, out, "News")

	out = pinnedTable([]ipc.PinnedApp{{AppID: "gone"}, {AppID: "kitty", Name: "Kitty", Installed: true}})
	assert.Contains(t, out, "(not installed)")
	assert.Contains(t, out, "Kitty")

	out = menuTable([]ipc.MenuEntry{{Kind: "window", Label: "vim", WindowID: 0x2a}, {Kind: "separator"}})
	assert.Contains(t, out, "0x2a")
	assert.Contains(t, out, "separator")

	out = dockTable([]ipc.DockItem{{Key: "kitty", Count: 3, Tooltip: "kitty (3)"}})
	assert.Contains(t, out, "kitty (3)")
}

func TestRenderCheatsheet(t *testing.T) {
	out := renderCheatsheet([]config.CheatsheetGroup{{
		Title: "Windows",
		Entries: []config.CheatsheetEntry{
			{Key: "Super + Q", Description: "Close window."},
			{Key: "Alt + F1", Description: "Help."},
		},
	}})
	assert.Contains(t, out, "Windows")
	assert.Contains(t, out, "Super + Q")
	assert.Contains(t, out, "Close window.")
	assert.Contains(t, out, "Help.")
}

func TestCommandFlags(t *testing.T) {
	assert.NotNil(t, pinCmd.Flags().Lookup("at"))
	assert.NotNil(t, dockMenuCmd.Flags().Lookup("select"))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"daemon"},
		{"status"},
		{"activate", "window"},
		{"activate", "workspace"},
		{"dock", "activate"},
		{"dock", "menu"},
		{"dock", "close"},
		{"dock", "launch"},
		{"pin"},
		{"config", "explain"},
		{"mcp", "serve"},
		{"cheatsheet"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
