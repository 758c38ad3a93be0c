package config

import (
	"fmt"
	"strings"
)

// ValidationError ties a config error to the YAML path (and, once sources
// are attached, the file position) that caused it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw overrides on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.PinnedFile != nil {
		cfg.PinnedFile = strings.TrimSpace(*raw.PinnedFile)
	}
	if raw.Hotkeys != nil {
		cfg.Hotkeys = append([]HotkeyBinding(nil), raw.Hotkeys...)
	}
	if raw.Cheatsheet != nil {
		cfg.Cheatsheet = append([]CheatsheetGroup(nil), raw.Cheatsheet...)
	}

	if raw.Modules != nil {
		if d := raw.Modules.Dock; d != nil {
			applyDock(&cfg.Modules.Dock, d)
		}
		if t := raw.Modules.Taskbar; t != nil {
			if t.IconSize != nil {
				cfg.Modules.Taskbar.IconSize = *t.IconSize
			}
			if t.Tooltip != nil {
				cfg.Modules.Taskbar.Tooltip = *t.Tooltip
			}
		}
		if w := raw.Modules.Workspaces; w != nil {
			applyWorkspaces(&cfg.Modules.Workspaces, w)
		}
	}

	return cfg
}

func applyDock(dst *DockConfig, raw *RawDockConfig) {
	if raw.IconSize != nil {
		dst.IconSize = *raw.IconSize
	}
	if raw.Orientation != nil {
		dst.Orientation = Orientation(strings.ToLower(string(*raw.Orientation)))
	}
	if raw.GroupApps != nil {
		dst.GroupApps = *raw.GroupApps
	}
	if raw.TruncationSize != nil {
		dst.TruncationSize = *raw.TruncationSize
	}
	if raw.IgnoredApps != nil {
		dst.IgnoredApps = uniqueStrings(raw.IgnoredApps)
	}
	if raw.Tooltip != nil {
		dst.Tooltip = *raw.Tooltip
	}
	if raw.Behavior != nil {
		dst.Behavior = DockBehavior(strings.ToLower(string(*raw.Behavior)))
	}
	if raw.ShowWhenNoWindows != nil {
		dst.ShowWhenNoWindows = *raw.ShowWhenNoWindows
	}
}

func applyWorkspaces(dst *WorkspacesConfig, raw *RawWorkspacesConfig) {
	if raw.Ignored != nil {
		dst.Ignored = uniqueInts(raw.Ignored)
	}
	if raw.IconMap != nil {
		dst.IconMap = make(map[string]string, len(raw.IconMap))
		for k, v := range raw.IconMap {
			dst.IconMap[strings.TrimSpace(k)] = v
		}
	}
	if raw.DefaultLabelFormat != nil {
		dst.DefaultLabelFormat = *raw.DefaultLabelFormat
	}
	if raw.Count != nil {
		dst.Count = *raw.Count
	}
	if raw.HideUnoccupied != nil {
		dst.HideUnoccupied = *raw.HideUnoccupied
	}
	if raw.ShowNumbered != nil {
		dst.ShowNumbered = *raw.ShowNumbered
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func uniqueInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, n := range in {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
