package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// Raw* types mirror the effective config with optional fields so that files
// merged later only override what they set.

type RawDockConfig struct {
	IconSize          *int          `yaml:"icon_size"`
	Orientation       *Orientation  `yaml:"orientation"`
	GroupApps         *bool         `yaml:"group_apps"`
	TruncationSize    *int          `yaml:"truncation_size"`
	IgnoredApps       []string      `yaml:"ignored_apps"`
	Tooltip           *bool         `yaml:"tooltip"`
	Behavior          *DockBehavior `yaml:"behavior"`
	ShowWhenNoWindows *bool         `yaml:"show_when_no_windows"`
}

type RawTaskbarConfig struct {
	IconSize *int  `yaml:"icon_size"`
	Tooltip  *bool `yaml:"tooltip"`
}

type RawWorkspacesConfig struct {
	Ignored            []int             `yaml:"ignored"`
	IconMap            map[string]string `yaml:"icon_map"`
	DefaultLabelFormat *string           `yaml:"default_label_format"`
	Count              *int              `yaml:"count"`
	HideUnoccupied     *bool             `yaml:"hide_unoccupied"`
	ShowNumbered       *bool             `yaml:"show_numbered"`
}

type RawModulesConfig struct {
	Dock       *RawDockConfig       `yaml:"dock"`
	Taskbar    *RawTaskbarConfig    `yaml:"taskbar"`
	Workspaces *RawWorkspacesConfig `yaml:"workspaces"`
}

type RawConfig struct {
	Include    IncludeList       `yaml:"include"`
	LogLevel   *string           `yaml:"log_level"`
	PinnedFile *string           `yaml:"pinned_file"`
	Modules    *RawModulesConfig `yaml:"modules"`
	Hotkeys    []HotkeyBinding   `yaml:"hotkeys"`
	Cheatsheet []CheatsheetGroup `yaml:"cheatsheet"`
}

func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	out.Include = nil

	if other.LogLevel != nil {
		out.LogLevel = other.LogLevel
	}
	if other.PinnedFile != nil {
		out.PinnedFile = other.PinnedFile
	}
	if other.Modules != nil {
		var base RawModulesConfig
		if out.Modules != nil {
			base = *out.Modules
		}
		merged := base.merge(*other.Modules)
		out.Modules = &merged
	}
	if other.Hotkeys != nil {
		out.Hotkeys = other.Hotkeys
	}
	if other.Cheatsheet != nil {
		out.Cheatsheet = other.Cheatsheet
	}
	return out
}

func (r RawModulesConfig) merge(other RawModulesConfig) RawModulesConfig {
	out := r
	if other.Dock != nil {
		var base RawDockConfig
		if out.Dock != nil {
			base = *out.Dock
		}
		merged := base.merge(*other.Dock)
		out.Dock = &merged
	}
	if other.Taskbar != nil {
		var base RawTaskbarConfig
		if out.Taskbar != nil {
			base = *out.Taskbar
		}
		if other.Taskbar.IconSize != nil {
			base.IconSize = other.Taskbar.IconSize
		}
		if other.Taskbar.Tooltip != nil {
			base.Tooltip = other.Taskbar.Tooltip
		}
		out.Taskbar = &base
	}
	if other.Workspaces != nil {
		var base RawWorkspacesConfig
		if out.Workspaces != nil {
			base = *out.Workspaces
		}
		merged := base.merge(*other.Workspaces)
		out.Workspaces = &merged
	}
	return out
}

func (r RawDockConfig) merge(other RawDockConfig) RawDockConfig {
	out := r
	if other.IconSize != nil {
		out.IconSize = other.IconSize
	}
	if other.Orientation != nil {
		out.Orientation = other.Orientation
	}
	if other.GroupApps != nil {
		out.GroupApps = other.GroupApps
	}
	if other.TruncationSize != nil {
		out.TruncationSize = other.TruncationSize
	}
	if other.IgnoredApps != nil {
		out.IgnoredApps = other.IgnoredApps
	}
	if other.Tooltip != nil {
		out.Tooltip = other.Tooltip
	}
	if other.Behavior != nil {
		out.Behavior = other.Behavior
	}
	if other.ShowWhenNoWindows != nil {
		out.ShowWhenNoWindows = other.ShowWhenNoWindows
	}
	return out
}

func (r RawWorkspacesConfig) merge(other RawWorkspacesConfig) RawWorkspacesConfig {
	out := r
	if other.Ignored != nil {
		out.Ignored = other.Ignored
	}
	if other.IconMap != nil {
		merged := make(map[string]string, len(out.IconMap)+len(other.IconMap))
		for k, v := range out.IconMap {
			merged[k] = v
		}
		for k, v := range other.IconMap {
			merged[k] = v
		}
		out.IconMap = merged
	}
	if other.DefaultLabelFormat != nil {
		out.DefaultLabelFormat = other.DefaultLabelFormat
	}
	if other.Count != nil {
		out.Count = other.Count
	}
	if other.HideUnoccupied != nil {
		out.HideUnoccupied = other.HideUnoccupied
	}
	if other.ShowNumbered != nil {
		out.ShowNumbered = other.ShowNumbered
	}
	return out
}
