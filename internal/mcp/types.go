package mcp

import "github.com/1broseidon/tsumiki/internal/ipc"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	AppID string `json:"app_id,omitempty" jsonschema:"Only list windows of this application (case-sensitive app id)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// ListWorkspacesInput is the input for the list_workspaces tool.
type ListWorkspacesInput struct{}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []ipc.WorkspaceInfo `json:"workspaces"`
}

// ActivateWindowInput is the input for the activate_window tool.
type ActivateWindowInput struct {
	WindowID uint64 `json:"window_id" jsonschema:"Window id as returned by list_windows"`
}

// ActivateWorkspaceInput is the input for the activate_workspace tool.
type ActivateWorkspaceInput struct {
	Workspace int `json:"workspace" jsonschema:"1-based workspace number"`
}

// ListDockInput is the input for the list_dock tool.
type ListDockInput struct{}

// ListDockOutput is the output for the list_dock tool.
type ListDockOutput struct {
	Items    []ipc.DockItem  `json:"items"`
	Pinned   []ipc.PinnedApp `json:"pinned"`
	Revealed bool            `json:"revealed"`
}

// AppInput is the input for pin_app and unpin_app.
type AppInput struct {
	AppID string `json:"app_id" jsonschema:"Application id (window class or desktop entry id)"`
}

// MovePinnedInput is the input for the move_pinned tool.
type MovePinnedInput struct {
	AppID string `json:"app_id" jsonschema:"Pinned application id"`
	Index int    `json:"index" jsonschema:"0-based target position; larger values move to the end"`
}

// GroupInput is the input for the close_group tool.
type GroupInput struct {
	Key string `json:"key" jsonschema:"Dock group key as returned by list_dock"`
}

// ActionOutput reports the outcome of a command tool.
type ActionOutput struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
