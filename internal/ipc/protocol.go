package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload            CommandType = "RELOAD"
	CommandGetStatus         CommandType = "GET_STATUS"
	CommandListWindows       CommandType = "LIST_WINDOWS"
	CommandListWorkspaces    CommandType = "LIST_WORKSPACES"
	CommandActivateWindow    CommandType = "ACTIVATE_WINDOW"
	CommandActivateWorkspace CommandType = "ACTIVATE_WORKSPACE"
	CommandListDock          CommandType = "LIST_DOCK"
	CommandActivateGroup     CommandType = "ACTIVATE_GROUP"
	CommandPin               CommandType = "PIN"
	CommandUnpin             CommandType = "UNPIN"
	CommandListPinned        CommandType = "LIST_PINNED"
	CommandDockMenu          CommandType = "DOCK_MENU"
	CommandSelectMenu        CommandType = "SELECT_MENU"
	CommandCloseGroup        CommandType = "CLOSE_GROUP"
	CommandLaunch            CommandType = "LAUNCH"
	CommandMovePinned        CommandType = "MOVE_PINNED"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Backend        string `json:"backend"`
	State          string `json:"state"`
	WindowCount    int    `json:"window_count"`
	WorkspaceCount int    `json:"workspace_count"`
	PinnedCount    int    `json:"pinned_count"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

// WindowInfo is one window as seen by clients.
type WindowInfo struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	AppID     string `json:"app_id"`
	Active    bool   `json:"active"`
	Workspace int    `json:"workspace,omitempty"`
	Urgent    bool   `json:"urgent,omitempty"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// WorkspaceInfo is one workspace as seen by clients.
type WorkspaceInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Occupied bool   `json:"occupied"`
	Active   bool   `json:"active"`
}

// WorkspacesData represents the data returned by LIST_WORKSPACES
type WorkspacesData struct {
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

// DockItem is one running-app group.
type DockItem struct {
	Key       string   `json:"key"`
	AppID     string   `json:"app_id"`
	Tooltip   string   `json:"tooltip,omitempty"`
	Active    bool     `json:"active"`
	Pinned    bool     `json:"pinned"`
	Count     int      `json:"count"`
	WindowIDs []uint64 `json:"window_ids"`
}

// PinnedApp is one pinned-app entry.
type PinnedApp struct {
	AppID     string `json:"app_id"`
	Name      string `json:"name"`
	Running   bool   `json:"running"`
	Installed bool   `json:"installed"`
}

// DockData represents the data returned by LIST_DOCK
type DockData struct {
	Items    []DockItem  `json:"items"`
	Pinned   []PinnedApp `json:"pinned"`
	Revealed bool        `json:"revealed"`
}

// PinnedData represents the data returned by LIST_PINNED
type PinnedData struct {
	Apps []PinnedApp `json:"apps"`
}

type ActivateWindowPayload struct {
	WindowID uint64 `json:"window_id"`
}

type ActivateWorkspacePayload struct {
	Workspace int `json:"workspace"`
}

// GroupPayload names a dock group for ACTIVATE_GROUP, DOCK_MENU and CLOSE_GROUP.
type GroupPayload struct {
	Key string `json:"key"`
}

// AppPayload carries the app id for PIN, UNPIN and LAUNCH.
type AppPayload struct {
	AppID string `json:"app_id"`
}

// MovePinnedPayload moves a pinned app to Index in the pinned order.
type MovePinnedPayload struct {
	AppID string `json:"app_id"`
	Index int    `json:"index"`
}

// MenuEntry is one line of a dock group's context menu.
type MenuEntry struct {
	Kind     string `json:"kind"`
	Label    string `json:"label,omitempty"`
	WindowID uint64 `json:"window_id,omitempty"`
}

// MenuData represents the data returned by DOCK_MENU
type MenuData struct {
	Key   string      `json:"key"`
	Items []MenuEntry `json:"items"`
}

// MenuSelectPayload picks entry Index of a group's menu.
type MenuSelectPayload struct {
	Key   string `json:"key"`
	Index int    `json:"index"`
}

// CloseGroupData represents the data returned by CLOSE_GROUP
type CloseGroupData struct {
	Closed int `json:"closed"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
