package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tsumiki/internal/ipc"
)

type fakeClient struct {
	windows     []ipc.WindowInfo
	workspaces  []ipc.WorkspaceInfo
	dock        *ipc.DockData
	activated   []uint64
	activatedWS []int
	pinned      []string
	unpinned    []string
	closed      []string
	launched    []string
	moved       []string
	err         error
}

func (f *fakeClient) ListWindows() ([]ipc.WindowInfo, error)       { return f.windows, f.err }
func (f *fakeClient) ListWorkspaces() ([]ipc.WorkspaceInfo, error) { return f.workspaces, f.err }
func (f *fakeClient) ListDock() (*ipc.DockData, error)             { return f.dock, f.err }

func (f *fakeClient) ActivateWindow(id uint64) error {
	f.activated = append(f.activated, id)
	return f.err
}

func (f *fakeClient) ActivateWorkspace(id int) error {
	f.activatedWS = append(f.activatedWS, id)
	return f.err
}

func (f *fakeClient) Pin(appID string) error {
	f.pinned = append(f.pinned, appID)
	return f.err
}

func (f *fakeClient) Unpin(appID string) error {
	f.unpinned = append(f.unpinned, appID)
	return f.err
}

func (f *fakeClient) CloseGroup(key string) (int, error) {
	f.closed = append(f.closed, key)
	return 2, f.err
}

func (f *fakeClient) Launch(appID string) error {
	f.launched = append(f.launched, appID)
	return f.err
}

func (f *fakeClient) MovePinned(appID string, index int) error {
	f.moved = append(f.moved, fmt.Sprintf("%s@%d", appID, index))
	return f.err
}

func TestHandleListWindows_FiltersByApp(t *testing.T) {
	client := &fakeClient{windows: []ipc.WindowInfo{
		{ID: 1, AppID: "kitty"},
		{ID: 2, AppID: "firefox"},
		{ID: 3, AppID: "kitty"},
	}}
	s := NewServer(client, nil)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{AppID: "kitty"})
	if err != nil {
		t.Fatalf("handleListWindows: %v", err)
	}
	if len(out.Windows) != 2 || out.Windows[0].ID != 1 || out.Windows[1].ID != 3 {
		t.Fatalf("unexpected windows: %+v", out.Windows)
	}

	_, out, _ = s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if len(out.Windows) != 3 {
		t.Fatalf("expected all windows, got %d", len(out.Windows))
	}
}

func TestHandleListWorkspaces_EmptyIsNotNil(t *testing.T) {
	s := NewServer(&fakeClient{}, nil)
	_, out, err := s.handleListWorkspaces(context.Background(), nil, ListWorkspacesInput{})
	if err != nil {
		t.Fatalf("handleListWorkspaces: %v", err)
	}
	if out.Workspaces == nil {
		t.Fatal("expected empty, non-nil workspaces")
	}
}

func TestHandleActivate_Validation(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client, nil)
	ctx := context.Background()

	if _, _, err := s.handleActivateWindow(ctx, nil, ActivateWindowInput{}); err == nil {
		t.Error("expected error for missing window_id")
	}
	if _, _, err := s.handleActivateWorkspace(ctx, nil, ActivateWorkspaceInput{Workspace: 0}); err == nil {
		t.Error("expected error for workspace 0")
	}

	_, out, err := s.handleActivateWindow(ctx, nil, ActivateWindowInput{WindowID: 0x2a})
	if err != nil || !out.OK {
		t.Fatalf("activate window: out=%+v err=%v", out, err)
	}
	if out.Message != "activated window 0x2a" {
		t.Errorf("message = %q", out.Message)
	}
	if _, _, err := s.handleActivateWorkspace(ctx, nil, ActivateWorkspaceInput{Workspace: 4}); err != nil {
		t.Fatalf("activate workspace: %v", err)
	}

	if len(client.activated) != 1 || client.activated[0] != 0x2a {
		t.Errorf("activated = %v", client.activated)
	}
	if len(client.activatedWS) != 1 || client.activatedWS[0] != 4 {
		t.Errorf("activatedWS = %v", client.activatedWS)
	}
}

func TestHandlePinUnpin(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client, nil)
	ctx := context.Background()

	if _, _, err := s.handlePinApp(ctx, nil, AppInput{AppID: "  "}); err == nil {
		t.Error("expected error for blank app_id")
	}
	if _, _, err := s.handlePinApp(ctx, nil, AppInput{AppID: " firefox "}); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if _, _, err := s.handleUnpinApp(ctx, nil, AppInput{AppID: "firefox"}); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	if len(client.pinned) != 1 || client.pinned[0] != "firefox" {
		t.Errorf("pinned = %v", client.pinned)
	}
	if len(client.unpinned) != 1 {
		t.Errorf("unpinned = %v", client.unpinned)
	}
}

func TestHandleGroupAndLaunchTools(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client, nil)
	ctx := context.Background()

	if _, _, err := s.handleCloseGroup(ctx, nil, GroupInput{}); err == nil {
		t.Error("expected error for missing key")
	}
	_, out, err := s.handleCloseGroup(ctx, nil, GroupInput{Key: "kitty"})
	if err != nil {
		t.Fatalf("close_group: %v", err)
	}
	if out.Message != "closed 2 windows of kitty" {
		t.Errorf("message = %q", out.Message)
	}

	if _, _, err := s.handleLaunchApp(ctx, nil, AppInput{AppID: ""}); err == nil {
		t.Error("expected error for blank app_id")
	}
	if _, _, err := s.handleLaunchApp(ctx, nil, AppInput{AppID: "firefox"}); err != nil {
		t.Fatalf("launch_app: %v", err)
	}

	if _, _, err := s.handleMovePinned(ctx, nil, MovePinnedInput{AppID: "firefox", Index: -1}); err == nil {
		t.Error("expected error for negative index")
	}
	if _, _, err := s.handleMovePinned(ctx, nil, MovePinnedInput{AppID: "firefox", Index: 2}); err != nil {
		t.Fatalf("move_pinned: %v", err)
	}

	if len(client.closed) != 1 || client.closed[0] != "kitty" {
		t.Errorf("closed = %v", client.closed)
	}
	if len(client.launched) != 1 || client.launched[0] != "firefox" {
		t.Errorf("launched = %v", client.launched)
	}
	if len(client.moved) != 1 || client.moved[0] != "firefox@2" {
		t.Errorf("moved = %v", client.moved)
	}
}

func TestHandlers_PropagateDaemonErrors(t *testing.T) {
	s := NewServer(&fakeClient{err: errors.New("daemon error: not running")}, nil)
	ctx := context.Background()

	if _, _, err := s.handleListDock(ctx, nil, ListDockInput{}); err == nil {
		t.Error("list_dock: expected error")
	}
	if _, _, err := s.handlePinApp(ctx, nil, AppInput{AppID: "x"}); err == nil {
		t.Error("pin_app: expected error")
	}
}

func TestServer_ToolsOverTransport(t *testing.T) {
	client := &fakeClient{dock: &ipc.DockData{
		Items:    []ipc.DockItem{{Key: "kitty", AppID: "kitty", Count: 2, WindowIDs: []uint64{1, 2}}},
		Revealed: true,
	}}
	s := NewServer(client, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	if _, err := s.Connect(ctx, serverTransport); err != nil {
		t.Fatalf("server connect: %v", err)
	}

	c := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	want := map[string]bool{
		"list_windows": false, "list_workspaces": false, "activate_window": false,
		"activate_workspace": false, "list_dock": false, "pin_app": false, "unpin_app": false,
		"move_pinned": false, "close_group": false, "launch_app": false,
	}
	for _, tool := range tools.Tools {
		want[tool.Name] = true
	}
	for name, found := range want {
		if !found {
			t.Errorf("tool %s not registered", name)
		}
	}

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: "list_dock", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call list_dock: %v", err)
	}
	if res.IsError {
		t.Fatalf("list_dock returned tool error: %+v", res.Content)
	}
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out ListDockOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode list_dock output: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].Key != "kitty" || !out.Revealed {
		t.Errorf("unexpected dock output: %+v", out)
	}

	res, err = session.CallTool(ctx, &mcpsdk.CallToolParams{Name: "pin_app", Arguments: map[string]any{"app_id": "firefox"}})
	if err != nil {
		t.Fatalf("call pin_app: %v", err)
	}
	if res.IsError || len(client.pinned) != 1 {
		t.Errorf("pin_app: isError=%v pinned=%v", res.IsError, client.pinned)
	}
}
