package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tsumiki/internal/ipc"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := make([]ipc.WindowInfo, 0, len(windows))
	for _, w := range windows {
		if args.AppID != "" && w.AppID != args.AppID {
			continue
		}
		out = append(out, w)
	}
	return nil, ListWindowsOutput{Windows: out}, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	workspaces, err := s.client.ListWorkspaces()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	if workspaces == nil {
		workspaces = []ipc.WorkspaceInfo{}
	}
	return nil, ListWorkspacesOutput{Workspaces: workspaces}, nil
}

func (s *Server) handleActivateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ActivateWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.WindowID == 0 {
		return nil, ActionOutput{}, fmt.Errorf("window_id is required")
	}
	if err := s.client.ActivateWindow(args.WindowID); err != nil {
		return nil, ActionOutput{}, err
	}
	s.logger.Debug("mcp: activate window", "window_id", args.WindowID)
	return nil, ActionOutput{OK: true, Message: fmt.Sprintf("activated window 0x%x", args.WindowID)}, nil
}

func (s *Server) handleActivateWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args ActivateWorkspaceInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Workspace < 1 {
		return nil, ActionOutput{}, fmt.Errorf("workspace must be >= 1, got %d", args.Workspace)
	}
	if err := s.client.ActivateWorkspace(args.Workspace); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Message: fmt.Sprintf("switched to workspace %d", args.Workspace)}, nil
}

func (s *Server) handleListDock(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDockInput) (*mcpsdk.CallToolResult, ListDockOutput, error) {
	dock, err := s.client.ListDock()
	if err != nil {
		return nil, ListDockOutput{}, err
	}
	out := ListDockOutput{
		Items:    dock.Items,
		Pinned:   dock.Pinned,
		Revealed: dock.Revealed,
	}
	if out.Items == nil {
		out.Items = []ipc.DockItem{}
	}
	if out.Pinned == nil {
		out.Pinned = []ipc.PinnedApp{}
	}
	return nil, out, nil
}

func (s *Server) handlePinApp(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	appID := strings.TrimSpace(args.AppID)
	if appID == "" {
		return nil, ActionOutput{}, fmt.Errorf("app_id is required")
	}
	if err := s.client.Pin(appID); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Message: fmt.Sprintf("pinned %s", appID)}, nil
}

func (s *Server) handleUnpinApp(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	appID := strings.TrimSpace(args.AppID)
	if appID == "" {
		return nil, ActionOutput{}, fmt.Errorf("app_id is required")
	}
	if err := s.client.Unpin(appID); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Message: fmt.Sprintf("unpinned %s", appID)}, nil
}

func (s *Server) handleMovePinned(_ context.Context, _ *mcpsdk.CallToolRequest, args MovePinnedInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	appID := strings.TrimSpace(args.AppID)
	if appID == "" {
		return nil, ActionOutput{}, fmt.Errorf("app_id is required")
	}
	if args.Index < 0 {
		return nil, ActionOutput{}, fmt.Errorf("index must be >= 0, got %d", args.Index)
	}
	if err := s.client.MovePinned(appID, args.Index); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Message: fmt.Sprintf("moved %s to position %d", appID, args.Index)}, nil
}

func (s *Server) handleCloseGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args GroupInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Key == "" {
		return nil, ActionOutput{}, fmt.Errorf("key is required")
	}
	n, err := s.client.CloseGroup(args.Key)
	if err != nil {
		return nil, ActionOutput{}, err
	}
	s.logger.Debug("mcp: close group", "key", args.Key, "windows", n)
	return nil, ActionOutput{OK: true, Message: fmt.Sprintf("closed %d windows of %s", n, args.Key)}, nil
}

func (s *Server) handleLaunchApp(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	appID := strings.TrimSpace(args.AppID)
	if appID == "" {
		return nil, ActionOutput{}, fmt.Errorf("app_id is required")
	}
	if err := s.client.Launch(appID); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Message: fmt.Sprintf("launched %s", appID)}, nil
}
