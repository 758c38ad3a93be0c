package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tsumiki/internal/ipc"
)

const (
	ServerName    = "tsumiki"
	ServerVersion = "0.1.0"
)

// DaemonClient is the daemon API the tools call; *ipc.Client implements it.
type DaemonClient interface {
	ListWindows() ([]ipc.WindowInfo, error)
	ListWorkspaces() ([]ipc.WorkspaceInfo, error)
	ActivateWindow(id uint64) error
	ActivateWorkspace(id int) error
	ListDock() (*ipc.DockData, error)
	Pin(appID string) error
	Unpin(appID string) error
	CloseGroup(key string) (int, error)
	Launch(appID string) error
	MovePinned(appID string, index int) error
}

var _ DaemonClient = (*ipc.Client)(nil)

// Server is the MCP server exposing window, workspace and dock tools.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DaemonClient
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards tool calls to the daemon.
func NewServer(client DaemonClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{client: client, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect serves a single session on t.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows in stacking order with their id, title, application id, focus state and 1-based workspace (0 when unknown).",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List workspaces with their id, name, label, occupancy and which one is active. Always empty on Wayland sessions.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Focus a window by id. Ids of windows that have since closed are ignored.",
	}, s.handleActivateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_workspace",
		Description: "Switch to a workspace by its 1-based number. Unknown workspaces are ignored.",
	}, s.handleActivateWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_dock",
		Description: "Show the dock: running application groups (with window ids) and pinned applications.",
	}, s.handleListDock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "pin_app",
		Description: "Pin an application to the dock. The pinned list is saved immediately.",
	}, s.handlePinApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unpin_app",
		Description: "Remove an application from the dock's pinned list.",
	}, s.handleUnpinApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_pinned",
		Description: "Move a pinned application to a 0-based position in the pinned list.",
	}, s.handleMovePinned)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_group",
		Description: "Close every window of a dock group. The key comes from list_dock.",
	}, s.handleCloseGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_app",
		Description: "Start a new instance of an installed application.",
	}, s.handleLaunchApp)
}
