package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
)

// Handler executes commands against the running daemon.
type Handler interface {
	Status() StatusData
	Windows() []WindowInfo
	Workspaces() []WorkspaceInfo
	ActivateWindow(id uint64)
	ActivateWorkspace(id int)
	Dock() DockData
	ActivateGroup(key string) bool
	Pin(appID string) error
	Unpin(appID string) error
	DockMenu(key string) ([]MenuEntry, bool)
	SelectMenu(key string, index int) error
	CloseGroup(key string) (int, bool)
	Launch(appID string) error
	MovePinned(appID string, index int) error
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	handler      Handler
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on socketPath. A stale socket file left
// by a previous daemon is removed.
func NewServer(socketPath string, handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	_ = os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		handler:    handler,
		logger:     logger,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("ipc server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("ipc accept failed", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one JSON line request on conn.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("ipc read failed", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.writeResponse(conn, s.handleCommand(req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal ipc response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Debug("failed to send ipc response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("ipc command", "command", req.Command)

	switch req.Command {
	case CommandReload:
		if err := s.handler.Reload(); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
		}
		return ok(nil)
	case CommandGetStatus:
		return ok(s.handler.Status())
	case CommandListWindows:
		return ok(WindowsData{Windows: nonNil(s.handler.Windows())})
	case CommandListWorkspaces:
		return ok(WorkspacesData{Workspaces: nonNil(s.handler.Workspaces())})
	case CommandActivateWindow:
		var p ActivateWindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.WindowID == 0 {
			return NewErrorResponse("window_id is required")
		}
		s.handler.ActivateWindow(p.WindowID)
		return ok(nil)
	case CommandActivateWorkspace:
		var p ActivateWorkspacePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Workspace < 1 {
			return NewErrorResponse("workspace must be >= 1")
		}
		s.handler.ActivateWorkspace(p.Workspace)
		return ok(nil)
	case CommandListDock:
		dock := s.handler.Dock()
		dock.Items = nonNil(dock.Items)
		dock.Pinned = nonNil(dock.Pinned)
		return ok(dock)
	case CommandActivateGroup:
		var p GroupPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if !s.handler.ActivateGroup(p.Key) {
			return NewErrorResponse(fmt.Sprintf("Unknown dock group: %s", p.Key))
		}
		return ok(nil)
	case CommandDockMenu:
		var p GroupPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		items, found := s.handler.DockMenu(p.Key)
		if !found {
			return NewErrorResponse(fmt.Sprintf("Unknown dock group: %s", p.Key))
		}
		return ok(MenuData{Key: p.Key, Items: nonNil(items)})
	case CommandSelectMenu:
		var p MenuSelectPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Key == "" {
			return NewErrorResponse("key is required")
		}
		if err := s.handler.SelectMenu(p.Key, p.Index); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(nil)
	case CommandCloseGroup:
		var p GroupPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		closed, found := s.handler.CloseGroup(p.Key)
		if !found {
			return NewErrorResponse(fmt.Sprintf("Unknown dock group: %s", p.Key))
		}
		return ok(CloseGroupData{Closed: closed})
	case CommandMovePinned:
		var p MovePinnedPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.AppID == "" {
			return NewErrorResponse("app_id is required")
		}
		if p.Index < 0 {
			return NewErrorResponse("index must be >= 0")
		}
		if err := s.handler.MovePinned(p.AppID, p.Index); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(nil)
	case CommandPin, CommandUnpin, CommandLaunch:
		var p AppPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.AppID == "" {
			return NewErrorResponse("app_id is required")
		}
		op := s.handler.Pin
		switch req.Command {
		case CommandUnpin:
			op = s.handler.Unpin
		case CommandLaunch:
			op = s.handler.Launch
		}
		if err := op(p.AppID); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(nil)
	case CommandListPinned:
		return ok(PinnedData{Apps: nonNil(s.handler.Dock().Pinned)})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	_ = os.Remove(s.socketPath)
}
