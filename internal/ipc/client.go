package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tsumiki/internal/runtimepath"
)

// DefaultTimeout bounds a whole request/response exchange.
const DefaultTimeout = 5 * time.Second

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default daemon socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    DefaultTimeout,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(command CommandType, payload interface{}) (*Response, error) {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) query(command CommandType, out interface{}) error {
	resp, err := c.sendRequest(command, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(CommandReload, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.query(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows retrieves the current window snapshot.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.query(CommandListWindows, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// ListWorkspaces retrieves the current workspace snapshot.
func (c *Client) ListWorkspaces() ([]WorkspaceInfo, error) {
	var data WorkspacesData
	if err := c.query(CommandListWorkspaces, &data); err != nil {
		return nil, err
	}
	return data.Workspaces, nil
}

// ActivateWindow asks the daemon to focus a window.
func (c *Client) ActivateWindow(id uint64) error {
	_, err := c.sendRequest(CommandActivateWindow, ActivateWindowPayload{WindowID: id})
	return err
}

// ActivateWorkspace asks the daemon to switch workspaces.
func (c *Client) ActivateWorkspace(id int) error {
	_, err := c.sendRequest(CommandActivateWorkspace, ActivateWorkspacePayload{Workspace: id})
	return err
}

// ListDock retrieves the dock model.
func (c *Client) ListDock() (*DockData, error) {
	var data DockData
	if err := c.query(CommandListDock, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ActivateGroup cycles the windows of a dock group.
func (c *Client) ActivateGroup(key string) error {
	_, err := c.sendRequest(CommandActivateGroup, GroupPayload{Key: key})
	return err
}

// Pin adds an app to the dock's pinned section.
func (c *Client) Pin(appID string) error {
	_, err := c.sendRequest(CommandPin, AppPayload{AppID: appID})
	return err
}

// Unpin removes an app from the dock's pinned section.
func (c *Client) Unpin(appID string) error {
	_, err := c.sendRequest(CommandUnpin, AppPayload{AppID: appID})
	return err
}

// DockMenu retrieves the context menu of a dock group.
func (c *Client) DockMenu(key string) ([]MenuEntry, error) {
	resp, err := c.sendRequest(CommandDockMenu, GroupPayload{Key: key})
	if err != nil {
		return nil, err
	}
	var data MenuData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", CommandDockMenu, err)
	}
	return data.Items, nil
}

// SelectMenu runs entry index of a dock group's menu.
func (c *Client) SelectMenu(key string, index int) error {
	_, err := c.sendRequest(CommandSelectMenu, MenuSelectPayload{Key: key, Index: index})
	return err
}

// CloseGroup closes every window of a dock group and returns how many
// close requests the daemon sent.
func (c *Client) CloseGroup(key string) (int, error) {
	resp, err := c.sendRequest(CommandCloseGroup, GroupPayload{Key: key})
	if err != nil {
		return 0, err
	}
	var data CloseGroupData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse %s data: %w", CommandCloseGroup, err)
	}
	return data.Closed, nil
}

// Launch starts a new instance of an installed app.
func (c *Client) Launch(appID string) error {
	_, err := c.sendRequest(CommandLaunch, AppPayload{AppID: appID})
	return err
}

// MovePinned moves a pinned app to index in the pinned order.
func (c *Client) MovePinned(appID string, index int) error {
	_, err := c.sendRequest(CommandMovePinned, MovePinnedPayload{AppID: appID, Index: index})
	return err
}

// ListPinned retrieves the pinned apps.
func (c *Client) ListPinned() ([]PinnedApp, error) {
	var data PinnedData
	if err := c.query(CommandListPinned, &data); err != nil {
		return nil, err
	}
	return data.Apps, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
