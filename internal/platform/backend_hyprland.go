package platform

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// WaylandFallbackAppID is used when a Wayland client reports no class.
const WaylandFallbackAppID = "wayland"

const (
	hyprRequestSocket = ".socket.sock"
	hyprEventSocket   = ".socket2.sock"
	hyprDialTimeout   = 2 * time.Second
)

// HyprlandBackend reads the window list from Hyprland's IPC sockets. The
// compositor-neutral model used here has no workspace concept, so workspace
// snapshots are always empty and workspace commands are no-ops.
type HyprlandBackend struct {
	dir    string
	logger *slog.Logger
}

var _ Backend = (*HyprlandBackend)(nil)

// hyprClient is the subset of `hyprctl -j clients` we use.
type hyprClient struct {
	Address        string `json:"address"`
	Mapped         bool   `json:"mapped"`
	Hidden         bool   `json:"hidden"`
	Class          string `json:"class"`
	Title          string `json:"title"`
	InitialClass   string `json:"initialClass"`
	FocusHistoryID int    `json:"focusHistoryID"`
}

// HyprlandSocketDir returns the IPC directory of the running Hyprland
// instance, or false when Hyprland is not running.
func HyprlandSocketDir(getenv func(string) string) (string, bool) {
	sig := strings.TrimSpace(getenv("HYPRLAND_INSTANCE_SIGNATURE"))
	if sig == "" {
		return "", false
	}

	var candidates []string
	if runtimeDir := getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		candidates = append(candidates, filepath.Join(runtimeDir, "hypr", sig))
	}
	candidates = append(candidates, filepath.Join("/tmp", "hypr", sig))

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, hyprRequestSocket)); err == nil {
			return dir, true
		}
	}
	return "", false
}

// NewHyprlandBackend creates a backend talking to the sockets in dir.
func NewHyprlandBackend(dir string, logger *slog.Logger) *HyprlandBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &HyprlandBackend{dir: dir, logger: logger}
}

// Name implements Backend.
func (b *HyprlandBackend) Name() string { return "hyprland" }

// Close implements Backend. Requests use short-lived connections.
func (b *HyprlandBackend) Close() {}

// Windows lists mapped, visible clients. Clients with unparseable addresses
// are omitted.
func (b *HyprlandBackend) Windows() ([]Window, error) {
	data, err := b.request("j/clients")
	if err != nil {
		return nil, err
	}
	return parseHyprClients(data, b.logger)
}

// Workspaces is always empty on the Wayland path.
func (b *HyprlandBackend) Workspaces() ([]Workspace, error) { return nil, nil }

// ActivateWorkspace is a no-op on the Wayland path.
func (b *HyprlandBackend) ActivateWorkspace(int) error { return nil }

// ActivateWindow focuses the client if it still exists.
func (b *HyprlandBackend) ActivateWindow(id WindowID) error {
	return b.dispatchIfPresent(id, "focuswindow")
}

// CloseWindow closes the client if it still exists.
func (b *HyprlandBackend) CloseWindow(id WindowID) error {
	return b.dispatchIfPresent(id, "closewindow")
}

// Watch reads the event socket and reports window changes until ctx is done.
func (b *HyprlandBackend) Watch(ctx context.Context, notify func(Change)) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", filepath.Join(b.dir, hyprEventSocket))
	if err != nil {
		return fmt.Errorf("failed to connect to hyprland event socket: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if c := ClassifyHyprlandEvent(scanner.Text()); c != 0 {
			notify(c)
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("hyprland event socket: %w", err)
	}
	return io.EOF
}

// ClassifyHyprlandEvent maps one socket2 line ("event>>data") to a change.
// Hyprland emits both v1 and v2 variants of several events; only the v1
// name is counted so one compositor event yields one notification.
func ClassifyHyprlandEvent(line string) Change {
	name, _, ok := strings.Cut(line, ">>")
	if !ok {
		return 0
	}
	switch name {
	case "openwindow", "closewindow", "activewindow", "windowtitle", "urgent", "movewindow", "minimized":
		return ChangeWindows
	default:
		return 0
	}
}

func (b *HyprlandBackend) dispatchIfPresent(id WindowID, dispatcher string) error {
	windows, err := b.Windows()
	if err != nil {
		return err
	}
	for _, w := range windows {
		if w.ID != id {
			continue
		}
		reply, err := b.request(fmt.Sprintf("dispatch %s address:0x%x", dispatcher, uint64(id)))
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(reply)) != "ok" {
			return fmt.Errorf("hyprland %s: %s", dispatcher, strings.TrimSpace(string(reply)))
		}
		return nil
	}
	return nil
}

func (b *HyprlandBackend) request(cmd string) ([]byte, error) {
	conn, err := net.DialTimeout("unix", filepath.Join(b.dir, hyprRequestSocket), hyprDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to hyprland: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(cmd)); err != nil {
		return nil, fmt.Errorf("failed to send hyprland request: %w", err)
	}
	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read hyprland reply: %w", err)
	}
	return data, nil
}

func parseHyprClients(data []byte, logger *slog.Logger) ([]Window, error) {
	var clients []hyprClient
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse hyprland clients: %w", err)
	}

	windows := make([]Window, 0, len(clients))
	for _, c := range clients {
		if !c.Mapped || c.Hidden {
			continue
		}
		addr, err := strconv.ParseUint(strings.TrimPrefix(c.Address, "0x"), 16, 64)
		if err != nil {
			logger.Debug("skipping hyprland client with bad address", "address", c.Address, "error", err)
			continue
		}
		appID := c.Class
		if appID == "" {
			appID = c.InitialClass
		}
		if appID == "" {
			appID = WaylandFallbackAppID
		}
		windows = append(windows, Window{
			ID:     WindowID(addr),
			Title:  c.Title,
			AppID:  appID,
			Active: c.FocusHistoryID == 0,
		})
	}
	return windows, nil
}
