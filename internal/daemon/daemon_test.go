package daemon

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/ipc"
	"github.com/1broseidon/tsumiki/internal/platform"
)

type fakeBackend struct {
	mu        sync.Mutex
	windows   []platform.Window
	activated []platform.WindowID
	closed    []platform.WindowID
	desktops  []int
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Close()       {}

func (f *fakeBackend) Windows() ([]platform.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.Window(nil), f.windows...), nil
}

func (f *fakeBackend) Workspaces() ([]platform.Workspace, error) {
	return []platform.Workspace{
		{ID: 1, Name: "1", Active: true, Occupied: true},
		{ID: 2, Name: "2"},
	}, nil
}

func (f *fakeBackend) ActivateWindow(id platform.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, id)
	return nil
}

func (f *fakeBackend) ActivateWorkspace(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.desktops = append(f.desktops, id)
	return nil
}

func (f *fakeBackend) CloseWindow(id platform.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeBackend) Watch(ctx context.Context, _ func(platform.Change)) error {
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeBackend) snapshot() (activated, closed []platform.WindowID, desktops []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append(activated, f.activated...), append(closed, f.closed...), append(desktops, f.desktops...)
}

func startDaemon(t *testing.T, backend *fakeBackend) (*Daemon, *ipc.Client) {
	t.Helper()

	// Unix socket paths are length-limited; keep them out of t.TempDir.
	sockDir, err := os.MkdirTemp("", "tsumiki")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(sockDir) })

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.PinnedFile = filepath.Join(dir, "pinned_apps.json")

	d, err := New(cfg, Options{
		ConfigPath: filepath.Join(dir, "config.yaml"),
		SocketPath: filepath.Join(sockDir, "d.sock"),
		DataDirs:   []string{},
		Backend:    backend,
		Mode:       platform.ModeX11,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("daemon did not stop")
		}
	})

	client := ipc.NewClientWithSocket(filepath.Join(sockDir, "d.sock"))
	require.Eventually(t, func() bool { return client.Ping() == nil }, 2*time.Second, 10*time.Millisecond)
	return d, client
}

func TestDaemon_ServesSnapshots(t *testing.T) {
	backend := &fakeBackend{windows: []platform.Window{
		{ID: 10, AppID: "kitty", Title: "~", Active: true, Workspace: 1},
		{ID: 11, AppID: "kitty", Title: "vim", Workspace: 1},
		{ID: 12, AppID: "firefox", Title: "web", Workspace: 2},
	}}
	_, client := startDaemon(t, backend)

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "fake", status.Backend)
	assert.Equal(t, "x11-watching", status.State)
	assert.Equal(t, 3, status.WindowCount)
	assert.Equal(t, 2, status.WorkspaceCount)
	assert.True(t, status.DaemonRunning)
	assert.GreaterOrEqual(t, status.UptimeSeconds, int64(0))

	windows, err := client.ListWindows()
	require.NoError(t, err)
	require.Len(t, windows, 3)
	assert.Equal(t, uint64(10), windows[0].ID)

	workspaces, err := client.ListWorkspaces()
	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	assert.Equal(t, "1", workspaces[0].Label)

	require.Eventually(t, func() bool {
		dock, err := client.ListDock()
		return err == nil && len(dock.Items) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDaemon_Commands(t *testing.T) {
	backend := &fakeBackend{windows: []platform.Window{
		{ID: 10, AppID: "kitty", Active: true},
		{ID: 11, AppID: "kitty"},
	}}
	d, client := startDaemon(t, backend)

	require.NoError(t, client.ActivateWindow(11))
	require.NoError(t, client.ActivateWorkspace(2))
	require.NoError(t, client.ActivateGroup("kitty"))
	assert.Error(t, client.ActivateGroup("nothing"))
	assert.True(t, d.CloseActive())

	activated, closed, desktops := backend.snapshot()
	assert.Equal(t, []platform.WindowID{11, 11}, activated)
	assert.Equal(t, []platform.WindowID{10}, closed)
	assert.Equal(t, []int{2}, desktops)
}

func TestDaemon_GroupMenuAndClose(t *testing.T) {
	backend := &fakeBackend{windows: []platform.Window{
		{ID: 10, AppID: "kitty", Title: "~", Active: true},
		{ID: 11, AppID: "kitty", Title: "vim"},
	}}
	_, client := startDaemon(t, backend)

	require.Eventually(t, func() bool {
		dock, err := client.ListDock()
		return err == nil && len(dock.Items) == 1
	}, time.Second, 10*time.Millisecond)

	menu, err := client.DockMenu("kitty")
	require.NoError(t, err)
	kinds := make([]string, len(menu))
	for i, e := range menu {
		kinds[i] = e.Kind
	}
	assert.Equal(t, []string{"window", "window", "separator", "close_all", "pin"}, kinds)
	assert.Equal(t, uint64(11), menu[1].WindowID)

	require.NoError(t, client.SelectMenu("kitty", 1))
	assert.Error(t, client.SelectMenu("kitty", 2), "separator")
	assert.Error(t, client.SelectMenu("kitty", 9))
	require.NoError(t, client.SelectMenu("kitty", 4))

	pinned, err := client.ListPinned()
	require.NoError(t, err)
	require.Len(t, pinned, 1)
	assert.Equal(t, "kitty", pinned[0].AppID)

	closed, err := client.CloseGroup("kitty")
	require.NoError(t, err)
	assert.Equal(t, 2, closed)
	_, err = client.CloseGroup("nothing")
	assert.Error(t, err)

	err = client.Launch("kitty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no installed application")

	activated, closedIDs, _ := backend.snapshot()
	assert.Equal(t, []platform.WindowID{11}, activated)
	assert.Equal(t, []platform.WindowID{10, 11}, closedIDs)
}

func TestDaemon_MovePinned(t *testing.T) {
	_, client := startDaemon(t, &fakeBackend{})

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, client.Pin(id))
	}
	require.NoError(t, client.MovePinned("c", 0))

	pinned, err := client.ListPinned()
	require.NoError(t, err)
	ids := make([]string, len(pinned))
	for i, p := range pinned {
		ids[i] = p.AppID
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Error(t, client.MovePinned("zzz", 0))
}

func TestDaemon_PinPersists(t *testing.T) {
	d, client := startDaemon(t, &fakeBackend{})

	require.NoError(t, client.Pin("firefox"))
	pinned, err := client.ListPinned()
	require.NoError(t, err)
	require.Len(t, pinned, 1)
	assert.Equal(t, "firefox", pinned[0].AppID)
	assert.False(t, pinned[0].Installed)

	data, err := os.ReadFile(d.Config().PinnedFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "firefox")

	require.NoError(t, client.Unpin("firefox"))
	pinned, err = client.ListPinned()
	require.NoError(t, err)
	assert.Empty(t, pinned)
}

func TestDaemon_Reload(t *testing.T) {
	d, client := startDaemon(t, &fakeBackend{})

	err := os.WriteFile(d.opts.ConfigPath, []byte("modules:\n  workspaces:\n    default_label_format: \"<{id}>\"\n"), 0o644)
	require.NoError(t, err)
	require.NoError(t, client.Reload())

	assert.Equal(t, "<{id}>", d.Config().Modules.Workspaces.DefaultLabelFormat)
	workspaces, err := client.ListWorkspaces()
	require.NoError(t, err)
	assert.Equal(t, "<1>", workspaces[0].Label)

	require.NoError(t, os.WriteFile(d.opts.ConfigPath, []byte("bogus: true\n"), 0o644))
	assert.Error(t, client.Reload())
	assert.Equal(t, "<{id}>", d.Config().Modules.Workspaces.DefaultLabelFormat)
}

func TestRescanner_RecoversPanics(t *testing.T) {
	calls := 0
	r := NewRescanner(0, func() {
		calls++
		panic("boom")
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotPanics(t, r.RescanNow)
	assert.Equal(t, 1, calls)
	assert.Equal(t, DefaultRescanInterval, r.interval)
}

func TestSetLevel(t *testing.T) {
	var v slog.LevelVar
	setLevel(&v, "debug")
	assert.Equal(t, slog.LevelDebug, v.Level())
	setLevel(&v, "nonsense")
	assert.Equal(t, slog.LevelDebug, v.Level())
	setLevel(nil, "warn")
}
