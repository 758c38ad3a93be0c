package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/adrg/xdg"
)

// AppName is used for every per-user directory and file name.
const AppName = "tsumiki"

type baseDirs struct {
	dataHome   string
	dataDirs   []string
	configHome string
	runtimeDir string
}

var envMu sync.Mutex

// current re-reads the XDG environment, so later Setenv calls are honoured.
func current() baseDirs {
	envMu.Lock()
	defer envMu.Unlock()
	xdg.Reload()
	return baseDirs{
		dataHome:   xdg.DataHome,
		dataDirs:   slices.Clone(xdg.DataDirs),
		configHome: xdg.ConfigHome,
		runtimeDir: xdg.RuntimeDir,
	}
}

// Dir returns the runtime directory used for the daemon IPC socket.
// Priority:
// 1) XDG_RUNTIME_DIR, or /run/user/<uid> when unset (if present)
// 2) /tmp/tsumiki-runtime-<uid> (created)
func Dir() (string, error) {
	if dir := current().runtimeDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}

	tmpDir := fmt.Sprintf("/tmp/%s-runtime-%d", AppName, os.Getuid())
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, AppName+".sock"), nil
}

// ConfigDir returns $XDG_CONFIG_HOME/tsumiki, falling back to ~/.config.
func ConfigDir() (string, error) {
	home := current().configHome
	if home == "" {
		return "", fmt.Errorf("failed to resolve config dir: no home directory")
	}
	return filepath.Join(home, AppName), nil
}

// DataDirs returns the XDG data directories in lookup order: the user data
// home first, then XDG_DATA_DIRS.
func DataDirs() []string {
	b := current()
	dirs := make([]string, 0, len(b.dataDirs)+1)
	if b.dataHome != "" {
		dirs = append(dirs, b.dataHome)
	}
	for _, dir := range b.dataDirs {
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
