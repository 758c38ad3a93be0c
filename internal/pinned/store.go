// Package pinned persists the ordered list of application identifiers pinned
// to the dock. The file is a JSON array of strings, read once when the store
// is opened and rewritten in full on every mutation.
package pinned

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/1broseidon/tsumiki/internal/runtimepath"
)

// FileName is the store file inside the config directory.
const FileName = "pinned_apps.json"

// Store is the pinned-apps list. It is safe for concurrent use.
type Store struct {
	path string

	mu   sync.Mutex
	apps []string
}

// DefaultPath returns $XDG_CONFIG_HOME/tsumiki/pinned_apps.json.
func DefaultPath() (string, error) {
	dir, err := runtimepath.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Open loads the store at path. A missing file is an empty list.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pinned apps %q: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}

	var apps []string
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("failed to parse pinned apps %q: %w", path, err)
	}
	for _, app := range apps {
		if app = strings.TrimSpace(app); app != "" && !slices.Contains(s.apps, app) {
			s.apps = append(s.apps, app)
		}
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// List returns the pinned identifiers in order.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.apps)
}

// Contains reports whether appID is pinned.
func (s *Store) Contains(appID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.apps, appID)
}

// Pin appends appID. It reports whether the list changed.
func (s *Store) Pin(appID string) (bool, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return false, fmt.Errorf("app id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.apps, appID) {
		return false, nil
	}
	return true, s.commit(append(slices.Clone(s.apps), appID))
}

// Unpin removes appID. It reports whether the list changed.
func (s *Store) Unpin(appID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.apps, appID)
	if i < 0 {
		return false, nil
	}
	return true, s.commit(slices.Delete(slices.Clone(s.apps), i, i+1))
}

// Move places appID at index, clamped to the list bounds.
func (s *Store) Move(appID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.apps, appID)
	if i < 0 {
		return fmt.Errorf("app %q is not pinned", appID)
	}

	next := slices.Delete(slices.Clone(s.apps), i, i+1)
	index = max(0, min(index, len(next)))
	next = slices.Insert(next, index, appID)
	if slices.Equal(next, s.apps) {
		return nil
	}
	return s.commit(next)
}

// commit writes apps to disk and, only on success, makes it the in-memory
// list. Callers hold s.mu.
func (s *Store) commit(apps []string) error {
	if err := writeFile(s.path, apps); err != nil {
		return err
	}
	s.apps = apps
	return nil
}

func writeFile(path string, apps []string) error {
	if apps == nil {
		apps = []string{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create pinned apps directory: %w", err)
	}

	data, err := json.MarshalIndent(apps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode pinned apps: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write pinned apps %q: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize pinned apps %q: %w", path, err)
	}
	return nil
}
