package apps

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
)

// Index is a set of desktop entries searchable by app identifier.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewIndex builds an index over entries. Earlier entries win when ids clash.
func NewIndex(entries []Entry) *Index {
	idx := &Index{}
	idx.set(entries)
	return idx
}

// Load scans "<dir>/applications" for every data dir. Directories listed
// first take precedence, matching XDG lookup order.
func Load(dataDirs []string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return NewIndex(scan(dataDirs, logger))
}

// Reload rescans dataDirs, replacing the indexed entries.
func (idx *Index) Reload(dataDirs []string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	idx.set(scan(dataDirs, logger))
}

func (idx *Index) set(entries []Entry) {
	seen := make(map[string]bool, len(entries))
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		kept = append(kept, e)
	}

	idx.mu.Lock()
	idx.entries = kept
	idx.mu.Unlock()
}

func scan(dataDirs []string, logger *slog.Logger) []Entry {
	var entries []Entry
	for _, dir := range dataDirs {
		root := filepath.Join(dir, "applications")
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".desktop") {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			id := strings.TrimSuffix(strings.ReplaceAll(rel, string(filepath.Separator), "-"), ".desktop")

			entry, ok, err := parseFile(id, path)
			if err != nil {
				logger.Debug("skipping desktop entry", "path", path, "error", err)
				return nil
			}
			if ok {
				entries = append(entries, entry)
			}
			return nil
		})
	}
	logger.Debug("indexed desktop entries", "count", len(entries))
	return entries
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Entries returns a copy of all indexed entries.
func (idx *Index) Entries() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]Entry(nil), idx.entries...)
}

// Find resolves a window app identifier (usually a WM_CLASS) to an entry.
// Matching is case-insensitive and tries, in order: StartupWMClass, desktop
// id, the last dot-separated id segment, Name, and the executable name.
func (idx *Index) Find(appID string) (Entry, bool) {
	want := strings.ToLower(strings.TrimSpace(appID))
	if want == "" {
		return Entry{}, false
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	matchers := []func(Entry) string{
		func(e Entry) string { return e.StartupWMClass },
		func(e Entry) string { return e.ID },
		func(e Entry) string {
			if i := strings.LastIndexByte(e.ID, '.'); i >= 0 {
				return e.ID[i+1:]
			}
			return ""
		},
		func(e Entry) string { return e.Name },
		func(e Entry) string { return e.Executable() },
	}
	for _, key := range matchers {
		for _, e := range idx.entries {
			if k := key(e); k != "" && strings.ToLower(k) == want {
				return e, true
			}
		}
	}
	return Entry{}, false
}
