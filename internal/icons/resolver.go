package icons

import (
	"fmt"
	"image"
	_ "image/png" // theme icons are PNG
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// themeSizes is the order in which hicolor size directories are tried after
// the exact requested size. Larger sources scale down better.
var themeSizes = []int{256, 128, 96, 64, 48, 32, 24, 22, 16}

type cacheKey struct {
	name string
	size int
}

// Resolver finds icons for application identifiers in the XDG icon theme
// directories. Lookups never fail: unknown identifiers get a placeholder.
type Resolver struct {
	dataDirs []string
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[cacheKey]image.Image
}

// NewResolver searches "<dir>/icons/hicolor" and "<dir>/pixmaps" for each of
// dataDirs, in order.
func NewResolver(dataDirs []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		dataDirs: dataDirs,
		logger:   logger,
		cache:    make(map[cacheKey]image.Image),
	}
}

// Lookup returns an icon for appID scaled to size. It never returns nil.
func (r *Resolver) Lookup(appID string, size int) image.Image {
	return r.LookupIcon(appID, "", size)
}

// LookupIcon prefers iconName (a theme icon name or an absolute file path,
// typically a desktop entry's Icon key) and falls back to appID.
func (r *Resolver) LookupIcon(appID, iconName string, size int) image.Image {
	key := cacheKey{name: appID + "\x00" + iconName, size: size}

	r.mu.Lock()
	if img, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return img
	}
	r.mu.Unlock()

	img := r.resolve(appID, iconName, size)

	r.mu.Lock()
	r.cache[key] = img
	r.mu.Unlock()
	return img
}

// Purge drops cached icons, e.g. after new applications were installed.
func (r *Resolver) Purge() {
	r.mu.Lock()
	r.cache = make(map[cacheKey]image.Image)
	r.mu.Unlock()
}

func (r *Resolver) resolve(appID, iconName string, size int) image.Image {
	if filepath.IsAbs(iconName) {
		img, err := loadImage(iconName)
		if err == nil {
			return ScaleOrKeep(img, size, r.logger)
		}
		r.logger.Debug("icon file unreadable", "path", iconName, "error", err)
	}

	for _, name := range candidateNames(appID, iconName) {
		if path, ok := r.find(name, size); ok {
			img, err := loadImage(path)
			if err != nil {
				r.logger.Debug("icon file unreadable", "path", path, "error", err)
				continue
			}
			return ScaleOrKeep(img, size, r.logger)
		}
	}
	return Placeholder(appID, size)
}

func (r *Resolver) find(name string, size int) (string, bool) {
	sizes := append([]int{size}, themeSizes...)
	for _, dir := range r.dataDirs {
		for _, s := range sizes {
			path := filepath.Join(dir, "icons", "hicolor", fmt.Sprintf("%dx%d", s, s), "apps", name+".png")
			if fileExists(path) {
				return path, true
			}
		}
		path := filepath.Join(dir, "pixmaps", name+".png")
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func candidateNames(appID, iconName string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(n string) {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] || strings.ContainsRune(n, filepath.Separator) {
			return
		}
		seen[n] = true
		names = append(names, n)
	}

	add(strings.TrimSuffix(iconName, ".png"))
	add(appID)
	lower := strings.ToLower(appID)
	add(lower)
	add(strings.ReplaceAll(lower, " ", "-"))
	if i := strings.LastIndexByte(lower, '.'); i >= 0 {
		add(lower[i+1:])
	}
	return names
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
