// Package reconcile holds the full-rebuild strategy shared by the dock,
// taskbar and workspace views: on every notification the rendered container
// is cleared and repopulated from a fresh snapshot.
package reconcile

import (
	"slices"
	"sync"
)

// Container is anything that renders an ordered list of items.
type Container[T any] interface {
	Clear()
	Append(item T)
}

// Stats describes one rebuild.
type Stats struct {
	Removed int
	Added   int
}

// Rebuild clears c and appends items in order. Containers that can swap
// their contents atomically (such as List) do so instead.
func Rebuild[T any](c Container[T], items []T) Stats {
	if r, ok := c.(interface{ Replace([]T) Stats }); ok {
		return r.Replace(items)
	}

	removed := 0
	if l, ok := c.(interface{ Len() int }); ok {
		removed = l.Len()
	}
	c.Clear()
	for _, item := range items {
		c.Append(item)
	}
	return Stats{Removed: removed, Added: len(items)}
}

// List is an in-memory Container safe for concurrent readers. Renderers
// hook in with OnRebuild.
type List[T any] struct {
	mu         sync.RWMutex
	items      []T
	generation uint64
	hooks      []func([]T)
}

var _ Container[int] = (*List[int])(nil)

// Clear empties the list and starts a new generation.
func (l *List[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.generation++
}

// Append adds item to the end of the list.
func (l *List[T]) Append(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
}

// Replace performs Clear plus Append for every item under one lock and then
// runs the OnRebuild hooks with the new contents.
func (l *List[T]) Replace(items []T) Stats {
	l.mu.Lock()
	removed := len(l.items)
	l.items = append([]T(nil), items...)
	l.generation++
	hooks := slices.Clone(l.hooks)
	l.mu.Unlock()

	for _, hook := range hooks {
		hook(l.Items())
	}
	return Stats{Removed: removed, Added: len(items)}
}

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Generation increments on every rebuild.
func (l *List[T]) Generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.generation
}

// OnRebuild registers a hook called after each Replace.
func (l *List[T]) OnRebuild(fn func([]T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, fn)
}
