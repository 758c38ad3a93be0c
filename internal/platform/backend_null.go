package platform

import "context"

// NullBackend is used when no windowing integration is available. Snapshots
// are empty and commands do nothing.
type NullBackend struct {
	name string
}

var _ Backend = (*NullBackend)(nil)

// NewNullBackend returns a backend reporting the given name ("null" if empty).
func NewNullBackend(name string) *NullBackend {
	if name == "" {
		name = "null"
	}
	return &NullBackend{name: name}
}

func (b *NullBackend) Name() string                     { return b.name }
func (b *NullBackend) Windows() ([]Window, error)       { return nil, nil }
func (b *NullBackend) Workspaces() ([]Workspace, error) { return nil, nil }
func (b *NullBackend) ActivateWindow(WindowID) error    { return nil }
func (b *NullBackend) ActivateWorkspace(int) error      { return nil }
func (b *NullBackend) CloseWindow(WindowID) error       { return nil }
func (b *NullBackend) Close()                           {}

// Watch blocks until ctx is done; a null backend never changes.
func (b *NullBackend) Watch(ctx context.Context, _ func(Change)) error {
	<-ctx.Done()
	return ctx.Err()
}
