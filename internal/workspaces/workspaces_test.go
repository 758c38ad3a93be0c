package workspaces

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/platform"
)

type fakeObserver struct {
	mu         sync.Mutex
	workspaces []platform.Workspace
	activated  []int
	fns        []func()
}

func (f *fakeObserver) Workspaces() []platform.Workspace {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workspaces
}

func (f *fakeObserver) ActivateWorkspace(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, id)
}

func (f *fakeObserver) OnWorkspacesChanged(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fns = append(f.fns, fn)
	return func() {}
}

func (f *fakeObserver) emit(workspaces ...platform.Workspace) {
	f.mu.Lock()
	f.workspaces = workspaces
	fns := append([]func(){}, f.fns...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func defaults() config.WorkspacesConfig {
	return config.DefaultConfig().Modules.Workspaces
}

func sample() []platform.Workspace {
	return []platform.Workspace{
		{ID: 1, Name: "1", Occupied: true},
		{ID: 2, Name: "2", Active: true},
		{ID: 3, Name: "3"},
		{ID: 4, Name: "4", Occupied: true},
	}
}

func TestBuild_Defaults(t *testing.T) {
	buttons := Build(sample(), defaults())
	require.Len(t, buttons, 4)
	assert.Equal(t, "1", buttons[0].Label)
	assert.True(t, buttons[0].HasLabel)
	assert.Equal(t, []string{"occupied"}, buttons[0].Classes())
	assert.Equal(t, []string{"active", "unoccupied"}, buttons[1].Classes())
}

func TestBuild_Filters(t *testing.T) {
	cfg := defaults()
	cfg.Ignored = []int{1}
	cfg.Count = 3
	buttons := Build(sample(), cfg)
	require.Len(t, buttons, 2)
	assert.Equal(t, 2, buttons[0].ID)
	assert.Equal(t, 3, buttons[1].ID)

	cfg = defaults()
	cfg.HideUnoccupied = true
	ids := []int{}
	for _, b := range Build(sample(), cfg) {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int{1, 4}, ids, "an empty active workspace is hidden too")
}

func TestBuild_Labels(t *testing.T) {
	cfg := defaults()
	cfg.IconMap = map[string]string{"2": "web"}
	cfg.DefaultLabelFormat = "[{id}]"
	buttons := Build(sample(), cfg)
	assert.Equal(t, "[1]", buttons[0].Label)
	assert.Equal(t, "web", buttons[1].Label)

	cfg.ShowNumbered = false
	buttons = Build(sample(), cfg)
	assert.False(t, buttons[0].HasLabel)
	assert.Empty(t, buttons[0].Label)
}

func TestBar_FollowsWorkspaceChanges(t *testing.T) {
	obs := &fakeObserver{workspaces: sample()}
	bar := New(obs, defaults(), nil)
	bar.Start()
	require.Len(t, bar.Buttons(), 4)

	obs.emit(platform.Workspace{ID: 1, Active: true})
	require.Len(t, bar.Buttons(), 1)
	assert.True(t, bar.Buttons()[0].Active)

	obs.emit()
	assert.Empty(t, bar.Buttons())
}

func TestBar_ActivateForwardsStaleIDs(t *testing.T) {
	obs := &fakeObserver{workspaces: sample()}
	bar := New(obs, defaults(), nil)
	bar.Start()

	bar.Activate(2)
	bar.Activate(99)
	assert.Equal(t, []int{2, 99}, obs.activated)
}

func TestBar_ApplyConfig(t *testing.T) {
	obs := &fakeObserver{workspaces: sample()}
	bar := New(obs, defaults(), nil)
	var rebuilds int
	bar.OnRebuild(func([]Button) { rebuilds++ })
	bar.Start()

	cfg := defaults()
	cfg.Count = 1
	bar.ApplyConfig(cfg)
	assert.Len(t, bar.Buttons(), 1)
	assert.Equal(t, 2, rebuilds)
}
