package wm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/tsumiki/internal/platform"
)

// ErrAlreadyRunning is returned by a second concurrent call to Run.
var ErrAlreadyRunning = errors.New("observer already running")

type callback struct {
	id int
	fn func()
}

// Service aggregates window and workspace state from a platform backend and
// fans change notifications out to subscribers. All notifications are
// delivered from the goroutine executing Run.
type Service struct {
	backend platform.Backend
	logger  *slog.Logger

	state   atomic.Int32
	running atomic.Bool

	mu            sync.Mutex
	nextID        int
	windowSubs    []callback
	workspaceSubs []callback
	chanSubs      map[int]*chanSub
	pending       platform.Change
	wake          chan struct{}
}

// New creates the observer for an already detected backend. Backend
// subscriptions are not set up until Run starts.
func New(backend platform.Backend, mode platform.Mode, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if backend == nil {
		backend = platform.NewNullBackend("")
		mode = platform.ModeDisabled
	}
	s := &Service{
		backend:  backend,
		logger:   logger,
		chanSubs: make(map[int]*chanSub),
		wake:     make(chan struct{}, 1),
	}
	s.setState(StateDetecting)
	s.setState(stateForMode(mode))
	return s
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

func (s *Service) setState(st State) {
	s.state.Store(int32(st))
}

// Backend returns the name of the backend in use.
func (s *Service) Backend() string {
	return s.backend.Name()
}

// Run performs the deferred backend setup on its first iteration and then
// delivers notifications until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	var watchDone chan error
	initialized := false

	s.logger.Info("window observer started", "state", s.State().String(), "backend", s.Backend())
	for {
		if !initialized {
			initialized = true
			watchDone = s.setup(ctx)
			continue
		}

		select {
		case <-ctx.Done():
			s.logger.Info("window observer stopped")
			return nil
		case err := <-watchDone:
			watchDone = nil
			if err != nil && ctx.Err() == nil {
				s.logger.Warn("window backend stopped delivering events", "backend", s.Backend(), "error", err)
			}
		case <-s.wake:
			s.mu.Lock()
			change := s.pending
			s.pending = 0
			s.mu.Unlock()
			s.dispatch(change)
		}
	}
}

// setup starts the backend watch (when the state has one) and emits the
// initial workspaces-changed and windows-changed notifications.
func (s *Service) setup(ctx context.Context) chan error {
	var done chan error
	if s.State().Watching() {
		done = make(chan error, 1)
		go func() {
			done <- s.backend.Watch(ctx, s.queue)
		}()
	}
	s.dispatch(platform.ChangeAll)
	return done
}

// Refresh queues a notification for both snapshots.
func (s *Service) Refresh() {
	s.queue(platform.ChangeAll)
}

// queue merges c into the pending set. Bursts of backend events collapse
// into a single delivery.
func (s *Service) queue(c platform.Change) {
	if c == 0 {
		return
	}
	s.mu.Lock()
	s.pending |= c
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Service) dispatch(c platform.Change) {
	if c == 0 {
		return
	}

	s.mu.Lock()
	var fns []func()
	if c.Has(platform.ChangeWorkspaces) {
		for _, cb := range s.workspaceSubs {
			fns = append(fns, cb.fn)
		}
	}
	if c.Has(platform.ChangeWindows) {
		for _, cb := range s.windowSubs {
			fns = append(fns, cb.fn)
		}
	}
	chans := make([]*chanSub, 0, len(s.chanSubs))
	for _, sub := range s.chanSubs {
		chans = append(chans, sub)
	}
	s.mu.Unlock()

	s.logger.Debug("dispatching change", "change", c.String(), "callbacks", len(fns), "channels", len(chans))
	for _, fn := range fns {
		s.invoke(fn)
	}
	for _, sub := range chans {
		sub.deliver(c)
	}
}

func (s *Service) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("change subscriber panic recovered", "error", r)
		}
	}()
	fn()
}

// Windows returns a fresh window snapshot. Query failures yield an empty
// snapshot.
func (s *Service) Windows() []platform.Window {
	windows, err := s.backend.Windows()
	if err != nil {
		s.logger.Debug("window query failed", "backend", s.Backend(), "error", err)
		return []platform.Window{}
	}
	return NormalizeWindows(windows)
}

// Workspaces returns a fresh workspace snapshot. Query failures yield an
// empty snapshot.
func (s *Service) Workspaces() []platform.Workspace {
	workspaces, err := s.backend.Workspaces()
	if err != nil {
		s.logger.Debug("workspace query failed", "backend", s.Backend(), "error", err)
		return []platform.Workspace{}
	}
	return NormalizeWorkspaces(workspaces)
}

// ActivateWindow focuses a window. Unknown ids are ignored; errors are logged.
func (s *Service) ActivateWindow(id platform.WindowID) {
	if err := s.backend.ActivateWindow(id); err != nil {
		s.logger.Warn("failed to activate window", "window_id", uint64(id), "error", err)
		return
	}
	if s.State().Watching() {
		s.queue(platform.ChangeWindows)
	}
}

// ActivateWorkspace switches to a 1-based workspace. Unknown ids are ignored.
func (s *Service) ActivateWorkspace(id int) {
	if err := s.backend.ActivateWorkspace(id); err != nil {
		s.logger.Warn("failed to activate workspace", "workspace", id, "error", err)
		return
	}
	if s.State().Watching() {
		s.queue(platform.ChangeWorkspaces)
	}
}

// CloseWindow asks a window to close. Unknown ids are ignored.
func (s *Service) CloseWindow(id platform.WindowID) {
	if err := s.backend.CloseWindow(id); err != nil {
		s.logger.Warn("failed to close window", "window_id", uint64(id), "error", err)
	}
}

// OnWindowsChanged registers fn for windows-changed notifications. The
// returned function unregisters it.
func (s *Service) OnWindowsChanged(fn func()) (cancel func()) {
	return s.register(&s.windowSubs, fn)
}

// OnWorkspacesChanged registers fn for workspaces-changed notifications.
func (s *Service) OnWorkspacesChanged(fn func()) (cancel func()) {
	return s.register(&s.workspaceSubs, fn)
}

func (s *Service) register(list *[]callback, fn func()) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	*list = append(*list, callback{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, cb := range *list {
				if cb.id == id {
					*list = append((*list)[:i:i], (*list)[i+1:]...)
					return
				}
			}
		})
	}
}
