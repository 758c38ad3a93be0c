package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tsumiki/internal/config"
	"github.com/1broseidon/tsumiki/internal/platform"
)

// ErrNoX11 is returned when the backend does not expose an X11 connection.
var ErrNoX11 = errors.New("global hotkeys require an X11 backend")

// Actions is what hotkeys can trigger.
type Actions interface {
	ActivateWorkspace(id int)
	// CycleActive focuses the next window of the focused app.
	CycleActive() bool
	// CloseActive closes the focused window.
	CloseActive() bool
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *slog.Logger

	mu    sync.Mutex
	bound int
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. It fails with ErrNoX11 when the
// backend is not X11.
func NewHandler(backend platform.Backend, actions Actions, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, ErrNoX11
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    accessor.RootWindow(),
		actions: actions,
		logger:  logger,
	}, nil
}

// Bind replaces every registered hotkey with bindings. Invalid bindings are
// skipped and reported together; the valid ones stay registered.
func (h *Handler) Bind(bindings []config.HotkeyBinding) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bound > 0 {
		keybind.Detach(h.xu, h.root)
		h.bound = 0
	}

	var errs []error
	for _, b := range bindings {
		action, err := config.ParseAction(b.Action)
		if err != nil {
			errs = append(errs, fmt.Errorf("hotkey %q: %w", b.Keys, err))
			continue
		}
		if err := h.RegisterFunc(b.Keys, actionFunc(action, h.actions, h.logger)); err != nil {
			errs = append(errs, fmt.Errorf("hotkey %q: %w", b.Keys, err))
			continue
		}
		h.bound++
	}
	h.logger.Info("hotkeys registered", "count", h.bound)
	return errors.Join(errs...)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func actionFunc(action config.HotkeyAction, actions Actions, logger *slog.Logger) func() {
	switch action.Kind {
	case config.ActionWorkspace:
		id := action.Workspace
		return func() {
			logger.Debug("hotkey: switch workspace", "workspace", id)
			actions.ActivateWorkspace(id)
		}
	case config.ActionCycle:
		return func() {
			if !actions.CycleActive() {
				logger.Debug("hotkey: no focused app to cycle")
			}
		}
	case config.ActionClose:
		return func() {
			if !actions.CloseActive() {
				logger.Debug("hotkey: no focused window to close")
			}
		}
	default:
		return func() {}
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including 0,
// so bindings fire regardless of lock state.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	masks := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
