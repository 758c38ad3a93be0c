package platform

import (
	"log/slog"
	"strings"
)

// DetectMode picks the windowing environment from the process environment.
// A Wayland display wins over an X11 one (XWayland sessions set both).
func DetectMode(getenv func(string) string) Mode {
	if strings.TrimSpace(getenv("WAYLAND_DISPLAY")) != "" {
		return ModeWayland
	}
	if strings.TrimSpace(getenv("DISPLAY")) != "" {
		return ModeX11
	}
	return ModeDisabled
}

// Detect selects and constructs the backend for this process. It never
// fails: when the X11 integration cannot be reached the result is a
// NullBackend in ModeDisabled so window-list features degrade quietly.
func Detect(getenv func(string) string, logger *slog.Logger) (Backend, Mode) {
	if logger == nil {
		logger = slog.Default()
	}

	switch DetectMode(getenv) {
	case ModeWayland:
		if dir, ok := HyprlandSocketDir(getenv); ok {
			logger.Info("using hyprland window backend", "socket_dir", dir)
			return NewHyprlandBackend(dir, logger), ModeWayland
		}
		logger.Info("wayland session without a supported compositor; window list is passive")
		return NewNullBackend("wayland"), ModeWayland
	case ModeX11:
		backend, err := NewX11BackendFromDisplay(logger)
		if err != nil {
			logger.Warn("x11 integration unavailable; window list features disabled", "error", err)
			return NewNullBackend(""), ModeDisabled
		}
		return backend, ModeX11
	default:
		logger.Warn("no display found; window list features disabled")
		return NewNullBackend(""), ModeDisabled
	}
}
