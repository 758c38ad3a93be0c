package daemon

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRescanInterval is how often installed applications are rescanned.
const DefaultRescanInterval = 5 * time.Minute

// Rescanner periodically rebuilds state that has no change notification of
// its own: the desktop-entry index and the icon cache.
type Rescanner struct {
	interval time.Duration
	rescan   func()
	logger   *slog.Logger
}

// NewRescanner creates a rescanner calling fn every interval.
func NewRescanner(interval time.Duration, fn func(), logger *slog.Logger) *Rescanner {
	if interval <= 0 {
		interval = DefaultRescanInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rescanner{interval: interval, rescan: fn, logger: logger}
}

// Run starts the rescan loop. Blocks until context is cancelled.
func (r *Rescanner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("rescanner started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("rescanner stopped")
			return
		case <-ticker.C:
			r.RescanNow()
		}
	}
}

// RescanNow triggers an immediate pass.
func (r *Rescanner) RescanNow() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("rescan panic recovered", "error", err)
		}
	}()
	r.rescan()
}
