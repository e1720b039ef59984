// Package headless provides a render.Host without a window. Frames are
// driven manually or by a ticker.
package headless

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chosenoffset.com/constellation/internal/event"
	"chosenoffset.com/constellation/internal/render"
)

// ErrInvalidInterval is returned by Run when the host has no positive frame
// interval.
var ErrInvalidInterval = errors.New("frame interval must be positive")

// Host drives tick and draw listeners against a fixed surface.
type Host struct {
	event.Hub
	surface  render.Surface
	interval time.Duration
	logger   *zap.Logger
	frames   int
}

// NewHost creates a host drawing to surface. interval is the frame period
// used by Run; hosts driven only by Frame and RunFrames may pass 0.
func NewHost(surface render.Surface, interval time.Duration, logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{surface: surface, interval: interval, logger: logger}
}

// Surface returns the surface frames are drawn to.
func (h *Host) Surface() render.Surface { return h.surface }

// Frames returns the number of frames run so far.
func (h *Host) Frames() int { return h.frames }

// Frame runs one tick followed by one draw.
func (h *Host) Frame() {
	h.EmitTick()
	h.EmitDraw(h.surface)
	h.frames++
}

// RunFrames runs n frames back to back.
func (h *Host) RunFrames(n int) {
	for i := 0; i < n; i++ {
		h.Frame()
	}
}

// Run runs a frame every interval until ctx is done.
func (h *Host) Run(ctx context.Context) error {
	if h.interval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, h.interval)
	}
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.logger.Debug("Headless loop started", zap.Duration("interval", h.interval))
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("Headless loop stopped", zap.Int("frames", h.frames))
			return nil
		case <-ticker.C:
			h.Frame()
		}
	}
}
