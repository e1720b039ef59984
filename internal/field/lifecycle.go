package field

import (
	"sync"

	"go.uber.org/zap"

	"chosenoffset.com/constellation/internal/render"
)

// Handle controls a started field. Stop removes every listener the field
// registered on its host.
type Handle struct {
	mu       sync.Mutex
	removers []func()
	running  bool
}

// Running reports whether the field is attached to its host.
func (h *Handle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Stop detaches the field from its host. It is safe to call more than once.
func (h *Handle) Stop() {
	h.mu.Lock()
	removers := h.removers
	h.removers = nil
	h.running = false
	h.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
}

// Start attaches the field to host: every tick steps the simulation, every
// frame renders it, and resize and pointer events update the bounds and the
// pointer snapshot. A field not wider than the profile's MinStartWidth stays
// idle and the returned handle is not running.
func (f *Field) Start(host render.Host) *Handle {
	h := &Handle{}
	if f.profile.MinStartWidth > 0 && f.width <= f.profile.MinStartWidth {
		f.logger.Info("Surface narrower than minimum, field stays idle",
			zap.Float64("width", f.width),
			zap.Float64("min_start_width", f.profile.MinStartWidth))
		return h
	}

	h.removers = []func(){
		host.OnTick(func() { f.guard("step", f.Step) }),
		host.OnDraw(func(dst render.Surface) { f.guard("render", func() { f.Render(dst) }) }),
		host.OnResize(func(width, height int) { f.Resize(float64(width), float64(height)) }),
		host.OnPointerMove(f.SetPointer),
		host.OnPointerLeave(f.ClearPointer),
	}
	h.running = true
	f.logger.Info("Field started", zap.String("profile", f.profile.Name), zap.Int("particles", len(f.particles)))
	return h
}

// guard runs fn and turns a panic into a skipped frame.
func (f *Field) guard(phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("Frame skipped", zap.String("phase", phase), zap.Any("panic", r))
		}
	}()
	fn()
}
