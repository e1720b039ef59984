package event

import "chosenoffset.com/constellation/internal/render"

// Hub implements render.Host on top of one Registry per event kind.
// The zero value is ready to use.
type Hub struct {
	ticks   Registry[func()]
	draws   Registry[func(render.Surface)]
	resizes Registry[func(int, int)]
	moves   Registry[func(float64, float64)]
	leaves  Registry[func()]
}

var _ render.Host = (*Hub)(nil)

// OnTick registers a tick listener.
func (h *Hub) OnTick(fn func()) func() { return h.ticks.Add(fn) }

// OnDraw registers a draw listener.
func (h *Hub) OnDraw(fn func(render.Surface)) func() { return h.draws.Add(fn) }

// OnResize registers a resize listener.
func (h *Hub) OnResize(fn func(width, height int)) func() { return h.resizes.Add(fn) }

// OnPointerMove registers a pointer-move listener.
func (h *Hub) OnPointerMove(fn func(x, y float64)) func() { return h.moves.Add(fn) }

// OnPointerLeave registers a pointer-leave listener.
func (h *Hub) OnPointerLeave(fn func()) func() { return h.leaves.Add(fn) }

// EmitTick invokes every tick listener.
func (h *Hub) EmitTick() {
	for _, fn := range h.ticks.Snapshot() {
		fn()
	}
}

// EmitDraw invokes every draw listener with dst.
func (h *Hub) EmitDraw(dst render.Surface) {
	for _, fn := range h.draws.Snapshot() {
		fn(dst)
	}
}

// EmitResize invokes every resize listener.
func (h *Hub) EmitResize(width, height int) {
	for _, fn := range h.resizes.Snapshot() {
		fn(width, height)
	}
}

// EmitPointerMove invokes every pointer-move listener.
func (h *Hub) EmitPointerMove(x, y float64) {
	for _, fn := range h.moves.Snapshot() {
		fn(x, y)
	}
}

// EmitPointerLeave invokes every pointer-leave listener.
func (h *Hub) EmitPointerLeave() {
	for _, fn := range h.leaves.Snapshot() {
		fn()
	}
}

// ListenerCount returns the total number of registered listeners across all
// event kinds.
func (h *Hub) ListenerCount() int {
	return h.ticks.Len() + h.draws.Len() + h.resizes.Len() + h.moves.Len() + h.leaves.Len()
}
