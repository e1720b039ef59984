package field

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/constellation/internal/event"
	"chosenoffset.com/constellation/internal/render/rendertest"
)

type panickySurface struct{ rendertest.Surface }

func (s *panickySurface) Clear() { panic("surface lost") }

func (s *panickySurface) FillCircle(x, y, r float32, clr color.Color) {}

func TestStartWiresAndStopDetaches(t *testing.T) {
	moving := still(100, 100)
	moving.Vel = Vec2{X: 1}
	f := newTestField(t, Nebula(), 400, 400, moving)

	var host event.Hub
	h := f.Start(&host)
	require.True(t, h.Running())
	assert.Equal(t, 5, host.ListenerCount())

	host.EmitTick()
	assert.Equal(t, 101.0, f.particles[0].Pos.X)

	host.EmitResize(300, 200)
	w, hh := f.Size()
	assert.Equal(t, 300.0, w)
	assert.Equal(t, 200.0, hh)

	host.EmitPointerMove(5, 6)
	assert.Equal(t, Pointer{X: 5, Y: 6, Present: true}, f.Pointer())
	host.EmitPointerLeave()
	assert.False(t, f.Pointer().Present)

	surf := rendertest.NewSurface(300, 200)
	host.EmitDraw(surf)
	assert.Len(t, surf.Circles, 1)

	h.Stop()
	h.Stop()
	assert.False(t, h.Running())
	assert.Zero(t, host.ListenerCount())

	before := f.particles[0].Pos
	host.EmitTick()
	host.EmitPointerMove(1, 1)
	assert.Equal(t, before, f.particles[0].Pos)
	assert.False(t, f.Pointer().Present)
}

func TestStartStaysIdleOnNarrowSurface(t *testing.T) {
	for _, width := range []int{600, 768} {
		f := newTestField(t, Aurora(), width, 400)

		var host event.Hub
		h := f.Start(&host)
		assert.False(t, h.Running(), "width %d", width)
		assert.Zero(t, host.ListenerCount())
		h.Stop()
	}

	f := newTestField(t, Aurora(), 769, 400)
	var host event.Hub
	h := f.Start(&host)
	defer h.Stop()
	assert.True(t, h.Running())
}

func TestPanickingFrameIsSkipped(t *testing.T) {
	f := newTestField(t, Nebula(), 400, 400)

	var host event.Hub
	h := f.Start(&host)
	defer h.Stop()

	assert.NotPanics(t, func() {
		host.EmitDraw(&panickySurface{})
		host.EmitTick()
	})
}
