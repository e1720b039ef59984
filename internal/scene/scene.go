// Package scene composes the particle field, the theme and the cursor
// follower into a render.Game that also acts as their render.Host.
package scene

import (
	"image/color"

	"go.uber.org/zap"

	"chosenoffset.com/constellation/internal/cursor"
	"chosenoffset.com/constellation/internal/event"
	"chosenoffset.com/constellation/internal/field"
	"chosenoffset.com/constellation/internal/render"
	"chosenoffset.com/constellation/internal/theme"
)

// Backgrounds and cursor accents per theme.
var (
	darkBackground  = color.NRGBA{R: 0x0a, G: 0x0a, B: 0x0f, A: 0xff}
	lightBackground = color.NRGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	darkAccent      = color.NRGBA{R: 0x81, G: 0x8c, B: 0xf8, A: 0xdc}
	lightAccent     = color.NRGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0xdc}
)

// Scene is the top-level game. It turns polled input into host events,
// ticks every Update and draws every frame.
type Scene struct {
	event.Hub

	ScreenWidth  int
	ScreenHeight int

	Field    *field.Field
	Theme    *theme.Store
	Follower *cursor.Follower // optional
	InputMgr render.InputManager

	handle       *field.Handle
	paused       bool
	detachCursor func()
	logger       *zap.Logger

	pointerInside  bool
	lastPX, lastPY int
}

// New creates a scene for f and starts the field and follower on it.
func New(f *field.Field, store *theme.Store, follower *cursor.Follower, input render.InputManager, width, height int, logger *zap.Logger) *Scene {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scene{
		ScreenWidth:  width,
		ScreenHeight: height,
		Field:        f,
		Theme:        store,
		Follower:     follower,
		InputMgr:     input,
		logger:       logger,
	}
	s.handle = f.Start(s)
	if follower != nil {
		s.detachCursor = follower.Attach(s, s.accent)
	}
	return s
}

// Paused reports whether the field was paused with the pause key.
func (s *Scene) Paused() bool { return s.paused }

// Update handles keys, turns cursor polling into pointer events and ticks.
func (s *Scene) Update() error {
	if s.InputMgr.IsKeyJustPressed(render.KeyEscape) || s.InputMgr.IsKeyJustPressed(render.KeyQ) {
		s.Close()
		return render.ErrTerminated
	}
	if s.InputMgr.IsKeyJustPressed(render.KeyT) {
		// the store logs persistence failures itself
		next, _ := s.Theme.Toggle()
		s.logger.Info("Theme changed", zap.String("theme", string(next)))
	}
	if s.InputMgr.IsKeyJustPressed(render.KeySpace) {
		s.togglePause()
	}
	if s.InputMgr.IsKeyJustPressed(render.KeyR) {
		s.Field.Reseed()
	}

	s.pollPointer()
	s.EmitTick()
	return nil
}

func (s *Scene) togglePause() {
	if !s.paused {
		if !s.handle.Running() {
			s.logger.Debug("Field is idle, nothing to pause")
			return
		}
		s.handle.Stop()
		s.paused = true
		s.logger.Info("Field paused")
		return
	}
	// catch up on resizes missed while detached
	if w, h := s.Field.Size(); w != float64(s.ScreenWidth) || h != float64(s.ScreenHeight) {
		s.Field.Resize(float64(s.ScreenWidth), float64(s.ScreenHeight))
	}
	s.handle = s.Field.Start(s)
	s.paused = false
	s.logger.Info("Field resumed")
}

// pollPointer emits a move when the cursor moved inside the surface and a
// leave when it left the surface or the window lost focus.
func (s *Scene) pollPointer() {
	x, y := s.InputMgr.GetCursorPosition()
	inside := s.InputMgr.IsFocused() &&
		x >= 0 && x < s.ScreenWidth && y >= 0 && y < s.ScreenHeight

	switch {
	case inside && (!s.pointerInside || x != s.lastPX || y != s.lastPY):
		s.EmitPointerMove(float64(x), float64(y))
	case !inside && s.pointerInside:
		s.EmitPointerLeave()
	}
	s.pointerInside = inside
	s.lastPX, s.lastPY = x, y
}

// Draw fills the theme background and lets listeners draw. A paused field
// is drawn frozen.
func (s *Scene) Draw(screen render.Surface) {
	bg := s.background()
	screen.Fill(bg)
	dst := render.WithBackground(screen, bg)
	if s.paused {
		s.Field.Render(dst)
	}
	s.EmitDraw(dst)
}

// Layout handles window resize.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != s.ScreenWidth || outsideHeight != s.ScreenHeight {
		s.ScreenWidth = outsideWidth
		s.ScreenHeight = outsideHeight
		s.EmitResize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close stops the field and detaches the follower.
func (s *Scene) Close() {
	s.handle.Stop()
	if s.detachCursor != nil {
		s.detachCursor()
		s.detachCursor = nil
	}
}

// Background returns the page background of t.
func Background(t theme.Theme) color.NRGBA {
	if t == theme.Light {
		return lightBackground
	}
	return darkBackground
}

func (s *Scene) background() color.NRGBA { return Background(s.Theme.Current()) }

func (s *Scene) accent() color.NRGBA {
	if s.Theme.Current() == theme.Light {
		return lightAccent
	}
	return darkAccent
}
