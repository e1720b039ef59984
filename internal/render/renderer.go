package render

import (
	"errors"
	"image/color"
)

// ErrTerminated is returned from Game.Update to end the frame loop normally.
var ErrTerminated = errors.New("terminated")

// Surface is the 2D drawing target the particle field renders onto.
// It abstracts the underlying graphics backend so the simulation can be
// drawn to a window, an offscreen raster or a recording fake.
type Surface interface {
	// Size returns the current pixel dimensions of the surface.
	Size() (width, height int)

	// Clear resets the whole surface to transparent.
	Clear()

	// Fill fills the whole surface with a color.
	Fill(clr color.Color)

	// FillCircle draws a filled circle centered at (x, y).
	FillCircle(x, y, radius float32, clr color.Color)

	// StrokeLine draws a line segment from (x1, y1) to (x2, y2).
	StrokeLine(x1, y1, x2, y2, strokeWidth float32, clr color.Color)
}

// WithBackground returns a surface whose Clear fills with bg instead of
// clearing to transparent.
func WithBackground(s Surface, bg color.Color) Surface {
	return backgroundSurface{Surface: s, bg: bg}
}

type backgroundSurface struct {
	Surface
	bg color.Color
}

func (s backgroundSurface) Clear() { s.Surface.Fill(s.bg) }

// Host delivers frame, resize and pointer events to registered listeners.
// Every registration returns a function that removes the listener again;
// calling it more than once is a no-op.
type Host interface {
	// OnTick registers a listener invoked once per simulation tick.
	OnTick(fn func()) (remove func())

	// OnDraw registers a listener invoked once per rendered frame.
	OnDraw(fn func(dst Surface)) (remove func())

	// OnResize registers a listener for surface size changes.
	OnResize(fn func(width, height int)) (remove func())

	// OnPointerMove registers a listener for pointer positions in surface coordinates.
	OnPointerMove(fn func(x, y float64)) (remove func())

	// OnPointerLeave registers a listener invoked when the pointer leaves the surface.
	OnPointerLeave(fn func()) (remove func())
}

// InputManager handles input from the user (keyboard, mouse, etc).
type InputManager interface {
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsFocused() bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the scene reacts to
const (
	KeyT      Key = iota // Theme toggle
	KeySpace             // Pause / resume the field
	KeyR                 // Re-seed particles
	KeyQ
	KeyEscape
)

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the game logic. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Surface)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	// The logical screen size is used for rendering and input coordinates.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the engine that manages the frame loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// RunGame runs the frame loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
