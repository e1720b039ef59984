// Package rendertest provides a recording render.Surface for tests.
package rendertest

import (
	"image/color"

	"chosenoffset.com/constellation/internal/render"
)

// Circle is a recorded FillCircle call.
type Circle struct {
	X, Y, Radius float32
	Color        color.NRGBA
}

// Line is a recorded StrokeLine call.
type Line struct {
	X1, Y1, X2, Y2 float32
	Width          float32
	Color          color.NRGBA
}

// Surface records draw calls since the last Clear.
type Surface struct {
	Width, Height int
	Clears        int
	Fills         []color.NRGBA
	Circles       []Circle
	Lines         []Line
}

var _ render.Surface = (*Surface)(nil)

// NewSurface creates a recording surface with the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height}
}

// Size returns the configured size.
func (s *Surface) Size() (int, int) { return s.Width, s.Height }

// Clear drops all recorded shapes.
func (s *Surface) Clear() {
	s.Clears++
	s.Circles = nil
	s.Lines = nil
}

// Fill records the fill color and drops all recorded shapes.
func (s *Surface) Fill(clr color.Color) {
	s.Fills = append(s.Fills, toNRGBA(clr))
	s.Circles = nil
	s.Lines = nil
}

// FillCircle records a circle.
func (s *Surface) FillCircle(x, y, radius float32, clr color.Color) {
	s.Circles = append(s.Circles, Circle{X: x, Y: y, Radius: radius, Color: toNRGBA(clr)})
}

// StrokeLine records a line.
func (s *Surface) StrokeLine(x1, y1, x2, y2, strokeWidth float32, clr color.Color) {
	s.Lines = append(s.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: strokeWidth, Color: toNRGBA(clr)})
}

func toNRGBA(clr color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(clr).(color.NRGBA)
}
