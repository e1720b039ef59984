// Package raster implements render.Surface in software on an *image.RGBA,
// for headless snapshots.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/vector"

	"chosenoffset.com/constellation/internal/render"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// Surface is an offscreen raster target.
type Surface struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

var _ render.Surface = (*Surface)(nil)

// NewSurface creates a transparent width x height surface.
func NewSurface(width, height int) *Surface {
	return &Surface{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		z:   vector.NewRasterizer(width, height),
	}
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA { return s.img }

// Size returns the surface dimensions.
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear resets every pixel to transparent.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Fill overwrites every pixel with clr.
func (s *Surface) Fill(clr color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(clr), image.Point{}, draw.Src)
}

// FillCircle draws an anti-aliased filled circle.
func (s *Surface) FillCircle(x, y, radius float32, clr color.Color) {
	if radius <= 0 {
		return
	}
	k := radius * kappa
	s.reset()
	s.z.MoveTo(x+radius, y)
	s.z.CubeTo(x+radius, y+k, x+k, y+radius, x, y+radius)
	s.z.CubeTo(x-k, y+radius, x-radius, y+k, x-radius, y)
	s.z.CubeTo(x-radius, y-k, x-k, y-radius, x, y-radius)
	s.z.CubeTo(x+k, y-radius, x+radius, y-k, x+radius, y)
	s.z.ClosePath()
	s.fill(clr)
}

// StrokeLine draws a line as a quad of the given width.
func (s *Surface) StrokeLine(x1, y1, x2, y2, strokeWidth float32, clr color.Color) {
	dx, dy := float64(x2-x1), float64(y2-y1)
	length := math.Hypot(dx, dy)
	if length == 0 || strokeWidth <= 0 {
		return
	}
	// unit normal scaled to half the stroke width
	nx := float32(-dy / length * float64(strokeWidth) / 2)
	ny := float32(dx / length * float64(strokeWidth) / 2)

	s.reset()
	s.z.MoveTo(x1+nx, y1+ny)
	s.z.LineTo(x2+nx, y2+ny)
	s.z.LineTo(x2-nx, y2-ny)
	s.z.LineTo(x1-nx, y1-ny)
	s.z.ClosePath()
	s.fill(clr)
}

func (s *Surface) reset() {
	w, h := s.Size()
	s.z.Reset(w, h)
}

func (s *Surface) fill(clr color.Color) {
	s.z.DrawOp = draw.Over
	s.z.Draw(s.img, s.img.Bounds(), image.NewUniform(clr), image.Point{})
}

// WritePNG encodes the surface as PNG.
func (s *Surface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes the surface to a PNG file at path.
func (s *Surface) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := s.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
