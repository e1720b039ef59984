// Package field implements the particle field: a fixed set of drifting
// particles that are pushed away by the pointer, bounce off the surface
// edges, and are joined by faint lines when close to one another.
package field

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"chosenoffset.com/constellation/internal/render"
	"chosenoffset.com/constellation/internal/theme"
)

// ErrSurfaceUnavailable is returned by New when there is no usable surface to
// size the field against.
var ErrSurfaceUnavailable = errors.New("drawing surface unavailable")

// Vec2 is a 2D vector in surface pixels.
type Vec2 struct {
	X, Y float64
}

// Particle is a single point of the field.
// Radius, Color and Alpha are fixed once the particle is spawned.
type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
	Color  color.NRGBA // unused in theme color mode
	Alpha  float64
}

// Pointer is the latest pointer snapshot. Present is false once the pointer
// has left the surface.
type Pointer struct {
	X, Y    float64
	Present bool
}

// ThemeSource reports the active theme. theme.Store implements it.
type ThemeSource interface {
	Current() theme.Theme
}

// Edge is a connection between two particles, by index.
type Edge struct {
	I, J     int
	Distance float64
	Opacity  float64
}

// Field owns the particles, the surface bounds and the pointer snapshot.
// It is not safe for concurrent use; a host drives it from one loop.
type Field struct {
	profile Profile
	colors  *palette

	particles     []Particle
	width, height float64
	pointer       Pointer

	theme  ThemeSource
	rng    *rand.Rand
	logger *zap.Logger
}

// Option configures a Field.
type Option func(*Field)

// WithRand sets the random source used for spawning particles.
func WithRand(rng *rand.Rand) Option {
	return func(f *Field) { f.rng = rng }
}

// WithSeed seeds the random source used for spawning particles.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithParticles starts the field with the given particles instead of
// spawning ParticleCount random ones.
func WithParticles(ps []Particle) Option {
	return func(f *Field) {
		f.particles = append([]Particle(nil), ps...)
	}
}

// WithTheme sets the theme consulted in theme color mode.
func WithTheme(src ThemeSource) Option {
	return func(f *Field) { f.theme = src }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Field) { f.logger = logger }
}

// New creates a field of p.ParticleCount particles spread over a
// width x height surface.
func New(p Profile, width, height int, opts ...Option) (*Field, error) {
	colors, err := p.resolve()
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrSurfaceUnavailable, width, height)
	}

	f := &Field{
		profile: p,
		colors:  colors,
		width:   float64(width),
		height:  float64(height),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	if f.particles == nil {
		f.particles = make([]Particle, p.ParticleCount)
		f.Reseed()
	}

	f.logger.Debug("Field created",
		zap.String("profile", p.Name),
		zap.Int("particles", len(f.particles)),
		zap.Float64("width", f.width),
		zap.Float64("height", f.height))
	return f, nil
}

// Profile returns the profile the field was created with.
func (f *Field) Profile() Profile { return f.profile }

// Size returns the current surface bounds.
func (f *Field) Size() (width, height float64) { return f.width, f.height }

// Pointer returns the current pointer snapshot.
func (f *Field) Pointer() Pointer { return f.pointer }

// Particles returns a copy of the particles.
func (f *Field) Particles() []Particle {
	return append([]Particle(nil), f.particles...)
}

// Reseed replaces every particle with a freshly spawned one.
// The particle count does not change.
func (f *Field) Reseed() {
	for i := range f.particles {
		f.particles[i] = f.spawn()
	}
}

func (f *Field) spawn() Particle {
	p := f.profile
	pt := Particle{
		Pos: Vec2{
			X: f.rng.Float64() * f.width,
			Y: f.rng.Float64() * f.height,
		},
		Vel: Vec2{
			X: (f.rng.Float64()*2 - 1) * p.Speed,
			Y: (f.rng.Float64()*2 - 1) * p.Speed,
		},
		Radius: p.RadiusMin + f.rng.Float64()*(p.RadiusMax-p.RadiusMin),
	}
	if p.ColorMode == ColorPalette {
		pt.Color = f.colors.particles[f.rng.Intn(len(f.colors.particles))]
		pt.Alpha = p.AlphaMin + f.rng.Float64()*(p.AlphaMax-p.AlphaMin)
	}
	return pt
}

// SetPointer records the pointer position. Non-finite coordinates are ignored.
func (f *Field) SetPointer(x, y float64) {
	if !finite(x) || !finite(y) {
		f.logger.Debug("Ignoring non-finite pointer", zap.Float64("x", x), zap.Float64("y", y))
		return
	}
	f.pointer = Pointer{X: x, Y: y, Present: true}
}

// ClearPointer marks the pointer as absent.
func (f *Field) ClearPointer() {
	f.pointer = Pointer{}
}

// Resize updates the surface bounds. Non-finite or non-positive sizes are
// ignored. Particles keep their positions unless the profile asks for
// ResizeRecreate.
func (f *Field) Resize(width, height float64) {
	if !finite(width) || !finite(height) || width <= 0 || height <= 0 {
		f.logger.Debug("Ignoring invalid resize", zap.Float64("width", width), zap.Float64("height", height))
		return
	}
	f.width, f.height = width, height
	if f.profile.Resize == ResizeRecreate {
		f.Reseed()
	}
}

// Step advances every particle by one tick: pointer repulsion, Euler
// integration, edge bounce and friction. There is no delta-time scaling.
func (f *Field) Step() {
	p := f.profile
	ptr := f.pointer
	w, h := f.width, f.height

	for i := range f.particles {
		pt := &f.particles[i]

		if ptr.Present {
			dx := ptr.X - pt.Pos.X
			dy := ptr.Y - pt.Pos.Y
			dist := math.Hypot(dx, dy)
			if dist < p.InfluenceRadius {
				// Atan2(0, 0) is 0: a pointer right on the particle pushes it toward -x.
				angle := math.Atan2(dy, dx)
				force := (p.InfluenceRadius - dist) / p.InfluenceRadius
				pt.Vel.X -= math.Cos(angle) * force * p.ForceStrength
				pt.Vel.Y -= math.Sin(angle) * force * p.ForceStrength
			}
		}

		pt.Pos.X += pt.Vel.X
		pt.Pos.Y += pt.Vel.Y

		if pt.Pos.X < 0 || pt.Pos.X > w {
			pt.Vel.X = -pt.Vel.X
		}
		if pt.Pos.Y < 0 || pt.Pos.Y > h {
			pt.Vel.Y = -pt.Vel.Y
		}
		if p.Boundary == BoundaryClamp {
			pt.Pos.X = clamp(pt.Pos.X, 0, w)
			pt.Pos.Y = clamp(pt.Pos.Y, 0, h)
		}

		pt.Vel.X *= p.Friction
		pt.Vel.Y *= p.Friction

		if !finite(pt.Pos.X) || !finite(pt.Pos.Y) || !finite(pt.Vel.X) || !finite(pt.Vel.Y) {
			f.logger.Warn("Respawning particle with non-finite state", zap.Int("index", i))
			*pt = f.spawn()
		}
	}
}

// Connections returns every pair of particles closer than the connection
// threshold. A pair exactly at the threshold is not connected.
func (f *Field) Connections() []Edge {
	var edges []Edge
	f.eachConnection(func(e Edge) { edges = append(edges, e) })
	return edges
}

func (f *Field) eachConnection(fn func(Edge)) {
	threshold := f.profile.ConnectionThreshold
	for i := 0; i < len(f.particles); i++ {
		a := f.particles[i].Pos
		for j := i + 1; j < len(f.particles); j++ {
			b := f.particles[j].Pos
			dist := math.Hypot(a.X-b.X, a.Y-b.Y)
			if dist < threshold {
				fn(Edge{
					I:        i,
					J:        j,
					Distance: dist,
					Opacity:  (threshold - dist) / threshold * f.profile.MaxLineOpacity,
				})
			}
		}
	}
}

// Render clears dst and draws every particle followed by the connection lines.
func (f *Field) Render(dst render.Surface) {
	dst.Clear()

	flat, flatAlpha := f.themeColor()
	for _, pt := range f.particles {
		clr, alpha := pt.Color, pt.Alpha
		if f.profile.ColorMode == ColorTheme {
			clr, alpha = flat, flatAlpha
		}
		dst.FillCircle(float32(pt.Pos.X), float32(pt.Pos.Y), float32(pt.Radius), withAlpha(clr, alpha))
	}

	lineColor := f.colors.line
	if f.profile.ColorMode == ColorTheme {
		lineColor = flat
	}
	width := float32(f.profile.LineWidth)
	f.eachConnection(func(e Edge) {
		a, b := f.particles[e.I].Pos, f.particles[e.J].Pos
		dst.StrokeLine(float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, withAlpha(lineColor, e.Opacity))
	})
}

// themeColor returns the flat color for the active theme.
func (f *Field) themeColor() (color.NRGBA, float64) {
	current := theme.Dark
	if f.theme != nil {
		current = f.theme.Current()
	}
	if current == theme.Light {
		return f.colors.light, f.profile.Light.Alpha
	}
	return f.colors.dark, f.profile.Dark.Alpha
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(clamp(alpha, 0, 1) * 255))
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
