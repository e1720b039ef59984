// Package cursor draws a dot and a trailing halo that ease toward the pointer.
package cursor

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/harmonica"

	"chosenoffset.com/constellation/internal/render"
)

// Mode selects the easing used to chase the pointer.
type Mode string

const (
	// ModeLerp closes a fixed fraction of the remaining distance every tick.
	ModeLerp Mode = "lerp"
	// ModeSpring moves along a damped spring toward the pointer.
	ModeSpring Mode = "spring"
)

// Config controls the follower.
type Config struct {
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
	Mode        Mode    `mapstructure:"mode" yaml:"mode"`
	DotFactor   float64 `mapstructure:"dot_factor" yaml:"dot_factor"`
	TrailFactor float64 `mapstructure:"trail_factor" yaml:"trail_factor"`
	DotRadius   float64 `mapstructure:"dot_radius" yaml:"dot_radius"`
	TrailRadius float64 `mapstructure:"trail_radius" yaml:"trail_radius"`

	// Spring mode
	FPS       int     `mapstructure:"fps" yaml:"fps"`
	Frequency float64 `mapstructure:"frequency" yaml:"frequency"`
	Damping   float64 `mapstructure:"damping" yaml:"damping"`
}

// DefaultConfig returns a lerp follower with the page cursor factors.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		Mode:        ModeLerp,
		DotFactor:   0.15,
		TrailFactor: 0.08,
		DotRadius:   4,
		TrailRadius: 16,
		FPS:         60,
		Frequency:   6,
		Damping:     0.8,
	}
}

// easer moves pos toward target, carrying a velocity between ticks.
type easer func(pos, vel, target float64) (float64, float64)

func lerp(factor float64) easer {
	return func(pos, _, target float64) (float64, float64) {
		return pos + (target-pos)*factor, 0
	}
}

func spring(fps int, frequency, damping float64) easer {
	s := harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)
	return s.Update
}

type tracker struct {
	x, y, vx, vy float64
	ease         easer
}

func (t *tracker) step(tx, ty float64) {
	t.x, t.vx = t.ease(t.x, t.vx, tx)
	t.y, t.vy = t.ease(t.y, t.vy, ty)
}

// Follower tracks the pointer with two eased points: a fast dot and a
// slower trail.
type Follower struct {
	cfg     Config
	dot     tracker
	trail   tracker
	tx, ty  float64
	visible bool
}

// New creates a follower. Both points start at the origin.
func New(cfg Config) (*Follower, error) {
	f := &Follower{cfg: cfg}
	switch cfg.Mode {
	case ModeLerp, "":
		if cfg.DotFactor <= 0 || cfg.DotFactor > 1 || cfg.TrailFactor <= 0 || cfg.TrailFactor > 1 {
			return nil, fmt.Errorf("cursor lerp factors must be in (0, 1], got %g and %g", cfg.DotFactor, cfg.TrailFactor)
		}
		f.dot.ease = lerp(cfg.DotFactor)
		f.trail.ease = lerp(cfg.TrailFactor)
	case ModeSpring:
		if cfg.FPS <= 0 {
			return nil, fmt.Errorf("cursor spring fps must be positive, got %d", cfg.FPS)
		}
		f.dot.ease = spring(cfg.FPS, cfg.Frequency, cfg.Damping)
		// the trail lags behind on a softer spring
		f.trail.ease = spring(cfg.FPS, cfg.Frequency/2, cfg.Damping)
	default:
		return nil, fmt.Errorf("unknown cursor mode %q", cfg.Mode)
	}
	return f, nil
}

// SetTarget moves the pointer target and shows the follower.
func (f *Follower) SetTarget(x, y float64) {
	f.tx, f.ty = x, y
	f.visible = true
}

// Hide hides the follower until the next SetTarget.
func (f *Follower) Hide() { f.visible = false }

// Visible reports whether the follower is drawn.
func (f *Follower) Visible() bool { return f.visible }

// Update advances both points by one tick.
func (f *Follower) Update() {
	f.dot.step(f.tx, f.ty)
	f.trail.step(f.tx, f.ty)
}

// Dot returns the dot position.
func (f *Follower) Dot() (x, y float64) { return f.dot.x, f.dot.y }

// Trail returns the trail position.
func (f *Follower) Trail() (x, y float64) { return f.trail.x, f.trail.y }

// Draw draws the trail halo and the dot onto dst.
func (f *Follower) Draw(dst render.Surface, clr color.NRGBA) {
	if !f.visible {
		return
	}
	halo := clr
	halo.A /= 4
	dst.FillCircle(float32(f.trail.x), float32(f.trail.y), float32(f.cfg.TrailRadius), halo)
	dst.FillCircle(float32(f.dot.x), float32(f.dot.y), float32(f.cfg.DotRadius), clr)
}

// Attach wires the follower to host events and returns a function that
// detaches it again.
func (f *Follower) Attach(host render.Host, clr func() color.NRGBA) (detach func()) {
	removers := []func(){
		host.OnPointerMove(f.SetTarget),
		host.OnPointerLeave(f.Hide),
		host.OnTick(f.Update),
		host.OnDraw(func(dst render.Surface) { f.Draw(dst, clr()) }),
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}
