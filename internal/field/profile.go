package field

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidProfile is wrapped by every profile validation failure.
var ErrInvalidProfile = errors.New("invalid profile")

// ColorMode selects where particle and line colors come from.
type ColorMode string

const (
	// ColorPalette picks each particle's color from a fixed palette with a
	// random per-particle alpha.
	ColorPalette ColorMode = "palette"
	// ColorTheme derives one flat color from the active theme every frame.
	ColorTheme ColorMode = "theme"
)

// BoundaryPolicy decides what happens after a particle's velocity is
// reflected at an edge.
type BoundaryPolicy string

const (
	// BoundaryClamp reflects and then clamps the position into bounds.
	BoundaryClamp BoundaryPolicy = "clamp"
	// BoundaryReflect only reflects; the particle may overshoot briefly.
	BoundaryReflect BoundaryPolicy = "reflect"
)

// ResizePolicy decides what happens to particles when the surface resizes.
type ResizePolicy string

const (
	// ResizeKeep updates the bounds only.
	ResizeKeep ResizePolicy = "keep"
	// ResizeRecreate re-seeds every particle over the new bounds.
	ResizeRecreate ResizePolicy = "recreate"
)

// ThemeColor is a flat color with opacity used in theme color mode.
type ThemeColor struct {
	Hex   string  `mapstructure:"hex" yaml:"hex"`
	Alpha float64 `mapstructure:"alpha" yaml:"alpha"`
}

// Profile is a named configuration bundle selecting force, color and
// boundary behavior of a field.
type Profile struct {
	Name          string    `mapstructure:"name" yaml:"name"`
	ParticleCount int       `mapstructure:"particle_count" yaml:"particle_count"`
	ColorMode     ColorMode `mapstructure:"color_mode" yaml:"color_mode"`

	// Palette mode
	Palette   []string `mapstructure:"palette" yaml:"palette"`
	AlphaMin  float64  `mapstructure:"alpha_min" yaml:"alpha_min"`
	AlphaMax  float64  `mapstructure:"alpha_max" yaml:"alpha_max"`
	LineColor string   `mapstructure:"line_color" yaml:"line_color"`

	// Theme mode
	Dark  ThemeColor `mapstructure:"dark" yaml:"dark"`
	Light ThemeColor `mapstructure:"light" yaml:"light"`

	// Spawn ranges
	Speed     float64 `mapstructure:"speed" yaml:"speed"` // max |v| per axis
	RadiusMin float64 `mapstructure:"radius_min" yaml:"radius_min"`
	RadiusMax float64 `mapstructure:"radius_max" yaml:"radius_max"`

	// Physics
	Friction        float64 `mapstructure:"friction" yaml:"friction"`
	ForceStrength   float64 `mapstructure:"force_strength" yaml:"force_strength"`
	InfluenceRadius float64 `mapstructure:"influence_radius" yaml:"influence_radius"`

	// Connections
	ConnectionThreshold float64 `mapstructure:"connection_threshold" yaml:"connection_threshold"`
	MaxLineOpacity      float64 `mapstructure:"max_line_opacity" yaml:"max_line_opacity"`
	LineWidth           float64 `mapstructure:"line_width" yaml:"line_width"`

	Boundary BoundaryPolicy `mapstructure:"boundary" yaml:"boundary"`
	Resize   ResizePolicy   `mapstructure:"resize" yaml:"resize"`

	// MinStartWidth keeps the field idle on surfaces not wider than this. 0 disables.
	MinStartWidth float64 `mapstructure:"min_start_width" yaml:"min_start_width"`
}

// Nebula is the neon palette profile: three fixed colors, strong pointer
// push, clamped edges.
func Nebula() Profile {
	return Profile{
		Name:                "nebula",
		ParticleCount:       80,
		ColorMode:           ColorPalette,
		Palette:             []string{"#00f0ff", "#bd00ff", "#ff006e"},
		AlphaMin:            0.2,
		AlphaMax:            0.7,
		LineColor:           "#00f0ff",
		Speed:               0.4,
		RadiusMin:           0.5,
		RadiusMax:           3,
		Friction:            0.99,
		ForceStrength:       0.5,
		InfluenceRadius:     150,
		ConnectionThreshold: 120,
		MaxLineOpacity:      0.15,
		LineWidth:           1,
		Boundary:            BoundaryClamp,
		Resize:              ResizeKeep,
	}
}

// Aurora is the theme-following profile: one indigo tone that shifts with
// the dark/light theme, gentle push, reflect-only edges.
func Aurora() Profile {
	return Profile{
		Name:                "aurora",
		ParticleCount:       50,
		ColorMode:           ColorTheme,
		Dark:                ThemeColor{Hex: "#818cf8", Alpha: 0.6},
		Light:               ThemeColor{Hex: "#6366f1", Alpha: 0.5},
		Speed:               0.25,
		RadiusMin:           1,
		RadiusMax:           3,
		Friction:            0.99,
		ForceStrength:       0.2,
		InfluenceRadius:     150,
		ConnectionThreshold: 120,
		MaxLineOpacity:      0.3,
		LineWidth:           0.5,
		Boundary:            BoundaryReflect,
		Resize:              ResizeKeep,
		MinStartWidth:       768,
	}
}

var builtins = map[string]func() Profile{
	"nebula": Nebula,
	"aurora": Aurora,
}

// Lookup returns the built-in profile with the given name.
func Lookup(name string) (Profile, bool) {
	fn, ok := builtins[name]
	if !ok {
		return Profile{}, false
	}
	return fn(), true
}

// Names returns the built-in profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the profile for values the engine cannot run with.
func (p Profile) Validate() error {
	_, err := p.resolve()
	return err
}

// palette holds the parsed colors of a profile.
type palette struct {
	particles []color.NRGBA
	line      color.NRGBA
	dark      color.NRGBA
	light     color.NRGBA
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProfile, fmt.Sprintf(format, args...))
}

func (p Profile) resolve() (*palette, error) {
	switch {
	case p.ParticleCount <= 0:
		return nil, invalid("particle_count must be positive, got %d", p.ParticleCount)
	case p.Friction <= 0 || p.Friction > 1:
		return nil, invalid("friction must be in (0, 1], got %g", p.Friction)
	case p.InfluenceRadius <= 0:
		return nil, invalid("influence_radius must be positive, got %g", p.InfluenceRadius)
	case p.ConnectionThreshold <= 0:
		return nil, invalid("connection_threshold must be positive, got %g", p.ConnectionThreshold)
	case p.ForceStrength < 0:
		return nil, invalid("force_strength must not be negative, got %g", p.ForceStrength)
	case p.Speed < 0:
		return nil, invalid("speed must not be negative, got %g", p.Speed)
	case p.RadiusMin <= 0 || p.RadiusMin > p.RadiusMax:
		return nil, invalid("radius range [%g, %g) is empty or non-positive", p.RadiusMin, p.RadiusMax)
	case p.MaxLineOpacity < 0 || p.MaxLineOpacity > 1:
		return nil, invalid("max_line_opacity must be in [0, 1], got %g", p.MaxLineOpacity)
	case p.LineWidth <= 0:
		return nil, invalid("line_width must be positive, got %g", p.LineWidth)
	}

	switch p.Boundary {
	case BoundaryClamp, BoundaryReflect:
	default:
		return nil, invalid("unknown boundary policy %q", p.Boundary)
	}
	switch p.Resize {
	case ResizeKeep, ResizeRecreate:
	default:
		return nil, invalid("unknown resize policy %q", p.Resize)
	}

	pal := &palette{}
	switch p.ColorMode {
	case ColorPalette:
		if len(p.Palette) == 0 {
			return nil, invalid("palette mode needs at least one color")
		}
		if p.AlphaMin < 0 || p.AlphaMax > 1 || p.AlphaMin > p.AlphaMax {
			return nil, invalid("alpha range [%g, %g) is outside [0, 1]", p.AlphaMin, p.AlphaMax)
		}
		for _, hex := range p.Palette {
			c, err := parseHex(hex)
			if err != nil {
				return nil, err
			}
			pal.particles = append(pal.particles, c)
		}
		line, err := parseHex(p.LineColor)
		if err != nil {
			return nil, err
		}
		pal.line = line
	case ColorTheme:
		for _, tc := range []ThemeColor{p.Dark, p.Light} {
			if tc.Alpha < 0 || tc.Alpha > 1 {
				return nil, invalid("theme alpha must be in [0, 1], got %g", tc.Alpha)
			}
		}
		dark, err := parseHex(p.Dark.Hex)
		if err != nil {
			return nil, err
		}
		light, err := parseHex(p.Light.Hex)
		if err != nil {
			return nil, err
		}
		pal.dark, pal.light = dark, light
	default:
		return nil, invalid("unknown color mode %q", p.ColorMode)
	}
	return pal, nil
}

func parseHex(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, invalid("bad color %q: %v", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
