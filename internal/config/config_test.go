package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/constellation/internal/cursor"
	"chosenoffset.com/constellation/internal/field"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	v := NewViper()
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, "nebula", cfg.Field.Profile)
	assert.Equal(t, cursor.ModeLerp, cfg.Cursor.Mode)
	assert.Equal(t, 0.15, cfg.Cursor.DotFactor)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 240, cfg.Snapshot.Ticks)
	assert.Zero(t, cfg.Snapshot.Duration)
	assert.Equal(t, time.Second/60, cfg.Snapshot.Interval)

	p, err := cfg.ResolveProfile()
	require.NoError(t, err)
	assert.Equal(t, field.Nebula(), p)
}

func TestLoadFileWithOverrides(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 900
field:
  profile: aurora
  seed: 7
  overrides:
    particle_count: 12
    boundary: clamp
    min_start_width: 0
cursor:
  mode: spring
`)

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, int64(7), cfg.Field.Seed)
	assert.Equal(t, cursor.ModeSpring, cfg.Cursor.Mode)

	p, err := cfg.ResolveProfile()
	require.NoError(t, err)
	assert.Equal(t, "aurora", p.Name)
	assert.Equal(t, 12, p.ParticleCount)
	assert.Equal(t, field.BoundaryClamp, p.Boundary)
	assert.Zero(t, p.MinStartWidth)
	// untouched fields keep the built-in values
	assert.Equal(t, 0.2, p.ForceStrength)
	assert.Equal(t, field.ColorTheme, p.ColorMode)
}

func TestPaletteOverride(t *testing.T) {
	path := writeConfig(t, `
field:
  overrides:
    palette: ["#ffffff", "#000000"]
`)
	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	p, err := cfg.ResolveProfile()
	require.NoError(t, err)
	assert.Equal(t, []string{"#ffffff", "#000000"}, p.Palette)
}

func TestInvalidOverrideRejected(t *testing.T) {
	path := writeConfig(t, `
field:
  overrides:
    friction: 3
`)
	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	_, err = cfg.ResolveProfile()
	assert.ErrorIs(t, err, field.ErrInvalidProfile)
}

func TestUnknownProfile(t *testing.T) {
	cfg := &Config{Field: FieldConfig{Profile: "plasma"}}
	_, err := cfg.ResolveProfile()
	assert.ErrorIs(t, err, field.ErrInvalidProfile)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CONSTELLATION_FIELD_PROFILE", "aurora")
	t.Setenv("CONSTELLATION_LOGGER_LEVEL", "debug")

	cfg, err := Load(NewViper(), writeConfig(t, "window:\n  title: test\n"))
	require.NoError(t, err)
	assert.Equal(t, "aurora", cfg.Field.Profile)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "test", cfg.Window.Title)
}

func TestMissingExplicitFileFails(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSnapshotDurationFromFile(t *testing.T) {
	path := writeConfig(t, `
snapshot:
  duration: 2s
  interval: 10ms
`)
	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Snapshot.Duration)
	assert.Equal(t, 10*time.Millisecond, cfg.Snapshot.Interval)
}
