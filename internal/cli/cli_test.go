package cli

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/constellation/internal/field"
	"chosenoffset.com/constellation/internal/render"
	"chosenoffset.com/constellation/internal/render/headless"
	"chosenoffset.com/constellation/internal/render/rendertest"
)

// fakeEngine runs a fixed number of frames and then reports a quit key.
type fakeEngine struct {
	title     string
	w, h      int
	resizable bool
	frames    int
	input     *fakeInput
}

func (e *fakeEngine) SetWindowSize(width, height int)   { e.w, e.h = width, height }
func (e *fakeEngine) SetWindowTitle(title string)       { e.title = title }
func (e *fakeEngine) SetWindowResizable(resizable bool) { e.resizable = resizable }

func (e *fakeEngine) RunGame(game render.Game) error {
	screen := rendertest.NewSurface(e.w, e.h)
	for {
		game.Layout(e.w, e.h)
		e.input.quit = e.frames == 3
		if err := game.Update(); err != nil {
			if errors.Is(err, render.ErrTerminated) {
				return nil
			}
			return err
		}
		game.Draw(screen)
		e.frames++
	}
}

type fakeInput struct{ quit bool }

func (i *fakeInput) IsKeyJustPressed(key render.Key) bool { return i.quit && key == render.KeyEscape }
func (i *fakeInput) GetCursorPosition() (int, int)        { return 10, 10 }
func (i *fakeInput) IsFocused() bool                      { return true }

// execute runs a fresh command tree and returns stdout and stderr.
func execute(t *testing.T, backend Backend, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("CONSTELLATION_THEME_PREFERENCES_FILE", filepath.Join(t.TempDir(), "prefs.json"))

	cmd := NewRootCmd(backend)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestProfilesListsBuiltins(t *testing.T) {
	out, _, err := execute(t, Backend{}, "profiles")
	require.NoError(t, err)

	for _, name := range field.Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "768")
}

func TestSnapshotWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "field.png")
	_, logs, err := execute(t, Backend{}, "snapshot",
		"--ticks", "5", "--out", out, "--seed", "42", "--width", "320", "--height", "200")
	require.NoError(t, err)
	assert.Contains(t, logs, "Snapshot written")

	file, err := os.Open(out)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestSnapshotIsReproducibleWithSeed(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	for _, out := range []string{a, b} {
		_, _, err := execute(t, Backend{}, "snapshot", "-p", "aurora",
			"--ticks", "3", "--out", out, "--seed", "9", "--width", "800", "--height", "600")
		require.NoError(t, err)
	}

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestSnapshotRejectsZeroTicks(t *testing.T) {
	_, _, err := execute(t, Backend{}, "snapshot", "--ticks", "0", "--out", filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)
}

func TestUnknownProfile(t *testing.T) {
	_, _, err := execute(t, Backend{}, "snapshot", "--profile", "nope",
		"--out", filepath.Join(t.TempDir(), "x.png"), "--ticks", "1")
	assert.ErrorIs(t, err, field.ErrInvalidProfile)
}

func TestConfigFileOverridesProfile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
field:
  profile: nebula
  overrides:
    particle_count: 3
logger:
  level: debug
  format: json
`), 0o644))

	_, logs, err := execute(t, Backend{}, "--config", cfgPath, "snapshot",
		"--ticks", "1", "--out", filepath.Join(dir, "x.png"), "--width", "100", "--height", "100")
	require.NoError(t, err)
	assert.Contains(t, logs, `"particles":3`)
}

func TestMissingConfigFileFails(t *testing.T) {
	_, _, err := execute(t, Backend{}, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "profiles")
	assert.Error(t, err)
}

func TestRunUsesBackend(t *testing.T) {
	engine := &fakeEngine{input: &fakeInput{}}
	backend := Backend{
		NewEngine: func() render.Engine { return engine },
		NewInput:  func() render.InputManager { return engine.input },
	}

	_, logs, err := execute(t, backend, "run", "--width", "900", "--height", "700")
	require.NoError(t, err)
	assert.Equal(t, "Constellation", engine.title)
	assert.Equal(t, 900, engine.w)
	assert.Equal(t, 700, engine.h)
	assert.True(t, engine.resizable)
	assert.Equal(t, 3, engine.frames)
	assert.Contains(t, logs, "Window closed")
}

func TestRunWithoutBackend(t *testing.T) {
	_, _, err := execute(t, Backend{}, "run")
	assert.Error(t, err)
}

func TestSnapshotRealtime(t *testing.T) {
	out := filepath.Join(t.TempDir(), "live.png")
	_, logs, err := execute(t, Backend{}, "snapshot",
		"--duration", "60ms", "--interval", "5ms", "--out", out, "--width", "200", "--height", "150")
	require.NoError(t, err)
	assert.Contains(t, logs, "Snapshot written")

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestSnapshotRealtimeRejectsZeroInterval(t *testing.T) {
	out := filepath.Join(t.TempDir(), "live.png")
	_, _, err := execute(t, Backend{}, "snapshot",
		"--duration", "10ms", "--interval", "0s", "--out", out)
	assert.ErrorIs(t, err, headless.ErrInvalidInterval)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMissingSurfaceIsANoop(t *testing.T) {
	out := filepath.Join(t.TempDir(), "none.png")
	_, logs, err := execute(t, Backend{}, "snapshot", "--ticks", "1", "--out", out, "--width", "0")
	require.NoError(t, err)
	assert.Contains(t, logs, "No drawing surface")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))

	engine := &fakeEngine{input: &fakeInput{}}
	backend := Backend{
		NewEngine: func() render.Engine { return engine },
		NewInput:  func() render.InputManager { return engine.input },
	}
	_, logs, err = execute(t, backend, "run", "--height=-1")
	require.NoError(t, err)
	assert.Contains(t, logs, "not opening a window")
	assert.Zero(t, engine.frames)
}
