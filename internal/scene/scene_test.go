package scene

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/constellation/internal/cursor"
	"chosenoffset.com/constellation/internal/field"
	"chosenoffset.com/constellation/internal/render"
	"chosenoffset.com/constellation/internal/render/rendertest"
	"chosenoffset.com/constellation/internal/theme"
)

type fakeInput struct {
	pressed map[render.Key]bool
	x, y    int
	focused bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{pressed: map[render.Key]bool{}, x: -1, y: -1, focused: true}
}

func (i *fakeInput) IsKeyJustPressed(key render.Key) bool { return i.pressed[key] }
func (i *fakeInput) GetCursorPosition() (int, int)        { return i.x, i.y }
func (i *fakeInput) IsFocused() bool                      { return i.focused }

// press marks key as pressed for exactly one Update.
func (i *fakeInput) press(s *Scene, key render.Key) error {
	i.pressed[key] = true
	defer delete(i.pressed, key)
	return s.Update()
}

func newTestScene(t *testing.T) (*Scene, *fakeInput, *theme.Store) {
	t.Helper()
	store, err := theme.NewStore(filepath.Join(t.TempDir(), "prefs.json"), nil)
	require.NoError(t, err)
	f, err := field.New(field.Nebula(), 800, 600, field.WithSeed(7), field.WithTheme(store))
	require.NoError(t, err)
	follower, err := cursor.New(cursor.DefaultConfig())
	require.NoError(t, err)

	in := newFakeInput()
	return New(f, store, follower, in, 800, 600, nil), in, store
}

func TestNewStartsFieldAndFollower(t *testing.T) {
	s, _, _ := newTestScene(t)
	assert.False(t, s.Paused())
	// field: 5 listeners, follower: 4
	assert.Equal(t, 9, s.ListenerCount())
}

func TestUpdateStepsField(t *testing.T) {
	s, _, _ := newTestScene(t)
	before := s.Field.Particles()
	require.NoError(t, s.Update())
	assert.NotEqual(t, before, s.Field.Particles())
}

func TestPointerEvents(t *testing.T) {
	s, in, _ := newTestScene(t)

	require.NoError(t, s.Update())
	assert.False(t, s.Field.Pointer().Present, "cursor outside surface")

	in.x, in.y = 100, 200
	require.NoError(t, s.Update())
	assert.Equal(t, field.Pointer{X: 100, Y: 200, Present: true}, s.Field.Pointer())
	assert.True(t, s.Follower.Visible())

	in.x = 900
	require.NoError(t, s.Update())
	assert.False(t, s.Field.Pointer().Present)
	assert.False(t, s.Follower.Visible())

	in.x = 300
	require.NoError(t, s.Update())
	assert.True(t, s.Field.Pointer().Present)

	in.focused = false
	require.NoError(t, s.Update())
	assert.False(t, s.Field.Pointer().Present, "focus lost counts as leave")
}

func TestLayoutResizesField(t *testing.T) {
	s, _, _ := newTestScene(t)

	w, h := s.Layout(1024, 768)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	fw, fh := s.Field.Size()
	assert.Equal(t, 1024.0, fw)
	assert.Equal(t, 768.0, fh)
}

func TestThemeKeyTogglesAndPersists(t *testing.T) {
	s, in, store := newTestScene(t)
	require.Equal(t, theme.Dark, store.Current())

	require.NoError(t, in.press(s, render.KeyT))
	assert.Equal(t, theme.Light, store.Current())

	surface := rendertest.NewSurface(800, 600)
	s.Draw(surface)
	require.NotEmpty(t, surface.Fills)
	assert.Equal(t, lightBackground, surface.Fills[len(surface.Fills)-1])
}

func TestPauseFreezesField(t *testing.T) {
	s, in, _ := newTestScene(t)

	require.NoError(t, in.press(s, render.KeySpace))
	assert.True(t, s.Paused())

	frozen := s.Field.Particles()
	require.NoError(t, s.Update())
	assert.Equal(t, frozen, s.Field.Particles())

	// a paused field is still drawn
	surface := rendertest.NewSurface(800, 600)
	s.Draw(surface)
	assert.Len(t, surface.Circles, len(frozen))

	require.NoError(t, in.press(s, render.KeySpace))
	assert.False(t, s.Paused())
	require.NoError(t, s.Update())
	assert.NotEqual(t, frozen, s.Field.Particles())
}

func TestQuitKeysTerminate(t *testing.T) {
	for _, key := range []render.Key{render.KeyEscape, render.KeyQ} {
		s, in, _ := newTestScene(t)
		err := in.press(s, key)
		assert.ErrorIs(t, err, render.ErrTerminated)
		assert.Zero(t, s.ListenerCount())
	}
}

func TestDrawFillsDarkBackground(t *testing.T) {
	s, _, _ := newTestScene(t)
	surface := rendertest.NewSurface(800, 600)
	s.Draw(surface)

	require.NotEmpty(t, surface.Fills)
	assert.Equal(t, darkBackground, surface.Fills[0])
	assert.Len(t, surface.Circles, field.Nebula().ParticleCount)
}

func TestPauseKeepsIdleFieldHidden(t *testing.T) {
	store, err := theme.NewStore("", nil)
	require.NoError(t, err)
	f, err := field.New(field.Aurora(), 600, 400, field.WithSeed(3), field.WithTheme(store))
	require.NoError(t, err)
	in := newFakeInput()
	s := New(f, store, nil, in, 600, 400, nil)
	defer s.Close()

	surface := rendertest.NewSurface(600, 400)
	s.Draw(surface)
	require.Empty(t, surface.Circles)

	require.NoError(t, in.press(s, render.KeySpace))
	assert.False(t, s.Paused())

	surface = rendertest.NewSurface(600, 400)
	s.Draw(surface)
	assert.Empty(t, surface.Circles)
	assert.Zero(t, s.ListenerCount())
}
