// Package theme holds the dark/light theme preference and persists it to a
// small JSON file so it survives restarts.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Theme is a named color scheme.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// ErrUnknownTheme is returned when parsing a theme name other than dark or light.
var ErrUnknownTheme = errors.New("unknown theme")

// Parse converts a theme name into a Theme.
func Parse(name string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(name))) {
	case Dark:
		return Dark, nil
	case Light:
		return Light, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
}

// Toggle returns the opposite theme. Anything that is not dark becomes dark.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Preferences is the on-disk preference document.
type Preferences struct {
	Theme Theme `json:"theme"`
}

// DefaultPreferences returns the preferences used when nothing is stored.
func DefaultPreferences() *Preferences {
	return &Preferences{Theme: Dark}
}

// LoadPreferences loads preferences from a JSON file.
// A missing file yields the defaults.
func LoadPreferences(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPreferences(), nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := DefaultPreferences()
	if err := json.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	t, err := Parse(string(prefs.Theme))
	if err != nil {
		return nil, fmt.Errorf("invalid stored theme: %w", err)
	}
	prefs.Theme = t
	return prefs, nil
}

// SavePreferences writes preferences to path, creating parent directories.
func SavePreferences(path string, prefs *Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Store is the live theme collaborator. It is safe for concurrent use.
// With an empty path the preference is kept in memory only.
type Store struct {
	mu      sync.RWMutex
	current Theme
	path    string
	logger  *zap.Logger
}

// NewStore loads the stored preference from path.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{current: Dark, path: path, logger: logger}
	if path == "" {
		return s, nil
	}
	prefs, err := LoadPreferences(path)
	if err != nil {
		return nil, err
	}
	s.current = prefs.Theme
	logger.Debug("Loaded theme preference", zap.String("theme", string(s.current)), zap.String("path", path))
	return s, nil
}

// Current returns the active theme.
func (s *Store) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set activates t and persists it.
// The in-memory value changes even if persisting fails.
func (s *Store) Set(t Theme) error {
	t, err := Parse(string(t))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := SavePreferences(s.path, &Preferences{Theme: t}); err != nil {
		s.logger.Warn("Failed to persist theme", zap.String("theme", string(t)), zap.Error(err))
		return err
	}
	return nil
}

// Toggle flips between dark and light and persists the result.
func (s *Store) Toggle() (Theme, error) {
	next := s.Current().Toggle()
	return next, s.Set(next)
}
