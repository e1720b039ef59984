package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chosenoffset.com/constellation/internal/cursor"
	"chosenoffset.com/constellation/internal/field"
	"chosenoffset.com/constellation/internal/scene"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and run the particle field",
		Long: `Opens a resizable window running the particle field.

Keys: T toggles the theme, Space pauses, R re-seeds the particles,
Q or Esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWindow()
		},
	}
	cmd.Flags().Int("width", 0, "initial window width")
	cmd.Flags().Int("height", 0, "initial window height")
	_ = a.v.BindPFlag("window.width", cmd.Flags().Lookup("width"))
	_ = a.v.BindPFlag("window.height", cmd.Flags().Lookup("height"))
	return cmd
}

func (a *app) runWindow() error {
	if a.backend.NewEngine == nil || a.backend.NewInput == nil {
		return errors.New("no window backend available")
	}
	cfg := a.cfg

	profile, err := cfg.ResolveProfile()
	if err != nil {
		return err
	}
	store, err := a.themeStore()
	if err != nil {
		return err
	}

	f, err := field.New(profile, cfg.Window.Width, cfg.Window.Height, a.fieldOptions(store)...)
	if errors.Is(err, field.ErrSurfaceUnavailable) {
		a.logger.Warn("No drawing surface, not opening a window", zap.Error(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	var follower *cursor.Follower
	if cfg.Cursor.Enabled {
		if follower, err = cursor.New(cfg.Cursor); err != nil {
			return fmt.Errorf("failed to create cursor follower: %w", err)
		}
	}

	s := scene.New(f, store, follower, a.backend.NewInput(), cfg.Window.Width, cfg.Window.Height, a.logger.Named("scene"))
	defer s.Close()

	engine := a.backend.NewEngine()
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(cfg.Window.Resizable)

	a.logger.Info("Starting window",
		zap.String("profile", profile.Name),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("theme", string(store.Current())))
	if err := engine.RunGame(s); err != nil {
		return fmt.Errorf("frame loop failed: %w", err)
	}
	a.logger.Info("Window closed")
	return nil
}
