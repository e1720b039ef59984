package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chosenoffset.com/constellation/internal/field"
	"chosenoffset.com/constellation/internal/render"
	"chosenoffset.com/constellation/internal/render/headless"
	"chosenoffset.com/constellation/internal/render/raster"
	"chosenoffset.com/constellation/internal/scene"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Simulate the field headlessly and write the last frame as PNG",
		Long: `Simulates the field without a window and writes the last frame as PNG.

By default the given number of ticks is run back to back. With --duration the
field runs in real time, one frame per --interval, until the duration has
passed or the command is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.snapshot(cmd.Context())
		},
	}
	cmd.Flags().Int("ticks", 0, "number of ticks to simulate")
	cmd.Flags().StringP("out", "o", "", "output PNG file")
	cmd.Flags().Int64("seed", 0, "random seed (0 seeds from the clock)")
	cmd.Flags().Int("width", 0, "image width")
	cmd.Flags().Int("height", 0, "image height")
	cmd.Flags().Duration("duration", 0, "run in real time for this long instead of --ticks")
	cmd.Flags().Duration("interval", 0, "frame interval in real time mode")
	_ = a.v.BindPFlag("snapshot.ticks", cmd.Flags().Lookup("ticks"))
	_ = a.v.BindPFlag("snapshot.output", cmd.Flags().Lookup("out"))
	_ = a.v.BindPFlag("field.seed", cmd.Flags().Lookup("seed"))
	_ = a.v.BindPFlag("snapshot.width", cmd.Flags().Lookup("width"))
	_ = a.v.BindPFlag("snapshot.height", cmd.Flags().Lookup("height"))
	_ = a.v.BindPFlag("snapshot.duration", cmd.Flags().Lookup("duration"))
	_ = a.v.BindPFlag("snapshot.interval", cmd.Flags().Lookup("interval"))
	return cmd
}

func (a *app) snapshot(ctx context.Context) error {
	sc := a.cfg.Snapshot
	realtime := sc.Duration > 0
	if !realtime && sc.Ticks < 1 {
		return fmt.Errorf("ticks must be at least 1, got %d", sc.Ticks)
	}
	if sc.Output == "" {
		return fmt.Errorf("no output file given")
	}

	profile, err := a.cfg.ResolveProfile()
	if err != nil {
		return err
	}
	store, err := a.themeStore()
	if err != nil {
		return err
	}
	f, err := field.New(profile, sc.Width, sc.Height, a.fieldOptions(store)...)
	if errors.Is(err, field.ErrSurfaceUnavailable) {
		a.logger.Warn("No drawing surface, nothing to snapshot", zap.Error(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	img := raster.NewSurface(sc.Width, sc.Height)
	bg := scene.Background(store.Current())
	img.Fill(bg)

	host := headless.NewHost(render.WithBackground(img, bg), sc.Interval, a.logger.Named("headless"))
	handle := f.Start(host)
	if realtime {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		ctx, cancel := context.WithTimeout(ctx, sc.Duration)
		err = host.Run(ctx)
		cancel()
		stop()
	} else {
		host.RunFrames(sc.Ticks)
	}
	handle.Stop()
	if err != nil {
		return err
	}

	if err := img.SavePNG(sc.Output); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	a.logger.Info("Snapshot written",
		zap.String("file", sc.Output),
		zap.String("profile", profile.Name),
		zap.Int("ticks", host.Frames()),
		zap.Int("edges", len(f.Connections())))
	return nil
}
