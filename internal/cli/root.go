// Package cli holds the cobra commands of the constellation binary.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chosenoffset.com/constellation/internal/config"
	"chosenoffset.com/constellation/internal/field"
	"chosenoffset.com/constellation/internal/observability"
	"chosenoffset.com/constellation/internal/render"
	"chosenoffset.com/constellation/internal/theme"
)

// Backend creates the windowed renderer used by the run command.
type Backend struct {
	NewEngine func() render.Engine
	NewInput  func() render.InputManager
}

// app is the state shared by all commands of one root command.
type app struct {
	backend Backend
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd(backend Backend) *cobra.Command {
	a := &app{backend: backend, v: config.NewViper(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "constellation",
		Short:         "Constellation renders an interactive particle field.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(cfg.Logger, zapcore.AddSync(cmd.ErrOrStderr()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "particle profile ("+joinNames()+")")
	_ = a.v.BindPFlag("field.profile", rootCmd.PersistentFlags().Lookup("profile"))

	rootCmd.AddCommand(newRunCmd(a), newSnapshotCmd(a), newProfilesCmd())
	return rootCmd
}

// fieldOptions returns the options shared by windowed and headless fields.
func (a *app) fieldOptions(store *theme.Store) []field.Option {
	opts := []field.Option{
		field.WithTheme(store),
		field.WithLogger(a.logger.Named("field")),
	}
	if a.cfg.Field.Seed != 0 {
		opts = append(opts, field.WithSeed(a.cfg.Field.Seed))
	}
	return opts
}

func (a *app) themeStore() (*theme.Store, error) {
	store, err := theme.NewStore(a.cfg.Theme.PreferencesFile, a.logger.Named("theme"))
	if err != nil {
		return nil, fmt.Errorf("failed to load theme preference: %w", err)
	}
	return store, nil
}

func joinNames() string { return strings.Join(field.Names(), ", ") }
