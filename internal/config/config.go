// Package config loads application settings with viper from an optional
// YAML file, CONSTELLATION_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"chosenoffset.com/constellation/internal/cursor"
	"chosenoffset.com/constellation/internal/field"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CONSTELLATION"

// Config holds the entire application configuration.
type Config struct {
	Window   WindowConfig   `mapstructure:"window" yaml:"window"`
	Field    FieldConfig    `mapstructure:"field" yaml:"field"`
	Theme    ThemeConfig    `mapstructure:"theme" yaml:"theme"`
	Cursor   cursor.Config  `mapstructure:"cursor" yaml:"cursor"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" yaml:"snapshot"`
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
}

// WindowConfig describes the desktop window.
type WindowConfig struct {
	Width     int    `mapstructure:"width" yaml:"width"`
	Height    int    `mapstructure:"height" yaml:"height"`
	Title     string `mapstructure:"title" yaml:"title"`
	Resizable bool   `mapstructure:"resizable" yaml:"resizable"`
}

// FieldConfig selects a built-in profile and optional per-key overrides,
// keyed like the profile's mapstructure tags.
type FieldConfig struct {
	Profile   string                 `mapstructure:"profile" yaml:"profile"`
	Seed      int64                  `mapstructure:"seed" yaml:"seed"` // 0 seeds from the clock
	Overrides map[string]interface{} `mapstructure:"overrides" yaml:"overrides"`
}

// ThemeConfig locates the persisted theme preference. An empty file keeps
// the preference in memory only.
type ThemeConfig struct {
	PreferencesFile string `mapstructure:"preferences_file" yaml:"preferences_file"`
}

// SnapshotConfig controls headless PNG rendering.
type SnapshotConfig struct {
	Ticks  int    `mapstructure:"ticks" yaml:"ticks"`
	Output string `mapstructure:"output" yaml:"output"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`

	// Duration > 0 runs the headless host in real time instead of Ticks.
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("window.title", "Constellation")
	v.SetDefault("window.resizable", true)

	v.SetDefault("field.profile", "nebula")
	v.SetDefault("field.seed", 0)

	v.SetDefault("theme.preferences_file", defaultPreferencesFile())

	c := cursor.DefaultConfig()
	v.SetDefault("cursor.enabled", c.Enabled)
	v.SetDefault("cursor.mode", string(c.Mode))
	v.SetDefault("cursor.dot_factor", c.DotFactor)
	v.SetDefault("cursor.trail_factor", c.TrailFactor)
	v.SetDefault("cursor.dot_radius", c.DotRadius)
	v.SetDefault("cursor.trail_radius", c.TrailRadius)
	v.SetDefault("cursor.fps", c.FPS)
	v.SetDefault("cursor.frequency", c.Frequency)
	v.SetDefault("cursor.damping", c.Damping)

	v.SetDefault("snapshot.ticks", 240)
	v.SetDefault("snapshot.output", "constellation.png")
	v.SetDefault("snapshot.width", 1280)
	v.SetDefault("snapshot.height", 800)
	v.SetDefault("snapshot.duration", time.Duration(0))
	v.SetDefault("snapshot.interval", time.Second/60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "constellation")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
}

func defaultPreferencesFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "constellation", "preferences.json")
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (or ./config.yaml when path is empty) into v and
// unmarshals the result. A missing default config file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ResolveProfile returns the selected built-in profile with the configured
// overrides applied, validated.
func (c *Config) ResolveProfile() (field.Profile, error) {
	p, ok := field.Lookup(c.Field.Profile)
	if !ok {
		return field.Profile{}, fmt.Errorf("%w: unknown profile %q (available: %s)",
			field.ErrInvalidProfile, c.Field.Profile, strings.Join(field.Names(), ", "))
	}

	if len(c.Field.Overrides) > 0 {
		ov := viper.New()
		if err := ov.MergeConfigMap(c.Field.Overrides); err != nil {
			return field.Profile{}, fmt.Errorf("failed to merge profile overrides: %w", err)
		}
		if err := ov.Unmarshal(&p); err != nil {
			return field.Profile{}, fmt.Errorf("failed to apply profile overrides: %w", err)
		}
	}

	if err := p.Validate(); err != nil {
		return field.Profile{}, err
	}
	return p, nil
}
