// Package config loads the tempo configuration: defaults, then
// ~/.tempo/config.yaml, then TEMPO_* environment overrides, each layer
// winning over the one before it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/evanmarch/tempo/internal/schedule"
)

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Grid     GridConfig     `yaml:"grid" mapstructure:"grid"`
	Work     WorkConfig     `yaml:"work" mapstructure:"work"`
	GCal     GCalConfig     `yaml:"gcal" mapstructure:"gcal"`
}

// DatabaseConfig locates the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// GridConfig holds the day grid dimensions: the hour span the grid renders
// and the pixel geometry of its slots.
type GridConfig struct {
	StartHour  int `yaml:"start_hour" mapstructure:"start_hour"`
	EndHour    int `yaml:"end_hour" mapstructure:"end_hour"` // exclusive
	SlotHeight int `yaml:"slot_height" mapstructure:"slot_height"`
	BlockGap   int `yaml:"block_gap" mapstructure:"block_gap"`
}

// WorkConfig holds the working-hours band used for capacity math.
type WorkConfig struct {
	StartHour int `yaml:"start_hour" mapstructure:"start_hour"`
	EndHour   int `yaml:"end_hour" mapstructure:"end_hour"` // exclusive
}

// GCalConfig configures the optional Google Calendar export.
// The whole subsystem stays off unless Enabled is set.
type GCalConfig struct {
	Enabled         bool   `yaml:"enabled" mapstructure:"enabled"`
	CalendarID      string `yaml:"calendar_id" mapstructure:"calendar_id"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	TokenFile       string `yaml:"token_file" mapstructure:"token_file"`
}

// Dir returns the tempo configuration directory, ~/.tempo unless
// TEMPO_DIR overrides it.
func Dir() (string, error) {
	if v := os.Getenv("TEMPO_DIR"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".tempo"), nil
}

// DefaultConfig returns the stock configuration rooted at dir: the
// engine's default dimensions plus dir-relative storage paths.
func DefaultConfig(dir string) Config {
	sched := schedule.DefaultConfig()
	return Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "tempo.db"),
		},
		Grid: GridConfig{
			StartHour:  sched.GridStartHour,
			EndHour:    sched.GridEndHour,
			SlotHeight: sched.SlotHeightPx,
			BlockGap:   sched.BlockGapPx,
		},
		Work: WorkConfig{
			StartHour: sched.WorkStartHour,
			EndHour:   sched.WorkEndHour,
		},
		GCal: GCalConfig{
			Enabled:         false,
			CalendarID:      "primary",
			CredentialsFile: filepath.Join(dir, "credentials.json"),
			TokenFile:       filepath.Join(dir, "token.json"),
		},
	}
}

// Load reads the configuration. A missing config file is fine; a present
// but unreadable one is not.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig(dir)

	v := viper.New()
	v.SetConfigName("config") // .yaml is implicit
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("TEMPO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only honors env overrides for keys it already knows, so every
	// key gets its default registered.
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.sanitize(dir)
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("grid.start_hour", cfg.Grid.StartHour)
	v.SetDefault("grid.end_hour", cfg.Grid.EndHour)
	v.SetDefault("grid.slot_height", cfg.Grid.SlotHeight)
	v.SetDefault("grid.block_gap", cfg.Grid.BlockGap)
	v.SetDefault("work.start_hour", cfg.Work.StartHour)
	v.SetDefault("work.end_hour", cfg.Work.EndHour)
	v.SetDefault("gcal.enabled", cfg.GCal.Enabled)
	v.SetDefault("gcal.calendar_id", cfg.GCal.CalendarID)
	v.SetDefault("gcal.credentials_file", cfg.GCal.CredentialsFile)
	v.SetDefault("gcal.token_file", cfg.GCal.TokenFile)
}

// sanitize restores defaults for values the grid math cannot work with,
// one section at a time.
func (c *Config) sanitize(dir string) {
	def := DefaultConfig(dir)
	if c.Grid.StartHour < 0 || c.Grid.EndHour > 24 || c.Grid.StartHour >= c.Grid.EndHour {
		c.Grid.StartHour = def.Grid.StartHour
		c.Grid.EndHour = def.Grid.EndHour
	}
	if c.Work.StartHour < 0 || c.Work.EndHour > 24 || c.Work.StartHour >= c.Work.EndHour {
		c.Work = def.Work
	}
	if c.Grid.SlotHeight <= 0 {
		c.Grid.SlotHeight = def.Grid.SlotHeight
	}
	if c.Grid.BlockGap < 0 {
		c.Grid.BlockGap = def.Grid.BlockGap
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.GCal.CalendarID == "" {
		c.GCal.CalendarID = def.GCal.CalendarID
	}
}

// ScheduleConfig maps the loaded values onto the engine's dimensions.
func (c Config) ScheduleConfig() schedule.Config {
	return schedule.Config{
		GridStartHour: c.Grid.StartHour,
		GridEndHour:   c.Grid.EndHour,
		WorkStartHour: c.Work.StartHour,
		WorkEndHour:   c.Work.EndHour,
		SlotHeightPx:  c.Grid.SlotHeight,
		BlockGapPx:    c.Grid.BlockGap,
	}
}
