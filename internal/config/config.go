package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zeusync/racetracks/internal/core/physics"
	"github.com/zeusync/racetracks/internal/core/race"
	"github.com/zeusync/racetracks/internal/core/vehicle"
)

// EnvPrefix prefixes environment overrides, e.g. RACETRACKS_RACE_TICKS_PER_SECOND.
const EnvPrefix = "RACETRACKS"

var ErrInvalidConfig = errors.New("invalid race configuration")

type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Race   RaceConfig   `mapstructure:"race" yaml:"race"`
	Player PlayerConfig `mapstructure:"player" yaml:"player"`
	NPCs   []NPCConfig  `mapstructure:"npcs" yaml:"npcs"`
}

type LogConfig struct {
	Level    string   `mapstructure:"level" yaml:"level"`
	Encoding string   `mapstructure:"encoding" yaml:"encoding"`
	Outputs  []string `mapstructure:"outputs" yaml:"outputs"`
}

type RaceConfig struct {
	TicksPerSecond int    `mapstructure:"ticks_per_second" yaml:"ticks_per_second"`
	MaxTicks       uint64 `mapstructure:"max_ticks" yaml:"max_ticks"`
	// Track is a YAML track file; empty uses the built-in oval.
	Track string `mapstructure:"track" yaml:"track"`
	// GridSpacing separates cars on the starting grid.
	GridSpacing float64 `mapstructure:"grid_spacing" yaml:"grid_spacing"`
	// HoldTicks keeps a terminal key held after its last press.
	HoldTicks int `mapstructure:"hold_ticks" yaml:"hold_ticks"`
}

type PlayerConfig struct {
	Enabled bool                 `mapstructure:"enabled" yaml:"enabled"`
	Name    string               `mapstructure:"name" yaml:"name"`
	Extent  physics.Extent       `mapstructure:"extent" yaml:"extent"`
	Tuning  vehicle.PlayerTuning `mapstructure:"tuning" yaml:"tuning"`
}

type NPCConfig struct {
	Name   string         `mapstructure:"name" yaml:"name"`
	Speed  float64        `mapstructure:"speed" yaml:"speed"`
	Offset float64        `mapstructure:"offset" yaml:"offset"`
	Extent physics.Extent `mapstructure:"extent" yaml:"extent"`
}

// SetDefaults registers a playable race: one player and three computer cars
// on the built-in oval.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.outputs", []string{"stderr"})

	v.SetDefault("race.ticks_per_second", 60)
	v.SetDefault("race.max_ticks", 0)
	v.SetDefault("race.track", "")
	v.SetDefault("race.grid_spacing", 48.0)
	v.SetDefault("race.hold_ticks", 32)

	v.SetDefault("player.enabled", true)
	v.SetDefault("player.name", "player")
	v.SetDefault("player.extent.width", 16.0)
	v.SetDefault("player.extent.height", 32.0)
	v.SetDefault("player.tuning.thrust", 5.0)
	v.SetDefault("player.tuning.turn", 10.0)

	carExtent := map[string]any{"width": 16.0, "height": 32.0}
	v.SetDefault("npcs", []map[string]any{
		{"name": "red", "speed": 10.0, "offset": -20.0, "extent": carExtent},
		{"name": "blue", "speed": 11.0, "offset": 0.0, "extent": carExtent},
		{"name": "green", "speed": 12.0, "offset": 20.0, "extent": carExtent},
	})
}

// Default returns the configuration produced by SetDefaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads path (YAML) over the defaults and applies RACETRACKS_* overrides.
// An empty path only looks for ./racetracks.yaml and tolerates its absence.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("racetracks")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Race.TicksPerSecond <= 0 || c.Race.TicksPerSecond > race.MaxTicksPerSecond {
		return fmt.Errorf("%w: race.ticks_per_second must be in [1, %d]", ErrInvalidConfig, race.MaxTicksPerSecond)
	}
	if c.Race.GridSpacing < 0 {
		return fmt.Errorf("%w: race.grid_spacing must not be negative", ErrInvalidConfig)
	}
	if c.Player.Enabled && c.Player.Extent.Radius() <= 0 {
		return fmt.Errorf("%w: player.extent must be positive", ErrInvalidConfig)
	}
	for i, n := range c.NPCs {
		if n.Speed <= 0 {
			return fmt.Errorf("%w: npcs[%d].speed must be positive", ErrInvalidConfig, i)
		}
		if n.Extent.Radius() <= 0 {
			return fmt.Errorf("%w: npcs[%d].extent must be positive", ErrInvalidConfig, i)
		}
	}
	return nil
}
