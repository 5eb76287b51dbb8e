package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TimeConfig controls the mapping from real seconds to simulated years
type TimeConfig struct {
	StartYear          int     `yaml:"start_year"`
	YearsPerRealSecond float64 `yaml:"years_per_real_second"`
	DefaultSpeed       float64 `yaml:"default_speed"`
	MinSpeed           float64 `yaml:"min_speed"`
	MaxSpeed           float64 `yaml:"max_speed"`

	// SecondsPerYear is the projection constant used by time skips
	// (how many simulated production seconds one skipped year is worth).
	SecondsPerYear float64 `yaml:"seconds_per_year"`
}

// GameConfig holds session-level policies
type GameConfig struct {
	AutoSaveInterval float64 `yaml:"auto_save_interval"`

	// PauseOnEvent pauses the time system while an event awaits a choice.
	PauseOnEvent bool `yaml:"pause_on_event"`
}

// Config is the full engine configuration. It is constructed once at startup
// and passed by value into the systems that need it; there is no global
// config instance.
type Config struct {
	Time TimeConfig `yaml:"time"`
	Game GameConfig `yaml:"game"`
}

// DefaultConfig returns the baseline configuration
func DefaultConfig() Config {
	return Config{
		Time: TimeConfig{
			StartYear:          1800,
			YearsPerRealSecond: 1.0,
			DefaultSpeed:       1.0,
			MinSpeed:           0.25,
			MaxSpeed:           16.0,
			SecondsPerYear:     2.0,
		},
		Game: GameConfig{
			AutoSaveInterval: 300,
			PauseOnEvent:     false,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; malformed YAML is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot run with
func (c Config) Validate() error {
	if c.Time.YearsPerRealSecond <= 0 {
		return fmt.Errorf("time.years_per_real_second must be positive, got %v", c.Time.YearsPerRealSecond)
	}
	if c.Time.MinSpeed <= 0 || c.Time.MaxSpeed < c.Time.MinSpeed {
		return fmt.Errorf("invalid speed range [%v, %v]", c.Time.MinSpeed, c.Time.MaxSpeed)
	}
	if c.Time.SecondsPerYear <= 0 {
		return fmt.Errorf("time.seconds_per_year must be positive, got %v", c.Time.SecondsPerYear)
	}
	return nil
}
