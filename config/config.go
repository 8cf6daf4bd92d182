// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Boids     BoidsConfig     `yaml:"boids"`
	Rules     RulesConfig     `yaml:"rules"`
	Sim       SimConfig       `yaml:"sim"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds viewer display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation space dimensions.
type WorldConfig struct {
	Scale float64 `yaml:"scale"` // scene half-extent; boids live in [-scale, scale]^3
}

// BoidsConfig holds population parameters.
type BoidsConfig struct {
	Count    int     `yaml:"count"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// RulesConfig holds the three flocking rule radii and strengths.
// Radii are fixed per run; the grid cell width is derived from the largest.
type RulesConfig struct {
	CohesionRadius   float64 `yaml:"cohesion_radius"`
	SeparationRadius float64 `yaml:"separation_radius"`
	AlignmentRadius  float64 `yaml:"alignment_radius"`

	CohesionScale   float64 `yaml:"cohesion_scale"`
	SeparationScale float64 `yaml:"separation_scale"`
	AlignmentScale  float64 `yaml:"alignment_scale"`
}

// SimConfig holds stepping parameters.
type SimConfig struct {
	DT       float64 `yaml:"dt"`
	Strategy string  `yaml:"strategy"` // brute, scattered or coherent
	Workers  int     `yaml:"workers"`  // worker pool size (0 = GOMAXPROCS)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindowTicks    int `yaml:"stats_window_ticks"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Sim.DT as float32
	Scale32   float32 // World.Scale as float32
	MaxRadius float64 // largest rule radius
	CellWidth float64 // grid cell width (2 * MaxRadius)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Sim.DT)
	c.Derived.Scale32 = float32(c.World.Scale)

	maxR := c.Rules.CohesionRadius
	if c.Rules.SeparationRadius > maxR {
		maxR = c.Rules.SeparationRadius
	}
	if c.Rules.AlignmentRadius > maxR {
		maxR = c.Rules.AlignmentRadius
	}
	c.Derived.MaxRadius = maxR
	c.Derived.CellWidth = 2 * maxR
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
