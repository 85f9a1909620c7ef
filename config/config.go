// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Population   PopulationConfig   `yaml:"population"`
	Energy       EnergyConfig       `yaml:"energy"`
	Behavior     BehaviorConfig     `yaml:"behavior"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Genetics     GeneticsConfig     `yaml:"genetics"`
	Contest      ContestConfig      `yaml:"contest"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds arena dimensions.
// The arena is a square on the X/Z plane centred on the origin.
type WorldConfig struct {
	Size        float64 `yaml:"size"`         // Edge length (WORLD_SIZE)
	AgentHeight float64 `yaml:"agent_height"` // Y coordinate of agents
	FoodHeight  float64 `yaml:"food_height"`  // Y coordinate of food, just above the ground
}

// PhysicsConfig holds the fixed headless timestep.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// PopulationConfig holds initial seeding parameters.
type PopulationConfig struct {
	Starting     int `yaml:"starting"`      // STARTING_POPULATION
	StartingFood int `yaml:"starting_food"` // STARTING_FOOD, constant for the run
}

// EnergyConfig holds the energy economy.
type EnergyConfig struct {
	Starting      float64 `yaml:"starting"`       // STARTING_ENERGY
	CostMove      float64 `yaml:"cost_move"`      // ENERGY_COST_MOVE, per unit speed per second
	GainFood      float64 `yaml:"gain_food"`      // ENERGY_GAIN_FOOD, uncontested meal
	CostReproduce float64 `yaml:"cost_reproduce"` // ENERGY_COST_REPRODUCE, charged to each parent
}

// BehaviorConfig holds state machine thresholds and locomotion parameters.
type BehaviorConfig struct {
	HungerThreshold    float64 `yaml:"hunger_threshold"`    // HUNGER_THRESHOLD
	ReproduceThreshold float64 `yaml:"reproduce_threshold"` // REPRODUCE_ENERGY_THRESHOLD
	TurnChance         float64 `yaml:"turn_chance"`         // Per-tick probability of a wander turn
	MaxTurnDeg         float64 `yaml:"max_turn_deg"`        // Wander turn range, +/- degrees
	ContactDistance    float64 `yaml:"contact_distance"`    // Distance that counts as reaching a target
}

// ReproductionConfig holds offspring placement parameters.
type ReproductionConfig struct {
	SpawnOffset float64 `yaml:"spawn_offset"` // Child lands within +/- this of the initiating parent
}

// MutationConfig holds the two-tier mutation rates.
type MutationConfig struct {
	Rate     float64 `yaml:"rate"`      // MUTATION_RATE, per ordinary trait
	MetaRate float64 `yaml:"meta_rate"` // MUTATION_RATE_META, for the multiplier gene
}

// GeneticsConfig holds mutation step sizes and trait floors.
type GeneticsConfig struct {
	AggressionStep float64 `yaml:"aggression_step"`
	SpeedStep      float64 `yaml:"speed_step"`
	VisionStep     float64 `yaml:"vision_step"`
	MetaStep       float64 `yaml:"meta_step"`
	MinSpeed       float64 `yaml:"min_speed"`
	MinVision      float64 `yaml:"min_vision"`
	MinMultiplier  float64 `yaml:"min_multiplier"`
}

// ContestConfig holds Hawk-Dove payoff parameters.
type ContestConfig struct {
	AggressionThreshold float64 `yaml:"aggression_threshold"` // Hawk iff aggression > this
	ResourceValue       float64 `yaml:"resource_value"`       // V
	FightCost           float64 `yaml:"fight_cost"`           // C
	DisplayCost         float64 `yaml:"display_cost"`         // D
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfWindow          int     `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HalfWorld  float64 // World.Size / 2
	MaxTurnRad float64 // Behavior.MaxTurnDeg in radians
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.World.Size <= 0 {
		errs = append(errs, fmt.Errorf("world.size must be positive, got %v", c.World.Size))
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT))
	}
	if c.Population.Starting < 0 || c.Population.StartingFood < 0 {
		errs = append(errs, errors.New("population counts must not be negative"))
	}
	if c.Behavior.HungerThreshold >= c.Behavior.ReproduceThreshold {
		errs = append(errs, fmt.Errorf("behavior.hunger_threshold (%v) must be below reproduce_threshold (%v)",
			c.Behavior.HungerThreshold, c.Behavior.ReproduceThreshold))
	}
	if c.Energy.CostMove < 0 || c.Energy.CostReproduce < 0 {
		errs = append(errs, errors.New("energy costs must not be negative"))
	}
	if c.Contest.FightCost < 0 || c.Contest.DisplayCost < 0 {
		errs = append(errs, errors.New("contest costs must not be negative"))
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 || c.Mutation.MetaRate < 0 || c.Mutation.MetaRate > 1 {
		errs = append(errs, errors.New("mutation rates must lie in [0, 1]"))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HalfWorld = c.World.Size / 2
	c.Derived.MaxTurnRad = c.Behavior.MaxTurnDeg * math.Pi / 180
}

// Clone returns a deep copy suitable for per-run modification.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
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
