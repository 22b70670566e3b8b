package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config aggregates the scenario configurations, typically loaded from a
// YAML file passed to the CLI.
type Config struct {
	Barber  *BarberConfig  `yaml:"barber,omitempty"`
	Smokers *SmokersConfig `yaml:"smokers,omitempty"`
	River   *RiverConfig   `yaml:"river,omitempty"`
}

// LoadConfig reads and validates a [Config] from the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	c := &Config{}

	err = yaml.Unmarshal(data, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks every configured scenario.
func (c *Config) Validate() error {
	if c.Barber != nil {
		if err := c.Barber.Validate(); err != nil {
			return fmt.Errorf("barber: %w", err)
		}
	}

	if c.Smokers != nil {
		if err := c.Smokers.Validate(); err != nil {
			return fmt.Errorf("smokers: %w", err)
		}
	}

	if c.River != nil {
		if err := c.River.Validate(); err != nil {
			return fmt.Errorf("river: %w", err)
		}
	}

	return nil
}

// BarberConfig parameterizes the sleeping barber scenario.
type BarberConfig struct {
	// Chairs is the waiting-room capacity.
	Chairs int `yaml:"chairs"`
	// Customers is the number of customer goroutines to spawn.
	Customers int `yaml:"customers"`
	// CutTime is the duration of one haircut.
	CutTime time.Duration `yaml:"cut_time"`
	// ArrivalSpread is the maximum random delay before a customer arrives.
	ArrivalSpread time.Duration `yaml:"arrival_spread"`
	// Seed drives every random choice, making runs reproducible.
	Seed uint64 `yaml:"seed"`
}

// DefaultBarberConfig returns the [BarberConfig] used when no overrides are
// given.
func DefaultBarberConfig() BarberConfig {
	return BarberConfig{
		Chairs:        3,
		Customers:     12,
		CutTime:       5 * time.Millisecond,
		ArrivalSpread: 20 * time.Millisecond,
		Seed:          1,
	}
}

func (c *BarberConfig) Validate() error {
	if c.Chairs < 1 {
		return fmt.Errorf("%w: chairs must be at least 1, got %d", ErrInvalidConfig, c.Chairs)
	}

	if c.Customers < 1 {
		return fmt.Errorf("%w: customers must be at least 1, got %d", ErrInvalidConfig, c.Customers)
	}

	return nil
}

// SmokersConfig parameterizes the cigarette smokers scenario.
type SmokersConfig struct {
	// Rounds is the number of times the agent places ingredients.
	Rounds int `yaml:"rounds"`
	// SmokeTime is the duration of one smoke.
	SmokeTime time.Duration `yaml:"smoke_time"`
	// Seed drives the agent's ingredient choices.
	Seed uint64 `yaml:"seed"`
}

// DefaultSmokersConfig returns the [SmokersConfig] used when no overrides
// are given.
func DefaultSmokersConfig() SmokersConfig {
	return SmokersConfig{
		Rounds:    12,
		SmokeTime: 2 * time.Millisecond,
		Seed:      1,
	}
}

func (c *SmokersConfig) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidConfig, c.Rounds)
	}

	return nil
}

// RiverConfig parameterizes the river crossing scenario.
type RiverConfig struct {
	// FromLeft is the number of travelers starting on the left bank.
	FromLeft int `yaml:"from_left"`
	// FromRight is the number of travelers starting on the right bank.
	FromRight int `yaml:"from_right"`
	// ArrivalSpread is the maximum random delay before a traveler arrives.
	ArrivalSpread time.Duration `yaml:"arrival_spread"`
	// Seed drives every random choice, making runs reproducible.
	Seed uint64 `yaml:"seed"`
}

// DefaultRiverConfig returns the [RiverConfig] used when no overrides are
// given.
func DefaultRiverConfig() RiverConfig {
	return RiverConfig{
		FromLeft:      6,
		FromRight:     3,
		ArrivalSpread: 10 * time.Millisecond,
		Seed:          1,
	}
}

// Validate rejects traveler counts that would strand a partial boat. Trips
// alternate banks, so each side's count must be a multiple of the boat
// capacity and the trip counts may differ by at most one; the boat never
// returns empty, a documented limitation of the monitor.
func (c *RiverConfig) Validate() error {
	if c.FromLeft < 0 || c.FromRight < 0 {
		return fmt.Errorf("%w: traveler counts must not be negative", ErrInvalidConfig)
	}

	if c.FromLeft+c.FromRight == 0 {
		return fmt.Errorf("%w: at least one traveler is required", ErrInvalidConfig)
	}

	if c.FromLeft%BoatCapacity != 0 || c.FromRight%BoatCapacity != 0 {
		return fmt.Errorf("%w: traveler counts must be multiples of the boat capacity %d",
			ErrInvalidConfig, BoatCapacity)
	}

	leftTrips := c.FromLeft / BoatCapacity
	rightTrips := c.FromRight / BoatCapacity

	if diff := leftTrips - rightTrips; diff < -1 || diff > 1 {
		return fmt.Errorf("%w: trip counts %d and %d cannot alternate; they may differ by at most one",
			ErrInvalidConfig, leftTrips, rightTrips)
	}

	return nil
}

// StartBank returns the bank the boat must start on for every configured
// trip to run.
func (c *RiverConfig) StartBank() Bank {
	if c.FromRight/BoatCapacity > c.FromLeft/BoatCapacity {
		return RightBank
	}

	return LeftBank
}
