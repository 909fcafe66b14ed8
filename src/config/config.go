package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	NumFloors        = 10
	StartFloor       = 1
	MaxCapacity      = 8
	DoorHoldTicks    = 2
	MaxLogEntries    = 100
	RecentEventCount = 10
	MinSpeed         = 0.1
	MaxSpeed         = 3.0
)

// Config holds the construction parameters of one engine instance.
// Zero values are replaced by the package defaults above.
type Config struct {
	Floors         int     `yaml:"floors"`
	StartFloor     int     `yaml:"startFloor"`
	StartDirection string  `yaml:"startDirection"`
	Capacity       int     `yaml:"capacity"`
	DoorHoldTicks  int     `yaml:"doorHoldTicks"`
	Speed          float64 `yaml:"speed"`
}

func Default() Config {
	return Config{
		Floors:         NumFloors,
		StartFloor:     StartFloor,
		StartDirection: "UP",
		Capacity:       MaxCapacity,
		DoorHoldTicks:  DoorHoldTicks,
		Speed:          1.0,
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// FromEnv applies LIFT_* environment overrides, typically populated by a
// .env file in the harness.
func (c *Config) FromEnv() {
	if v, err := strconv.Atoi(os.Getenv("LIFT_FLOORS")); err == nil && v > 0 {
		c.Floors = v
	}
	if v, err := strconv.Atoi(os.Getenv("LIFT_START_FLOOR")); err == nil && v > 0 {
		c.StartFloor = v
	}
	if v := os.Getenv("LIFT_START_DIRECTION"); v != "" {
		c.StartDirection = v
	}
	if v, err := strconv.Atoi(os.Getenv("LIFT_CAPACITY")); err == nil && v > 0 {
		c.Capacity = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("LIFT_SPEED"), 64); err == nil && v > 0 {
		c.Speed = v
	}
}

func (c *Config) fillDefaults() {
	if c.Floors <= 0 {
		c.Floors = NumFloors
	}
	if c.StartFloor <= 0 {
		c.StartFloor = StartFloor
	}
	if c.StartDirection == "" {
		c.StartDirection = "UP"
	}
	if c.Capacity <= 0 {
		c.Capacity = MaxCapacity
	}
	if c.DoorHoldTicks <= 0 {
		c.DoorHoldTicks = DoorHoldTicks
	}
	if c.Speed <= 0 {
		c.Speed = 1.0
	}
}
