// Package config provides YAML-based simulation configuration loading and
// the player-pressure model that feeds damage into fights.
package config

// SimConfig contains all configuration for one simulation run.
type SimConfig struct {
	Sim      SimSettings    `yaml:"sim"`
	Pressure PressureConfig `yaml:"pressure"`
}

// SimSettings defines the fixed-tick driver parameters.
type SimSettings struct {
	TickRate    int     `yaml:"tick_rate"`    // simulation ticks per second
	MaxDuration float64 `yaml:"max_duration"` // seconds before a fight times out
	Seed        int64   `yaml:"seed"`         // 0 derives a seed from the clock
}

// PressureConfig defines the simulated player's damage output.
type PressureConfig struct {
	DamagePerSecond int `yaml:"damage_per_second"`
	// Ramp models a player warming up: output scales from the base rate
	// to base*ramp_factor over the first ramp_at seconds.
	RampEnabled bool    `yaml:"ramp_enabled"`
	RampFactor  float64 `yaml:"ramp_factor"`
	RampAt      float64 `yaml:"ramp_at"`
}

// Normalize fills unusable zero values with the hardcoded defaults so a
// partial user config still runs.
func (c *SimConfig) Normalize() {
	def := DefaultSimConfig()
	if c.Sim.TickRate <= 0 {
		c.Sim.TickRate = def.Sim.TickRate
	}
	if c.Sim.MaxDuration <= 0 {
		c.Sim.MaxDuration = def.Sim.MaxDuration
	}
	if c.Pressure.DamagePerSecond < 0 {
		c.Pressure.DamagePerSecond = def.Pressure.DamagePerSecond
	}
	if c.Pressure.RampFactor <= 0 {
		c.Pressure.RampFactor = def.Pressure.RampFactor
	}
}
