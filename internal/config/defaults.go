package config

import (
	_ "embed"
)

//go:embed defaults/sim.yaml
var defaultSimYAML []byte

// DefaultSimConfig returns the default simulation configuration.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Sim: SimSettings{
			TickRate:    60,
			MaxDuration: 180,
			Seed:        0,
		},
		Pressure: PressureConfig{
			DamagePerSecond: 35,
			RampEnabled:     true,
			RampFactor:      1.5,
			RampAt:          20,
		},
	}
}
