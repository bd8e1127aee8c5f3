package config

import "math"

// PressureManager turns the configured damage rate into whole damage points
// per tick, carrying the fractional remainder so the long-run rate is exact
// at any tick rate.
type PressureManager struct {
	cfg   PressureConfig
	carry float64
}

// NewPressureManager creates a pressure manager.
func NewPressureManager(cfg PressureConfig) *PressureManager {
	return &PressureManager{cfg: cfg}
}

// Rate returns the damage-per-second output at the given fight time.
func (p *PressureManager) Rate(elapsed float64) float64 {
	rate := float64(p.cfg.DamagePerSecond)
	if !p.cfg.RampEnabled || p.cfg.RampAt <= 0 {
		return rate
	}
	progress := clampF(elapsed/p.cfg.RampAt, 0.0, 1.0)
	return rate * (1.0 + progress*(p.cfg.RampFactor-1.0))
}

// Tick returns the whole damage points dealt during a dt-second tick ending
// at the given fight time.
func (p *PressureManager) Tick(elapsed, dt float64) int {
	p.carry += p.Rate(elapsed) * dt
	whole := int(p.carry)
	p.carry -= float64(whole)
	return whole
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
