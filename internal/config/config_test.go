package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSimEmbeddedDefault(t *testing.T) {
	cfg, err := LoadSim("")
	if err != nil {
		t.Fatalf("LoadSim: %v", err)
	}
	if cfg.Sim.TickRate != 60 {
		t.Errorf("default tick rate = %d, want 60", cfg.Sim.TickRate)
	}
	if cfg.Pressure.DamagePerSecond != 35 {
		t.Errorf("default dps = %d, want 35", cfg.Pressure.DamagePerSecond)
	}
}

func TestLoadSimCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	doc := `
sim:
  tick_rate: 30
  max_duration: 60
  seed: 7
pressure:
  damage_per_second: 10
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadSim(path)
	if err != nil {
		t.Fatalf("LoadSim: %v", err)
	}
	if cfg.Sim.TickRate != 30 || cfg.Sim.Seed != 7 {
		t.Errorf("custom config not applied: %+v", cfg.Sim)
	}
	// Unset ramp factor gets normalized, not left at zero.
	if cfg.Pressure.RampFactor <= 0 {
		t.Errorf("ramp factor = %v after Normalize", cfg.Pressure.RampFactor)
	}

	if _, err := LoadSim(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing custom path accepted")
	}
}

func TestNormalizeFillsZeroes(t *testing.T) {
	var cfg SimConfig
	cfg.Normalize()
	def := DefaultSimConfig()
	if cfg.Sim.TickRate != def.Sim.TickRate {
		t.Errorf("tick rate = %d, want default %d", cfg.Sim.TickRate, def.Sim.TickRate)
	}
	if cfg.Sim.MaxDuration != def.Sim.MaxDuration {
		t.Errorf("max duration = %v, want default %v", cfg.Sim.MaxDuration, def.Sim.MaxDuration)
	}
}

func TestPressureSteadyRate(t *testing.T) {
	p := NewPressureManager(PressureConfig{DamagePerSecond: 30})
	total := 0
	dt := 1.0 / 60
	for i := 0; i < 120; i++ {
		total += p.Tick(float64(i)*dt, dt)
	}
	// Two seconds at 30 dps. The carry makes the total exact.
	if total != 60 {
		t.Errorf("2s at 30 dps dealt %d, want 60", total)
	}
}

func TestPressureRamp(t *testing.T) {
	p := NewPressureManager(PressureConfig{
		DamagePerSecond: 20,
		RampEnabled:     true,
		RampFactor:      2.0,
		RampAt:          10,
	})
	if got := p.Rate(0); got != 20 {
		t.Errorf("rate at 0s = %v, want base 20", got)
	}
	if got := p.Rate(5); math.Abs(got-30) > 1e-9 {
		t.Errorf("rate mid-ramp = %v, want 30", got)
	}
	if got := p.Rate(10); got != 40 {
		t.Errorf("rate at ramp top = %v, want 40", got)
	}
	if got := p.Rate(100); got != 40 {
		t.Errorf("rate past ramp = %v, want capped 40", got)
	}
}
