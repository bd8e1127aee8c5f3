package bullet

import (
	"fmt"
	"math"

	"github.com/velachev/barrage/internal/core"
	"github.com/velachev/barrage/internal/pattern"
)

// Builtin returns the standard registry. Index order is fixed and part of
// content compatibility: 0 linear, 1 arc, 2 homing, 3 orbit.
func Builtin() *Registry {
	r, err := NewRegistry(
		Type{Name: "linear", DeathGrace: 0.25, ParseParams: parseLinearParams, New: newLinear},
		Type{Name: "arc", DeathGrace: 0.25, ParseParams: parseArcParams, New: newArc},
		Type{Name: "homing", DeathGrace: 0.5, ParseParams: parseHomingParams, New: newHoming},
		Type{Name: "orbit", DeathGrace: 0.25, ParseParams: parseOrbitParams, New: newOrbit},
	)
	if err != nil {
		// The builtin table is static; failing to build it is a bug.
		panic(err)
	}
	return r
}

// checkKeys rejects any raw key outside the type's schema. Typos in content
// should fail the load, not silently fall back to defaults.
func checkKeys(kind string, raw map[string]any, allowed ...string) error {
	for k := range raw {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("bullet: %s params: unknown key %q", kind, k)
		}
	}
	return nil
}

// floatField reads a numeric key, applying def when absent.
func floatField(kind string, raw map[string]any, key string, def float64) (float64, error) {
	v, ok := raw[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("bullet: %s params: %s must be a number, got %T", kind, key, v)
	}
}

func positive(kind, key string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("bullet: %s params: %s must be positive, got %v", kind, key, v)
	}
	return nil
}

// LinearParams configures a straight-line bullet.
type LinearParams struct {
	Speed    float64 // units per second
	Angle    float64 // heading in degrees, 90 points down the field
	Lifetime float64 // seconds until the bullet requests its own death
}

func (LinearParams) IsShotParams() {}

func parseLinearParams(raw map[string]any) (pattern.Params, error) {
	if err := checkKeys("linear", raw, "speed", "angle", "lifetime"); err != nil {
		return nil, err
	}
	p := LinearParams{}
	var err error
	if p.Speed, err = floatField("linear", raw, "speed", 120); err != nil {
		return nil, err
	}
	if p.Angle, err = floatField("linear", raw, "angle", 90); err != nil {
		return nil, err
	}
	if p.Lifetime, err = floatField("linear", raw, "lifetime", 10); err != nil {
		return nil, err
	}
	if err := positive("linear", "speed", p.Speed); err != nil {
		return nil, err
	}
	if err := positive("linear", "lifetime", p.Lifetime); err != nil {
		return nil, err
	}
	return p, nil
}

type linear struct {
	params LinearParams
}

func newLinear(p pattern.Params) (Behavior, error) {
	lp, ok := p.(LinearParams)
	if !ok {
		return nil, fmt.Errorf("bullet: linear: params are %T, want LinearParams", p)
	}
	return &linear{params: lp}, nil
}

func (b *linear) Init(inst *Instance) {
	inst.Vel = core.Heading(b.params.Angle).Scale(b.params.Speed)
}

func (b *linear) Update(inst *Instance, dt float64) {
	inst.Pos = inst.Pos.Add(inst.Vel.Scale(dt))
	if inst.Age() >= b.params.Lifetime {
		inst.RequestDeath()
	}
}

// ArcParams configures a bullet whose heading rotates at a constant rate,
// tracing a circular arc.
type ArcParams struct {
	Speed    float64
	Angle    float64 // initial heading in degrees
	Turn     float64 // heading change in degrees per second, sign is direction
	Lifetime float64
}

func (ArcParams) IsShotParams() {}

func parseArcParams(raw map[string]any) (pattern.Params, error) {
	if err := checkKeys("arc", raw, "speed", "angle", "turn", "lifetime"); err != nil {
		return nil, err
	}
	p := ArcParams{}
	var err error
	if p.Speed, err = floatField("arc", raw, "speed", 100); err != nil {
		return nil, err
	}
	if p.Angle, err = floatField("arc", raw, "angle", 90); err != nil {
		return nil, err
	}
	if p.Turn, err = floatField("arc", raw, "turn", 45); err != nil {
		return nil, err
	}
	if p.Lifetime, err = floatField("arc", raw, "lifetime", 10); err != nil {
		return nil, err
	}
	if err := positive("arc", "speed", p.Speed); err != nil {
		return nil, err
	}
	if err := positive("arc", "lifetime", p.Lifetime); err != nil {
		return nil, err
	}
	return p, nil
}

type arc struct {
	params  ArcParams
	heading float64
}

func newArc(p pattern.Params) (Behavior, error) {
	ap, ok := p.(ArcParams)
	if !ok {
		return nil, fmt.Errorf("bullet: arc: params are %T, want ArcParams", p)
	}
	return &arc{params: ap}, nil
}

func (b *arc) Init(inst *Instance) {
	b.heading = b.params.Angle
	inst.Vel = core.Heading(b.heading).Scale(b.params.Speed)
}

func (b *arc) Update(inst *Instance, dt float64) {
	b.heading += b.params.Turn * dt
	inst.Vel = core.Heading(b.heading).Scale(b.params.Speed)
	inst.Pos = inst.Pos.Add(inst.Vel.Scale(dt))
	if inst.Age() >= b.params.Lifetime {
		inst.RequestDeath()
	}
}

// HomingParams configures a bullet that steers toward a fixed field point,
// turning at most Turn degrees per second.
type HomingParams struct {
	Speed    float64
	Angle    float64 // initial heading in degrees
	Turn     float64 // maximum turn rate in degrees per second
	TargetX  float64
	TargetY  float64
	Lifetime float64
}

func (HomingParams) IsShotParams() {}

func parseHomingParams(raw map[string]any) (pattern.Params, error) {
	if err := checkKeys("homing", raw, "speed", "angle", "turn", "target_x", "target_y", "lifetime"); err != nil {
		return nil, err
	}
	p := HomingParams{}
	var err error
	if p.Speed, err = floatField("homing", raw, "speed", 90); err != nil {
		return nil, err
	}
	if p.Angle, err = floatField("homing", raw, "angle", 90); err != nil {
		return nil, err
	}
	if p.Turn, err = floatField("homing", raw, "turn", 120); err != nil {
		return nil, err
	}
	if p.TargetX, err = floatField("homing", raw, "target_x", 0); err != nil {
		return nil, err
	}
	if p.TargetY, err = floatField("homing", raw, "target_y", 0); err != nil {
		return nil, err
	}
	if p.Lifetime, err = floatField("homing", raw, "lifetime", 8); err != nil {
		return nil, err
	}
	if err := positive("homing", "speed", p.Speed); err != nil {
		return nil, err
	}
	if p.Turn < 0 {
		return nil, fmt.Errorf("bullet: homing params: turn must not be negative, got %v", p.Turn)
	}
	if err := positive("homing", "lifetime", p.Lifetime); err != nil {
		return nil, err
	}
	return p, nil
}

type homing struct {
	params  HomingParams
	heading float64
}

func newHoming(p pattern.Params) (Behavior, error) {
	hp, ok := p.(HomingParams)
	if !ok {
		return nil, fmt.Errorf("bullet: homing: params are %T, want HomingParams", p)
	}
	return &homing{params: hp}, nil
}

func (b *homing) Init(inst *Instance) {
	b.heading = b.params.Angle
	inst.Vel = core.Heading(b.heading).Scale(b.params.Speed)
}

func (b *homing) Update(inst *Instance, dt float64) {
	target := core.V(b.params.TargetX, b.params.TargetY)
	desired := target.Sub(inst.Pos).Angle() * 180 / math.Pi
	delta := wrapDeg(desired - b.heading)
	maxTurn := b.params.Turn * dt
	b.heading += core.ClampF(delta, -maxTurn, maxTurn)
	inst.Vel = core.Heading(b.heading).Scale(b.params.Speed)
	inst.Pos = inst.Pos.Add(inst.Vel.Scale(dt))
	if inst.Age() >= b.params.Lifetime {
		inst.RequestDeath()
	}
}

// wrapDeg maps an angle difference into [-180, 180].
func wrapDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// OrbitParams configures a bullet that circles its spawn point, optionally
// spiraling outward as the radius grows.
type OrbitParams struct {
	Radius   float64 // starting orbit radius in units
	Degrees  float64 // starting angle on the circle in degrees
	Spin     float64 // angular speed in degrees per second
	Expand   float64 // radius growth in units per second
	Lifetime float64
}

func (OrbitParams) IsShotParams() {}

func parseOrbitParams(raw map[string]any) (pattern.Params, error) {
	if err := checkKeys("orbit", raw, "radius", "degrees", "spin", "expand", "lifetime"); err != nil {
		return nil, err
	}
	p := OrbitParams{}
	var err error
	if p.Radius, err = floatField("orbit", raw, "radius", 30); err != nil {
		return nil, err
	}
	if p.Degrees, err = floatField("orbit", raw, "degrees", 0); err != nil {
		return nil, err
	}
	if p.Spin, err = floatField("orbit", raw, "spin", 180); err != nil {
		return nil, err
	}
	if p.Expand, err = floatField("orbit", raw, "expand", 0); err != nil {
		return nil, err
	}
	if p.Lifetime, err = floatField("orbit", raw, "lifetime", 6); err != nil {
		return nil, err
	}
	if p.Radius < 0 {
		return nil, fmt.Errorf("bullet: orbit params: radius must not be negative, got %v", p.Radius)
	}
	if err := positive("orbit", "lifetime", p.Lifetime); err != nil {
		return nil, err
	}
	return p, nil
}

type orbit struct {
	params OrbitParams
}

func newOrbit(p pattern.Params) (Behavior, error) {
	op, ok := p.(OrbitParams)
	if !ok {
		return nil, fmt.Errorf("bullet: orbit: params are %T, want OrbitParams", p)
	}
	return &orbit{params: op}, nil
}

func (b *orbit) Init(inst *Instance) {
	inst.Pos = inst.SpawnPos().Add(core.Heading(b.params.Degrees).Scale(b.params.Radius))
}

func (b *orbit) Update(inst *Instance, dt float64) {
	ang := b.params.Degrees + b.params.Spin*inst.Age()
	radius := b.params.Radius + b.params.Expand*inst.Age()
	next := inst.SpawnPos().Add(core.Heading(ang).Scale(radius))
	if dt > 0 {
		inst.Vel = next.Sub(inst.Pos).Scale(1 / dt)
	}
	inst.Pos = next
	if inst.Age() >= b.params.Lifetime {
		inst.RequestDeath()
	}
}
