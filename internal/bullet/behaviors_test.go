package bullet

import (
	"math"
	"testing"

	"github.com/velachev/barrage/internal/core"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestParseDefaults(t *testing.T) {
	p, err := parseLinearParams(map[string]any{})
	if err != nil {
		t.Fatalf("parseLinearParams: %v", err)
	}
	lp := p.(LinearParams)
	if lp.Speed != 120 || lp.Angle != 90 || lp.Lifetime != 10 {
		t.Errorf("linear defaults = %+v", lp)
	}

	p, err = parseOrbitParams(map[string]any{"radius": 50})
	if err != nil {
		t.Fatalf("parseOrbitParams: %v", err)
	}
	op := p.(OrbitParams)
	if op.Radius != 50 || op.Spin != 180 {
		t.Errorf("orbit partial override = %+v", op)
	}
}

func TestParseAcceptsIntsForFloats(t *testing.T) {
	p, err := parseLinearParams(map[string]any{"speed": 200, "angle": 45})
	if err != nil {
		t.Fatalf("parseLinearParams: %v", err)
	}
	lp := p.(LinearParams)
	if lp.Speed != 200 || lp.Angle != 45 {
		t.Errorf("int params = %+v", lp)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	tests := []struct {
		kind  string
		parse func(map[string]any) error
	}{
		{"linear", func(raw map[string]any) error { _, err := parseLinearParams(raw); return err }},
		{"arc", func(raw map[string]any) error { _, err := parseArcParams(raw); return err }},
		{"homing", func(raw map[string]any) error { _, err := parseHomingParams(raw); return err }},
		{"orbit", func(raw map[string]any) error { _, err := parseOrbitParams(raw); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if err := tt.parse(map[string]any{"sped": 10}); err == nil {
				t.Errorf("%s accepted unknown key", tt.kind)
			}
		})
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	if _, err := parseLinearParams(map[string]any{"speed": "fast"}); err == nil {
		t.Error("string speed accepted")
	}
	if _, err := parseLinearParams(map[string]any{"speed": -5}); err == nil {
		t.Error("negative speed accepted")
	}
	if _, err := parseArcParams(map[string]any{"lifetime": 0}); err == nil {
		t.Error("zero lifetime accepted")
	}
	if _, err := parseHomingParams(map[string]any{"turn": -10}); err == nil {
		t.Error("negative homing turn accepted")
	}
	if _, err := parseOrbitParams(map[string]any{"radius": -1}); err == nil {
		t.Error("negative orbit radius accepted")
	}
}

func TestLinearMovesAlongHeading(t *testing.T) {
	m := NewManager(Builtin(), []core.Vec2{core.V(0, 0)})
	shot := linearShot(0)
	shot.Params = LinearParams{Speed: 100, Angle: 0, Lifetime: 10}
	inst, err := m.Spawn(shot, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	for i := 0; i < 10; i++ {
		m.TickAll(0.1, float64(i+1)*0.1)
	}
	if !near(inst.Pos.X, 100) || !near(inst.Pos.Y, 0) {
		t.Errorf("after 1s at speed 100 along +X: pos = %v", inst.Pos)
	}
}

func TestLinearDiesAfterLifetime(t *testing.T) {
	m := NewManager(Builtin(), []core.Vec2{core.V(0, 0)})
	shot := linearShot(0)
	shot.Params = LinearParams{Speed: 10, Angle: 0, Lifetime: 0.5}
	inst, err := m.Spawn(shot, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	now := 0.0
	for i := 0; i < 4; i++ {
		now += 0.1
		m.TickAll(0.1, now)
	}
	if inst.Dying() {
		t.Fatal("dying before lifetime elapsed")
	}
	now += 0.1
	m.TickAll(0.1, now)
	if !inst.Dying() {
		t.Fatal("still alive past lifetime")
	}
}

func TestArcBendsTrajectory(t *testing.T) {
	m := NewManager(Builtin(), []core.Vec2{core.V(0, 0)})
	shot := linearShot(0)
	shot.TypeIndex = 1
	shot.Params = ArcParams{Speed: 100, Angle: 0, Turn: 90, Lifetime: 10}
	inst, err := m.Spawn(shot, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	for i := 0; i < 10; i++ {
		m.TickAll(0.1, float64(i+1)*0.1)
	}
	// After a second of +90 deg/s turn the heading has rotated toward +Y,
	// so the path must have bent off the X axis.
	if inst.Pos.Y <= 0 {
		t.Errorf("arc with positive turn stayed on the X axis: pos = %v", inst.Pos)
	}
	if inst.Pos.X >= 100 {
		t.Errorf("arc travelled as if straight: pos = %v", inst.Pos)
	}
}

func TestHomingClosesOnTarget(t *testing.T) {
	m := NewManager(Builtin(), []core.Vec2{core.V(0, 0)})
	shot := linearShot(0)
	shot.TypeIndex = 2
	shot.Params = HomingParams{
		Speed: 100, Angle: 0, Turn: 360,
		TargetX: 0, TargetY: 200, Lifetime: 10,
	}
	inst, err := m.Spawn(shot, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	target := core.V(0, 200)
	start := target.Sub(inst.Pos).Length()
	for i := 0; i < 20; i++ {
		m.TickAll(0.05, float64(i+1)*0.05)
	}
	end := target.Sub(inst.Pos).Length()
	if end >= start {
		t.Errorf("homing did not close on target: %v -> %v", start, end)
	}
	if inst.Pos.Y <= 0 {
		t.Errorf("homing never turned toward +Y target: pos = %v", inst.Pos)
	}
}

func TestOrbitHoldsRadius(t *testing.T) {
	m := NewManager(Builtin(), []core.Vec2{core.V(50, 50)})
	shot := linearShot(0)
	shot.TypeIndex = 3
	shot.Params = OrbitParams{Radius: 10, Degrees: 0, Spin: 360, Expand: 0, Lifetime: 10}
	inst, err := m.Spawn(shot, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	for i := 0; i < 30; i++ {
		m.TickAll(0.05, float64(i+1)*0.05)
		d := inst.Pos.Sub(inst.SpawnPos()).Length()
		if !near(d, 10) {
			t.Fatalf("tick %d: orbit radius drifted to %v", i, d)
		}
	}
}

func TestOrbitExpands(t *testing.T) {
	m := NewManager(Builtin(), []core.Vec2{core.V(0, 0)})
	shot := linearShot(0)
	shot.TypeIndex = 3
	shot.Params = OrbitParams{Radius: 5, Degrees: 0, Spin: 180, Expand: 20, Lifetime: 10}
	inst, err := m.Spawn(shot, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	for i := 0; i < 20; i++ {
		m.TickAll(0.05, float64(i+1)*0.05)
	}
	d := inst.Pos.Sub(inst.SpawnPos()).Length()
	if !near(d, 25) {
		t.Errorf("after 1s of +20/s expansion from 5: radius = %v, want 25", d)
	}
}
