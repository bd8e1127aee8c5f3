package arena

import (
	"errors"
	"testing"

	"github.com/velachev/barrage/internal/bullet"
	"github.com/velachev/barrage/internal/core"
	"github.com/velachev/barrage/internal/enemy"
	"github.com/velachev/barrage/internal/pattern"
	"github.com/velachev/barrage/internal/phase"
)

func testEnemy(t *testing.T, name string, damageLimit int) *enemy.Controller {
	t.Helper()
	var b pattern.Builder
	if err := b.Append(1.0, 0, 0, bullet.LinearParams{Speed: 10, Angle: 0, Lifetime: 100}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	ph, err := phase.New(damageLimit, 1000, []*pattern.Pattern{b.Build()})
	if err != nil {
		t.Fatalf("phase.New: %v", err)
	}
	mgr := bullet.NewManager(bullet.Builtin(), []core.Vec2{core.V(0, 0)})
	c, err := enemy.New(name, []*phase.Phase{ph}, mgr, 7)
	if err != nil {
		t.Fatalf("enemy.New: %v", err)
	}
	return c
}

func TestNewRejectsDuplicates(t *testing.T) {
	a := testEnemy(t, "twin", 10)
	b := testEnemy(t, "twin", 10)
	if _, err := New(a, b); err == nil {
		t.Error("duplicate enemy names accepted")
	}
	if _, err := New(); err == nil {
		t.Error("empty arena accepted")
	}
	if _, err := New(a, nil); err == nil {
		t.Error("nil controller accepted")
	}
}

func TestTickAdvancesEveryEnemy(t *testing.T) {
	a, err := New(testEnemy(t, "left", 1000), testEnemy(t, "right", 1000))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.StartAll(0); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	r, err := a.Tick(1.0/60, 1.0/60)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(r.Fired) != 2 {
		t.Fatalf("merged report fired %d, want one shot per enemy", len(r.Fired))
	}
	if r.Fired[0].Enemy != "left" || r.Fired[1].Enemy != "right" {
		t.Errorf("events out of tick order: %v, %v", r.Fired[0].Enemy, r.Fired[1].Enemy)
	}
	if a.LiveCount() != 2 {
		t.Errorf("LiveCount = %d, want 2", a.LiveCount())
	}
}

func TestDamageRouting(t *testing.T) {
	a, err := New(testEnemy(t, "left", 10), testEnemy(t, "right", 10))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.StartAll(0); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := a.ReportDamage("ghost", 5); !errors.Is(err, ErrUnknownEnemy) {
		t.Fatalf("damage to unknown enemy: got %v, want ErrUnknownEnemy", err)
	}
	if err := a.ReportDamage("left", 10); err != nil {
		t.Fatalf("ReportDamage: %v", err)
	}

	r, err := a.Tick(0.1, 0.1)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(r.Defeated) != 1 || r.Defeated[0].Enemy != "left" {
		t.Fatalf("defeated = %v, want only left", r.Defeated)
	}
	if a.AllDefeated() {
		t.Fatal("AllDefeated true while right still fights")
	}

	a.ReportDamageAll(10)
	if _, err := a.Tick(0.1, 0.2); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !a.AllDefeated() {
		t.Fatal("AllDefeated false after both enemies fell")
	}
}

func TestEnemyLookup(t *testing.T) {
	a, err := New(testEnemy(t, "solo", 10))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := a.Enemy("solo"); !ok {
		t.Error("Enemy did not find a registered name")
	}
	if _, ok := a.Enemy("ghost"); ok {
		t.Error("Enemy found a name that was never added")
	}
	if got := len(a.Enemies()); got != 1 {
		t.Errorf("Enemies returned %d controllers, want 1", got)
	}
}
