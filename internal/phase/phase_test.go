package phase

import (
	"errors"
	"testing"

	"github.com/velachev/barrage/internal/pattern"
)

func pool(t *testing.T, n int) []*pattern.Pattern {
	t.Helper()
	var b pattern.Builder
	out := make([]*pattern.Pattern, 0, n)
	for i := 0; i < n; i++ {
		if err := b.Append(1.0, 0, 0, nil); err != nil {
			t.Fatalf("Append: %v", err)
		}
		out = append(out, b.Build())
	}
	return out
}

func TestNewRejectsBadInput(t *testing.T) {
	ps := pool(t, 1)
	if _, err := New(-1, 10, ps); err == nil {
		t.Error("negative damage limit accepted")
	}
	if _, err := New(10, -1, ps); err == nil {
		t.Error("negative time limit accepted")
	}
	if _, err := New(10, 10, nil); err == nil {
		t.Error("empty pattern pool accepted")
	}
	if _, err := New(10, 10, []*pattern.Pattern{nil}); err == nil {
		t.Error("nil pattern in pool accepted")
	}
}

func TestShouldAdvanceBeforeActivate(t *testing.T) {
	p, err := New(50, 30, pool(t, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.ShouldAdvance(0, 0); !errors.Is(err, ErrNotActivated) {
		t.Fatalf("ShouldAdvance before Activate: got %v, want ErrNotActivated", err)
	}
}

func TestDamageBoundaryInclusive(t *testing.T) {
	p, err := New(50, 1000, pool(t, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Activate(100, 0)

	ok, err := p.ShouldAdvance(149, 1)
	if err != nil {
		t.Fatalf("ShouldAdvance: %v", err)
	}
	if ok {
		t.Error("advanced at damage 149, one below the 150 target")
	}
	ok, err = p.ShouldAdvance(150, 1)
	if err != nil {
		t.Fatalf("ShouldAdvance: %v", err)
	}
	if !ok {
		t.Error("did not advance at damage 150, exactly the target")
	}
}

func TestTimeAloneAdvances(t *testing.T) {
	p, err := New(1000, 30, pool(t, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Activate(0, 12.5)

	ok, err := p.ShouldAdvance(0, 42.49)
	if err != nil {
		t.Fatalf("ShouldAdvance: %v", err)
	}
	if ok {
		t.Error("advanced before the time target")
	}
	ok, err = p.ShouldAdvance(0, 42.5)
	if err != nil {
		t.Fatalf("ShouldAdvance: %v", err)
	}
	if !ok {
		t.Error("did not advance at the time target with zero damage")
	}
}

func TestReactivationRecomputesTargets(t *testing.T) {
	p, err := New(50, 30, pool(t, 2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Activate(0, 0)
	if got := p.DamageTarget(); got != 50 {
		t.Fatalf("first activation damage target = %d, want 50", got)
	}
	p.Activate(200, 60)
	if got := p.DamageTarget(); got != 250 {
		t.Errorf("re-activation damage target = %d, want 250", got)
	}
	if got := p.TimeTarget(); got != 90 {
		t.Errorf("re-activation time target = %v, want 90", got)
	}
	ok, err := p.ShouldAdvance(50, 0)
	if err != nil {
		t.Fatalf("ShouldAdvance: %v", err)
	}
	if ok {
		t.Error("stale first-activation target still advancing after re-activation")
	}
}

func TestActivateReturnsPool(t *testing.T) {
	ps := pool(t, 3)
	p, err := New(10, 10, ps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := p.Activate(0, 0)
	if len(got) != 3 {
		t.Fatalf("Activate returned %d patterns, want 3", len(got))
	}
	for i := range got {
		if got[i] != ps[i] {
			t.Errorf("pool order changed at index %d", i)
		}
	}
}
