package core

// Outcome is the terminal result of a simulated fight.
type Outcome string

const (
	// OutcomeCleared means every enemy reached its defeated state.
	OutcomeCleared Outcome = "cleared"
	// OutcomeTimeout means the fight hit the configured duration cap first.
	OutcomeTimeout Outcome = "timeout"
)

// FightStats aggregates a whole fight for reporting and persistence.
// The runner folds per-tick reports into one of these.
type FightStats struct {
	Encounter     string
	Seed          int64
	Outcome       Outcome
	Duration      float64 // simulated seconds from fight start to end
	Ticks         uint64
	ShotsFired    int
	Culled        int
	PhasesEntered int
	DamageDealt   int
	PeakLive      int // highest simultaneous live-projectile count observed
}

// Observe folds one tick report into the running totals.
func (s *FightStats) Observe(r TickReport) {
	s.Ticks++
	s.ShotsFired += len(r.Fired)
	s.Culled += len(r.Culled)
	s.PhasesEntered += len(r.Advanced)
	if r.LiveProjectiles > s.PeakLive {
		s.PeakLive = r.LiveProjectiles
	}
}
