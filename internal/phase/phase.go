// Package phase models one stage of an enemy fight: a pool of attack
// patterns plus the damage and time thresholds that end the stage.
package phase

import (
	"errors"
	"fmt"

	"github.com/velachev/barrage/internal/pattern"
)

// ErrNotActivated is returned by ShouldAdvance before the first Activate.
var ErrNotActivated = errors.New("phase: advancement checked before activation")

// Phase is one combat stage. Construct with New, then Activate on every
// entry; all other fields are fixed for the phase's lifetime. Like the rest
// of the simulation core it is single-threaded: Activate mutates the running
// targets and is never called concurrently with ShouldAdvance.
type Phase struct {
	damageLimit int
	timeLimit   float64
	patterns    []*pattern.Pattern

	damageTarget int
	timeTarget   float64
	activated    bool
}

// New creates a phase. The pattern pool must be non-empty: a phase with
// nothing to fire would stall the fight, so this is rejected at setup time
// rather than discovered mid-fight.
func New(damageLimit int, timeLimit float64, patterns []*pattern.Pattern) (*Phase, error) {
	if damageLimit < 0 {
		return nil, fmt.Errorf("phase: negative damage limit %d", damageLimit)
	}
	if timeLimit < 0 {
		return nil, fmt.Errorf("phase: negative time limit %v", timeLimit)
	}
	if len(patterns) == 0 {
		return nil, errors.New("phase: empty pattern pool")
	}
	for i, p := range patterns {
		if p == nil {
			return nil, fmt.Errorf("phase: nil pattern at pool index %d", i)
		}
	}
	pool := make([]*pattern.Pattern, len(patterns))
	copy(pool, patterns)
	return &Phase{
		damageLimit: damageLimit,
		timeLimit:   timeLimit,
		patterns:    pool,
	}, nil
}

// DamageLimit returns the damage the enemy must take during this phase.
func (p *Phase) DamageLimit() int {
	return p.damageLimit
}

// TimeLimit returns the phase's maximum length in seconds.
func (p *Phase) TimeLimit() float64 {
	return p.timeLimit
}

// Activate arms the phase against the fight's running totals: targets are
// the entry values plus the phase limits. It returns the pattern pool for
// the controller to sample from. Re-entering a phase re-activates it and
// recomputes both targets.
func (p *Phase) Activate(damageAtEntry int, timeAtEntry float64) []*pattern.Pattern {
	p.damageTarget = damageAtEntry + p.damageLimit
	p.timeTarget = timeAtEntry + p.timeLimit
	p.activated = true
	return p.patterns
}

// Activated reports whether Activate has been called at least once.
func (p *Phase) Activated() bool {
	return p.activated
}

// DamageTarget returns the cumulative damage at which the phase ends.
// Only meaningful after activation.
func (p *Phase) DamageTarget() int {
	return p.damageTarget
}

// TimeTarget returns the simulation time at which the phase ends.
// Only meaningful after activation.
func (p *Phase) TimeTarget() float64 {
	return p.timeTarget
}

// ShouldAdvance reports whether the phase is over: cumulative damage has
// reached the damage target OR the clock has reached the time target. Both
// comparisons are boundary-inclusive, and either alone is enough; the fight
// is a race between the player burning the phase down and the phase timing
// out. Calling this before Activate is a programming error and fails.
func (p *Phase) ShouldAdvance(currentDamage int, currentTime float64) (bool, error) {
	if !p.activated {
		return false, ErrNotActivated
	}
	return currentDamage >= p.damageTarget || currentTime >= p.timeTarget, nil
}
