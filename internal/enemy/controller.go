// Package enemy runs one enemy's fight: phase activation, pattern sampling,
// and the per-tick shot dispatch that turns timelines into live projectiles.
package enemy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/velachev/barrage/internal/bullet"
	"github.com/velachev/barrage/internal/core"
	"github.com/velachev/barrage/internal/pattern"
	"github.com/velachev/barrage/internal/phase"
)

// Controller state machine values.
type State int

const (
	// Uninitialized is the state before StartFight.
	Uninitialized State = iota
	// FightActive is the dispatching state.
	FightActive
	// Defeated is terminal: no dispatch, culling only.
	Defeated
)

// String returns a log-friendly name for the state.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case FightActive:
		return "fight-active"
	case Defeated:
		return "defeated"
	default:
		return "unknown"
	}
}

// ErrNotStarted is returned by Tick before StartFight.
var ErrNotStarted = errors.New("enemy: fight not started")

// ErrAlreadyStarted is returned by StartFight after the first call.
var ErrAlreadyStarted = errors.New("enemy: fight already started")

// Controller orchestrates one enemy through its phases. Every tick it culls
// finished projectiles, drains due shots into the manager, checks phase
// advancement, and resamples an exhausted pattern. It never moves
// projectiles itself; the driver ticks the manager separately.
//
// Controllers are single-threaded. Different enemies own disjoint
// controllers and managers and may be advanced independently, but all calls
// on one controller must come from the same goroutine.
type Controller struct {
	name    string
	phases  []*phase.Phase
	manager *bullet.Manager
	rng     *rand.Rand

	state       State
	phaseIndex  int
	damageTaken int
	fightStart  float64

	pool         []*pattern.Pattern
	patternIndex int
	patternStart float64
	nextShot     int
}

// New creates a controller over the enemy's phases and projectile manager.
// The seed fixes the pattern-sampling stream; the same seed, content, and
// damage feed replay the same fight.
func New(name string, phases []*phase.Phase, manager *bullet.Manager, seed int64) (*Controller, error) {
	if name == "" {
		return nil, errors.New("enemy: controller needs a name")
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("enemy %s: no phases", name)
	}
	for i, p := range phases {
		if p == nil {
			return nil, fmt.Errorf("enemy %s: nil phase at index %d", name, i)
		}
	}
	if manager == nil {
		return nil, fmt.Errorf("enemy %s: nil projectile manager", name)
	}
	return &Controller{
		name:    name,
		phases:  phases,
		manager: manager,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// Name returns the enemy's content identifier.
func (c *Controller) Name() string { return c.name }

// State returns the current state-machine position.
func (c *Controller) State() State { return c.state }

// PhaseIndex returns the active phase, meaningful once the fight started.
func (c *Controller) PhaseIndex() int { return c.phaseIndex }

// DamageTaken returns the accumulated damage reported so far.
func (c *Controller) DamageTaken() int { return c.damageTaken }

// PhaseCount returns the number of configured phases.
func (c *Controller) PhaseCount() int { return len(c.phases) }

// Manager exposes the enemy's projectile manager so the driver can tick
// and inspect the live set.
func (c *Controller) Manager() *bullet.Manager { return c.manager }

// ReportDamage accumulates damage dealt to the enemy. The combat system
// feeds this between ticks; non-positive amounts are ignored.
func (c *Controller) ReportDamage(amount int) {
	if amount > 0 {
		c.damageTaken += amount
	}
}

// StartFight moves the controller from Uninitialized to FightActive at
// simulation time now: phase 0 activates against zero damage, one pattern
// is drawn from its pool, and the shot cursor resets.
func (c *Controller) StartFight(now float64) (core.TickReport, error) {
	if c.state != Uninitialized {
		return core.TickReport{}, fmt.Errorf("%w: %s", ErrAlreadyStarted, c.name)
	}
	c.state = FightActive
	c.fightStart = now
	c.damageTaken = 0
	c.phaseIndex = 0
	c.pool = c.phases[0].Activate(0, now)

	r := core.TickReport{Now: now}
	r.Sampled = append(r.Sampled, c.samplePattern(now))
	r.LiveProjectiles = c.manager.LiveCount()
	return r, nil
}

// samplePattern draws uniformly, with replacement, from the active pool
// and resets the pattern clock and shot cursor.
func (c *Controller) samplePattern(now float64) core.PatternSampled {
	c.patternIndex = c.rng.Intn(len(c.pool))
	c.patternStart = now
	c.nextShot = 0
	return core.PatternSampled{Enemy: c.name, PatternIndex: c.patternIndex, At: now}
}

// Tick advances the enemy to simulation time now. The stage order is fixed:
// cull, dispatch drain, phase advancement, pattern exhaustion. Dispatch
// fires every shot whose due time has passed, in order, however many became
// due since the last tick; a slow frame delays shots but never skips them.
// Advancement runs at most once per tick and may abandon the rest of the
// pattern in progress. In Defeated only the cull stage runs, so cleared
// projectiles still fade out through their grace windows.
func (c *Controller) Tick(now float64) (core.TickReport, error) {
	if c.state == Uninitialized {
		return core.TickReport{}, fmt.Errorf("%w: %s", ErrNotStarted, c.name)
	}

	r := core.TickReport{Now: now}
	c.cull(now, &r)

	if c.state == Defeated {
		r.LiveProjectiles = c.manager.LiveCount()
		return r, nil
	}

	if err := c.drainDueShots(now, &r); err != nil {
		return r, err
	}

	current := c.phases[c.phaseIndex]
	advance, err := current.ShouldAdvance(c.damageTaken, now)
	if err != nil {
		return r, fmt.Errorf("enemy %s: %w", c.name, err)
	}
	if advance {
		c.advancePhase(current, now, &r)
	} else if c.patternExhausted(now) {
		r.Sampled = append(r.Sampled, c.samplePattern(now))
	}

	r.LiveProjectiles = c.manager.LiveCount()
	return r, nil
}

// cull sweeps the manager and records each removal with its reason.
func (c *Controller) cull(now float64, r *core.TickReport) {
	for _, inst := range c.manager.CullExpired(now) {
		reason := core.CullDeathElapsed
		if inst.Invalidated() {
			reason = core.CullInvalidated
		}
		r.Culled = append(r.Culled, core.CulledEvent{
			Enemy:      c.name,
			InstanceID: inst.ID(),
			Reason:     reason,
		})
	}
}

// drainDueShots fires, in order, every remaining shot whose offset has
// elapsed. Spawn failures are hard errors: content validation guarantees
// indices, so a miss here is a bug, not a condition to recover.
func (c *Controller) drainDueShots(now float64, r *core.TickReport) error {
	pat := c.pool[c.patternIndex]
	for c.nextShot < pat.ShotCount() {
		shot, err := pat.ShotAt(c.nextShot)
		if err != nil {
			return fmt.Errorf("enemy %s: %w", c.name, err)
		}
		if c.patternStart+shot.FireOffset > now {
			break
		}
		inst, err := c.manager.Spawn(shot, now)
		if err != nil {
			return fmt.Errorf("enemy %s: %w", c.name, err)
		}
		r.Fired = append(r.Fired, core.ShotFired{
			Enemy:      c.name,
			ShotIndex:  c.nextShot,
			SpawnIndex: shot.SpawnIndex,
			TypeIndex:  shot.TypeIndex,
			InstanceID: inst.ID(),
			At:         now,
		})
		c.nextShot++
	}
	return nil
}

// advancePhase moves to the next phase, or to Defeated when none remains.
// Entering Defeated force-clears the field; removal still happens through
// later cull sweeps.
func (c *Controller) advancePhase(current *phase.Phase, now float64, r *core.TickReport) {
	trigger := core.AdvanceByTime
	if c.damageTaken >= current.DamageTarget() {
		trigger = core.AdvanceByDamage
	}
	from := c.phaseIndex

	if c.phaseIndex+1 >= len(c.phases) {
		c.state = Defeated
		requested := c.manager.ClearAll(now)
		r.Defeated = append(r.Defeated, core.EnemyDefeated{Enemy: c.name, At: now})
		r.Cleared = append(r.Cleared, core.FieldCleared{Enemy: c.name, Requested: requested, At: now})
		return
	}

	c.phaseIndex++
	c.pool = c.phases[c.phaseIndex].Activate(c.damageTaken, now)
	r.Advanced = append(r.Advanced, core.PhaseAdvanced{
		Enemy:     c.name,
		FromPhase: from,
		ToPhase:   c.phaseIndex,
		Trigger:   trigger,
		At:        now,
	})
	r.Sampled = append(r.Sampled, c.samplePattern(now))
}

// patternExhausted reports whether every shot has fired and the pattern's
// full duration has elapsed, boundary-inclusive.
func (c *Controller) patternExhausted(now float64) bool {
	pat := c.pool[c.patternIndex]
	return c.nextShot >= pat.ShotCount() && c.patternStart+pat.Duration() <= now
}
