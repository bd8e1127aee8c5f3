package core

// AdvanceTrigger identifies which threshold caused a phase transition.
type AdvanceTrigger int

const (
	AdvanceByDamage AdvanceTrigger = iota
	AdvanceByTime
)

// String returns a human-readable name for the trigger.
func (t AdvanceTrigger) String() string {
	switch t {
	case AdvanceByDamage:
		return "damage"
	case AdvanceByTime:
		return "time"
	default:
		return "unknown"
	}
}

// CullReason identifies why a projectile left the live set.
type CullReason int

const (
	CullDeathElapsed CullReason = iota // death was requested and the grace period passed
	CullInvalidated                    // destroyed externally before the manager saw it
)

// String returns a human-readable name for the reason.
func (r CullReason) String() string {
	switch r {
	case CullDeathElapsed:
		return "death"
	case CullInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// ShotFired records one scheduled shot being dispatched to the projectile
// manager. The instance ID identifies the projectile it spawned.
type ShotFired struct {
	Enemy      string
	ShotIndex  int
	SpawnIndex int
	TypeIndex  int
	InstanceID uint64
	At         float64
}

// CulledEvent records a projectile removal.
type CulledEvent struct {
	Enemy      string
	InstanceID uint64
	Reason     CullReason
}

// PatternSampled records a pattern draw from the active pool.
type PatternSampled struct {
	Enemy        string
	PatternIndex int
	At           float64
}

// PhaseAdvanced records a transition between combat phases.
type PhaseAdvanced struct {
	Enemy     string
	FromPhase int
	ToPhase   int
	Trigger   AdvanceTrigger
	At        float64
}

// EnemyDefeated records an enemy running out of phases.
type EnemyDefeated struct {
	Enemy string
	At    float64
}

// FieldCleared records a force-clear request against an enemy's live set.
// Requested counts the instances whose death transition was started.
type FieldCleared struct {
	Enemy     string
	Requested int
	At        float64
}

// TickReport collects everything that happened during one simulation tick.
// Slices are nil when nothing of that kind occurred.
type TickReport struct {
	Now      float64
	Fired    []ShotFired
	Culled   []CulledEvent
	Sampled  []PatternSampled
	Advanced []PhaseAdvanced
	Defeated []EnemyDefeated
	Cleared  []FieldCleared

	// LiveProjectiles is the total live count after the tick.
	LiveProjectiles int
}

// Merge appends the contents of another report into this one.
// Used by the arena to fold per-enemy reports into a single record.
func (r *TickReport) Merge(o TickReport) {
	r.Fired = append(r.Fired, o.Fired...)
	r.Culled = append(r.Culled, o.Culled...)
	r.Sampled = append(r.Sampled, o.Sampled...)
	r.Advanced = append(r.Advanced, o.Advanced...)
	r.Defeated = append(r.Defeated, o.Defeated...)
	r.Cleared = append(r.Cleared, o.Cleared...)
	r.LiveProjectiles += o.LiveProjectiles
}
