// Package bullet manages projectile instances: typed motion behaviors, the
// spawn-point table, and the live-set bookkeeping that keeps every spawned
// projectile tracked until it is culled.
package bullet

import (
	"github.com/velachev/barrage/internal/core"
)

// Behavior drives one projectile's motion. A fresh Behavior value is built
// per spawn by its Type, so implementations may keep per-projectile state in
// their fields. Init runs once right after the instance is placed at its
// spawn point; Update runs every tick until the instance is removed,
// including the death-grace window after RequestDeath.
type Behavior interface {
	Init(inst *Instance)
	Update(inst *Instance, dt float64)
}

// Instance is one live projectile. The manager owns its lifecycle; behaviors
// steer it by writing Pos and Vel and by calling RequestDeath when their
// lifetime or trajectory ends.
type Instance struct {
	// Pos and Vel are world-space position and velocity in units and
	// units per second. Behaviors mutate them freely.
	Pos core.Vec2
	Vel core.Vec2

	id        uint64
	typeIndex int
	spawnPos  core.Vec2
	spawnTime float64
	grace     float64

	clock       float64
	age         float64
	dying       bool
	deathAt     float64
	invalidated bool

	behavior Behavior
}

// ID returns the manager-assigned identifier, unique within one manager.
func (i *Instance) ID() uint64 { return i.id }

// TypeIndex returns the registry index of the instance's bullet type.
func (i *Instance) TypeIndex() int { return i.typeIndex }

// SpawnPos returns the world position the instance was spawned at.
func (i *Instance) SpawnPos() core.Vec2 { return i.spawnPos }

// SpawnTime returns the simulation time the instance was spawned at.
func (i *Instance) SpawnTime() float64 { return i.spawnTime }

// Age returns seconds lived, accumulated from update deltas.
func (i *Instance) Age() float64 { return i.age }

// Clock returns the simulation time stamped by the most recent manager call.
func (i *Instance) Clock() float64 { return i.clock }

// RequestDeath marks the instance as dying at the current clock. The
// instance stays live through its type's death grace so fade-out effects
// have something to render, then a cull sweep removes it. Repeat calls keep
// the first death timestamp.
func (i *Instance) RequestDeath() {
	if i.dying {
		return
	}
	i.dying = true
	i.deathAt = i.clock
}

// Dying reports whether RequestDeath has been called.
func (i *Instance) Dying() bool { return i.dying }

// Invalidate marks the instance's backing state as gone, for example when
// an external effect consumed it. An invalidated instance is ready for
// removal immediately, skipping the death grace.
func (i *Instance) Invalidate() {
	i.invalidated = true
}

// Invalidated reports whether Invalidate has been called.
func (i *Instance) Invalidated() bool { return i.invalidated }

// ReadyForRemoval reports whether a cull sweep at the given time should
// drop the instance: either its backing state is gone, or it is dying and
// the death grace has fully elapsed. The grace boundary is inclusive.
func (i *Instance) ReadyForRemoval(now float64) bool {
	if i.invalidated {
		return true
	}
	return i.dying && now >= i.deathAt+i.grace
}

// tick advances the instance by dt at simulation time now.
func (i *Instance) tick(dt, now float64) {
	i.clock = now
	i.age += dt
	i.behavior.Update(i, dt)
}
