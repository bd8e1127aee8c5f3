package bullet

import (
	"fmt"

	"github.com/velachev/barrage/internal/core"
	"github.com/velachev/barrage/internal/pattern"
)

// Manager owns every projectile one enemy has fired. It resolves shots
// against a registry and a spawn-point table, keeps the live set, and
// removes instances once they report ready. Managers are single-threaded
// like the rest of the simulation core.
type Manager struct {
	reg         *Registry
	spawnPoints []core.Vec2
	live        []*Instance
	nextID      uint64
}

// NewManager creates a manager over the given registry and spawn-point
// table. The registry must be non-nil; the spawn table may be empty, in
// which case every spawn fails until content provides points.
func NewManager(reg *Registry, spawnPoints []core.Vec2) *Manager {
	points := make([]core.Vec2, len(spawnPoints))
	copy(points, spawnPoints)
	return &Manager{
		reg:         reg,
		spawnPoints: points,
		nextID:      1,
	}
}

// Spawn creates a projectile for the shot at simulation time now. The
// shot's type index is resolved against the registry and its spawn index
// against the spawn table; either miss is a hard error, since content
// validation should have caught it long before a fight.
func (m *Manager) Spawn(shot pattern.Shot, now float64) (*Instance, error) {
	typ, err := m.reg.Type(shot.TypeIndex)
	if err != nil {
		return nil, err
	}
	if shot.SpawnIndex < 0 || shot.SpawnIndex >= len(m.spawnPoints) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrBadSpawnIndex, shot.SpawnIndex, len(m.spawnPoints))
	}
	behavior, err := typ.New(shot.Params)
	if err != nil {
		return nil, fmt.Errorf("bullet: spawn %s: %w", typ.Name, err)
	}

	at := m.spawnPoints[shot.SpawnIndex]
	inst := &Instance{
		Pos:       at,
		id:        m.nextID,
		typeIndex: shot.TypeIndex,
		spawnPos:  at,
		spawnTime: now,
		grace:     typ.DeathGrace,
		clock:     now,
		behavior:  behavior,
	}
	m.nextID++
	behavior.Init(inst)
	m.live = append(m.live, inst)
	return inst, nil
}

// TickAll advances every live projectile by dt at simulation time now.
// Dying projectiles keep moving through their grace window.
func (m *Manager) TickAll(dt, now float64) {
	for _, inst := range m.live {
		inst.tick(dt, now)
	}
}

// CullExpired removes every instance that reports ready for removal at the
// given time and returns the removed ones in live-set order. Survivors keep
// their relative order. Running it twice at the same time is a no-op the
// second time.
func (m *Manager) CullExpired(now float64) []*Instance {
	var removed []*Instance
	alive := m.live[:0]
	for _, inst := range m.live {
		if inst.ReadyForRemoval(now) {
			removed = append(removed, inst)
			continue
		}
		alive = append(alive, inst)
	}
	// Clear the tail so culled instances are not pinned by the backing array.
	for i := len(alive); i < len(m.live); i++ {
		m.live[i] = nil
	}
	m.live = alive
	return removed
}

// ClearAll requests death on every live projectile at simulation time now
// and returns how many were newly marked. Nothing is removed here: each
// projectile lingers through its own grace and later cull sweeps pick it
// up, so clears fade out instead of blinking the field empty.
func (m *Manager) ClearAll(now float64) int {
	requested := 0
	for _, inst := range m.live {
		if inst.Dying() {
			continue
		}
		inst.clock = now
		inst.RequestDeath()
		requested++
	}
	return requested
}

// Live returns the live instances in spawn order.
func (m *Manager) Live() []*Instance {
	out := make([]*Instance, len(m.live))
	copy(out, m.live)
	return out
}

// LiveCount returns the number of live instances, dying ones included.
func (m *Manager) LiveCount() int {
	return len(m.live)
}

// SpawnPointCount returns the size of the spawn-point table.
func (m *Manager) SpawnPointCount() int {
	return len(m.spawnPoints)
}

// SpawnPoints returns a copy of the spawn-point table.
func (m *Manager) SpawnPoints() []core.Vec2 {
	out := make([]core.Vec2, len(m.spawnPoints))
	copy(out, m.spawnPoints)
	return out
}
