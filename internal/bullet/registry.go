package bullet

import (
	"errors"
	"fmt"

	"github.com/velachev/barrage/internal/pattern"
)

// ErrUnknownType is returned when a type index or name has no registered
// bullet type behind it.
var ErrUnknownType = errors.New("bullet: unknown bullet type")

// ErrBadSpawnIndex is returned by Spawn when a shot names a spawn point the
// manager's table does not have.
var ErrBadSpawnIndex = errors.New("bullet: spawn point index out of range")

// Type describes one bullet kind: its content name, how long a dead
// projectile lingers before removal, how raw content parameters are parsed
// into a typed schema, and how a fresh Behavior is built per spawn.
type Type struct {
	Name string

	// DeathGrace is the linger in seconds between RequestDeath and removal.
	DeathGrace float64

	// ParseParams validates a raw content map against the type's schema.
	// Unknown keys are errors; absent keys take their defaults. Called once
	// at content load, never during the fight.
	ParseParams func(raw map[string]any) (pattern.Params, error)

	// New builds the per-spawn Behavior from parsed params.
	New func(params pattern.Params) (Behavior, error)
}

// Registry is a fixed, ordered collection of bullet types. Shots address
// types by index, so order is part of an encounter's identity: the same
// content against a reordered registry is a different fight. Registries are
// built once at setup and never mutated, which is what makes the indices
// safe to bake into patterns.
type Registry struct {
	types  []Type
	byName map[string]int
}

// NewRegistry builds a registry from the given types in order. Names must
// be unique and non-empty, and every type needs its ParseParams and New
// hooks; violations are setup errors and fail immediately.
func NewRegistry(types ...Type) (*Registry, error) {
	if len(types) == 0 {
		return nil, errors.New("bullet: registry needs at least one type")
	}
	r := &Registry{
		types:  make([]Type, len(types)),
		byName: make(map[string]int, len(types)),
	}
	copy(r.types, types)
	for i, t := range r.types {
		if t.Name == "" {
			return nil, fmt.Errorf("bullet: type at index %d has no name", i)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("bullet: duplicate type name %q", t.Name)
		}
		if t.DeathGrace < 0 {
			return nil, fmt.Errorf("bullet: type %q has negative death grace", t.Name)
		}
		if t.ParseParams == nil {
			return nil, fmt.Errorf("bullet: type %q has no params parser", t.Name)
		}
		if t.New == nil {
			return nil, fmt.Errorf("bullet: type %q has no constructor", t.Name)
		}
		r.byName[t.Name] = i
	}
	return r, nil
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.types)
}

// Type returns the type at the given index.
func (r *Registry) Type(index int) (Type, error) {
	if index < 0 || index >= len(r.types) {
		return Type{}, fmt.Errorf("%w: index %d of %d", ErrUnknownType, index, len(r.types))
	}
	return r.types[index], nil
}

// Index resolves a content name to its registry index.
func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.byName[name]
	return i, ok
}

// Types returns the registered types in order.
func (r *Registry) Types() []Type {
	out := make([]Type, len(r.types))
	copy(out, r.types)
	return out
}
