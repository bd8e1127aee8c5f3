// Package pattern defines the attack timeline model: an ordered sequence of
// scheduled shots with a total duration. Patterns are built once through a
// Builder and treated as immutable afterwards, so they can be shared by any
// number of combat phases without copying.
package pattern

import (
	"errors"
	"fmt"
)

// ErrShotOutOfRange is returned by ShotAt for an index outside [0, ShotCount()).
var ErrShotOutOfRange = errors.New("pattern: shot index out of range")

// Params carries the pre-validated, type-specific parameters of one shot.
// Each bullet type defines its own concrete params struct and validates raw
// authored values against its schema at content-load time, so firing never
// fails on a missing key.
type Params interface {
	IsShotParams()
}

// Shot is one scheduled firing event. FireOffset is seconds from pattern
// start; SpawnIndex selects a position from the owning enemy's spawn table
// and TypeIndex selects a bullet type from the registry.
type Shot struct {
	FireOffset float64
	SpawnIndex int
	TypeIndex  int
	Params     Params
}

// Pattern is an immutable timeline of shots. Shots are stored in
// non-decreasing FireOffset order; the Builder guarantees this by deriving
// every offset from accumulated delays.
type Pattern struct {
	shots    []Shot
	duration float64
}

// Duration returns the pattern's total length in seconds: the sum of all
// append delays, which is at least the last shot's offset.
func (p *Pattern) Duration() float64 {
	return p.duration
}

// ShotCount returns the number of shots in the pattern.
func (p *Pattern) ShotCount() int {
	return len(p.shots)
}

// ShotAt returns the i-th shot in firing order.
func (p *Pattern) ShotAt(i int) (Shot, error) {
	if i < 0 || i >= len(p.shots) {
		return Shot{}, fmt.Errorf("%w: %d of %d", ErrShotOutOfRange, i, len(p.shots))
	}
	return p.shots[i], nil
}

// Builder accumulates shots for one pattern. The zero value is ready to use.
type Builder struct {
	shots    []Shot
	duration float64
}

// NewBuilder creates an empty pattern builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append adds a shot that fires at the pattern's current accumulated
// duration, then extends the duration by postDelay. Callers therefore author
// timelines as relative delays and never compute absolute offsets.
// A negative postDelay is rejected: accepting it would break the
// non-decreasing offset invariant for every later shot.
func (b *Builder) Append(postDelay float64, spawnIndex, typeIndex int, params Params) error {
	if postDelay < 0 {
		return fmt.Errorf("pattern: negative post-delay %v", postDelay)
	}
	if spawnIndex < 0 {
		return fmt.Errorf("pattern: negative spawn index %d", spawnIndex)
	}
	if typeIndex < 0 {
		return fmt.Errorf("pattern: negative bullet type index %d", typeIndex)
	}
	b.shots = append(b.shots, Shot{
		FireOffset: b.duration,
		SpawnIndex: spawnIndex,
		TypeIndex:  typeIndex,
		Params:     params,
	})
	b.duration += postDelay
	return nil
}

// Build finalizes the timeline. The builder keeps no reference to the
// returned pattern and may be reused for another one.
func (b *Builder) Build() *Pattern {
	p := &Pattern{
		shots:    make([]Shot, len(b.shots)),
		duration: b.duration,
	}
	copy(p.shots, b.shots)
	b.shots = nil
	b.duration = 0
	return p
}
