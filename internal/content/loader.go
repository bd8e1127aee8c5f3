package content

import (
	_ "embed"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/velachev/barrage/internal/arena"
	"github.com/velachev/barrage/internal/bullet"
	"github.com/velachev/barrage/internal/enemy"
	"github.com/velachev/barrage/internal/phase"
)

//go:embed default.yaml
var defaultEncounter []byte

// Default returns the embedded proving-grounds encounter. It ships inside
// the binary so every command works before the user has authored anything.
func Default() (*Encounter, error) {
	return parse(defaultEncounter, nil)
}

// LoadFile loads and validates an encounter from disk. Script file
// references resolve relative to the encounter file's directory.
func LoadFile(path string) (*Encounter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	base := filepath.Dir(path)
	return parse(data, func(name string) (string, error) {
		src, err := os.ReadFile(filepath.Join(base, name))
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		return string(src), nil
	})
}

// Load resolves the usual CLI contract: an explicit path wins, an empty
// one falls back to the embedded default.
func Load(path string) (*Encounter, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// NewArena builds a fresh arena from the encounter. Fresh phase state is
// constructed per call, so one loaded Encounter can back any number of
// concurrent fights. Each enemy's sampling stream is seeded from the fight
// seed and a hash of its name, which keeps an enemy's draws stable when
// others are added or reordered.
func (e *Encounter) NewArena(seed int64) (*arena.Arena, error) {
	controllers := make([]*enemy.Controller, 0, len(e.Enemies))
	for _, es := range e.Enemies {
		phases := make([]*phase.Phase, 0, len(es.Phases))
		for pi, spec := range es.Phases {
			p, err := phase.New(spec.Damage, spec.Time, spec.Patterns)
			if err != nil {
				return nil, fmt.Errorf("content: enemy %q: phase %d: %w", es.Name, pi, err)
			}
			phases = append(phases, p)
		}
		mgr := bullet.NewManager(e.Registry, es.SpawnPoints)
		ctrl, err := enemy.New(es.Name, phases, mgr, seed^nameSeed(es.Name))
		if err != nil {
			return nil, fmt.Errorf("content: enemy %q: %w", es.Name, err)
		}
		controllers = append(controllers, ctrl)
	}
	return arena.New(controllers...)
}

func nameSeed(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}
