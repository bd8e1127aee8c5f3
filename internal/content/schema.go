// Package content loads encounter definitions from YAML and resolves them
// into runtime objects: a bullet-type registry, shared attack patterns, and
// per-enemy phase setups. Everything is validated here, at load time, so a
// fight never trips over a bad index or a misspelled parameter.
package content

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/velachev/barrage/internal/bullet"
	"github.com/velachev/barrage/internal/core"
	"github.com/velachev/barrage/internal/pattern"
	"github.com/velachev/barrage/internal/phase"
	"github.com/velachev/barrage/internal/script"
)

// document mirrors the encounter YAML layout.
type document struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Bullets  []bulletDoc  `yaml:"bullets"`
	Patterns []patternDoc `yaml:"patterns"`
	Enemies  []enemyDoc   `yaml:"enemies"`
}

// bulletDoc declares one scripted bullet type. Script holds inline Tengo
// source; File names a script beside the encounter file instead. Exactly
// one of the two must be set.
type bulletDoc struct {
	Name   string             `yaml:"name"`
	Script string             `yaml:"script"`
	File   string             `yaml:"file"`
	Grace  float64            `yaml:"grace"`
	Params map[string]float64 `yaml:"params"`
}

type patternDoc struct {
	Name  string    `yaml:"name"`
	Shots []shotDoc `yaml:"shots"`
}

// shotDoc is one timeline entry. Delay is the gap after this shot, not an
// absolute time; offsets fall out of the running total.
type shotDoc struct {
	Delay  float64        `yaml:"delay"`
	Spawn  int            `yaml:"spawn"`
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

type enemyDoc struct {
	Name        string      `yaml:"name"`
	SpawnPoints [][]float64 `yaml:"spawn_points"`
	Phases      []phaseDoc  `yaml:"phases"`
}

type phaseDoc struct {
	Damage   int      `yaml:"damage"`
	Time     float64  `yaml:"time"`
	Patterns []string `yaml:"patterns"`
}

// PhaseSpec is one resolved phase: limits plus references into the shared
// pattern set. Live phase state is built per fight, so one Encounter can
// back any number of arenas.
type PhaseSpec struct {
	Damage   int
	Time     float64
	Patterns []*pattern.Pattern
}

// EnemySetup is one resolved enemy: its spawn-point table and phase specs.
type EnemySetup struct {
	Name        string
	SpawnPoints []core.Vec2
	Phases      []PhaseSpec
}

// Encounter is a fully resolved, validated content document. Patterns are
// shared by reference between enemies and phases; they are immutable after
// load, which is what makes the sharing safe.
type Encounter struct {
	ID       string
	Name     string
	Registry *bullet.Registry
	Patterns map[string]*pattern.Pattern
	// PatternOrder preserves the document's pattern order for listings.
	PatternOrder []string
	Enemies      []EnemySetup
}

// resolve turns a parsed document into an Encounter, validating as it goes.
// loadScript reads a script file named by a bullet declaration; it is nil
// when the source cannot reference files (the embedded default).
func resolve(doc *document, loadScript func(name string) (string, error)) (*Encounter, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("content: encounter has no id")
	}
	name := doc.Name
	if name == "" {
		name = doc.ID
	}

	reg, err := buildRegistry(doc.Bullets, loadScript)
	if err != nil {
		return nil, fmt.Errorf("content: encounter %q: %w", doc.ID, err)
	}

	enc := &Encounter{
		ID:       doc.ID,
		Name:     name,
		Registry: reg,
		Patterns: make(map[string]*pattern.Pattern, len(doc.Patterns)),
	}

	if len(doc.Patterns) == 0 {
		return nil, fmt.Errorf("content: encounter %q has no patterns", doc.ID)
	}
	// maxSpawn tracks the highest spawn index each pattern uses so enemy
	// tables can be checked against the patterns they reference.
	maxSpawn := make(map[string]int, len(doc.Patterns))
	for _, pd := range doc.Patterns {
		if pd.Name == "" {
			return nil, fmt.Errorf("content: encounter %q: pattern with no name", doc.ID)
		}
		if _, dup := enc.Patterns[pd.Name]; dup {
			return nil, fmt.Errorf("content: encounter %q: duplicate pattern %q", doc.ID, pd.Name)
		}
		pat, highest, err := buildPattern(reg, pd)
		if err != nil {
			return nil, fmt.Errorf("content: encounter %q: %w", doc.ID, err)
		}
		enc.Patterns[pd.Name] = pat
		enc.PatternOrder = append(enc.PatternOrder, pd.Name)
		maxSpawn[pd.Name] = highest
	}

	if len(doc.Enemies) == 0 {
		return nil, fmt.Errorf("content: encounter %q has no enemies", doc.ID)
	}
	seen := make(map[string]bool, len(doc.Enemies))
	for _, ed := range doc.Enemies {
		es, err := buildEnemy(enc, maxSpawn, ed)
		if err != nil {
			return nil, fmt.Errorf("content: encounter %q: %w", doc.ID, err)
		}
		if seen[es.Name] {
			return nil, fmt.Errorf("content: encounter %q: duplicate enemy %q", doc.ID, es.Name)
		}
		seen[es.Name] = true
		enc.Enemies = append(enc.Enemies, es)
	}
	return enc, nil
}

// buildRegistry appends the document's scripted types after the builtins.
func buildRegistry(docs []bulletDoc, loadScript func(string) (string, error)) (*bullet.Registry, error) {
	types := bullet.Builtin().Types()
	for _, bd := range docs {
		if bd.Name == "" {
			return nil, fmt.Errorf("bullet type with no name")
		}
		src := bd.Script
		switch {
		case src != "" && bd.File != "":
			return nil, fmt.Errorf("bullet type %q: both script and file set", bd.Name)
		case src == "" && bd.File == "":
			return nil, fmt.Errorf("bullet type %q: no script or file", bd.Name)
		case bd.File != "":
			if loadScript == nil {
				return nil, fmt.Errorf("bullet type %q: script files are not available here", bd.Name)
			}
			var err error
			if src, err = loadScript(bd.File); err != nil {
				return nil, fmt.Errorf("bullet type %q: %w", bd.Name, err)
			}
		}
		grace := bd.Grace
		if grace == 0 {
			grace = 0.25
		}
		typ, err := script.Compile(script.Source{
			Name:     bd.Name,
			Script:   src,
			Grace:    grace,
			Defaults: bd.Params,
		})
		if err != nil {
			return nil, err
		}
		types = append(types, typ)
	}
	return bullet.NewRegistry(types...)
}

// buildPattern resolves type names and parses every shot's params against
// its type's schema. It returns the pattern and the highest spawn index it
// addresses.
func buildPattern(reg *bullet.Registry, pd patternDoc) (*pattern.Pattern, int, error) {
	if len(pd.Shots) == 0 {
		return nil, 0, fmt.Errorf("pattern %q has no shots", pd.Name)
	}
	var b pattern.Builder
	highest := 0
	for i, sd := range pd.Shots {
		typeIndex, ok := reg.Index(sd.Type)
		if !ok {
			return nil, 0, fmt.Errorf("pattern %q: shot %d: unknown bullet type %q", pd.Name, i, sd.Type)
		}
		typ, err := reg.Type(typeIndex)
		if err != nil {
			return nil, 0, fmt.Errorf("pattern %q: shot %d: %w", pd.Name, i, err)
		}
		params, err := typ.ParseParams(sd.Params)
		if err != nil {
			return nil, 0, fmt.Errorf("pattern %q: shot %d: %w", pd.Name, i, err)
		}
		if err := b.Append(sd.Delay, sd.Spawn, typeIndex, params); err != nil {
			return nil, 0, fmt.Errorf("pattern %q: shot %d: %w", pd.Name, i, err)
		}
		if sd.Spawn > highest {
			highest = sd.Spawn
		}
	}
	return b.Build(), highest, nil
}

// buildEnemy resolves pattern references and checks every referenced
// pattern's spawn indices against this enemy's table.
func buildEnemy(enc *Encounter, maxSpawn map[string]int, ed enemyDoc) (EnemySetup, error) {
	es := EnemySetup{Name: ed.Name}
	if es.Name == "" {
		return es, fmt.Errorf("enemy with no name")
	}
	if len(ed.SpawnPoints) == 0 {
		return es, fmt.Errorf("enemy %q has no spawn points", es.Name)
	}
	for i, sp := range ed.SpawnPoints {
		if len(sp) != 2 {
			return es, fmt.Errorf("enemy %q: spawn point %d must be [x, y]", es.Name, i)
		}
		es.SpawnPoints = append(es.SpawnPoints, core.V(sp[0], sp[1]))
	}
	if len(ed.Phases) == 0 {
		return es, fmt.Errorf("enemy %q has no phases", es.Name)
	}
	for pi, phd := range ed.Phases {
		spec := PhaseSpec{Damage: phd.Damage, Time: phd.Time}
		if len(phd.Patterns) == 0 {
			return es, fmt.Errorf("enemy %q: phase %d has no patterns", es.Name, pi)
		}
		for _, pname := range phd.Patterns {
			pat, ok := enc.Patterns[pname]
			if !ok {
				return es, fmt.Errorf("enemy %q: phase %d: unknown pattern %q", es.Name, pi, pname)
			}
			if max := maxSpawn[pname]; max >= len(es.SpawnPoints) {
				return es, fmt.Errorf("enemy %q: phase %d: pattern %q fires from spawn point %d but the enemy has %d",
					es.Name, pi, pname, max, len(es.SpawnPoints))
			}
			spec.Patterns = append(spec.Patterns, pat)
		}
		// Probe the phase constructor so limit validation lives in one place.
		if _, err := phase.New(spec.Damage, spec.Time, spec.Patterns); err != nil {
			return es, fmt.Errorf("enemy %q: phase %d: %w", es.Name, pi, err)
		}
		es.Phases = append(es.Phases, spec)
	}
	return es, nil
}

// parse decodes and resolves one YAML document.
func parse(data []byte, loadScript func(string) (string, error)) (*Encounter, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("content: parse encounter: %w", err)
	}
	return resolve(&doc, loadScript)
}
