package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/velachev/barrage/internal/enemy"
)

const minimalDoc = `
id: test
patterns:
  - name: solo
    shots:
      - {delay: 0.5, spawn: 0, type: linear}
enemies:
  - name: dummy
    spawn_points: [[0, 0]]
    phases:
      - damage: 10
        time: 10
        patterns: [solo]
`

func TestMinimalDocumentResolves(t *testing.T) {
	enc, err := parse([]byte(minimalDoc), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if enc.ID != "test" || enc.Name != "test" {
		t.Errorf("id/name = %q/%q, want test/test (name falls back to id)", enc.ID, enc.Name)
	}
	if len(enc.Patterns) != 1 || enc.Patterns["solo"] == nil {
		t.Fatalf("patterns = %v", enc.PatternOrder)
	}
	if got := enc.Patterns["solo"].Duration(); got != 0.5 {
		t.Errorf("solo duration = %v, want 0.5", got)
	}
	if len(enc.Enemies) != 1 || enc.Enemies[0].Name != "dummy" {
		t.Fatalf("enemies = %+v", enc.Enemies)
	}
}

func TestDefaultEncounterLoads(t *testing.T) {
	enc, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if enc.ID != "proving-grounds" {
		t.Errorf("id = %q", enc.ID)
	}
	// Builtins plus the scripted weaver.
	if got := enc.Registry.Len(); got != 5 {
		t.Errorf("registry has %d types, want 5", got)
	}
	if _, ok := enc.Registry.Index("weaver"); !ok {
		t.Error("scripted weaver type missing from registry")
	}
	if len(enc.PatternOrder) != 5 {
		t.Errorf("patterns = %v, want 5", enc.PatternOrder)
	}
	if len(enc.Enemies) != 1 {
		t.Fatalf("enemies = %d, want 1", len(enc.Enemies))
	}
	if got := len(enc.Enemies[0].Phases); got != 3 {
		t.Errorf("gatekeeper has %d phases, want 3", got)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"missing id",
			`
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"no id",
		},
		{
			"no patterns",
			`
id: x
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"no patterns",
		},
		{
			"no enemies",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear}]
`,
			"no enemies",
		},
		{
			"empty pattern",
			`
id: x
patterns:
  - name: p
    shots: []
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"no shots",
		},
		{
			"duplicate pattern",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear}]
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"duplicate pattern",
		},
		{
			"unknown bullet type",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: plasma}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"unknown bullet type",
		},
		{
			"unknown param key",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear, params: {sped: 10}}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"unknown key",
		},
		{
			"unknown pattern reference",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [ghost]}]
`,
			"unknown pattern",
		},
		{
			"spawn index beyond table",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 2, type: linear}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"spawn point 2",
		},
		{
			"bad spawn point shape",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear}]
enemies:
  - name: e
    spawn_points: [[0, 0, 9]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"[x, y]",
		},
		{
			"duplicate enemy",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`,
			"duplicate enemy",
		},
		{
			"enemy without phases",
			`
id: x
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: linear}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: []
`,
			"no phases",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.doc), nil)
			if err == nil {
				t.Fatalf("document with %s accepted", tt.name)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFileWithScriptReference(t *testing.T) {
	dir := t.TempDir()
	scriptSrc := `
init := func() {
    bullet.set_vel(0, bullet.param("speed"))
}
update := func(dt) {
    bullet.set_pos(bullet.pos_x(), bullet.pos_y() + bullet.vel_y()*dt)
    if bullet.age() >= 3 {
        bullet.request_death()
    }
}
`
	if err := os.WriteFile(filepath.Join(dir, "drip.tengo"), []byte(scriptSrc), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	doc := `
id: filetest
bullets:
  - name: drip
    file: drip.tengo
    params:
      speed: 50
patterns:
  - name: p
    shots: [{delay: 0.1, spawn: 0, type: drip}]
enemies:
  - name: e
    spawn_points: [[0, 0]]
    phases: [{damage: 1, time: 1, patterns: [p]}]
`
	path := filepath.Join(dir, "encounter.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write encounter: %v", err)
	}
	enc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, ok := enc.Registry.Index("drip"); !ok {
		t.Error("file-backed script type missing")
	}

	// A missing script file must fail the load, not the fight.
	bad := strings.Replace(doc, "drip.tengo", "gone.tengo", 1)
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("write encounter: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("dangling script reference accepted")
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	enc, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if enc.ID != "proving-grounds" {
		t.Errorf("empty path loaded %q, want the embedded default", enc.ID)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestArenasFromOneEncounterAreIndependent(t *testing.T) {
	enc, err := parse([]byte(minimalDoc), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	first, err := enc.NewArena(1)
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	second, err := enc.NewArena(1)
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	if _, err := first.StartAll(0); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if _, err := second.StartAll(0); err != nil {
		t.Fatalf("StartAll: %v", err)
	}

	// Beat the first arena's enemy down; the second must not notice.
	first.ReportDamageAll(10)
	if _, err := first.Tick(0.1, 0.1); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !first.AllDefeated() {
		t.Fatal("first arena should be cleared")
	}
	one := second.Enemies()[0]
	if one.State() == enemy.Defeated {
		t.Fatal("second arena shares fight state with the first")
	}
}

func TestWatcherFiltersAndCloses(t *testing.T) {
	if !isContentFile("a/b/enc.yaml") || !isContentFile("x.YML") || !isContentFile("s.tengo") {
		t.Error("content extensions rejected")
	}
	if isContentFile("notes.txt") || isContentFile("enc.yaml.bak") {
		t.Error("non-content extensions accepted")
	}

	w, err := WatchEncounter(filepath.Join(t.TempDir(), "e.yaml"))
	if err != nil {
		t.Fatalf("WatchEncounter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
