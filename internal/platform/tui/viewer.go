package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/velachev/barrage/internal/arena"
	"github.com/velachev/barrage/internal/config"
	"github.com/velachev/barrage/internal/content"
	"github.com/velachev/barrage/internal/core"
	"github.com/velachev/barrage/internal/enemy"
	"github.com/velachev/barrage/internal/storage"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// World extent of the bullet field in simulation units. Content is
// authored against this window: spawn points sit near the top and
// projectiles travel down toward larger y.
const (
	worldW = 240.0
	worldH = 320.0
)

// statusLines is the number of terminal rows reserved below the field.
const statusLines = 2

// bulletGlyph is the display character and color for one bullet type.
// Types beyond the palette cycle back to the start.
type bulletGlyph struct {
	r rune
	c Color
}

var bulletGlyphs = []bulletGlyph{
	{'*', ColorBrightYellow},
	{'+', ColorCyan},
	{'>', ColorBrightRed},
	{'o', ColorMagenta},
	{'~', ColorWhite},
	{'x', ColorOrange},
}

// ViewerModel is the Bubble Tea model for watching a fight live.
type ViewerModel struct {
	enc   *content.Encounter
	cfg   config.SimConfig
	store *storage.Store

	arena    *arena.Arena
	pressure *config.PressureManager
	stats    core.FightStats
	seed     int64
	tick     uint64
	now      float64

	canvas   *Canvas
	width    int
	height   int
	paused   bool
	cleared  bool
	finished bool
	saved    bool
	tickErr  error
	quitting bool
}

// NewViewerModel creates a viewer and starts the fight at t=0.
func NewViewerModel(enc *content.Encounter, cfg config.SimConfig, store *storage.Store, seed int64, width, height int) (ViewerModel, error) {
	// Use time-based seed if not specified
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := ViewerModel{
		enc:    enc,
		cfg:    cfg,
		store:  store,
		width:  width,
		height: height,
		canvas: NewCanvas(width, max(height-statusLines, 3)),
	}
	if err := m.reset(seed); err != nil {
		return ViewerModel{}, err
	}
	return m, nil
}

// reset builds a fresh arena for the given seed and starts it.
func (m *ViewerModel) reset(seed int64) error {
	a, err := m.enc.NewArena(seed)
	if err != nil {
		return err
	}
	if _, err := a.StartAll(0); err != nil {
		return err
	}

	m.arena = a
	m.pressure = config.NewPressureManager(m.cfg.Pressure)
	m.stats = core.FightStats{Encounter: m.enc.ID, Seed: seed}
	m.seed = seed
	m.tick = 0
	m.now = 0
	m.paused = false
	m.cleared = false
	m.finished = false
	m.saved = false
	m.tickErr = nil
	return nil
}

func (m ViewerModel) dt() float64 {
	return 1.0 / float64(m.cfg.Sim.TickRate)
}

// Init starts the tick loop.
func (m ViewerModel) Init() tea.Cmd {
	return tickCmd(m.cfg.Sim.TickRate)
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "p", "esc":
		if !m.finished {
			m.paused = !m.paused
		}

	case "r":
		if m.finished {
			// New seed for the rerun
			if err := m.reset(time.Now().UnixNano()); err != nil {
				m.tickErr = err
				m.finished = true
			}
		}
	}

	return m, nil
}

// handleResize processes window resize events. The simulation itself is
// unaffected; only the projection changes.
func (m ViewerModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.canvas.Resize(msg.Width, max(msg.Height-statusLines, 3))
	return m, nil
}

// handleTick advances the simulation by one fixed step.
func (m ViewerModel) handleTick() (tea.Model, tea.Cmd) {
	if m.paused || m.finished {
		// Keep ticking so pause and restart stay responsive
		return m, tickCmd(m.cfg.Sim.TickRate)
	}

	m.tick++
	m.now = float64(m.tick) * m.dt()

	if !m.cleared {
		if damage := m.pressure.Tick(m.now, m.dt()); damage > 0 {
			m.arena.ReportDamageAll(damage)
			m.stats.DamageDealt += damage
		}
	}

	report, err := m.arena.Tick(m.dt(), m.now)
	if err != nil {
		m.tickErr = err
		m.finished = true
		return m, tickCmd(m.cfg.Sim.TickRate)
	}
	m.stats.Observe(report)

	if !m.cleared && m.arena.AllDefeated() {
		m.cleared = true
		m.stats.Outcome = core.OutcomeCleared
		m.stats.Duration = m.now
	}

	switch {
	case m.cleared && m.arena.LiveCount() == 0:
		// Field has drained, the record is complete
		m.finish()
	case m.now >= m.cfg.Sim.MaxDuration:
		if !m.cleared {
			m.stats.Outcome = core.OutcomeTimeout
			m.stats.Duration = m.now
		}
		m.finish()
	}

	return m, tickCmd(m.cfg.Sim.TickRate)
}

// finish marks the fight over and saves the result (once).
func (m *ViewerModel) finish() {
	m.finished = true
	if m.store != nil && !m.saved && m.tickErr == nil {
		//nolint:errcheck // Best-effort save, the viewer continues regardless
		m.store.SaveFight(m.stats)
		m.saved = true
	}
}

// View renders the field and status bar.
func (m ViewerModel) View() string {
	if m.quitting {
		return ""
	}

	m.drawField()
	return m.canvas.Render() + "\n" + m.statusBar()
}

// drawField paints the current frame onto the canvas.
func (m ViewerModel) drawField() {
	c := m.canvas
	c.Clear()
	c.DrawBox(0, 0, c.Width(), c.Height(), ColorGray)

	for _, ctrl := range m.arena.Enemies() {
		mgr := ctrl.Manager()

		for _, p := range mgr.SpawnPoints() {
			x, y := m.project(p)
			glyph := '▲'
			if ctrl.State() == enemy.Defeated {
				glyph = '△'
			}
			c.Set(x, y, glyph, ColorRed)
		}

		for _, inst := range mgr.Live() {
			x, y := m.project(inst.Pos)
			if inst.Dying() {
				// Fading out through its death grace
				c.Set(x, y, '·', ColorGray)
				continue
			}
			g := bulletGlyphs[inst.TypeIndex()%len(bulletGlyphs)]
			c.Set(x, y, g.r, g.c)
		}
	}

	switch {
	case m.tickErr != nil:
		c.DrawTextCentered(c.Height()/2, fmt.Sprintf(" SIMULATION ERROR: %v ", m.tickErr), ColorBrightRed)
	case m.finished && m.stats.Outcome == core.OutcomeCleared:
		c.DrawTextCentered(c.Height()/2, fmt.Sprintf(" CLEARED in %.1fs ", m.stats.Duration), ColorBrightYellow)
		c.DrawTextCentered(c.Height()/2+1, " r rerun · q quit ", ColorGray)
	case m.finished:
		c.DrawTextCentered(c.Height()/2, fmt.Sprintf(" TIMED OUT after %.0fs ", m.stats.Duration), ColorBrightRed)
		c.DrawTextCentered(c.Height()/2+1, " r rerun · q quit ", ColorGray)
	case m.paused:
		c.DrawTextCentered(c.Height()/2, " PAUSED ", ColorWhite)
	}
}

// project maps a world position to canvas coordinates inside the border.
func (m ViewerModel) project(p core.Vec2) (int, int) {
	innerW := m.canvas.Width() - 2
	innerH := m.canvas.Height() - 2
	x := 1 + int(p.X/worldW*float64(innerW))
	y := 1 + int(p.Y/worldH*float64(innerH))
	return x, y
}

// statusBar renders the two lines below the field.
func (m ViewerModel) statusBar() string {
	left := fmt.Sprintf(" %s  t=%6.2fs  live %3d  dealt %d", m.enc.Name, m.now, m.arena.LiveCount(), m.stats.DamageDealt)

	enemies := ""
	for _, ctrl := range m.arena.Enemies() {
		state := fmt.Sprintf("phase %d/%d", ctrl.PhaseIndex()+1, ctrl.PhaseCount())
		if ctrl.State() == enemy.Defeated {
			state = "down"
		}
		enemies += fmt.Sprintf("  %s[%s dmg %d]", ctrl.Name(), state, ctrl.DamageTaken())
	}

	help := " p pause · r rerun · q quit"
	if m.paused {
		help = " p resume · q quit"
	}
	return left + enemies + "\n" + help
}

// RunViewer runs a live fight in the terminal until the user quits.
// The finished fight is recorded to store when one is given.
func RunViewer(enc *content.Encounter, cfg config.SimConfig, store *storage.Store, seed int64, width, height int) error {
	model, err := NewViewerModel(enc, cfg, store, seed, width, height)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
