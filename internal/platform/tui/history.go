package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/velachev/barrage/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show encounter list sidebar
	sidebarWidth       = 22  // Width of encounter list sidebar
	maxRecords         = 100 // Max fight records to load
)

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Back          key.Binding
	Quit          key.Binding
	NextEncounter key.Binding
	PrevEncounter key.Binding
	ToggleView    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextEncounter, k.PrevEncounter, k.ToggleView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextEncounter, k.PrevEncounter},
		{k.ToggleView, k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev encounter"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next encounter"),
		),
		NextEncounter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next encounter"),
		),
		PrevEncounter: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev encounter"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "recent/fastest"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the fight history browser.
type HistoryModel struct {
	encounters []string       // Encounter IDs with recorded fights
	cursor     int            // Currently selected encounter index
	store      *storage.Store // Fight storage
	records    []storage.FightRecord
	stats      *storage.EncounterStats
	table      table.Model
	cols       int // Visible column count, shrunk on narrow terminals
	help       help.Model
	keys       HistoryKeyMap
	width      int
	height     int
	showClears bool // Fastest-clears view instead of recent fights
	quitting   bool
	goingBack  bool // True if user pressed back (not quit)
	showSide   bool // Whether to show encounter list sidebar
}

// NewHistoryModel creates a new history browser model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	var encounters []string
	if store != nil {
		// A listing failure degrades to an empty browser
		encounters, _ = store.ListEncounters()
	}

	keys := DefaultHistoryKeyMap()
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		encounters: encounters,
		cursor:     0,
		store:      store,
		keys:       keys,
		help:       h,
		width:      width,
		height:     height,
		showSide:   width >= minWidthForSidebar,
	}

	m.table = m.createTable()

	if len(m.encounters) > 0 {
		m.loadRecords(m.encounters[0])
	}

	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 14},
		{Title: "Outcome", Width: 8},
		{Title: "Time", Width: 8},
		{Title: "Shots", Width: 7},
		{Title: "Phases", Width: 7},
		{Title: "Seed", Width: 14},
	}

	// Shrink to fit narrow terminals; seed goes first
	tableWidth := m.width - 4
	if m.showSide {
		tableWidth -= sidebarWidth + 3
	}
	if tableWidth < 62 {
		columns = columns[:5]
	}
	if tableWidth < 48 {
		columns = columns[:4]
	}
	m.cols = len(columns)

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(m.height-9), // Leave room for header, stats, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRecords loads fight records for the given encounter ID.
func (m *HistoryModel) loadRecords(encounterID string) {
	if m.store == nil {
		m.records = nil
		m.stats = nil
		m.updateTableRows()
		return
	}

	var (
		records []storage.FightRecord
		err     error
	)
	if m.showClears {
		records, err = m.store.FastestClears(encounterID, maxRecords)
	} else {
		records, err = m.store.RecentFights(encounterID, maxRecords)
	}
	if err != nil {
		m.records = nil
	} else {
		m.records = records
	}

	if stats, err := m.store.GetEncounterStats(encounterID); err == nil {
		m.stats = stats
	} else {
		m.stats = nil
	}

	m.updateTableRows()
}

// updateTableRows updates the table with current records.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		row := table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.Outcome,
			fmt.Sprintf("%.1fs", r.Duration),
			fmt.Sprintf("%d", r.ShotsFired),
			fmt.Sprintf("%d", r.Phases),
			fmt.Sprintf("%d", r.Seed),
		}
		rows[i] = row[:m.cols]
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// currentEncounter returns the selected encounter ID, or "".
func (m HistoryModel) currentEncounter() string {
	if len(m.encounters) == 0 {
		return ""
	}
	return m.encounters[m.cursor]
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextEncounter), key.Matches(msg, m.keys.Right):
			if len(m.encounters) > 0 {
				m.cursor = (m.cursor + 1) % len(m.encounters)
				m.loadRecords(m.encounters[m.cursor])
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevEncounter), key.Matches(msg, m.keys.Left):
			if len(m.encounters) > 0 {
				m.cursor--
				if m.cursor < 0 {
					m.cursor = len(m.encounters) - 1
				}
				m.loadRecords(m.encounters[m.cursor])
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleView):
			m.showClears = !m.showClears
			if enc := m.currentEncounter(); enc != "" {
				m.loadRecords(enc)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSide = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "FIGHT HISTORY"
	if m.showClears {
		title = "FASTEST CLEARS"
	}
	if enc := m.currentEncounter(); enc != "" {
		title = fmt.Sprintf("%s - %s", title, enc)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	// Aggregate line
	statsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(statsStyle.Render(centerText(m.statsLine(), m.width)))
	b.WriteString("\n\n")

	if m.showSide {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: encounter tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the selected encounter's record.
func (m HistoryModel) statsLine() string {
	if m.stats == nil || m.stats.Fights == 0 {
		return "no fights recorded"
	}
	line := fmt.Sprintf("%d fights, %d clears", m.stats.Fights, m.stats.Clears)
	if m.stats.Clears > 0 {
		line += fmt.Sprintf(", best %.1fs", m.stats.BestClear)
	}
	line += fmt.Sprintf(", avg %.0f shots", m.stats.AvgShots)
	return line
}

// renderWideLayout renders the browser with a sidebar for encounter selection.
func (m HistoryModel) renderWideLayout() string {
	// Sidebar (encounter list)
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Encounters\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, id := range m.encounters {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := id
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	sidebarRendered := sidebarStyle.Render(sidebar.String())

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableRendered := tableStyle.Render(m.renderTableContent())

	// Join horizontally
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders the browser with encounter tabs above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	// Encounter tabs (horizontal)
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.encounters))
	for i, id := range m.encounters {
		shortName := id
		if len(shortName) > 12 {
			shortName = shortName[:11] + "."
		}
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(shortName)
		} else {
			tabs[i] = tabStyle.Render(" " + shortName + " ")
		}
	}

	// Wrap tabs if needed
	tabLine := strings.Join(tabs, " ")
	if len(tabLine) > m.width-4 && len(m.encounters) > 0 {
		// Just show current encounter with arrows
		tabLine = fmt.Sprintf("< %s >", m.encounters[m.cursor])
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.records) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No fights recorded yet.\nRun 'barrage simulate' to record one.")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunHistory runs the interactive history browser.
// Returns true if the user backed out rather than quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewHistoryModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
