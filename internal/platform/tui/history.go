package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/gridpath/internal/storage"
)

// History layout constants
const (
	maxHistory      = 200 // Max solves to load
	runIDWidth      = 8
	pathPreviewSize = 12 // Coordinates shown in the detail view
)

// HistoryModel is the Bubble Tea model for browsing recorded solves.
type HistoryModel struct {
	store    *storage.Store
	records  []storage.SolveRecord
	loadErr  error
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	detail   *storage.SolveRecord
	width    int
	height   int
	quitting bool
}

// NewHistoryModel creates the browser and loads the most recent solves.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates a table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: runIDWidth},
		{Title: "Source", Width: 18},
		{Title: "Outcome", Width: 11},
		{Title: "Size", Width: 9},
		{Title: "Length", Width: 7},
		{Title: "Eff", Width: 5},
		{Title: "When", Width: 14},
	}

	// Give spare width to the source column
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if spare := m.width - 4 - used; spare > 0 {
		columns[1].Width += min(spare, 30)
	}

	height := m.height - 6
	if height < 3 {
		height = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
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

// reload reads the latest solves from the store.
func (m *HistoryModel) reload() {
	m.records, m.loadErr = nil, nil
	if m.store != nil {
		m.records, m.loadErr = m.store.RecentSolves(maxHistory)
	}
	m.updateTableRows()
}

// updateTableRows fills the table from the loaded records.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		runID := r.RunID
		if len(runID) > runIDWidth {
			runID = runID[:runIDWidth]
		}
		rows[i] = table.Row{
			runID,
			r.Source,
			r.Outcome,
			fmt.Sprintf("%dx%d", r.Rows, r.Cols),
			fmt.Sprintf("%d", r.PathLength),
			fmt.Sprintf("%.2f", r.Efficiency),
			humanize.Time(r.CreatedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
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
			if m.detail == nil {
				m.quitting = true
				return m, tea.Quit
			}
			m.detail = nil
			return m, nil

		case key.Matches(msg, m.keys.Details):
			if m.detail == nil && len(m.records) > 0 {
				rec := m.records[m.table.Cursor()]
				m.detail = &rec
			}
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.detail = nil
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	if m.detail != nil {
		return m, nil
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Selected returns the record shown in the detail view, if any.
func (m HistoryModel) Selected() *storage.SolveRecord {
	return m.detail
}

// Records returns the loaded solves, newest first.
func (m HistoryModel) Records() []storage.SolveRecord {
	return m.records
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(fmt.Sprintf("SOLVE HISTORY (%d)", len(m.records))))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.detail != nil:
		b.WriteString(boxStyle.Render(renderDetail(*m.detail)))
	case m.loadErr != nil:
		b.WriteString(boxStyle.Render("Cannot load history: " + m.loadErr.Error()))
	case len(m.records) == 0:
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)
		b.WriteString(boxStyle.Render(emptyStyle.Render("No solves recorded yet.\nRun gridpath solve to add one.")))
	default:
		b.WriteString(boxStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderDetail lists every stored field of one solve.
func renderDetail(r storage.SolveRecord) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)

	path := make([]string, 0, pathPreviewSize+1)
	for i, p := range r.Report.Path {
		if i == pathPreviewSize {
			path = append(path, fmt.Sprintf("... %s more", humanize.Comma(int64(len(r.Report.Path)-i))))
			break
		}
		path = append(path, p.Coord().String())
	}
	if len(path) == 0 {
		path = append(path, "-")
	}

	lines := [][2]string{
		{"run", r.RunID},
		{"source", r.Source},
		{"outcome", r.Outcome},
		{"maze size", fmt.Sprintf("%d x %d", r.Rows, r.Cols)},
		{"start", r.Start.String()},
		{"end", r.End.String()},
		{"length", humanize.Comma(int64(r.PathLength))},
		{"expanded", humanize.Comma(int64(r.Expanded))},
		{"efficiency", fmt.Sprintf("%.4f", r.Efficiency)},
		{"elapsed", r.Elapsed.String()},
		{"recorded", fmt.Sprintf("%s (%s)", r.CreatedAt.Format("Jan 02 15:04:05"), humanize.Time(r.CreatedAt))},
		{"path", strings.Join(path, " ")},
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(l[0]))
		b.WriteString(l[1])
	}
	return b.String()
}

// RunHistory runs the history browser until the user quits.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(NewHistoryModel(store, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
