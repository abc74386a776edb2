package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridpath/internal/astar"
	"github.com/vovakirdan/gridpath/internal/core"
)

// Watch layout constants
const (
	headerLines   = 2 // title + blank line
	footerLines   = 3 // blank line + status + help
	maxStepsFrame = 4096
)

// Scenario is a grid with resolved, walkable endpoints ready to animate.
type Scenario struct {
	Source string
	Grid   *core.Grid
	Start  core.Coord
	End    core.Coord
}

// WatchOptions tunes the animation.
type WatchOptions struct {
	FPS           int
	StepsPerFrame int

	// Next builds a fresh scenario for the "new grid" key. Nil disables it.
	Next func() (Scenario, error)

	// OnDone runs once per finished search, outside the update loop.
	OnDone func(Scenario, astar.Result)

	// Embedded makes the back key return control to a parent model
	// instead of quitting the program.
	Embedded bool
}

// WatchModel animates an A* search one expansion batch per frame.
type WatchModel struct {
	scenario Scenario
	opts     WatchOptions
	stepper  *astar.Stepper
	snap     astar.Snapshot
	stepped  bool
	onPath   map[core.Coord]bool

	stepsPerFrame int
	paused        bool
	done          bool
	err           error

	keys       WatchKeyMap
	help       help.Model
	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewWatchModel prepares the animation. Both endpoints must be walkable.
func NewWatchModel(sc Scenario, opts WatchOptions) (WatchModel, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 1
	}

	m := WatchModel{
		opts:          opts,
		stepsPerFrame: opts.StepsPerFrame,
		keys:          DefaultWatchKeyMap(),
		help:          help.New(),
	}
	if err := m.load(sc); err != nil {
		return WatchModel{}, err
	}
	return m, nil
}

// load resets the search state for sc.
func (m *WatchModel) load(sc Scenario) error {
	stepper, err := astar.NewStepper(sc.Grid, sc.Start, sc.End)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	m.scenario = sc
	m.stepper = stepper
	m.snap = astar.Snapshot{}
	m.stepped = false
	m.onPath = nil
	m.done = false
	m.err = nil
	return nil
}

// Init starts the frame clock.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.opts.FPS)
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		var cmd tea.Cmd
		if !m.paused {
			cmd = m.advance(m.stepsPerFrame)
		}
		return m, tea.Batch(cmd, tickCmd(m.opts.FPS))
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if !m.opts.Embedded {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		m.paused = true
		return m, m.advance(1)

	case key.Matches(msg, m.keys.Finish):
		return m, m.advance(-1)

	case key.Matches(msg, m.keys.Faster):
		m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsFrame)

	case key.Matches(msg, m.keys.Slower):
		m.stepsPerFrame = max(m.stepsPerFrame/2, 1)

	case key.Matches(msg, m.keys.Restart):
		if err := m.load(m.scenario); err != nil {
			m.err = err
		}

	case key.Matches(msg, m.keys.Next):
		if m.opts.Next == nil {
			return m, nil
		}
		sc, err := m.opts.Next()
		if err == nil {
			err = m.load(sc)
		}
		if err != nil {
			m.err = err
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// advance performs up to n expansions; a negative n runs to completion.
// It returns the OnDone command when the search finishes.
func (m *WatchModel) advance(n int) tea.Cmd {
	if m.done {
		return nil
	}
	for i := 0; n < 0 || i < n; i++ {
		snap, progressed := m.stepper.Step()
		m.snap, m.stepped = snap, true
		if !progressed || m.stepper.Done() {
			break
		}
	}
	if !m.stepper.Done() {
		return nil
	}

	m.done = true
	res := m.stepper.Result()
	m.onPath = make(map[core.Coord]bool, len(res.Path))
	for _, c := range res.Path {
		m.onPath[c] = true
	}
	if m.opts.OnDone == nil {
		return nil
	}
	sc, onDone := m.scenario, m.opts.OnDone
	return func() tea.Msg {
		onDone(sc, res)
		return nil
	}
}

// Done reports whether the current search has terminated.
func (m WatchModel) Done() bool {
	return m.done
}

// Result returns the search outcome once Done is true.
func (m WatchModel) Result() astar.Result {
	return m.stepper.Result()
}

// Expanded returns the number of expansions so far.
func (m WatchModel) Expanded() int {
	return m.stepper.Expanded()
}

// Paused reports whether the frame clock is ignored.
func (m WatchModel) Paused() bool {
	return m.paused
}

// StepsPerFrame returns the current animation speed.
func (m WatchModel) StepsPerFrame() int {
	return m.stepsPerFrame
}

// IsQuitting returns true if user requested to quit entirely.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the parent model.
func (m WatchModel) BackToMenu() bool {
	return m.backToMenu
}

// Scenario returns the grid being searched.
func (m WatchModel) Scenario() Scenario {
	return m.scenario
}

// View renders the grid with the search state, a status line and help.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	g := m.scenario.Grid
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %dx%d  %v -> %v",
		m.scenario.Source, g.Rows, g.Cols, m.scenario.Start, m.scenario.End)))
	b.WriteString("\n\n")

	b.WriteString(m.drawGrid().Render())
	b.WriteString("\n\n")

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	b.WriteString(statusStyle.Render(m.status()))
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// drawGrid paints the visible part of the grid onto a canvas.
func (m WatchModel) drawGrid() *Canvas {
	g := m.scenario.Grid
	w, h := g.Cols, g.Rows
	if m.width > 0 {
		w = min(w, m.width)
	}
	if m.height > 0 {
		h = min(h, max(1, m.height-headerLines-footerLines))
	}

	cv := NewCanvas(w, h)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			ch, color := m.glyph(core.C(r, c))
			cv.Set(c, r, ch, color)
		}
	}
	return cv
}

// glyph picks the rune and color for one grid cell. Endpoints win over the
// path, the path over the search sets.
func (m WatchModel) glyph(c core.Coord) (rune, Color) {
	switch {
	case c == m.scenario.Start:
		return 'S', ColorEndpoint
	case c == m.scenario.End:
		return 'E', ColorEndpoint
	case !m.scenario.Grid.Walkable(c):
		return '#', ColorWall
	case m.onPath[c]:
		return '*', ColorPath
	}
	if m.stepped {
		switch {
		case !m.done && c == m.snap.Current():
			return '@', ColorCurrent
		case m.snap.IsClosed(c):
			return '.', ColorClosed
		case m.snap.IsOpen(c):
			return '+', ColorOpen
		}
	}
	return ' ', ColorFree
}

func (m WatchModel) status() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("step %d", m.stepper.Expanded()))
	if m.stepped {
		parts = append(parts,
			fmt.Sprintf("open %d", m.snap.OpenCount()),
			fmt.Sprintf("closed %d", m.snap.ClosedCount()))
	}
	parts = append(parts, fmt.Sprintf("x%d/frame", m.stepsPerFrame))

	switch {
	case m.err != nil:
		parts = append(parts, "error: "+m.err.Error())
	case m.done && m.stepper.Result().Found:
		parts = append(parts, fmt.Sprintf("solved: %d cells", len(m.stepper.Result().Path)))
	case m.done:
		parts = append(parts, "no path")
	case m.paused:
		parts = append(parts, "paused")
	default:
		parts = append(parts, "searching")
	}
	return strings.Join(parts, "  ")
}

// RunWatch animates sc in the current terminal until the user quits.
func RunWatch(sc Scenario, opts WatchOptions, width, height int) (astar.Result, error) {
	model, err := NewWatchModel(sc, opts)
	if err != nil {
		return astar.Result{}, err
	}
	model.width, model.height = width, height

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return astar.Result{}, err
	}
	m, ok := final.(WatchModel)
	if !ok || !m.done {
		return astar.Result{}, nil
	}
	return m.Result(), nil
}
