package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SessionModel manages the full SSH session flow: menu -> watch -> menu.
type SessionModel struct {
	menu     MenuModel
	watch    *WatchModel
	scenario func(sourceID string) (Scenario, error)
	opts     WatchOptions
	width    int
	height   int
	err      error
	quitting bool
}

// NewSessionModel creates a session. scenario builds a grid for the picked
// source; opts configures every watch started from the menu.
func NewSessionModel(scenario func(sourceID string) (Scenario, error), opts WatchOptions, width, height int) SessionModel {
	opts.Embedded = true
	return SessionModel{
		menu:     NewMenuModel(width, height),
		scenario: scenario,
		opts:     opts,
		width:    width,
		height:   height,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.watch != nil {
		return m.updateWatch(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	m.menu = NewMenuModel(m.width, m.height)
	sourceID := selected.SourceID
	opts := m.opts
	opts.Next = func() (Scenario, error) { return m.scenario(sourceID) }

	sc, err := opts.Next()
	if err == nil {
		var watch WatchModel
		watch, err = NewWatchModel(sc, opts)
		if err == nil {
			watch.width, watch.height = m.width, m.height
			watch.help.Width = m.width
			m.watch = &watch
			m.err = nil
			return m, m.watch.Init()
		}
	}
	m.err = err
	return m, nil
}

// updateWatch handles updates when a search is on screen.
func (m SessionModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.watch.Update(msg)
	if watch, ok := newModel.(WatchModel); ok {
		m.watch = &watch
	}

	if m.watch.BackToMenu() {
		m.watch = nil
		return m, nil
	}

	if m.watch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// InWatch reports whether a search is on screen.
func (m SessionModel) InWatch() bool {
	return m.watch != nil
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.watch != nil {
		return m.watch.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText("error: "+m.err.Error(), m.width) + "\n"
	}
	return view
}
