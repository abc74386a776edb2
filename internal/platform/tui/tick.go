// Package tui provides the Bubble Tea front ends of gridpath: the animated
// search, the solve history browser and the SSH server hosting both.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances the search animation by one frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the given frame rate.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 1
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
