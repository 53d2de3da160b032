package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaymody/lpm/internal/session"
)

// Classify maps one raw terminal event onto the machine's closed action
// set. It is total: anything unrecognized becomes None, never an error.
// Terminal variance is normalized here: carriage return and linefeed both
// classify as Enter, backspace and delete both as Backspace.
func Classify(msg tea.Msg) session.Input {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return session.Resize()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter, tea.KeyCtrlJ:
			return session.Enter()
		case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlH:
			return session.Backspace()
		case tea.KeyEsc:
			return session.Escape()
		case tea.KeySpace:
			return session.Char(' ')
		case tea.KeyTab:
			return session.Char('\t')
		case tea.KeyRunes:
			if len(msg.Runes) == 0 {
				return session.None()
			}
			return session.Char(msg.Runes[0])
		default:
			return session.None()
		}
	default:
		return session.None()
	}
}
