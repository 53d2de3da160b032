// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaymody/lpm/internal/history"
	"github.com/jaymody/lpm/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea stats UI: a scrollable report view.
type Model struct {
	store *store.Store

	viewport viewport.Model
	content  string
	errMsg   string

	width  int
	height int
	ready  bool
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store) *Model {
	m := &Model{store: st}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC, msg.Type == tea.KeyEsc, msg.String() == "q":
			return m, tea.Quit
		case msg.String() == "r":
			m.refresh()
			m.layout()
			return m, nil
		}
	}
	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	if !m.ready {
		return m.content
	}
	header := headerStyle.Render("lpm stats · scroll with arrows, r to refresh, q to quit")
	return header + "\n" + m.viewport.View()
}

func (m *Model) refresh() {
	report, err := history.BuildReport(context.Background(), m.store)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	var buf bytes.Buffer
	if err := history.RenderReport(&buf, report); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.content = buf.String()
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, m.height-1)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = m.height - 1
	}
	m.viewport.SetContent(m.content)
}
