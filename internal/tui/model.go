// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jaymody/lpm/internal/session"
	"github.com/jaymody/lpm/internal/snippet"
	"github.com/jaymody/lpm/internal/store"
)

const browsePrompt = "press ESC to quit, ARROWS to browse, or start typing!"

var (
	topBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A3A3A"))
	authorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7FF"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FFF5F"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5FD7"))
)

// Model drives the typing interface: it classifies terminal events,
// feeds the session machine, applies the returned render intents to a
// per-cell display grid, and persists completed stats.
type Model struct {
	repo    *snippet.Repository
	store   *store.Store
	machine *session.Machine

	cells      [][]session.CellState
	highlights [][]lipgloss.Style

	width  int
	height int
}

// NewModel builds the typing model positioned at the repository's
// current snippet.
func NewModel(repo *snippet.Repository, st *store.Store) (*Model, error) {
	machine, err := session.NewMachine(repo.Current())
	if err != nil {
		return nil, err
	}
	m := &Model{repo: repo, store: st, machine: machine}
	m.resetGrid()
	return m, nil
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
		m.machine.Handle(session.Resize())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyLeft || msg.Type == tea.KeyRight {
			return m, m.browse(msg.Type)
		}
		return m, m.dispatch(Classify(msg))
	default:
		return m, nil
	}
}

// browse cycles the repository. Navigation belongs to the surrounding
// model, not the machine: it only happens outside an active attempt.
func (m *Model) browse(key tea.KeyType) tea.Cmd {
	if m.machine.Mode() != session.ModeBrowsing && m.machine.Mode() != session.ModeScored {
		return nil
	}
	var sn snippet.Snippet
	if key == tea.KeyLeft {
		sn = m.repo.Prev()
	} else {
		sn = m.repo.Next()
	}
	if err := m.machine.SetSnippet(sn); err != nil {
		// Repository snippets are validated at load time.
		logErrf("failed to switch snippet: %v\n", err)
		return nil
	}
	m.resetGrid()
	return nil
}

func (m *Model) dispatch(in session.Input) tea.Cmd {
	prevMode := m.machine.Mode()
	r := m.machine.Handle(in)

	// A fresh attempt (from Browsing or Scored) starts with a clean grid.
	if prevMode != session.ModeTyping && m.machine.Mode() == session.ModeTyping {
		m.resetCells()
	}

	switch r.Kind {
	case session.RenderCell:
		m.setCell(r.Row, r.Col, r.Cell)
	case session.RenderScore:
		m.setCell(r.Row, r.Col, r.Cell)
		m.persistStat()
	case session.RenderFull:
		// Escape resets the attempt; a resize keeps the grid as-is.
		if m.machine.Mode() == session.ModeBrowsing {
			m.resetCells()
		}
	}

	if m.machine.Mode() == session.ModeExiting {
		return tea.Quit
	}
	return nil
}

func (m *Model) persistStat() {
	stat := m.machine.Stat()
	if stat == nil || !stat.Complete() {
		return
	}
	sn := m.machine.Snippet()
	if _, err := m.store.InsertSession(context.Background(), sn.ID, sn.Language, *stat); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

// View implements tea.Model. The layout follows the classic lpm screen:
// stat bar, source line, snippet, prompt.
func (m *Model) View() string {
	sn := m.machine.Snippet()
	var b strings.Builder

	statLine := session.Stat{}.String()
	if stat := m.machine.Stat(); stat != nil {
		statLine = stat.String()
	}
	b.WriteString(topBarStyle.Render(padLine(statLine, m.width)))
	b.WriteString("\n\n")

	meta := sn.URL
	if m.width > 0 && runewidth.StringWidth(meta) > m.width-1 {
		meta = sn.Author
	}
	b.WriteString(authorStyle.Render(meta))
	b.WriteString("\n\n")

	row, col := m.machine.Cursor()
	for i, line := range sn.Lines {
		b.WriteString(m.renderLine(i, line, row, col))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render(m.promptLine()))
	return b.String()
}

func (m *Model) renderLine(row int, line string, cursorRow, cursorCol int) string {
	runes := []rune(line)
	var b strings.Builder
	for col, r := range runes {
		style := m.cellStyle(row, col)
		if row == cursorRow && col == cursorCol {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(string(r)))
	}
	if row == cursorRow && cursorCol == len(runes) {
		b.WriteString(pendingStyle.Underline(true).Render(" "))
	}
	return b.String()
}

func (m *Model) cellStyle(row, col int) lipgloss.Style {
	switch m.cells[row][col] {
	case session.CellCorrect:
		return correctStyle
	case session.CellWrong:
		return incorrectStyle
	default:
		if m.highlights != nil && row < len(m.highlights) && col < len(m.highlights[row]) {
			return m.highlights[row][col]
		}
		return pendingStyle
	}
}

func (m *Model) promptLine() string {
	switch m.machine.Mode() {
	case session.ModeScored:
		stat := m.machine.Stat()
		return fmt.Sprintf("You scored %.2f lpm, %s", stat.LPM(), browsePrompt)
	case session.ModeTyping:
		return ""
	default:
		return browsePrompt
	}
}

func (m *Model) setCell(row, col int, state session.CellState) {
	if row < 0 || row >= len(m.cells) {
		return
	}
	if col < 0 || col >= len(m.cells[row]) {
		return
	}
	m.cells[row][col] = state
}

func (m *Model) resetCells() {
	sn := m.machine.Snippet()
	m.cells = make([][]session.CellState, len(sn.Lines))
	for i, line := range sn.Lines {
		m.cells[i] = make([]session.CellState, len([]rune(line)))
	}
}

func (m *Model) resetGrid() {
	sn := m.machine.Snippet()
	m.resetCells()
	m.highlights = highlightLines(sn.Lines, sn.Language)
}

func padLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	if w := runewidth.StringWidth(s); w < width-1 {
		return s + strings.Repeat(" ", width-1-w)
	}
	return s
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
