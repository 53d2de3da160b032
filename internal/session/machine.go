package session

import (
	"fmt"
	"time"

	"github.com/jaymody/lpm/internal/snippet"
)

// Mode is the machine's high-level state.
type Mode int

const (
	// ModeBrowsing is the idle state: no attempt is live.
	ModeBrowsing Mode = iota
	// ModeTyping is an in-progress attempt.
	ModeTyping
	// ModeScored is a finished attempt awaiting the next action.
	ModeScored
	// ModeExiting is terminal; the surrounding loop quits on it.
	ModeExiting
)

// RenderKind tags what the terminal surface must redraw after Handle.
type RenderKind int

const (
	// RenderNone means nothing changed on screen.
	RenderNone RenderKind = iota
	// RenderFull requests a full redraw.
	RenderFull
	// RenderCell recolors a single cell.
	RenderCell
	// RenderCursor moves the cursor without recoloring.
	RenderCursor
	// RenderScore shows the score banner for a finished attempt.
	RenderScore
)

// CellState is the display state of one snippet cell.
type CellState int

const (
	// CellPending is untyped text.
	CellPending CellState = iota
	// CellCorrect was typed correctly.
	CellCorrect
	// CellWrong was typed incorrectly.
	CellWrong
)

// Render describes what the terminal surface must redraw. Row, Col, and
// Cell are only meaningful for RenderCell (Row/Col also for RenderCursor).
type Render struct {
	Kind RenderKind
	Row  int
	Col  int
	Cell CellState
}

// Machine interprets classified input against the cursor position inside
// the current snippet and accumulates the live attempt's Stat.
//
// It is strictly synchronous: one Handle call fully applies one input
// before the next is read, and nothing else mutates it.
type Machine struct {
	sn   snippet.Snippet
	mode Mode
	row  int
	col  int
	stat *Stat

	now func() time.Time
}

// NewMachine builds a machine positioned at the start of the snippet.
// A snippet with no lines is a precondition violation.
func NewMachine(sn snippet.Snippet) (*Machine, error) {
	if len(sn.Lines) == 0 {
		return nil, fmt.Errorf("snippet %d has no lines", sn.ID)
	}
	m := &Machine{sn: sn, now: time.Now}
	m.resetCursor()
	return m, nil
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Cursor returns the current (row, col) position, snippet-relative.
func (m *Machine) Cursor() (row, col int) { return m.row, m.col }

// Stat returns the live attempt's stat, or nil outside Typing/Scored.
func (m *Machine) Stat() *Stat { return m.stat }

// Snippet returns the snippet currently being typed.
func (m *Machine) Snippet() snippet.Snippet { return m.sn }

// SetSnippet swaps in a different snippet, discarding any live attempt
// and returning to Browsing. Used when the user navigates the repository.
func (m *Machine) SetSnippet(sn snippet.Snippet) error {
	if len(sn.Lines) == 0 {
		return fmt.Errorf("snippet %d has no lines", sn.ID)
	}
	m.sn = sn
	m.stat = nil
	m.mode = ModeBrowsing
	m.resetCursor()
	return nil
}

// Handle applies one classified input and reports what to redraw. It is
// total over its input domain and never fails.
func (m *Machine) Handle(in Input) Render {
	if in.Action == ActionResize {
		// Cursor position is snippet-relative, so a resize never touches
		// typing state.
		if m.mode == ModeExiting {
			return Render{Kind: RenderNone}
		}
		return Render{Kind: RenderFull}
	}

	switch m.mode {
	case ModeBrowsing:
		return m.handleBrowsing(in)
	case ModeTyping:
		return m.handleTyping(in)
	case ModeScored:
		return m.handleScored(in)
	default:
		return Render{Kind: RenderNone}
	}
}

func (m *Machine) handleBrowsing(in Input) Render {
	switch in.Action {
	case ActionChar:
		// The first keystroke both starts the attempt and counts.
		m.startAttempt()
		return m.handleTyping(in)
	case ActionEscape:
		m.mode = ModeExiting
		return Render{Kind: RenderNone}
	default:
		return Render{Kind: RenderNone}
	}
}

func (m *Machine) handleTyping(in Input) Render {
	switch in.Action {
	case ActionChar:
		return m.typeChar(in.Char)
	case ActionEnter:
		return m.advanceLine()
	case ActionBackspace:
		return m.stepBack()
	case ActionEscape:
		// Abandoned attempts are discarded, never recorded.
		m.stat = nil
		m.mode = ModeBrowsing
		m.resetCursor()
		return Render{Kind: RenderFull}
	default:
		return Render{Kind: RenderNone}
	}
}

func (m *Machine) handleScored(in Input) Render {
	switch in.Action {
	case ActionChar:
		m.startAttempt()
		return m.handleTyping(in)
	case ActionEscape:
		m.mode = ModeExiting
		return Render{Kind: RenderNone}
	default:
		return Render{Kind: RenderNone}
	}
}

func (m *Machine) typeChar(r rune) Render {
	line := []rune(m.sn.Lines[m.row])
	if m.col >= len(line) {
		// At a line boundary there is no character to compare; crossing
		// needs Enter, and past the final line nothing remains.
		return Render{Kind: RenderNone}
	}

	correct := r == line[m.col]
	m.stat.NumChars++
	if correct {
		m.stat.NumCorrect++
	} else {
		m.stat.NumWrong++
	}
	m.col++

	cell := CellWrong
	if correct {
		cell = CellCorrect
	}

	if m.row == len(m.sn.Lines)-1 && m.col == len(line) {
		m.stat.NumLines++
		m.stat.Stop(m.now())
		m.mode = ModeScored
		// The banner intent still carries the final cell so the surface
		// can recolor the last character it covers.
		return Render{Kind: RenderScore, Row: m.row, Col: m.col - 1, Cell: cell}
	}

	return Render{Kind: RenderCell, Row: m.row, Col: m.col - 1, Cell: cell}
}

func (m *Machine) advanceLine() Render {
	if m.col != m.lineLen(m.row) || m.row == len(m.sn.Lines)-1 {
		return Render{Kind: RenderNone}
	}
	m.stat.NumLines++
	m.row++
	// Blank lines never need a keystroke; skip however many occur.
	// Normalization guarantees the final line is not blank.
	for m.row < len(m.sn.Lines)-1 && m.sn.Lines[m.row] == "" {
		m.row++
	}
	m.col = m.sn.Indent(m.row)
	return Render{Kind: RenderCursor, Row: m.row, Col: m.col}
}

func (m *Machine) stepBack() Render {
	indent := m.sn.Indent(m.row)
	if m.row == 0 && m.col == indent {
		return Render{Kind: RenderNone}
	}
	if m.col == indent {
		// Cross the line boundary upward, landing on the last column of
		// the nearest non-blank line. Counters stay put: mistakes are
		// permanent in the tally, backspace only repositions.
		prev := m.row - 1
		for prev > 0 && m.sn.Lines[prev] == "" {
			prev--
		}
		if m.sn.Lines[prev] == "" {
			return Render{Kind: RenderNone}
		}
		m.row = prev
		m.col = m.lineLen(prev) - 1
	} else {
		m.col--
	}
	return Render{Kind: RenderCell, Row: m.row, Col: m.col, Cell: CellPending}
}

func (m *Machine) startAttempt() {
	m.resetCursor()
	stat := &Stat{}
	stat.Start(m.now())
	m.stat = stat
	m.mode = ModeTyping
}

func (m *Machine) resetCursor() {
	m.row = 0
	m.col = m.sn.Indent(0)
}

func (m *Machine) lineLen(row int) int {
	return len([]rune(m.sn.Lines[row]))
}
