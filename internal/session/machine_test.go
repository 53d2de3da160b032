package session

import (
	"testing"
	"time"

	"github.com/jaymody/lpm/internal/snippet"
)

func newTestMachine(t *testing.T, lines ...string) *Machine {
	t.Helper()
	m, err := NewMachine(snippet.Snippet{ID: 1, Lines: lines, Language: "python"})
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}
	clock := time.Unix(0, 0)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return m
}

func typeString(m *Machine, s string) Render {
	var r Render
	for _, ch := range s {
		r = m.Handle(Char(ch))
	}
	return r
}

func TestNewMachineRejectsEmptySnippet(t *testing.T) {
	if _, err := NewMachine(snippet.Snippet{ID: 9}); err == nil {
		t.Fatalf("expected error for snippet with no lines")
	}
}

func TestSingleLineCompletion(t *testing.T) {
	m := newTestMachine(t, "abc")
	if m.Mode() != ModeBrowsing {
		t.Fatalf("expected initial mode Browsing, got %v", m.Mode())
	}

	r := m.Handle(Char('a'))
	if m.Mode() != ModeTyping {
		t.Fatalf("expected Typing after first char, got %v", m.Mode())
	}
	if r.Kind != RenderCell || r.Row != 0 || r.Col != 0 || r.Cell != CellCorrect {
		t.Fatalf("unexpected render intent for first char: %+v", r)
	}

	r = typeString(m, "bc")
	if m.Mode() != ModeScored {
		t.Fatalf("expected Scored after final char, got %v", m.Mode())
	}
	if r.Kind != RenderScore {
		t.Fatalf("expected score banner, got %+v", r)
	}

	stat := m.Stat()
	if stat == nil || !stat.Complete() {
		t.Fatalf("expected completed stat")
	}
	if stat.NumCorrect != 3 || stat.NumWrong != 0 || stat.NumChars != 3 || stat.NumLines != 1 {
		t.Fatalf("unexpected counters: %+v", stat)
	}
}

func TestOneWrongCharAccuracy(t *testing.T) {
	m := newTestMachine(t, "abc")
	m.Handle(Char('a'))
	r := m.Handle(Char('x'))
	if r.Kind != RenderCell || r.Cell != CellWrong {
		t.Fatalf("expected wrong cell recolor, got %+v", r)
	}
	m.Handle(Char('c'))

	stat := m.Stat()
	if stat.NumWrong != 1 || stat.NumChars != 3 {
		t.Fatalf("unexpected counters: %+v", stat)
	}
	want := float64(stat.NumChars-1) / float64(stat.NumChars)
	if got := stat.Accuracy(); got != want {
		t.Fatalf("expected accuracy %f, got %f", want, got)
	}
	if stat.NumCorrect+stat.NumWrong != stat.NumChars {
		t.Fatalf("counter invariant violated: %+v", stat)
	}
}

func TestCharIgnoredAtLineBoundary(t *testing.T) {
	m := newTestMachine(t, "ab", "cd")
	typeString(m, "ab")
	before := *m.Stat()
	if r := m.Handle(Char('x')); r.Kind != RenderNone {
		t.Fatalf("expected no-op past end of line, got %+v", r)
	}
	if *m.Stat() != before {
		t.Fatalf("counters changed on ignored keystroke")
	}
	if row, col := m.Cursor(); row != 0 || col != 2 {
		t.Fatalf("cursor moved on ignored keystroke: (%d, %d)", row, col)
	}
}

func TestEnterOnlyAtEndOfLine(t *testing.T) {
	m := newTestMachine(t, "ab", "cd")
	m.Handle(Char('a'))
	if r := m.Handle(Enter()); r.Kind != RenderNone {
		t.Fatalf("expected enter mid-line to be ignored, got %+v", r)
	}
	if row, col := m.Cursor(); row != 0 || col != 1 {
		t.Fatalf("cursor moved on ignored enter: (%d, %d)", row, col)
	}
}

func TestEnterAdvancesToIndent(t *testing.T) {
	m := newTestMachine(t, "def f():", "    return 1")
	typeString(m, "def f():")
	r := m.Handle(Enter())
	if r.Kind != RenderCursor {
		t.Fatalf("expected cursor move, got %+v", r)
	}
	if row, col := m.Cursor(); row != 1 || col != 4 {
		t.Fatalf("expected cursor at (1, 4), got (%d, %d)", row, col)
	}
	if m.Stat().NumLines != 1 {
		t.Fatalf("expected one line counted, got %d", m.Stat().NumLines)
	}
}

func TestTwoLineWalkthrough(t *testing.T) {
	m := newTestMachine(t, "def f():", "    return 1")
	typeString(m, "def f():")
	m.Handle(Enter())
	typeString(m, "return 1")

	if m.Mode() != ModeScored {
		t.Fatalf("expected Scored, got %v", m.Mode())
	}
	stat := m.Stat()
	if stat.NumLines != 2 {
		t.Fatalf("expected 2 lines, got %d", stat.NumLines)
	}
	if stat.NumChars != 16 || stat.NumCorrect != 16 || stat.NumWrong != 0 {
		t.Fatalf("unexpected counters: %+v", stat)
	}
	if stat.NumChars < stat.NumLines-1 {
		t.Fatalf("expected at least one keystroke per crossed line boundary")
	}
}

func TestEnterSkipsBlankLines(t *testing.T) {
	m := newTestMachine(t, "a", "", "", "b")
	m.Handle(Char('a'))
	m.Handle(Enter())
	if row, col := m.Cursor(); row != 3 || col != 0 {
		t.Fatalf("expected blank lines skipped to (3, 0), got (%d, %d)", row, col)
	}
	if m.Stat().NumLines != 1 {
		t.Fatalf("expected a single line counted per enter, got %d", m.Stat().NumLines)
	}
	m.Handle(Char('b'))
	if m.Mode() != ModeScored {
		t.Fatalf("expected Scored, got %v", m.Mode())
	}
}

func TestBackspaceAtOriginIsNoop(t *testing.T) {
	m := newTestMachine(t, "  ab")
	m.Handle(Char('a'))
	m.Handle(Backspace())
	before := *m.Stat()
	if r := m.Handle(Backspace()); r.Kind != RenderNone {
		t.Fatalf("expected no-op at first column, got %+v", r)
	}
	if row, col := m.Cursor(); row != 0 || col != 2 {
		t.Fatalf("expected cursor at (0, 2), got (%d, %d)", row, col)
	}
	if *m.Stat() != before {
		t.Fatalf("counters changed on no-op backspace")
	}
}

func TestBackspaceNeverDecrementsCounters(t *testing.T) {
	m := newTestMachine(t, "ab")
	m.Handle(Char('x'))
	m.Handle(Backspace())
	stat := m.Stat()
	if stat.NumChars != 1 || stat.NumWrong != 1 {
		t.Fatalf("expected counters untouched by backspace: %+v", stat)
	}
	typeString(m, "ab")
	if m.Mode() != ModeScored {
		t.Fatalf("expected Scored, got %v", m.Mode())
	}
	if stat.NumChars != 3 || stat.NumCorrect != 2 || stat.NumWrong != 1 {
		t.Fatalf("unexpected final counters: %+v", stat)
	}
}

func TestBackspaceCrossesLineBoundary(t *testing.T) {
	m := newTestMachine(t, "ab", "cd")
	typeString(m, "ab")
	m.Handle(Enter())
	r := m.Handle(Backspace())
	if r.Kind != RenderCell || r.Cell != CellPending {
		t.Fatalf("expected pending recolor, got %+v", r)
	}
	if row, col := m.Cursor(); row != 0 || col != 1 {
		t.Fatalf("expected cursor at (0, 1), got (%d, %d)", row, col)
	}
}

func TestBackspaceSkipsBlankLinesUpward(t *testing.T) {
	m := newTestMachine(t, "ab", "", "cd")
	typeString(m, "ab")
	m.Handle(Enter())
	if row, _ := m.Cursor(); row != 2 {
		t.Fatalf("expected cursor on row 2, got %d", row)
	}
	m.Handle(Backspace())
	if row, col := m.Cursor(); row != 0 || col != 1 {
		t.Fatalf("expected cursor at (0, 1), got (%d, %d)", row, col)
	}
}

func TestEscapeDiscardsAttempt(t *testing.T) {
	m := newTestMachine(t, "abc")
	typeString(m, "ab")
	r := m.Handle(Escape())
	if r.Kind != RenderFull {
		t.Fatalf("expected full redraw, got %+v", r)
	}
	if m.Mode() != ModeBrowsing {
		t.Fatalf("expected Browsing after escape, got %v", m.Mode())
	}
	if m.Stat() != nil {
		t.Fatalf("expected stat discarded")
	}
	if row, col := m.Cursor(); row != 0 || col != 0 {
		t.Fatalf("expected cursor reset, got (%d, %d)", row, col)
	}
}

func TestEscapeFromBrowsingExits(t *testing.T) {
	m := newTestMachine(t, "abc")
	m.Handle(Escape())
	if m.Mode() != ModeExiting {
		t.Fatalf("expected Exiting, got %v", m.Mode())
	}
	if r := m.Handle(Char('a')); r.Kind != RenderNone {
		t.Fatalf("expected Exiting to be terminal, got %+v", r)
	}
	if m.Mode() != ModeExiting {
		t.Fatalf("expected mode to stay Exiting")
	}
}

func TestScoredTransitions(t *testing.T) {
	m := newTestMachine(t, "ab")
	typeString(m, "ab")
	if m.Mode() != ModeScored {
		t.Fatalf("expected Scored, got %v", m.Mode())
	}

	for _, in := range []Input{Enter(), Backspace(), None()} {
		if r := m.Handle(in); r.Kind != RenderNone {
			t.Fatalf("expected no-op in Scored for %+v, got %+v", in, r)
		}
		if m.Mode() != ModeScored {
			t.Fatalf("expected to remain Scored")
		}
	}

	finished := m.Stat()
	m.Handle(Char('a'))
	if m.Mode() != ModeTyping {
		t.Fatalf("expected new attempt on char, got %v", m.Mode())
	}
	if m.Stat() == finished {
		t.Fatalf("expected a fresh stat for the new attempt")
	}
	if m.Stat().NumChars != 1 {
		t.Fatalf("expected restart keystroke to count, got %d", m.Stat().NumChars)
	}

	typeString(m, "b")
	m.Handle(Escape())
	if m.Mode() != ModeExiting {
		t.Fatalf("expected Exiting on escape from Scored, got %v", m.Mode())
	}
}

func TestResizeKeepsTypingState(t *testing.T) {
	m := newTestMachine(t, "abc")
	typeString(m, "ab")
	before := *m.Stat()
	r := m.Handle(Resize())
	if r.Kind != RenderFull {
		t.Fatalf("expected full redraw on resize, got %+v", r)
	}
	if m.Mode() != ModeTyping || *m.Stat() != before {
		t.Fatalf("resize changed typing state")
	}
	if row, col := m.Cursor(); row != 0 || col != 2 {
		t.Fatalf("resize moved cursor: (%d, %d)", row, col)
	}
}

func TestSetSnippetResetsToBrowsing(t *testing.T) {
	m := newTestMachine(t, "abc")
	typeString(m, "ab")
	next := snippet.Snippet{ID: 2, Lines: []string{"  xy"}}
	if err := m.SetSnippet(next); err != nil {
		t.Fatalf("set snippet: %v", err)
	}
	if m.Mode() != ModeBrowsing || m.Stat() != nil {
		t.Fatalf("expected Browsing with no stat after snippet swap")
	}
	if row, col := m.Cursor(); row != 0 || col != 2 {
		t.Fatalf("expected cursor at new snippet indent, got (%d, %d)", row, col)
	}
	if err := m.SetSnippet(snippet.Snippet{ID: 3}); err == nil {
		t.Fatalf("expected error for empty snippet")
	}
}
