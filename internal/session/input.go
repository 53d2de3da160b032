package session

// Action is the closed set of logical input actions the machine consumes.
type Action int

const (
	// ActionNone is any input the classifier does not recognize.
	ActionNone Action = iota
	// ActionChar is a printable character keystroke.
	ActionChar
	// ActionEnter is a line break (enter / carriage return / linefeed).
	ActionEnter
	// ActionBackspace is a cursor step backwards (backspace / delete).
	ActionBackspace
	// ActionEscape abandons the attempt or exits.
	ActionEscape
	// ActionResize reports a terminal size change.
	ActionResize
)

// Input is one classified terminal event. Char is only meaningful when
// Action is ActionChar.
type Input struct {
	Action Action
	Char   rune
}

// Char builds a character input.
func Char(r rune) Input { return Input{Action: ActionChar, Char: r} }

// Enter builds an enter input.
func Enter() Input { return Input{Action: ActionEnter} }

// Backspace builds a backspace input.
func Backspace() Input { return Input{Action: ActionBackspace} }

// Escape builds an escape input.
func Escape() Input { return Input{Action: ActionEscape} }

// Resize builds a resize input.
func Resize() Input { return Input{Action: ActionResize} }

// None builds a no-op input.
func None() Input { return Input{Action: ActionNone} }
