// Package snippet defines code excerpts and the repository that serves them.
package snippet

import "strings"

const tabWidth = 4

// Snippet is one immutable code excerpt.
//
// Lines always holds at least one line; every line is right-trimmed with
// tabs expanded, the block's common leading indentation is removed, and
// trailing blank lines are dropped so the final line is typable.
type Snippet struct {
	ID       int
	Lines    []string
	URL      string
	Author   string
	Language string
}

// NumLines returns the number of lines in the snippet.
func (s Snippet) NumLines() int { return len(s.Lines) }

// MaxCols returns the width of the widest line.
func (s Snippet) MaxCols() int {
	width := 0
	for _, line := range s.Lines {
		if len(line) > width {
			width = len(line)
		}
	}
	return width
}

// Indent returns the leading whitespace width of the given line.
func (s Snippet) Indent(row int) int {
	line := s.Lines[row]
	return len(line) - len(strings.TrimLeft(line, " "))
}

// NormalizeLines prepares raw file lines for typing: expands tabs,
// right-trims, removes the common indentation set by the first line, and
// drops trailing blank lines.
func NormalizeLines(raw []string) []string {
	lines := make([]string, len(raw))
	for i, line := range raw {
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
		lines[i] = strings.TrimRight(line, " ")
	}

	if len(lines) > 0 {
		first := leadingSpace(lines[0])
		for i, line := range lines {
			cut := leadingSpace(line)
			if cut > first {
				cut = first
			}
			lines[i] = line[cut:]
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func leadingSpace(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
