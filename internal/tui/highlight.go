package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

const highlightStyleName = "monokai"

// highlightLines tokenizes the snippet with a chroma lexer for its
// language and returns one lipgloss style per rune per line, used to
// color the untyped portion of the snippet. The result is nil when no
// lexer matches the language; callers fall back to the plain text style.
func highlightLines(lines []string, language string) [][]lipgloss.Style {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	source := strings.Join(lines, "\n")
	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil
	}

	chromaStyle := styles.Get(highlightStyleName)
	cache := map[chroma.TokenType]lipgloss.Style{}
	styleFor := func(tt chroma.TokenType) lipgloss.Style {
		if st, ok := cache[tt]; ok {
			return st
		}
		st := pendingStyle
		if entry := chromaStyle.Get(tt); entry.Colour.IsSet() {
			st = lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Colour.String()))
		}
		cache[tt] = st
		return st
	}

	out := make([][]lipgloss.Style, len(lines))
	for i, line := range lines {
		out[i] = make([]lipgloss.Style, len([]rune(line)))
	}

	row, col := 0, 0
	for token := it(); token != chroma.EOF; token = it() {
		st := styleFor(token.Type)
		for _, r := range token.Value {
			if r == '\n' {
				row++
				col = 0
				continue
			}
			if row < len(out) && col < len(out[row]) {
				out[row][col] = st
			}
			col++
		}
	}
	return out
}
