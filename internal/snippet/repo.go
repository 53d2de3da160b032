package snippet

import (
	"fmt"
	"math/rand"
	"time"
)

// Repository serves snippets for practice: one snippet is current, and
// the user cycles through the rest with next/prev. The set is shuffled
// once on construction.
type Repository struct {
	snippets []Snippet
	index    int
}

// NewRepository builds a shuffled repository. An empty set is rejected
// here, before the typing interface ever starts.
func NewRepository(snippets []Snippet) (*Repository, error) {
	if len(snippets) == 0 {
		return nil, fmt.Errorf("no snippets available")
	}
	shuffled := make([]Snippet, len(snippets))
	copy(shuffled, snippets)
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &Repository{snippets: shuffled}, nil
}

// Len returns the number of snippets.
func (r *Repository) Len() int { return len(r.snippets) }

// Current returns the currently selected snippet.
func (r *Repository) Current() Snippet { return r.snippets[r.index] }

// Next advances to the next snippet, wrapping around.
func (r *Repository) Next() Snippet {
	r.index = (r.index + 1) % len(r.snippets)
	return r.snippets[r.index]
}

// Prev moves to the previous snippet, wrapping around.
func (r *Repository) Prev() Snippet {
	r.index = (r.index - 1 + len(r.snippets)) % len(r.snippets)
	return r.snippets[r.index]
}

// Filter keeps snippets whose language is in langs (all languages when
// langs is empty) and which fit within maxLines and maxCols.
func Filter(snippets []Snippet, langs []string, maxLines, maxCols int) []Snippet {
	allowed := make(map[string]struct{}, len(langs))
	for _, lang := range langs {
		allowed[lang] = struct{}{}
	}
	var out []Snippet
	for _, s := range snippets {
		if len(allowed) > 0 {
			if _, ok := allowed[s.Language]; !ok {
				continue
			}
		}
		if s.NumLines() > maxLines || s.MaxCols() > maxCols {
			continue
		}
		out = append(out, s)
	}
	return out
}
