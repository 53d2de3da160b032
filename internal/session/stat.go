// Package session implements the typing session state machine and scoring.
package session

import (
	"fmt"
	"time"
)

// minElapsed clamps the rate denominator so a session finished within a
// single clock tick still reports finite speeds.
const minElapsed = time.Millisecond

// Stat accumulates counters for one attempt at one snippet.
//
// A zero StartedAt means the attempt has not begun; StartedAt set with a
// zero EndedAt means in progress; both set means complete. Counters only
// grow while an attempt is in progress: backspace repositions the cursor
// but never un-counts a keystroke, so NumCorrect+NumWrong == NumChars
// holds at all times.
type Stat struct {
	StartedAt time.Time
	EndedAt   time.Time

	NumChars   int
	NumLines   int
	NumCorrect int
	NumWrong   int
}

// Start marks the attempt as begun.
func (s *Stat) Start(now time.Time) {
	s.StartedAt = now
}

// Stop marks the attempt as complete. The stat must not be mutated after.
func (s *Stat) Stop(now time.Time) {
	s.EndedAt = now
}

// Complete reports whether both timestamps are set.
func (s Stat) Complete() bool {
	return !s.StartedAt.IsZero() && !s.EndedAt.IsZero()
}

// Elapsed returns the attempt duration, or 0 while incomplete.
func (s Stat) Elapsed() time.Duration {
	if !s.Complete() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

func (s Stat) elapsedMinutes() float64 {
	elapsed := s.Elapsed()
	if elapsed <= 0 {
		return 0
	}
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	return elapsed.Minutes()
}

// LPM returns lines per minute, or 0 while incomplete.
func (s Stat) LPM() float64 {
	minutes := s.elapsedMinutes()
	if minutes == 0 {
		return 0
	}
	return float64(s.NumLines) / minutes
}

// WPM returns words per minute, counting five characters as one word.
func (s Stat) WPM() float64 {
	minutes := s.elapsedMinutes()
	if minutes == 0 {
		return 0
	}
	return float64(s.NumChars) / 5.0 / minutes
}

// CPM returns characters per minute, or 0 while incomplete.
func (s Stat) CPM() float64 {
	minutes := s.elapsedMinutes()
	if minutes == 0 {
		return 0
	}
	return float64(s.NumChars) / minutes
}

// Accuracy returns the fraction of typed characters that were correct,
// defined as 0 when nothing has been typed.
func (s Stat) Accuracy() float64 {
	if s.NumChars == 0 {
		return 0
	}
	return float64(s.NumCorrect) / float64(s.NumChars)
}

// String renders the stat bar line shown above the snippet.
func (s Stat) String() string {
	return fmt.Sprintf("%.2f lpm | %.2f wpm | %.2f cpm | %.2f%% acc | %.2fs elapsed",
		s.LPM(), s.WPM(), s.CPM(), s.Accuracy()*100, s.Elapsed().Seconds())
}
