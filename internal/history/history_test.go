package history

import (
	"math"
	"testing"
	"time"

	"github.com/jaymody/lpm/internal/session"
)

func completedStat(start time.Time, elapsed time.Duration, chars, lines, wrong int) session.Stat {
	return session.Stat{
		StartedAt:  start,
		EndedAt:    start.Add(elapsed),
		NumChars:   chars,
		NumLines:   lines,
		NumCorrect: chars - wrong,
		NumWrong:   wrong,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	agg := Summarize(nil)
	if agg.Count != 0 {
		t.Fatalf("expected zero count, got %d", agg.Count)
	}
	if agg.TotalElapsed != 0 || agg.AvgLPM != 0 || agg.AvgWPM != 0 || agg.AvgCPM != 0 || agg.AvgAccuracy != 0 {
		t.Fatalf("expected zero aggregate, got %+v", agg)
	}
}

func TestSummarizeAverages(t *testing.T) {
	base := time.Unix(0, 0)
	stats := []session.Stat{
		completedStat(base, time.Minute, 100, 10, 0),
		completedStat(base.Add(time.Hour), time.Minute, 200, 20, 100),
	}
	agg := Summarize(stats)
	if agg.Count != 2 {
		t.Fatalf("expected count 2, got %d", agg.Count)
	}
	if agg.TotalElapsed != 2*time.Minute {
		t.Fatalf("expected 2m elapsed, got %v", agg.TotalElapsed)
	}
	if math.Abs(agg.AvgLPM-15) > 1e-9 {
		t.Fatalf("expected avg lpm 15, got %f", agg.AvgLPM)
	}
	if math.Abs(agg.AvgCPM-150) > 1e-9 {
		t.Fatalf("expected avg cpm 150, got %f", agg.AvgCPM)
	}
	if math.Abs(agg.AvgWPM-30) > 1e-9 {
		t.Fatalf("expected avg wpm 30, got %f", agg.AvgWPM)
	}
	if math.Abs(agg.AvgAccuracy-0.75) > 1e-9 {
		t.Fatalf("expected avg accuracy 0.75, got %f", agg.AvgAccuracy)
	}
}

func TestRecentWindow(t *testing.T) {
	base := time.Unix(0, 0)
	var stats []session.Stat
	for i := 0; i < 4; i++ {
		stats = append(stats, completedStat(base.Add(time.Duration(i)*time.Minute), time.Minute, 10+i, 1, 0))
	}
	recent := Recent(stats, 2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent stats, got %d", len(recent))
	}
	if recent[0].NumChars != 12 || recent[1].NumChars != 13 {
		t.Fatalf("expected the two most recent stats, got %+v", recent)
	}
	if got := Recent(stats, 10); len(got) != 4 {
		t.Fatalf("expected clamp to available stats, got %d", len(got))
	}
	if got := Recent(stats, 0); got != nil {
		t.Fatalf("expected nil for zero window")
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Fatalf("unexpected moving average at %d: %f", i, out[i])
		}
	}
	flat := MovingAverage(values, 1)
	for i := range values {
		if flat[i] != values[i] {
			t.Fatalf("expected window 1 to copy values")
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); len(got) != 3 {
		t.Fatalf("expected 3 chars for flat series, got %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if len(got) != 2 || got[0] == got[1] {
		t.Fatalf("expected distinct extremes, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Language", "LPM"}
	rows := [][]string{
		{"python", "12.50"},
		{"js", "7.00"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Language   LPM" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "python   12.50" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "js        7.00" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
