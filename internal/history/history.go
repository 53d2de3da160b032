// Package history computes rollups and reports over completed sessions.
package history

import (
	"time"

	"github.com/jaymody/lpm/internal/session"
)

// Aggregate is a read-only rollup over a sequence of completed stats.
type Aggregate struct {
	Count        int
	TotalElapsed time.Duration
	AvgLPM       float64
	AvgWPM       float64
	AvgCPM       float64
	AvgAccuracy  float64
}

// Summarize folds completed stats into lifetime totals and averages.
// Zero records yields a zero aggregate, no division by zero.
func Summarize(stats []session.Stat) Aggregate {
	agg := Aggregate{Count: len(stats)}
	if len(stats) == 0 {
		return agg
	}
	var totalLPM, totalWPM, totalCPM, totalAcc float64
	for _, s := range stats {
		agg.TotalElapsed += s.Elapsed()
		totalLPM += s.LPM()
		totalWPM += s.WPM()
		totalCPM += s.CPM()
		totalAcc += s.Accuracy()
	}
	n := float64(len(stats))
	agg.AvgLPM = totalLPM / n
	agg.AvgWPM = totalWPM / n
	agg.AvgCPM = totalCPM / n
	agg.AvgAccuracy = totalAcc / n
	return agg
}

// Recent returns the most recent n stats. The input is assumed to be in
// completion order.
func Recent(stats []session.Stat, n int) []session.Stat {
	if n <= 0 || len(stats) == 0 {
		return nil
	}
	if n > len(stats) {
		n = len(stats)
	}
	return stats[len(stats)-n:]
}
