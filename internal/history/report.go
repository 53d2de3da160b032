package history

import (
	"context"
	"fmt"
	"io"

	"github.com/jaymody/lpm/internal/session"
	"github.com/jaymody/lpm/internal/store"
)

// recentGames bounds the per-session table in the report.
const recentGames = 5

// Report contains precomputed data for stats rendering.
type Report struct {
	Records  []store.Record
	Lifetime Aggregate
}

// BuildReport loads session history and prepares the rollup.
func BuildReport(ctx context.Context, st *store.Store) (Report, error) {
	records, err := st.ListSessions(ctx)
	if err != nil {
		return Report{}, err
	}
	stats := make([]session.Stat, len(records))
	for i, rec := range records {
		stats[i] = rec.Stat
	}
	return Report{
		Records:  records,
		Lifetime: Summarize(stats),
	}, nil
}

// RenderReport prints the recent-games table, lifetime aggregate, and an
// lpm trend sparkline.
func RenderReport(w io.Writer, report Report) error {
	if len(report.Records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet. Run lpm and start typing!")
		return err
	}

	if _, err := fmt.Fprintf(w, "last %d games\n", recentGames); err != nil {
		return err
	}
	headers := []string{"Finished", "Language", "LPM", "WPM", "CPM", "Accuracy"}
	recent := report.Records
	if len(recent) > recentGames {
		recent = recent[len(recent)-recentGames:]
	}
	rows := make([][]string, 0, len(recent))
	for _, rec := range recent {
		rows = append(rows, []string{
			rec.Stat.EndedAt.Format("2006-01-02 15:04:05"),
			rec.Language,
			fmt.Sprintf("%.2f", rec.Stat.LPM()),
			fmt.Sprintf("%.2f", rec.Stat.WPM()),
			fmt.Sprintf("%.2f", rec.Stat.CPM()),
			fmt.Sprintf("%.2f%%", rec.Stat.Accuracy()*100),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	agg := report.Lifetime
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "lifetime stats"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d games | %.2fs total elapsed | %.2f avg lpm | %.2f avg wpm | %.2f avg cpm | %.2f%% avg acc\n",
		agg.Count, agg.TotalElapsed.Seconds(), agg.AvgLPM, agg.AvgWPM, agg.AvgCPM, agg.AvgAccuracy*100); err != nil {
		return err
	}

	lpms := make([]float64, len(report.Records))
	for i, rec := range report.Records {
		lpms[i] = rec.Stat.LPM()
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "lpm trend  %s\n", Sparkline(MovingAverage(lpms, recentGames))); err != nil {
		return err
	}
	return nil
}
