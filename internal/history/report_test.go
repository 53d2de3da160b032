package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jaymody/lpm/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "lpm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Unix(0, 0).UTC()
	for i := 0; i < 7; i++ {
		stat := completedStat(base.Add(time.Duration(i)*time.Minute), 30*time.Second, 100, 5, 10)
		if _, err := st.InsertSession(ctx, i, "python", stat); err != nil {
			t.Fatalf("insert session %d: %v", i, err)
		}
	}

	report, err := BuildReport(ctx, st)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Records) != 7 {
		t.Fatalf("expected 7 records, got %d", len(report.Records))
	}
	if report.Lifetime.Count != 7 {
		t.Fatalf("expected lifetime count 7, got %d", report.Lifetime.Count)
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderReport(&b, Report{}); err != nil {
		t.Fatalf("render report: %v", err)
	}
	if !strings.Contains(b.String(), "No sessions recorded yet") {
		t.Fatalf("expected empty-history message, got %q", b.String())
	}
}

func TestRenderReportSections(t *testing.T) {
	base := time.Unix(0, 0).UTC()
	records := make([]store.Record, 0, 7)
	for i := 0; i < 7; i++ {
		records = append(records, store.Record{
			ID:        int64(i + 1),
			SnippetID: i,
			Language:  "python",
			Stat:      completedStat(base.Add(time.Duration(i)*time.Minute), 30*time.Second, 100, 5, 10),
		})
	}
	report := Report{Records: records, Lifetime: Summarize(nil)}

	var b strings.Builder
	if err := RenderReport(&b, report); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "last 5 games") {
		t.Fatalf("missing recent-games header in %q", out)
	}
	// Only the most recent window is tabulated: 7 records, 5 rows, 1 header.
	if got := strings.Count(out, "python"); got != 5 {
		t.Fatalf("expected 5 table rows, got %d in %q", got, out)
	}
	if !strings.Contains(out, "lifetime stats") {
		t.Fatalf("missing lifetime section in %q", out)
	}
	if !strings.Contains(out, "lpm trend") {
		t.Fatalf("missing trend section in %q", out)
	}
}
