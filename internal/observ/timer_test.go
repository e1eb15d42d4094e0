package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(2 * time.Millisecond)

	lex := timer.Begin("lex")
	timer.End(lex, "")
	sema := timer.Begin("sema")
	timer.End(sema, "3 errors")
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[1].Note != "3 errors" {
		t.Fatalf("unexpected note %q", report.Phases[1].Note)
	}
	if report.TotalMS != 4 {
		t.Fatalf("TotalMS = %v, want 4", report.TotalMS)
	}

	summary := timer.Summary()
	for _, want := range []string{"timings:", "lex", "// 3 errors", "total"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestTimerEmpty(t *testing.T) {
	report := NewTimer().Report()
	if report.TotalMS != 0 || len(report.Phases) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}
