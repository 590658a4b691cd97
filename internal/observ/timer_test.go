package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	stop := timer.Track("load")
	time.Sleep(time.Millisecond)
	stop("3 units")

	report := timer.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("Phases len = %d, want 1", len(report.Phases))
	}
	phase := report.Phases[0]
	if phase.Name != "load" {
		t.Fatalf("Name = %q, want %q", phase.Name, "load")
	}
	if phase.Note != "3 units" {
		t.Fatalf("Note = %q, want %q", phase.Note, "3 units")
	}
	if phase.DurationMS <= 0 {
		t.Fatalf("DurationMS = %f, want > 0", phase.DurationMS)
	}
	if report.TotalMS < phase.DurationMS {
		t.Fatalf("TotalMS = %f below phase duration %f", report.TotalMS, phase.DurationMS)
	}
}

func TestTimerStopKeepsFirstMeasurement(t *testing.T) {
	timer := NewTimer()
	stop := timer.Track("analyze")
	stop("first")
	first := timer.Report().Phases[0]
	time.Sleep(time.Millisecond)
	stop("second")
	again := timer.Report().Phases[0]
	if again.Note != "first" {
		t.Fatalf("Note = %q after second stop, want %q", again.Note, "first")
	}
	if again.DurationMS != first.DurationMS {
		t.Fatalf("DurationMS changed on second stop: %f != %f", again.DurationMS, first.DurationMS)
	}
}

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	timer.Track("analysis")("")
	timer.Track("report")("cached")

	out := timer.Summary()
	for _, want := range []string{"timings:", "analysis", "report", "// cached", "total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Summary missing %q:\n%s", want, out)
		}
	}
}

func TestEmptyTimerReport(t *testing.T) {
	report := NewTimer().Report()
	if report.TotalMS != 0 || len(report.Phases) != 0 {
		t.Fatalf("empty timer Report = %+v, want zero report", report)
	}
}
