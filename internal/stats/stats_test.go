package stats

import (
	"bytes"
	"testing"

	"github.com/verte-zerg/fitline/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %.1f, got %.1f", i, want[i], got[i])
		}
	}
	in := []float64{1, 2}
	copyOut := MovingAverage(in, 1)
	copyOut[0] = 99
	if in[0] != 1 {
		t.Fatalf("expected input to be left untouched")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestPauseStrip(t *testing.T) {
	entries := []model.TimelineEntry{
		{IsPause: true},
		{TrainingMinutes: 30},
		{IsPause: true},
	}
	if got := PauseStrip(entries); got != ".#." {
		t.Fatalf("unexpected strip %q", got)
	}
}

func TestRenderStepStrip(t *testing.T) {
	entries := []model.TimelineEntry{{Steps: 0}, {Steps: 9000}, {Steps: 4500}, {Steps: 9000}}
	var buf bytes.Buffer
	if err := RenderStepStrip(&buf, entries, 3); err != nil {
		t.Fatalf("RenderStepStrip failed: %v", err)
	}
	want := "Steps per Day (0 to 9000)\n @+\n@\n\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected strip %q", got)
	}
	buf.Reset()
	if err := RenderStepStrip(&buf, nil, 3); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output for empty timeline, got %q (%v)", buf.String(), err)
	}
}
