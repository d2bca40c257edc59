package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Daily Curves", []Series{
		{Name: "Steps", Values: []float64{1000, 2000, 3000, 2000, 1000}},
		{Name: "Training min", Values: []float64{0, 0, 45, 60, 30}},
	}, 5, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Daily Curves", "Scaled per series", "Legend:", "Steps: min=1000.00 max=3000.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "A"}}, 10, 4); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestResampleSeries(t *testing.T) {
	shrunk := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if len(shrunk) != 2 || shrunk[0] != 2 || shrunk[1] != 6 {
		t.Fatalf("unexpected shrink result: %v", shrunk)
	}
	stretched := resampleSeries([]float64{0, 10}, 3)
	if len(stretched) != 3 || stretched[1] != 5 || stretched[2] != 10 {
		t.Fatalf("unexpected stretch result: %v", stretched)
	}
}

func TestPlotWidthFor(t *testing.T) {
	// "max" plus " │ " is six columns.
	cases := map[int]int{0: minPlotWidth, 12: minPlotWidth, 80: 74, 120: 114}
	for total, want := range cases {
		if got := PlotWidthFor(total); got != want {
			t.Fatalf("PlotWidthFor(%d): expected %d, got %d", total, want, got)
		}
	}
}

func TestAxisLabels(t *testing.T) {
	got := axisLabels(5)
	want := []string{"max", "", "mid", "", "min"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if got := axisLabels(2); got[0] != "max" || got[1] != "min" {
		t.Fatalf("unexpected two-row labels %q", got)
	}
	if got := axisLabels(1); got[0] != "max" {
		t.Fatalf("unexpected one-row labels %q", got)
	}
}
