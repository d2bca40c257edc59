package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/fitline/internal/model"
)

const (
	sparkChars = " .:-=+*#%@"
	activeMark = '#'
	pauseMark  = '.'
)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMaxSingle(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// PauseStrip renders one character per day: '#' for training days, '.' for pauses.
func PauseStrip(entries []model.TimelineEntry) string {
	var b strings.Builder
	b.Grow(len(entries))
	for _, e := range entries {
		if e.IsPause {
			b.WriteByte(pauseMark)
		} else {
			b.WriteByte(activeMark)
		}
	}
	return b.String()
}

// Column extracts one numeric field of every timeline entry.
func Column(entries []model.TimelineEntry, field func(model.TimelineEntry) float64) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = field(e)
	}
	return out
}

// RenderSummary prints the whole-period metrics.
func RenderSummary(w io.Writer, entries []model.TimelineEntry, summary model.Summary) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No data found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Period: %s to %s (%d days)", entries[0].Day, entries[len(entries)-1].Day, len(entries)),
		fmt.Sprintf("Training: %.1f h", summary.TotalTrainingHours),
		fmt.Sprintf("Distance (from steps): %.1f km", summary.TotalDistanceKm),
		fmt.Sprintf("Active days: %d", summary.ActiveDays),
		fmt.Sprintf("Pause days: %d", summary.PauseDays),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints daily curves for steps, training minutes and calories.
func RenderCurves(w io.Writer, entries []model.TimelineEntry, window int) error {
	return RenderCurvesWithSize(w, entries, window, 0, 10, false)
}

// RenderCurvesWithSize prints daily curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, entries []model.TimelineEntry, window, totalWidth, height int, useColor bool) error {
	if len(entries) == 0 {
		return nil
	}
	steps := MovingAverage(Column(entries, func(e model.TimelineEntry) float64 { return e.Steps }), window)
	minutes := MovingAverage(Column(entries, func(e model.TimelineEntry) float64 { return e.TrainingMinutes }), window)
	calories := MovingAverage(Column(entries, func(e model.TimelineEntry) float64 { return e.Calories }), window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	title := fmt.Sprintf("Daily Curves (%s to %s, %d-day average)", entries[0].Day, entries[len(entries)-1].Day, max(window, 1))
	return PlotSeriesWithColor(w, title, []Series{
		{Name: "Steps", Values: steps},
		{Name: "Training min", Values: minutes},
		{Name: "Calories", Values: calories},
	}, width, height, useColor)
}

// RenderPauseStrip prints the training/pause strip wrapped to width.
func RenderPauseStrip(w io.Writer, entries []model.TimelineEntry, width int) error {
	if len(entries) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	if _, err := fmt.Fprintf(w, "Training Days (%c training, %c pause)\n", activeMark, pauseMark); err != nil {
		return err
	}
	return writeWrapped(w, PauseStrip(entries), width)
}

// RenderStepStrip prints a per-day steps sparkline wrapped to width.
func RenderStepStrip(w io.Writer, entries []model.TimelineEntry, width int) error {
	if len(entries) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	steps := Column(entries, func(e model.TimelineEntry) float64 { return e.Steps })
	lo, hi := seriesMinMaxSingle(steps)
	if _, err := fmt.Fprintf(w, "Steps per Day (%.0f to %.0f)\n", lo, hi); err != nil {
		return err
	}
	return writeWrapped(w, Sparkline(steps), width)
}

// writeWrapped writes an ASCII strip in lines of at most width bytes,
// followed by a blank line.
func writeWrapped(w io.Writer, strip string, width int) error {
	for len(strip) > 0 {
		n := min(width, len(strip))
		if _, err := fmt.Fprintln(w, strip[:n]); err != nil {
			return err
		}
		strip = strip[n:]
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderBreakdownTable prints calories per activity.
func RenderBreakdownTable(w io.Writer, entries []model.BreakdownEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No activity calories found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Calories by Activity"); err != nil {
		return err
	}
	headers := []string{"Activity", "Calories", "kcal (k)", "Share"}
	var total int
	for _, e := range entries {
		total += e.TotalCalories
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		share := 0.0
		if total > 0 {
			share = float64(e.TotalCalories) / float64(total)
		}
		rows = append(rows, []string{
			e.Label,
			fmt.Sprintf("%d", e.TotalCalories),
			e.TotalCaloriesK,
			fmt.Sprintf("%.1f%%", share*100),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTimelineTable prints one row per day.
func RenderTimelineTable(w io.Writer, entries []model.TimelineEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No days found.")
		return err
	}
	headers, rows := TimelineRows(entries)
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// TimelineRows formats timeline entries as table cells.
func TimelineRows(entries []model.TimelineEntry) ([]string, [][]string) {
	headers := []string{"Date", "Steps", "Calories", "Training", "Activity", "Event"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		activity := orDash(e.DominantActivity)
		if e.DominantActivity != "" {
			activity = Humanize(e.DominantActivity)
		}
		rows = append(rows, []string{
			e.Day.String(),
			fmt.Sprintf("%.0f", e.Steps),
			fmt.Sprintf("%.0f", e.Calories),
			fmt.Sprintf("%.0f min", e.TrainingMinutes),
			activity,
			orDash(e.Event),
		})
	}
	return headers, rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
