package stats

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/model"
	"github.com/verte-zerg/fitline/internal/timeline"
)

type staticSource struct {
	in  model.Inputs
	err error
}

func (s staticSource) LoadInputs(context.Context) (model.Inputs, error) {
	return s.in, s.err
}

func reportOptions() Options {
	opts := DefaultOptions()
	opts.Timeline.Location = time.UTC
	opts.Timeline.Start = calday.MustParse("2024-10-01")
	return opts
}

func ts(day string, hour int) time.Time {
	return calday.MustParse(day).UTC().Add(time.Duration(hour) * time.Hour)
}

func TestBuildReportWithoutRecords(t *testing.T) {
	report, err := BuildReport(context.Background(), staticSource{}, reportOptions())
	require.NoError(t, err)
	require.Empty(t, report.Timeline)
	require.Equal(t, model.Summary{}, report.Summary)
	require.NotNil(t, report.Breakdown)
	require.Empty(t, report.Breakdown)
}

func TestBuildReportSourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := BuildReport(context.Background(), staticSource{err: boom}, reportOptions())
	require.ErrorIs(t, err, boom)
}

func TestBuildReportEndBeforeStart(t *testing.T) {
	src := staticSource{in: model.Inputs{Metrics: []model.MetricRecord{
		{Key: "steps", Time: ts("2024-01-01", 12), Value: 10},
	}}}
	_, err := BuildReport(context.Background(), src, reportOptions())
	require.ErrorIs(t, err, timeline.ErrEndBeforeStart)
}

func TestComputeTrainingAndDistance(t *testing.T) {
	in := model.Inputs{
		Metrics: []model.MetricRecord{
			{Key: "steps", Time: ts("2024-10-01", 9), Value: 1200},
			{Key: "steps", Time: ts("2024-10-03", 9), Value: 800},
		},
		Activities: []model.ActivityRecord{
			{Key: "running", Time: ts("2024-10-02", 7), Duration: 90 * 60, Calories: 650},
		},
	}
	report, err := Compute(in, reportOptions())
	require.NoError(t, err)
	require.Len(t, report.Timeline, 3)
	require.InDelta(t, 1.5, report.Summary.TotalTrainingHours, 1e-9)
	require.InDelta(t, 1.5, report.Summary.TotalDistanceKm, 1e-9)
	require.Equal(t, 1, report.Summary.ActiveDays)
	require.Equal(t, 2, report.Summary.PauseDays)
	require.Equal(t, "running", report.Breakdown[0].Key)
}

func TestComputeDominantActivity(t *testing.T) {
	in := model.Inputs{Activities: []model.ActivityRecord{
		{Key: "running", Time: ts("2024-10-01", 7)},
		{Key: "cycling", Time: ts("2024-10-01", 12)},
		{Key: "running", Time: ts("2024-10-01", 19)},
	}}
	report, err := Compute(in, reportOptions())
	require.NoError(t, err)
	require.Equal(t, "running", report.Timeline[0].DominantActivity)
}

func TestComputeIsIdempotent(t *testing.T) {
	in := model.Inputs{
		Metrics:    []model.MetricRecord{{Key: "calories", Time: ts("2024-10-04", 9), Value: 2000}},
		Activities: []model.ActivityRecord{{Key: "yoga", Time: ts("2024-10-02", 7), Duration: 600, Calories: 80}},
		Calendar:   []model.CalendarRecord{{Start: ts("2024-10-03", 8), EventType: "holiday"}},
	}
	a, err := Compute(in, reportOptions())
	require.NoError(t, err)
	b, err := Compute(in, reportOptions())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRenderReportText(t *testing.T) {
	in := model.Inputs{
		Metrics: []model.MetricRecord{{Key: "steps", Time: ts("2024-10-02", 9), Value: 4000}},
		Activities: []model.ActivityRecord{
			{Key: "running", Time: ts("2024-10-02", 7), Duration: 1800, Calories: 300},
		},
	}
	report, err := Compute(in, reportOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, report.Timeline, report.Summary))
	require.NoError(t, RenderBreakdownTable(&buf, report.Breakdown))
	require.NoError(t, RenderPauseStrip(&buf, report.Timeline, 80))
	require.NoError(t, RenderTimelineTable(&buf, report.Timeline))
	out := buf.String()
	for _, want := range []string{
		"Period: 2024-10-01 to 2024-10-02 (2 days)",
		"Training: 0.5 h",
		"Active days: 1",
		"Pause days: 1",
		"Running",
		".#",
		"2024-10-02",
	} {
		require.True(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}

func TestRenderEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, nil, model.Summary{}))
	require.NoError(t, RenderBreakdownTable(&buf, nil))
	require.NoError(t, RenderCurves(&buf, nil, 7))
	require.Equal(t, "No data found.\nNo activity calories found.\n", buf.String())
}
