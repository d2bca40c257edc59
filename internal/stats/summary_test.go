package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/model"
)

func day(s string) calday.Day { return calday.MustParse(s) }

func TestSummarizeEmpty(t *testing.T) {
	require.Equal(t, model.Summary{}, Summarize(nil, StepLengthKm))
}

func TestSummarizeTrainingAndDistance(t *testing.T) {
	entries := []model.TimelineEntry{
		{Day: day("2024-10-01"), Steps: 500, IsPause: true},
		{Day: day("2024-10-02"), Steps: 1500, TrainingMinutes: 90},
		{Day: day("2024-10-03"), IsPause: true},
	}
	got := Summarize(entries, StepLengthKm)
	require.InDelta(t, 1.5, got.TotalTrainingHours, 1e-9)
	require.InDelta(t, 1.5, got.TotalDistanceKm, 1e-9)
	require.Equal(t, 1, got.ActiveDays)
	require.Equal(t, 2, got.PauseDays)
}

func TestSummarizePartitionsDays(t *testing.T) {
	entries := make([]model.TimelineEntry, 0, 30)
	for i := 0; i < 30; i++ {
		minutes := float64(i % 3 * 20)
		entries = append(entries, model.TimelineEntry{
			Day:             day("2024-10-01").AddDays(i),
			TrainingMinutes: minutes,
			IsPause:         minutes == 0,
		})
	}
	got := Summarize(entries, StepLengthKm)
	require.Equal(t, len(entries), got.ActiveDays+got.PauseDays)
	require.Equal(t, 10, got.PauseDays)
}

func TestSummarizeCustomStride(t *testing.T) {
	got := Summarize([]model.TimelineEntry{{Steps: 1000}}, 0.001)
	require.InDelta(t, 1.0, got.TotalDistanceKm, 1e-9)
}

func TestSummarizeNonPositiveMinutesArePauseDays(t *testing.T) {
	entries := []model.TimelineEntry{
		{Day: day("2024-10-01"), TrainingMinutes: -10},
		{Day: day("2024-10-02"), TrainingMinutes: 30},
		{Day: day("2024-10-03")},
	}
	got := Summarize(entries, StepLengthKm)
	require.Equal(t, 1, got.ActiveDays)
	require.Equal(t, 2, got.PauseDays)
	require.Equal(t, len(entries), got.ActiveDays+got.PauseDays)
}
