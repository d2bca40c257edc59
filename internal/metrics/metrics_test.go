package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/model"
	"github.com/verte-zerg/fitline/internal/stats"
)

func sampleReport() stats.Report {
	return stats.Report{
		Timeline: []model.TimelineEntry{
			{Day: calday.MustParse("2024-10-01"), IsPause: true},
			{Day: calday.MustParse("2024-10-02"), TrainingMinutes: 90, Steps: 2000},
		},
		Summary: model.Summary{TotalTrainingHours: 1.5, TotalDistanceKm: 1.5, ActiveDays: 1, PauseDays: 1},
		Breakdown: []model.BreakdownEntry{
			{Key: "running", TotalCalories: 650, Label: "Running"},
		},
	}
}

func TestRegistryGauges(t *testing.T) {
	reg := Registry(sampleReport())
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	expected := `
# HELP fitline_summary_active_days Days with recorded training minutes.
# TYPE fitline_summary_active_days gauge
fitline_summary_active_days 1
# HELP fitline_breakdown_calories Total activity calories per activity type.
# TYPE fitline_breakdown_calories gauge
fitline_breakdown_calories{activity="running",label="Running"} 650
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"fitline_summary_active_days", "fitline_breakdown_calories"))
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fitline.prom")
	require.NoError(t, WriteTextfile(path, sampleReport()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "fitline_timeline_days 2")
	require.Contains(t, string(data), "fitline_summary_training_hours 1.5")
	require.Contains(t, string(data), "fitline_timeline_last_day_timestamp_seconds 1.7278272e+09")
}

func TestWriteTextfileEmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fitline.prom")
	require.NoError(t, WriteTextfile(path, stats.Report{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "fitline_timeline_days 0")
	require.NotContains(t, string(data), "fitline_breakdown_calories{")
}
