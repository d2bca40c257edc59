package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/daily"
	"github.com/verte-zerg/fitline/internal/stats"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, stats.DefaultOptions().Timeline.Start, opts.Timeline.Start)
	require.Equal(t, stats.StepLengthKm, opts.StepLengthKm)
	require.Equal(t, stats.DefaultExclude, opts.Breakdown.Exclude)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[timeline]
start = "2025-01-01"
timezone = "UTC"
event-merge = "all"

[summary]
step-length-km = 0.0008

[breakdown]
exclude = "walking"

[report]
curve-window = 14

[activities.running]
label = "Laufen"

[activities.padel]
color = "#00FF00"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 14, *cfg.Report.CurveWindow)

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, calday.MustParse("2025-01-01"), opts.Timeline.Start)
	require.Equal(t, time.UTC, opts.Timeline.Location)
	require.Equal(t, daily.EventAll, opts.Timeline.EventMerge)
	require.Equal(t, 0.0008, opts.StepLengthKm)
	require.Equal(t, "walking", opts.Breakdown.Exclude)
	require.Equal(t, "Laufen", opts.Breakdown.Catalog.Lookup("running").Label)
	require.Equal(t, "#00FF00", opts.Breakdown.Catalog.Lookup("padel").Color)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[timeline]\nstrat = \"2025-01-01\"\n")
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "timeline.strat")
}

func TestOptionsValidation(t *testing.T) {
	cases := map[string]string{
		"start":    "[timeline]\nstart = \"01.10.2024\"\n",
		"timezone": "[timeline]\ntimezone = \"Mars/Olympus\"\n",
		"merge":    "[timeline]\nevent-merge = \"last\"\n",
		"stride":   "[summary]\nstep-length-km = 0.0\n",
		"nan":      "[summary]\nstep-length-km = nan\n",
		"inf":      "[summary]\nstep-length-km = inf\n",
		"negative": "[summary]\nstep-length-km = -0.5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, body))
			require.NoError(t, err)
			_, err = cfg.Options()
			require.Error(t, err)
			if strings.HasPrefix(body, "[summary]") {
				require.ErrorContains(t, err, "summary.step-length-km")
			}
		})
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	require.Equal(t, "/tmp/cfg/fitline/config.toml", DefaultConfigPath())
	require.Equal(t, "/tmp/data/fitline/fitline.db", DefaultDBPath())
}
