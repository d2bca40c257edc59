// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/daily"
	"github.com/verte-zerg/fitline/internal/stats"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timeline   TimelineConfig            `toml:"timeline"`
	Summary    SummaryConfig             `toml:"summary"`
	Breakdown  BreakdownConfig           `toml:"breakdown"`
	Report     ReportConfig              `toml:"report"`
	Activities map[string]ActivityConfig `toml:"activities"`
}

// TimelineConfig maps timeline settings.
type TimelineConfig struct {
	Start      *string `toml:"start"`
	Timezone   *string `toml:"timezone"`
	EventMerge *string `toml:"event-merge"`
}

// SummaryConfig maps summary settings.
type SummaryConfig struct {
	StepLengthKm *float64 `toml:"step-length-km"`
}

// BreakdownConfig maps calorie breakdown settings.
type BreakdownConfig struct {
	Exclude *string `toml:"exclude"`
}

// ReportConfig maps rendering settings.
type ReportConfig struct {
	CurveWindow *int `toml:"curve-window"`
}

// ActivityConfig overrides the display metadata of one activity key.
type ActivityConfig struct {
	Color string `toml:"color"`
	Label string `toml:"label"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Options resolves the file settings on top of the built-in defaults.
func (c FileConfig) Options() (stats.Options, error) {
	opts := stats.DefaultOptions()
	if c.Timeline.Start != nil {
		start, err := calday.Parse(*c.Timeline.Start)
		if err != nil {
			return stats.Options{}, fmt.Errorf("timeline.start: %w", err)
		}
		opts.Timeline.Start = start
	}
	if c.Timeline.Timezone != nil {
		loc, err := LoadLocation(*c.Timeline.Timezone)
		if err != nil {
			return stats.Options{}, fmt.Errorf("timeline.timezone: %w", err)
		}
		opts.Timeline.Location = loc
	}
	if c.Timeline.EventMerge != nil {
		merge, err := daily.ParseEventMerge(*c.Timeline.EventMerge)
		if err != nil {
			return stats.Options{}, fmt.Errorf("timeline.event-merge: %w", err)
		}
		opts.Timeline.EventMerge = merge
	}
	if c.Summary.StepLengthKm != nil {
		if v := *c.Summary.StepLengthKm; !(v > 0) || math.IsInf(v, 0) {
			return stats.Options{}, fmt.Errorf("summary.step-length-km must be a finite number > 0")
		}
		opts.StepLengthKm = *c.Summary.StepLengthKm
	}
	if c.Breakdown.Exclude != nil {
		opts.Breakdown.Exclude = *c.Breakdown.Exclude
	}
	if len(c.Activities) > 0 {
		overrides := make(stats.Catalog, len(c.Activities))
		for key, a := range c.Activities {
			overrides[key] = stats.ActivityStyle{Color: a.Color, Label: a.Label}
		}
		opts.Breakdown.Catalog = opts.Breakdown.Catalog.Merge(overrides)
	}
	return opts, nil
}

// LoadLocation resolves a timezone name. Empty and "Local" mean the process zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
