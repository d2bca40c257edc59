package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/fitline/internal/model"
	"github.com/verte-zerg/fitline/internal/timeline"
)

// Source provides the raw records of one subject.
type Source interface {
	LoadInputs(ctx context.Context) (model.Inputs, error)
}

// Options controls report computation.
type Options struct {
	Timeline     timeline.Options
	StepLengthKm float64
	Breakdown    BreakdownOptions
}

// DefaultOptions returns the built-in report settings.
func DefaultOptions() Options {
	return Options{
		Timeline:     timeline.DefaultOptions(),
		StepLengthKm: StepLengthKm,
		Breakdown:    DefaultBreakdownOptions(),
	}
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Timeline  []model.TimelineEntry  `json:"timeline"`
	Summary   model.Summary          `json:"summary"`
	Breakdown []model.BreakdownEntry `json:"breakdown"`
}

// BuildReport loads raw records and computes every report output.
func BuildReport(ctx context.Context, src Source, opts Options) (Report, error) {
	in, err := src.LoadInputs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load records: %w", err)
	}
	return Compute(in, opts)
}

// Compute derives the timeline, its summary and the calorie breakdown.
func Compute(in model.Inputs, opts Options) (Report, error) {
	entries, err := timeline.Build(in, opts.Timeline)
	if err != nil {
		return Report{}, fmt.Errorf("failed to build timeline: %w", err)
	}
	return Report{
		Timeline:  entries,
		Summary:   Summarize(entries, opts.StepLengthKm),
		Breakdown: Breakdown(in.Activities, opts.Breakdown),
	}, nil
}
