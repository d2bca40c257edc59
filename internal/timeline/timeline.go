// Package timeline joins per-day source maps into the dense master timeline.
package timeline

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/daily"
	"github.com/verte-zerg/fitline/internal/model"
)

// ErrEndBeforeStart is returned when every observed day precedes the start boundary.
var ErrEndBeforeStart = errors.New("latest observed day is before the timeline start")

// DefaultStart is the first day of the master timeline unless configured otherwise.
var DefaultStart = calday.New(2024, time.October, 1)

// Sources holds the per-day maps of every input source.
type Sources struct {
	Steps            map[calday.Day]float64
	Calories         map[calday.Day]float64
	TrainingMinutes  map[calday.Day]float64
	DominantActivity map[calday.Day]string
	Event            map[calday.Day]string
}

// Options controls how raw records become a timeline.
type Options struct {
	Start      calday.Day
	Location   *time.Location
	EventMerge daily.EventMerge
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Start:      DefaultStart,
		Location:   time.Local,
		EventMerge: daily.EventFirst,
	}
}

// Reduce runs every per-source reducer over the raw inputs.
func Reduce(in model.Inputs, opts Options) Sources {
	return Sources{
		Steps:            daily.StepsPerDay(in.Metrics, opts.Location),
		Calories:         daily.CaloriesPerDay(in.Metrics, opts.Location),
		TrainingMinutes:  daily.TrainingMinutesPerDay(in.Activities, opts.Location),
		DominantActivity: daily.DominantActivityPerDay(in.Activities, opts.Location),
		Event:            daily.CalendarEventPerDay(in.Calendar, opts.Location, opts.EventMerge),
	}
}

// Build recomputes the master timeline from the full raw inputs.
func Build(in model.Inputs, opts Options) ([]model.TimelineEntry, error) {
	return Synthesize(Reduce(in, opts), opts.Start)
}

// Synthesize returns one entry per day from start through the latest day
// present in any source. Days missing from a source get its default
// (0 or empty). With no observed days the timeline is empty; if the latest
// observed day precedes start, ErrEndBeforeStart is returned.
func Synthesize(src Sources, start calday.Day) ([]model.TimelineEntry, error) {
	end, ok := src.lastDay()
	if !ok {
		return []model.TimelineEntry{}, nil
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start %s, end %s", ErrEndBeforeStart, start, end)
	}
	days, err := calday.Range(start, end)
	if err != nil {
		return nil, err
	}
	out := make([]model.TimelineEntry, 0, len(days))
	for _, day := range days {
		minutes := lookup(src.TrainingMinutes, day, 0)
		out = append(out, model.TimelineEntry{
			Day:              day,
			Steps:            lookup(src.Steps, day, 0),
			Calories:         lookup(src.Calories, day, 0),
			TrainingMinutes:  minutes,
			DominantActivity: lookup(src.DominantActivity, day, ""),
			Event:            lookup(src.Event, day, ""),
			IsPause:          minutes == 0,
		})
	}
	return out, nil
}

func (s Sources) lastDay() (calday.Day, bool) {
	var days []calday.Day
	days = slices.AppendSeq(days, maps.Keys(s.Steps))
	days = slices.AppendSeq(days, maps.Keys(s.Calories))
	days = slices.AppendSeq(days, maps.Keys(s.TrainingMinutes))
	days = slices.AppendSeq(days, maps.Keys(s.DominantActivity))
	days = slices.AppendSeq(days, maps.Keys(s.Event))
	return calday.Max(days)
}

// lookup returns def only when day is absent, so a stored zero value
// is kept even for sources whose default is not zero.
func lookup[V any](m map[calday.Day]V, day calday.Day, def V) V {
	if v, ok := m[day]; ok {
		return v
	}
	return def
}
