// Package daily folds raw records of one source into one value per calendar day.
package daily

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/fitline/internal/calday"
	"github.com/verte-zerg/fitline/internal/model"
)

// EventMerge selects how same-day calendar events are reduced.
type EventMerge string

const (
	// EventFirst keeps the first event of the day in input order.
	EventFirst EventMerge = "first"
	// EventAll joins the distinct labels of the day in input order.
	EventAll EventMerge = "all"
)

// ParseEventMerge validates a merge policy name. Empty means EventFirst.
func ParseEventMerge(s string) (EventMerge, error) {
	switch EventMerge(strings.ToLower(strings.TrimSpace(s))) {
	case "", EventFirst:
		return EventFirst, nil
	case EventAll:
		return EventAll, nil
	default:
		return "", fmt.Errorf("unknown event merge %q (use first or all)", s)
	}
}

// ByDay groups records by the calendar day of timeOf(record) in loc and
// folds each group into one value. Groups keep the input order of their
// records and are never empty.
func ByDay[R, A any](records []R, loc *time.Location, timeOf func(R) time.Time, fold func([]R) A) map[calday.Day]A {
	groups := make(map[calday.Day][]R)
	for _, r := range records {
		day := calday.Of(timeOf(r), loc)
		groups[day] = append(groups[day], r)
	}
	out := make(map[calday.Day]A, len(groups))
	for day, group := range groups {
		out[day] = fold(group)
	}
	return out
}

// Sum returns a fold adding value(r) across a group.
func Sum[R any](value func(R) float64) func([]R) float64 {
	return func(group []R) float64 {
		var total float64
		for _, r := range group {
			total += value(r)
		}
		return total
	}
}

// Majority returns a fold picking the most frequent label of a group.
// Ties go to the label that appears first in the group.
func Majority[R any](label func(R) string) func([]R) string {
	return func(group []R) string {
		counts := make(map[string]int)
		order := make([]string, 0, len(group))
		for _, r := range group {
			key := label(r)
			if _, ok := counts[key]; !ok {
				order = append(order, key)
			}
			counts[key]++
		}
		best, bestCount := "", 0
		for _, key := range order {
			if counts[key] > bestCount {
				best, bestCount = key, counts[key]
			}
		}
		return best
	}
}

func metricsWithKey(records []model.MetricRecord, key string) []model.MetricRecord {
	out := make([]model.MetricRecord, 0, len(records))
	for _, r := range records {
		if r.Key == key {
			out = append(out, r)
		}
	}
	return out
}

func metricTime(r model.MetricRecord) time.Time { return r.Time }
func metricValue(r model.MetricRecord) float64 { return r.Value }
func activityTime(r model.ActivityRecord) time.Time { return r.Time }

// StepsPerDay sums steps-keyed metric samples per day.
func StepsPerDay(records []model.MetricRecord, loc *time.Location) map[calday.Day]float64 {
	return ByDay(metricsWithKey(records, model.MetricSteps), loc, metricTime, Sum(metricValue))
}

// CaloriesPerDay sums calories-keyed metric samples per day.
func CaloriesPerDay(records []model.MetricRecord, loc *time.Location) map[calday.Day]float64 {
	return ByDay(metricsWithKey(records, model.MetricCalories), loc, metricTime, Sum(metricValue))
}

// TrainingMinutesPerDay sums activity durations per day, in minutes.
func TrainingMinutesPerDay(records []model.ActivityRecord, loc *time.Location) map[calday.Day]float64 {
	return ByDay(records, loc, activityTime, Sum(func(r model.ActivityRecord) float64 {
		return r.Duration / 60
	}))
}

// DominantActivityPerDay picks the most frequent activity key per day.
func DominantActivityPerDay(records []model.ActivityRecord, loc *time.Location) map[calday.Day]string {
	return ByDay(records, loc, activityTime, Majority(func(r model.ActivityRecord) string {
		return r.Key
	}))
}

// CalendarEventPerDay labels each day that has calendar events. A record's
// label is its category, else its type. EventFirst keeps the first record
// and ignores the rest of the day; EventAll joins distinct labels.
func CalendarEventPerDay(records []model.CalendarRecord, loc *time.Location, merge EventMerge) map[calday.Day]string {
	startOf := func(r model.CalendarRecord) time.Time { return r.Start }
	if merge == EventAll {
		return ByDay(records, loc, startOf, joinLabels)
	}
	return ByDay(records, loc, startOf, func(group []model.CalendarRecord) string {
		return eventLabel(group[0])
	})
}

func eventLabel(r model.CalendarRecord) string {
	if r.EventCategory != "" {
		return r.EventCategory
	}
	return r.EventType
}

func joinLabels(group []model.CalendarRecord) string {
	seen := make(map[string]struct{}, len(group))
	labels := make([]string, 0, len(group))
	for _, r := range group {
		label := eventLabel(r)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return strings.Join(labels, ", ")
}
