// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"time"

	"github.com/verte-zerg/fitline/internal/calday"
)

// Well-known metric keys in the daily fitness export.
const (
	MetricSteps    = "steps"
	MetricCalories = "calories"
)

// MetricRecord is one daily metric sample, e.g. a step count.
type MetricRecord struct {
	SubjectID  string
	SessionID  string
	Key        string
	Category   string
	Time       time.Time
	Value      float64
	UpdateTime time.Time
}

// ActivityRecord is one recorded sport activity.
// Duration is in seconds. Numeric fields missing from the source are 0.
type ActivityRecord struct {
	SubjectID  string
	SessionID  string
	Key        string
	Time       time.Time
	Calories   float64
	Duration   float64
	Distance   float64
	Steps      float64
	UpdateTime time.Time
}

// CalendarRecord is one calendar event. Only Start is used for bucketing.
type CalendarRecord struct {
	Title         string
	Start         time.Time
	End           time.Time
	EventType     string
	EventCategory string
}

// Inputs bundles the raw records of one subject.
type Inputs struct {
	Metrics    []MetricRecord
	Activities []ActivityRecord
	Calendar   []CalendarRecord
}

// TimelineEntry is one day of the master timeline.
// Empty DominantActivity or Event means nothing was recorded that day.
type TimelineEntry struct {
	Day              calday.Day `json:"date"`
	Steps            float64    `json:"steps"`
	Calories         float64    `json:"calories"`
	TrainingMinutes  float64    `json:"trainingMinutes"`
	DominantActivity string     `json:"sportType"`
	Event            string     `json:"event"`
	IsPause          bool       `json:"isPause"`
}

// MarshalJSON writes empty categorical fields as null.
func (e TimelineEntry) MarshalJSON() ([]byte, error) {
	type entry TimelineEntry
	return json.Marshal(struct {
		entry
		DominantActivity *string `json:"sportType"`
		Event            *string `json:"event"`
	}{
		entry:            entry(e),
		DominantActivity: nullable(e.DominantActivity),
		Event:            nullable(e.Event),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Summary holds whole-period metrics derived from the timeline.
type Summary struct {
	TotalTrainingHours float64 `json:"totalTrainingHours"`
	TotalDistanceKm    float64 `json:"totalDistanceKm"`
	ActiveDays         int     `json:"activeDays"`
	PauseDays          int     `json:"pauseDays"`
}

// BreakdownEntry is one row of the calories-by-activity breakdown.
type BreakdownEntry struct {
	Key            string `json:"key"`
	TotalCalories  int    `json:"totalCalories"`
	TotalCaloriesK string `json:"totalCaloriesK"`
	Color          string `json:"color"`
	Label          string `json:"label"`
}

// ImportBatch describes one stored import.
type ImportBatch struct {
	ID         string
	Source     string
	ImportedAt time.Time
	Metrics    int
	Activities int
	Events     int
}
