// Package stats contains statistics calculations and reporting.
package stats

import "github.com/verte-zerg/fitline/internal/model"

// StepLengthKm approximates the distance covered by one step.
const StepLengthKm = 0.00075

// Summarize folds the timeline into whole-period metrics. Every day is
// either active (training minutes > 0) or a pause day.
func Summarize(entries []model.TimelineEntry, stepLengthKm float64) model.Summary {
	var out model.Summary
	var minutes, steps float64
	for _, e := range entries {
		if e.TrainingMinutes > 0 {
			out.ActiveDays++
		} else {
			out.PauseDays++
		}
		minutes += e.TrainingMinutes
		steps += e.Steps
	}
	out.TotalTrainingHours = minutes / 60
	out.TotalDistanceKm = steps * stepLengthKm
	return out
}
