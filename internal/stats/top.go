package stats

import (
	"sort"

	"github.com/verte-zerg/fitline/internal/model"
)

// ActivityDays counts how many days an activity was the dominant one.
type ActivityDays struct {
	Key  string
	Days int
}

// TopActivities returns the n activities that dominated the most days.
func TopActivities(entries []model.TimelineEntry, n int) []ActivityDays {
	if n <= 0 || len(entries) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, e := range entries {
		if e.DominantActivity != "" {
			counts[e.DominantActivity]++
		}
	}
	items := make([]ActivityDays, 0, len(counts))
	for key, days := range counts {
		items = append(items, ActivityDays{Key: key, Days: days})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Days == items[j].Days {
			return items[i].Key < items[j].Key
		}
		return items[i].Days > items[j].Days
	})
	return items[:min(n, len(items))]
}
