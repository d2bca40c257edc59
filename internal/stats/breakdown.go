package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/verte-zerg/fitline/internal/model"
)

// DefaultExclude is the activity key left out of the calorie breakdown.
const DefaultExclude = "rope_skipping"

// BreakdownOptions controls the calorie breakdown.
type BreakdownOptions struct {
	Exclude string
	Catalog Catalog
}

// DefaultBreakdownOptions returns the built-in breakdown settings.
func DefaultBreakdownOptions() BreakdownOptions {
	return BreakdownOptions{Exclude: DefaultExclude, Catalog: DefaultCatalog()}
}

type keyTotal struct {
	key      string
	calories float64
}

// caloriesByActivity sums calories per activity key in order of first appearance.
func caloriesByActivity(acts []model.ActivityRecord) []keyTotal {
	index := make(map[string]int)
	var totals []keyTotal
	for _, a := range acts {
		i, ok := index[a.Key]
		if !ok {
			i = len(totals)
			index[a.Key] = i
			totals = append(totals, keyTotal{key: a.Key})
		}
		totals[i].calories += a.Calories
	}
	return totals
}

// Breakdown ranks activity keys by summed calories, highest first. Keys with
// no calories and the excluded key are dropped; ties keep first-appearance order.
func Breakdown(acts []model.ActivityRecord, opts BreakdownOptions) []model.BreakdownEntry {
	var kept []keyTotal
	for _, t := range caloriesByActivity(acts) {
		if t.calories <= 0 || t.key == opts.Exclude {
			continue
		}
		kept = append(kept, t)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].calories > kept[j].calories
	})
	out := make([]model.BreakdownEntry, 0, len(kept))
	for _, t := range kept {
		style := opts.Catalog.Lookup(t.key)
		out = append(out, model.BreakdownEntry{
			Key:            t.key,
			TotalCalories:  int(math.Round(t.calories)),
			TotalCaloriesK: fmt.Sprintf("%.1f", t.calories/1000),
			Color:          style.Color,
			Label:          style.Label,
		})
	}
	return out
}
