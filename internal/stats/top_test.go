package stats

import (
	"testing"

	"github.com/verte-zerg/fitline/internal/model"
)

func TestTopActivities(t *testing.T) {
	entries := []model.TimelineEntry{
		{DominantActivity: "cycling"},
		{DominantActivity: "running"},
		{DominantActivity: ""},
		{DominantActivity: "cycling"},
		{DominantActivity: "yoga"},
		{DominantActivity: "running"},
	}
	top := TopActivities(entries, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(top))
	}
	if top[0].Key != "cycling" || top[1].Key != "running" || top[0].Days != 2 {
		t.Fatalf("unexpected order: %+v", top)
	}
	if got := TopActivities(entries, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %+v", got)
	}
}
