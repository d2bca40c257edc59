package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/verte-zerg/fitline/internal/model"
)

// ParseICS reads the events of an iCalendar file. Events that Categorize
// rejects are skipped, as are events without a start time. Floating times
// and dates are read in loc (time.Local when nil).
func ParseICS(r io.Reader, name string, loc *time.Location) ([]model.CalendarRecord, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	base := filepath.Base(name)
	eventType := EventTypeFor(base)

	var out []model.CalendarRecord
	for _, ev := range cal.Events() {
		title := ""
		if p := ev.GetProperty(ics.ComponentPropertySummary); p != nil {
			title = p.Value
		}
		category, ok := Categorize(title, eventType, base)
		if !ok {
			continue
		}
		start, err := ev.GetStartAt()
		if err != nil {
			continue
		}
		start = floating(start, loc)
		end, err := ev.GetEndAt()
		if err != nil {
			end = start
		}
		end = floating(end, loc)
		if isAllDay(ev) && end.Sub(start) >= 24*time.Hour {
			// DTEND of an all-day event is exclusive.
			end = end.AddDate(0, 0, -1)
		}
		out = append(out, model.CalendarRecord{
			Title:         title,
			Start:         start,
			End:           end,
			EventType:     eventType,
			EventCategory: category,
		})
	}
	return out, nil
}

func isAllDay(ev *ics.VEvent) bool {
	p := ev.GetProperty(ics.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if v := p.ICalParameters[string(ics.ParameterValue)]; len(v) > 0 && v[0] == "DATE" {
		return true
	}
	return len(p.Value) == len("20060102")
}

// floating moves a value the ical parser read in time.Local (no TZID, no Z)
// onto the same wall clock in loc.
func floating(t time.Time, loc *time.Location) time.Time {
	if t.Location() != time.Local || loc == time.Local {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
