// Package ingest reads raw fitness exports and calendar files into model records.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/fitline/internal/model"
)

// RowError reports a malformed input row.
type RowError struct {
	File string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

var (
	fitnessColumns  = []string{"Uid", "Sid", "Key", "Category", "Time", "Value", "UpdateTime"}
	sportColumns    = []string{"Uid", "Sid", "Key", "Time", "Value", "UpdateTime"}
	calendarColumns = []string{"title", "start", "end", "event_type", "event_category"}
)

// sportValue holds the optional numbers of a sport record. Absent fields stay 0.
type sportValue struct {
	Calories float64 `json:"calories"`
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
	Steps    float64 `json:"steps"`
}

func (v sportValue) validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"calories", v.Calories},
		{"duration", v.Duration},
		{"distance", v.Distance},
		{"steps", v.Steps},
	} {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be >= 0, got %v", f.name, f.value)
		}
	}
	return nil
}

// ParseFitness reads the daily metric export.
func ParseFitness(r io.Reader, name string) ([]model.MetricRecord, error) {
	var out []model.MetricRecord
	err := readRows(r, name, fitnessColumns, func(row map[string]string) error {
		at, err := parseUnix(row["Time"])
		if err != nil {
			return fmt.Errorf("Time: %w", err)
		}
		updated, err := parseUnix(row["UpdateTime"])
		if err != nil {
			return fmt.Errorf("UpdateTime: %w", err)
		}
		var value map[string]json.RawMessage
		if err := json.Unmarshal([]byte(row["Value"]), &value); err != nil {
			return fmt.Errorf("Value: %w", err)
		}
		var v float64
		if raw, ok := value[row["Key"]]; ok && string(raw) != "null" {
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("Value.%s: %w", row["Key"], err)
			}
		}
		out = append(out, model.MetricRecord{
			SubjectID:  row["Uid"],
			SessionID:  row["Sid"],
			Key:        row["Key"],
			Category:   row["Category"],
			Time:       at,
			Value:      v,
			UpdateTime: updated,
		})
		return nil
	})
	return out, err
}

// ParseSport reads the sport activity export.
func ParseSport(r io.Reader, name string) ([]model.ActivityRecord, error) {
	var out []model.ActivityRecord
	err := readRows(r, name, sportColumns, func(row map[string]string) error {
		at, err := parseUnix(row["Time"])
		if err != nil {
			return fmt.Errorf("Time: %w", err)
		}
		updated, err := parseUnix(row["UpdateTime"])
		if err != nil {
			return fmt.Errorf("UpdateTime: %w", err)
		}
		var v sportValue
		if err := json.Unmarshal([]byte(row["Value"]), &v); err != nil {
			return fmt.Errorf("Value: %w", err)
		}
		if err := v.validate(); err != nil {
			return fmt.Errorf("Value: %w", err)
		}
		out = append(out, model.ActivityRecord{
			SubjectID:  row["Uid"],
			SessionID:  row["Sid"],
			Key:        row["Key"],
			Time:       at,
			Calories:   v.Calories,
			Duration:   v.Duration,
			Distance:   v.Distance,
			Steps:      v.Steps,
			UpdateTime: updated,
		})
		return nil
	})
	return out, err
}

// ParseCalendarCSV reads the preprocessed calendar export. Timestamps
// without an offset are read in loc (time.Local when nil).
func ParseCalendarCSV(r io.Reader, name string, loc *time.Location) ([]model.CalendarRecord, error) {
	var out []model.CalendarRecord
	err := readRows(r, name, calendarColumns, func(row map[string]string) error {
		start, err := parseTimestamp(row["start"], loc)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		var end time.Time
		if row["end"] != "" {
			if end, err = parseTimestamp(row["end"], loc); err != nil {
				return fmt.Errorf("end: %w", err)
			}
		}
		out = append(out, model.CalendarRecord{
			Title:         row["title"],
			Start:         start,
			End:           end,
			EventType:     row["event_type"],
			EventCategory: row["event_category"],
		})
		return nil
	})
	return out, err
}

func readRows(r io.Reader, name string, required []string, fn func(map[string]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return &RowError{File: name, Line: 1, Err: err}
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return &RowError{File: name, Line: 1, Err: fmt.Errorf("missing column %q", col)}
		}
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return &RowError{File: name, Line: perr.Line, Err: perr.Err}
			}
			return &RowError{File: name, Err: err}
		}
		line, _ := cr.FieldPos(0)
		row := make(map[string]string, len(required))
		for _, col := range required {
			if i := index[col]; i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			}
		}
		if err := fn(row); err != nil {
			return &RowError{File: name, Line: line, Err: err}
		}
	}
}

func parseUnix(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("invalid unix timestamp %q", s)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)), nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts RFC 3339 and the space-separated pandas layout.
// Values without an offset are read in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
