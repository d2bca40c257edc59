// Package calday provides calendar-day identities and day ranges.
package calday

import (
	"errors"
	"fmt"
	"time"
)

const layout = "2006-01-02"

// ErrInvalidRange is returned when a range starts after it ends.
var ErrInvalidRange = errors.New("invalid day range")

// Day identifies a calendar day independent of time of day.
// The zero value is 1970-01-01. Days are comparable and ordered,
// so they can be used directly as map keys and sorted numerically.
type Day int32

// New returns the Day for the given civil date. Out-of-range months and
// days are normalized the same way time.Date normalizes them.
func New(year int, month time.Month, day int) Day {
	unix := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
	return Day(floorDiv(unix, 86400))
}

// Of truncates t to its calendar day as observed in loc.
// A nil loc means time.Local.
func Of(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return New(y, m, d)
}

// Parse reads a day in YYYY-MM-DD form.
func Parse(s string) (Day, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid day %q (expected YYYY-MM-DD): %w", s, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Date returns the civil date of the day.
func (d Day) Date() (year int, month time.Month, day int) {
	return d.UTC().Date()
}

// UTC returns midnight UTC of the day.
func (d Day) UTC() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// AddDays returns the day n days after d.
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool { return d < o }

// After reports whether d is strictly later than o.
func (d Day) After(o Day) bool { return d > o }

func (d Day) String() string {
	return d.UTC().Format(layout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range returns every day from start to end inclusive.
func Range(start, end Day) ([]Day, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, start, end)
	}
	days := make([]Day, 0, int(end-start)+1)
	for d := start; d <= end; d++ {
		days = append(days, d)
	}
	return days, nil
}

// Max returns the latest day in days and false when days is empty.
func Max(days []Day) (Day, bool) {
	if len(days) == 0 {
		return 0, false
	}
	out := days[0]
	for _, d := range days[1:] {
		if d > out {
			out = d
		}
	}
	return out, true
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
