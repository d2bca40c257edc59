package calday

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	early := time.Date(2024, time.October, 3, 0, 0, 0, 0, loc)
	late := time.Date(2024, time.October, 3, 23, 59, 59, 999, loc)
	require.Equal(t, Of(early, loc), Of(late, loc))
	require.Equal(t, New(2024, time.October, 3), Of(late, loc))
}

func TestOfUsesGivenLocation(t *testing.T) {
	// 23:30 UTC is already the next day one hour east.
	ts := time.Date(2024, time.October, 3, 23, 30, 0, 0, time.UTC)
	require.Equal(t, "2024-10-03", Of(ts, time.UTC).String())
	require.Equal(t, "2024-10-04", Of(ts, time.FixedZone("CET", 3600)).String())
}

func TestNewNormalizes(t *testing.T) {
	require.Equal(t, MustParse("2025-03-01"), New(2025, time.February, 29))
	require.Equal(t, MustParse("2024-01-01"), MustParse("2023-12-31").AddDays(1))
}

func TestPreEpochDays(t *testing.T) {
	d := New(1969, time.December, 31)
	require.Equal(t, Day(-1), d)
	require.Equal(t, "1969-12-31", d.String())
}

func TestRange(t *testing.T) {
	days, err := Range(MustParse("2024-02-27"), MustParse("2024-03-02"))
	require.NoError(t, err)
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	got := make([]string, len(days))
	for i, d := range days {
		got[i] = d.String()
	}
	require.Equal(t, want, got)
}

func TestRangeSingleDay(t *testing.T) {
	d := MustParse("2024-10-01")
	days, err := Range(d, d)
	require.NoError(t, err)
	require.Equal(t, []Day{d}, days)
}

func TestRangeRejectsReversedBounds(t *testing.T) {
	days, err := Range(MustParse("2024-10-02"), MustParse("2024-10-01"))
	require.Nil(t, days)
	require.True(t, errors.Is(err, ErrInvalidRange))
}

func TestRangeAcrossDSTIsContiguous(t *testing.T) {
	days, err := Range(MustParse("2024-03-30"), MustParse("2024-04-01"))
	require.NoError(t, err)
	require.Len(t, days, 3)
	for i := 1; i < len(days); i++ {
		require.Equal(t, days[i-1]+1, days[i])
	}
}

func TestMax(t *testing.T) {
	_, ok := Max(nil)
	require.False(t, ok)
	got, ok := Max([]Day{MustParse("2024-10-05"), MustParse("2025-01-01"), MustParse("2024-12-31")})
	require.True(t, ok)
	require.Equal(t, "2025-01-01", got.String())
}

func TestJSONRoundTrip(t *testing.T) {
	in := struct {
		Day Day `json:"day"`
	}{Day: MustParse("2024-10-01")}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"day":"2024-10-01"}`, string(b))

	var out struct {
		Day Day `json:"day"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, in.Day, out.Day)
}

func TestParseError(t *testing.T) {
	_, err := Parse("10/01/2024")
	require.Error(t, err)
}
