package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, 7, DaysBetween(start, time.Date(2024, 1, 8, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(start, time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC)))

	// Across a DST change the result is still a whole number of days.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	before := time.Date(2024, 3, 9, 0, 0, 0, 0, ny)
	after := time.Date(2024, 3, 11, 0, 0, 0, 0, ny)
	assert.Equal(t, 2, DaysBetween(before, after))
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want time.Time
	}{
		{"monday", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(MondayOf(tt.day)))
		})
	}
}

func TestBoundsOf(t *testing.T) {
	day := time.Date(2024, 1, 8, 15, 30, 0, 0, time.UTC)
	b := BoundsOf(day)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), b.Start)
	assert.Equal(t, time.Date(2024, 1, 8, 23, 59, 59, 999999999, time.UTC), b.End)
}

func TestCalendarDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:00 UTC on Jan 7 is already Jan 8 in Tokyo.
	got := CalendarDay(time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC), tokyo)
	assert.Equal(t, "2024-01-08", FormatDate(got))
	assert.Equal(t, tokyo, got.Location())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-08", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = ParseDate("08/01/2024", time.UTC)
	assert.Error(t, err)
}

func TestRoutineIDs(t *testing.T) {
	a := RoutineAssignment{RoutineID: [12]byte{1}}
	b := RoutineAssignment{RoutineID: [12]byte{2}}
	ids := RoutineIDs([]RoutineAssignment{a, b, a})
	require.Len(t, ids, 2)
	assert.Equal(t, a.RoutineID, ids[0])
	assert.Equal(t, b.RoutineID, ids[1])
}
