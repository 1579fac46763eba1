package schedule

import (
	"time"

	"alcyxob/fitness-tracker/internal/domain"
)

// Coordinates locate a calendar date inside a structured program.
type Coordinates struct {
	WeekNumber int
	DayOfWeek  time.Weekday
}

// ResolveCoordinates maps target onto program-relative coordinates. It
// returns false when target precedes the program start. target and today are
// calendar days in the same location.
//
// For today the persisted CurrentWeek wins when set; the program store
// advances it as days are completed. Every other date is derived from
// StartedAt alone. After missed days the two disagree, so paging from
// yesterday to today can move the week number backwards.
func ResolveCoordinates(program domain.StructuredProgram, target, today time.Time) (Coordinates, bool) {
	start := domain.CalendarDay(program.StartedAt, target.Location())
	daysDiff := domain.DaysBetween(start, target)
	if daysDiff < 0 {
		return Coordinates{}, false
	}

	week := daysDiff/7 + 1
	if domain.SameDay(target, today) && program.CurrentWeek >= 1 {
		week = program.CurrentWeek
	}

	return Coordinates{
		WeekNumber: week,
		DayOfWeek:  target.Weekday(),
	}, true
}

// WeeklyDayOfWeek is the only coordinate of a weekly program: the calendar weekday.
func WeeklyDayOfWeek(target time.Time) time.Weekday {
	return target.Weekday()
}
