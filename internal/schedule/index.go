package schedule

import (
	"fmt"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
)

// BuildIndex returns the navigable days of program. Weekly programs get the
// current Monday-to-Sunday week; structured programs get DurationWeeks*7 days
// from their start date. today is a calendar day and fixes the location of
// every entry. The index reads only immutable descriptor fields, never
// CurrentWeek/CurrentDay.
func BuildIndex(program domain.Program, today time.Time) ([]domain.ProgramDay, error) {
	switch p := program.(type) {
	case domain.WeeklyProgram:
		return buildDays(domain.MondayOf(today), 7, today, false), nil
	case domain.StructuredProgram:
		if p.DurationWeeks <= 0 {
			return []domain.ProgramDay{}, nil
		}
		start := domain.CalendarDay(p.StartedAt, today.Location())
		return buildDays(start, p.DurationWeeks*7, today, true), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownProgramKind, program)
	}
}

func buildDays(start time.Time, n int, today time.Time, numberWeeks bool) []domain.ProgramDay {
	days := make([]domain.ProgramDay, n)
	for i := range n {
		date := start.AddDate(0, 0, i)
		diff := domain.DaysBetween(today, date)
		days[i] = domain.ProgramDay{
			Date:      date,
			DayNumber: i + 1,
			DayOfWeek: date.Weekday(),
			IsToday:   diff == 0,
			IsPast:    diff < 0,
			IsFuture:  diff > 0,
		}
		if numberWeeks {
			week := i/7 + 1
			days[i].WeekNumber = &week
		}
	}
	return days
}

// IndexOf returns the position of day in index, or -1.
func IndexOf(index []domain.ProgramDay, day time.Time) int {
	for i := range index {
		if domain.SameDay(index[i].Date, day) {
			return i
		}
	}
	return -1
}
