package schedule

import (
	"time"

	"alcyxob/fitness-tracker/internal/domain"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Calendar pins "today" and calendar-day arithmetic to one location.
type Calendar struct {
	clock Clock
	loc   *time.Location
}

func NewCalendar(clock Clock, loc *time.Location) Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{clock: clock, loc: loc}
}

// Location returns the calendar's time zone.
func (c Calendar) Location() *time.Location { return c.loc }

// Today returns midnight of the current calendar day.
func (c Calendar) Today() time.Time {
	return domain.CalendarDay(c.clock.Now(), c.loc)
}

// Day truncates t to midnight of its calendar day.
func (c Calendar) Day(t time.Time) time.Time {
	return domain.CalendarDay(t, c.loc)
}

// Now returns the current instant in the calendar's location.
func (c Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc)
}
