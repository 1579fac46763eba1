package domain

import (
	"time"
)

// ScheduledRoutine is an assignment joined with its routine detail. When the
// detail lookup failed the assignment is still returned, with
// DetailsUnavailable set and Detail nil.
type ScheduledRoutine struct {
	Assignment         RoutineAssignment `json:"assignment"`
	Detail             *RoutineDetail    `json:"detail,omitempty"`
	DetailsUnavailable bool              `json:"detailsUnavailable,omitempty"`
}

// ResolvedDay is the outcome of resolving one calendar date against the
// user's active program.
type ResolvedDay struct {
	Date        time.Time
	Kind        ProgramKind
	Program     Program
	WeekNumber  *int // nil for weekly programs
	DayOfWeek   time.Weekday
	Routines    []ScheduledRoutine
	IsCompleted bool
}

// ProgramDay is one entry of the navigation index. Routines and completion are
// not part of the entry; they are resolved for the selected day only.
type ProgramDay struct {
	Date       time.Time    `json:"date"`
	DayNumber  int          `json:"dayNumber"` // 1-based
	WeekNumber *int         `json:"weekNumber,omitempty"`
	DayOfWeek  time.Weekday `json:"dayOfWeek"`
	IsToday    bool         `json:"isToday"`
	IsPast     bool         `json:"isPast"`
	IsFuture   bool         `json:"isFuture"`
}
