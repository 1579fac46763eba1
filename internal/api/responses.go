package api

import (
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/schedule"
	"alcyxob/fitness-tracker/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgramResponse struct {
	ID            string     `json:"id"`
	Kind          string     `json:"kind"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Difficulty    string     `json:"difficulty,omitempty"`
	TemplateID    string     `json:"templateId,omitempty"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	DurationWeeks int        `json:"durationWeeks,omitempty"`
	CurrentWeek   int        `json:"currentWeek,omitempty"`
	CurrentDay    int        `json:"currentDay,omitempty"`
}

type ScheduledRoutineResponse struct {
	AssignmentID       string `json:"assignmentId"`
	RoutineID          string `json:"routineId"`
	OrderInDay         int    `json:"orderInDay"`
	Name               string `json:"name,omitempty"`
	Type               string `json:"type,omitempty"`
	EstimatedMinutes   int    `json:"estimatedMinutes,omitempty"`
	ThumbnailURL       string `json:"thumbnailUrl,omitempty"`
	DetailsUnavailable bool   `json:"detailsUnavailable,omitempty"`
}

// ResolvedDayResponse is a resolved date. Scheduled is false when the user has
// no active program; every other field is then empty.
type ResolvedDayResponse struct {
	Date        string                     `json:"date"`
	Scheduled   bool                       `json:"scheduled"`
	Program     *ProgramResponse           `json:"program,omitempty"`
	WeekNumber  *int                       `json:"weekNumber,omitempty"`
	DayOfWeek   *int                       `json:"dayOfWeek,omitempty"` // 0 = Sunday
	Routines    []ScheduledRoutineResponse `json:"routines,omitempty"`
	IsRestDay   bool                       `json:"isRestDay,omitempty"`
	IsCompleted bool                       `json:"isCompleted"`
}

type ProgramDayResponse struct {
	Date       string `json:"date"`
	DayNumber  int    `json:"dayNumber"`
	WeekNumber *int   `json:"weekNumber,omitempty"`
	DayOfWeek  int    `json:"dayOfWeek"`
	IsToday    bool   `json:"isToday"`
	IsPast     bool   `json:"isPast"`
	IsFuture   bool   `json:"isFuture"`
}

type NavigatorResponse struct {
	SelectedDate    string               `json:"selectedDate"`
	CurrentIndex    int                  `json:"currentIndex"`
	IndexLength     int                  `json:"indexLength"`
	Entry           *ProgramDayResponse  `json:"entry,omitempty"`
	CanGoToPrevious bool                 `json:"canGoToPrevious"`
	CanGoToNext     bool                 `json:"canGoToNext"`
	Loading         bool                 `json:"loading"`
	Program         *ProgramResponse     `json:"program,omitempty"`
	Day             *ResolvedDayResponse `json:"day,omitempty"`
	Error           string               `json:"error,omitempty"`
	Notices         []string             `json:"notices,omitempty"`
}

type WorkoutLogResponse struct {
	ID              string    `json:"id"`
	RoutineID       string    `json:"routineId"`
	ProgramID       string    `json:"programId,omitempty"`
	CompletedAt     time.Time `json:"completedAt"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// MapProgramToResponse converts either program variant to its DTO.
func MapProgramToResponse(program domain.Program) *ProgramResponse {
	if program == nil {
		return nil
	}
	resp := &ProgramResponse{
		Kind: string(program.Kind()),
		Name: domain.ProgramName(program),
	}
	switch p := program.(type) {
	case domain.WeeklyProgram:
		resp.ID = p.ID.Hex()
		resp.Description = p.Meta.Description
		resp.Difficulty = p.Meta.Difficulty
	case domain.StructuredProgram:
		startedAt := p.StartedAt
		resp.ID = p.ID.Hex()
		resp.Description = p.Meta.Description
		resp.Difficulty = p.Meta.Difficulty
		resp.TemplateID = p.ProgramID.Hex()
		resp.StartedAt = &startedAt
		resp.DurationWeeks = p.DurationWeeks
		resp.CurrentWeek = p.CurrentWeek
		resp.CurrentDay = p.CurrentDay
	default:
		return nil
	}
	return resp
}

// MapResolvedDayToResponse converts a resolution. day may be nil, which
// renders as an unscheduled date.
func MapResolvedDayToResponse(date time.Time, day *domain.ResolvedDay, thumbnails map[primitive.ObjectID]string) ResolvedDayResponse {
	if day == nil {
		return ResolvedDayResponse{Date: domain.FormatDate(date)}
	}

	dow := int(day.DayOfWeek)
	resp := ResolvedDayResponse{
		Date:        domain.FormatDate(day.Date),
		Scheduled:   true,
		Program:     MapProgramToResponse(day.Program),
		WeekNumber:  day.WeekNumber,
		DayOfWeek:   &dow,
		Routines:    make([]ScheduledRoutineResponse, len(day.Routines)),
		IsRestDay:   len(day.Routines) == 0,
		IsCompleted: day.IsCompleted,
	}
	for i, r := range day.Routines {
		routine := ScheduledRoutineResponse{
			AssignmentID:       r.Assignment.ID.Hex(),
			RoutineID:          r.Assignment.RoutineID.Hex(),
			OrderInDay:         r.Assignment.OrderInDay,
			DetailsUnavailable: r.DetailsUnavailable,
		}
		if r.Detail != nil {
			routine.Name = r.Detail.Name
			routine.Type = r.Detail.Type
			routine.EstimatedMinutes = r.Detail.EstimatedMinutes
			routine.ThumbnailURL = thumbnails[r.Detail.ID]
		}
		resp.Routines[i] = routine
	}
	return resp
}

func MapProgramDayToResponse(d domain.ProgramDay) ProgramDayResponse {
	return ProgramDayResponse{
		Date:       domain.FormatDate(d.Date),
		DayNumber:  d.DayNumber,
		WeekNumber: d.WeekNumber,
		DayOfWeek:  int(d.DayOfWeek),
		IsToday:    d.IsToday,
		IsPast:     d.IsPast,
		IsFuture:   d.IsFuture,
	}
}

func MapProgramDaysToResponse(days []domain.ProgramDay) []ProgramDayResponse {
	responses := make([]ProgramDayResponse, len(days))
	for i, d := range days {
		responses[i] = MapProgramDayToResponse(d)
	}
	return responses
}

func MapNavigatorToResponse(view *service.NavigatorView) NavigatorResponse {
	state := view.State
	resp := NavigatorResponse{
		SelectedDate:    domain.FormatDate(state.SelectedDate),
		CurrentIndex:    state.CurrentIndex,
		IndexLength:     state.IndexLength,
		CanGoToPrevious: state.CanGoToPrevious,
		CanGoToNext:     state.CanGoToNext,
		Loading:         state.Loading,
		Program:         MapProgramToResponse(state.Program),
	}
	if state.Entry != nil {
		entry := MapProgramDayToResponse(*state.Entry)
		resp.Entry = &entry
	}
	if state.Day != nil {
		day := MapResolvedDayToResponse(state.Day.Date, state.Day, view.ThumbnailURLs)
		resp.Day = &day
	}
	if state.Err != nil {
		resp.Error = errorMessage(state.Err)
	}
	for _, n := range view.Notices {
		resp.Notices = append(resp.Notices, n.Message)
	}
	return resp
}

func MapWorkoutLogToResponse(l *domain.WorkoutLog) WorkoutLogResponse {
	resp := WorkoutLogResponse{
		ID:              l.ID.Hex(),
		RoutineID:       l.RoutineID.Hex(),
		CompletedAt:     l.CompletedAt,
		DurationMinutes: l.DurationMinutes,
		Notes:           l.Notes,
	}
	if l.ProgramID != nil {
		resp.ProgramID = l.ProgramID.Hex()
	}
	return resp
}

func MapWorkoutLogsToResponse(logs []domain.WorkoutLog) []WorkoutLogResponse {
	responses := make([]WorkoutLogResponse, len(logs))
	for i := range logs {
		responses[i] = MapWorkoutLogToResponse(&logs[i])
	}
	return responses
}

// errorMessage is the client-facing text for a resolution failure.
func errorMessage(err error) string {
	if schedule.IsTransient(err) {
		return "Temporarily unable to load your program. Please retry."
	}
	return "Something went wrong while loading your program."
}
