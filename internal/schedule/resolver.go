package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActiveProgramResolver turns (user, date) into the routines scheduled for
// that date under the user's active program.
type ActiveProgramResolver struct {
	programs    repository.ProgramRepository
	assignments repository.AssignmentRepository
	routines    repository.RoutineRepository
	completion  *CompletionResolver
	calendar    Calendar
	metrics     *metrics.Manager
}

func NewActiveProgramResolver(
	programs repository.ProgramRepository,
	assignments repository.AssignmentRepository,
	routines repository.RoutineRepository,
	logs repository.WorkoutLogRepository,
	calendar Calendar,
	metricsManager *metrics.Manager,
) *ActiveProgramResolver {
	return &ActiveProgramResolver{
		programs:    programs,
		assignments: assignments,
		routines:    routines,
		completion:  NewCompletionResolver(logs),
		calendar:    calendar,
		metrics:     metricsManager,
	}
}

// Calendar returns the calendar "today" is evaluated against.
func (r *ActiveProgramResolver) Calendar() Calendar { return r.calendar }

// ActiveProgram returns the user's active program, or nil when there is none.
// A structured program always wins over a weekly one; if both are marked
// active the weekly program is never consulted.
func (r *ActiveProgramResolver) ActiveProgram(ctx context.Context, userID primitive.ObjectID) (domain.Program, error) {
	structured, err := r.programs.GetActiveStructuredProgram(ctx, userID)
	switch {
	case err == nil:
		return *structured, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, readError("get active structured program", err)
	}

	weekly, err := r.programs.GetActiveWeeklyProgram(ctx, userID)
	switch {
	case err == nil:
		return *weekly, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil
	default:
		return nil, readError("get active weekly program", err)
	}
}

// ResolveForDate resolves target against the user's active program. It
// returns (nil, nil) when the user has no active program; that is a normal
// "nothing scheduled" state, not a failure. Read failures come back as a
// *ReadError matching ErrTransientRead.
func (r *ActiveProgramResolver) ResolveForDate(ctx context.Context, userID primitive.ObjectID, target time.Time) (*domain.ResolvedDay, error) {
	started := time.Now()

	program, err := r.ActiveProgram(ctx, userID)
	if err != nil {
		r.metrics.ObserveResolution(metrics.OutcomeError, time.Since(started).Seconds())
		return nil, err
	}
	if program == nil {
		r.metrics.ObserveResolution(metrics.OutcomeNone, time.Since(started).Seconds())
		return nil, nil
	}

	day, err := r.ResolveProgramDay(ctx, userID, program, target)
	if err != nil {
		r.metrics.ObserveResolution(metrics.OutcomeError, time.Since(started).Seconds())
		return nil, err
	}
	r.metrics.ObserveResolution(metrics.OutcomeScheduled, time.Since(started).Seconds())
	return day, nil
}

// ResolveProgramDay resolves target against an already fetched program descriptor.
func (r *ActiveProgramResolver) ResolveProgramDay(ctx context.Context, userID primitive.ObjectID, program domain.Program, target time.Time) (*domain.ResolvedDay, error) {
	target = r.calendar.Day(target)

	day := &domain.ResolvedDay{
		Date:     target,
		Kind:     program.Kind(),
		Program:  program,
		Routines: []domain.ScheduledRoutine{},
	}

	var (
		programID  primitive.ObjectID
		weekNumber *int
	)
	switch p := program.(type) {
	case domain.StructuredProgram:
		coords, ok := ResolveCoordinates(p, target, r.calendar.Today())
		if !ok {
			// Before the start date the program is active but nothing is scheduled
			day.DayOfWeek = target.Weekday()
			return day, nil
		}
		programID = p.ProgramID
		weekNumber = &coords.WeekNumber
		day.WeekNumber = weekNumber
		day.DayOfWeek = coords.DayOfWeek
	case domain.WeeklyProgram:
		programID = p.ID
		day.DayOfWeek = WeeklyDayOfWeek(target)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownProgramKind, program)
	}

	assignments, err := r.assignments.GetAssignments(ctx, programID, weekNumber, day.DayOfWeek)
	if err != nil {
		return nil, readError("get routine assignments", err)
	}
	if len(assignments) == 0 {
		// Rest day
		return day, nil
	}

	routineIDs := domain.RoutineIDs(assignments)
	day.Routines = r.joinRoutineDetails(ctx, assignments, routineIDs)

	completed, err := r.completion.IsCompleted(ctx, userID, target, routineIDs)
	if err != nil {
		return nil, err
	}
	day.IsCompleted = completed
	return day, nil
}

// joinRoutineDetails attaches routine details to assignments. A failed detail
// read degrades to assignments marked DetailsUnavailable instead of failing
// the whole day.
func (r *ActiveProgramResolver) joinRoutineDetails(ctx context.Context, assignments []domain.RoutineAssignment, routineIDs []primitive.ObjectID) []domain.ScheduledRoutine {
	scheduled := make([]domain.ScheduledRoutine, len(assignments))
	for i, a := range assignments {
		scheduled[i] = domain.ScheduledRoutine{Assignment: a}
	}

	details, err := r.routines.GetRoutineDetails(ctx, routineIDs)
	if err != nil {
		log.WithError(err).Warnf("routine details unavailable for %d routines", len(routineIDs))
		for i := range scheduled {
			scheduled[i].DetailsUnavailable = true
		}
		return scheduled
	}

	byID := make(map[primitive.ObjectID]domain.RoutineDetail, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}
	for i := range scheduled {
		if d, ok := byID[scheduled[i].Assignment.RoutineID]; ok {
			detail := d
			scheduled[i].Detail = &detail
		} else {
			scheduled[i].DetailsUnavailable = true
		}
	}
	return scheduled
}
