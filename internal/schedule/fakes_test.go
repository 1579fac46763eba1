package schedule

import (
	"context"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type programsMock struct {
	structured    *domain.StructuredProgram
	weekly        *domain.WeeklyProgram
	structuredErr error
	weeklyErr     error
	weeklyCalls   int
}

func (m *programsMock) GetActiveStructuredProgram(_ context.Context, _ primitive.ObjectID) (*domain.StructuredProgram, error) {
	if m.structuredErr != nil {
		return nil, m.structuredErr
	}
	if m.structured == nil {
		return nil, repository.ErrNotFound
	}
	return m.structured, nil
}

func (m *programsMock) GetActiveWeeklyProgram(_ context.Context, _ primitive.ObjectID) (*domain.WeeklyProgram, error) {
	m.weeklyCalls++
	if m.weeklyErr != nil {
		return nil, m.weeklyErr
	}
	if m.weekly == nil {
		return nil, repository.ErrNotFound
	}
	return m.weekly, nil
}

type assignmentsMock struct {
	assignments []domain.RoutineAssignment
	err         error
}

func (m *assignmentsMock) GetAssignments(_ context.Context, programID primitive.ObjectID, weekNumber *int, dayOfWeek time.Weekday) ([]domain.RoutineAssignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []domain.RoutineAssignment{}
	for _, a := range m.assignments {
		if a.ProgramID != programID || a.DayOfWeek != dayOfWeek {
			continue
		}
		if weekNumber != nil && (a.WeekNumber == nil || *a.WeekNumber != *weekNumber) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type routinesMock struct {
	details map[primitive.ObjectID]domain.RoutineDetail
	err     error
	calls   [][]primitive.ObjectID
}

func (m *routinesMock) GetRoutineDetails(_ context.Context, ids []primitive.ObjectID) ([]domain.RoutineDetail, error) {
	m.calls = append(m.calls, ids)
	if m.err != nil {
		return nil, m.err
	}
	result := []domain.RoutineDetail{}
	for _, id := range ids {
		if d, ok := m.details[id]; ok {
			result = append(result, d)
		}
	}
	return result, nil
}

type logsMock struct {
	logs       []domain.WorkoutLog
	err        error
	lastBounds domain.DayBounds
}

func (m *logsMock) Create(_ context.Context, l *domain.WorkoutLog) (primitive.ObjectID, error) {
	l.ID = primitive.NewObjectID()
	m.logs = append(m.logs, *l)
	return l.ID, nil
}

func (m *logsMock) GetLogsForDate(_ context.Context, userID primitive.ObjectID, day domain.DayBounds) ([]domain.WorkoutLog, error) {
	m.lastBounds = day
	if m.err != nil {
		return nil, m.err
	}
	result := []domain.WorkoutLog{}
	for _, l := range m.logs {
		if l.UserID == userID && !l.CompletedAt.Before(day.Start) && !l.CompletedAt.After(day.End) {
			result = append(result, l)
		}
	}
	return result, nil
}

func fixedCalendar(now time.Time) Calendar {
	return NewCalendar(ClockFunc(func() time.Time { return now }), now.Location())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekPtr(w int) *int { return &w }

// controlledResolver lets a test decide when, and in which order, each
// date's resolution completes.
type controlledResolver struct {
	mu        sync.Mutex
	program   domain.Program
	activeErr error
	pending   map[string]chan resolution
	started   chan string
}

type resolution struct {
	day *domain.ResolvedDay
	err error
}

func newControlledResolver(program domain.Program) *controlledResolver {
	return &controlledResolver{
		program: program,
		pending: make(map[string]chan resolution),
		started: make(chan string, 64),
	}
}

func (r *controlledResolver) channel(day time.Time) chan resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.FormatDate(day)
	ch, ok := r.pending[key]
	if !ok {
		ch = make(chan resolution, 1)
		r.pending[key] = ch
	}
	return ch
}

func (r *controlledResolver) ActiveProgram(_ context.Context, _ primitive.ObjectID) (domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeErr != nil {
		return nil, r.activeErr
	}
	return r.program, nil
}

func (r *controlledResolver) setProgram(program domain.Program, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = program
	r.activeErr = err
}

func (r *controlledResolver) ResolveForDate(ctx context.Context, _ primitive.ObjectID, target time.Time) (*domain.ResolvedDay, error) {
	ch := r.channel(target)
	r.started <- domain.FormatDate(target)
	select {
	case res := <-ch:
		return res.day, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// complete releases the resolution for day.
func (r *controlledResolver) complete(day time.Time, res resolution) {
	r.channel(day) <- res
}

// movableClock is a Clock a test can advance while navigator goroutines read it.
type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
