package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStore = errors.New("store unavailable")

type userRepoMock struct {
	users     map[string]*domain.User
	createErr error
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: map[string]*domain.User{}}
}

func (m *userRepoMock) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if m.createErr != nil {
		return primitive.NilObjectID, m.createErr
	}
	if _, ok := m.users[user.Email]; ok {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}
	stored := *user
	stored.ID = primitive.NewObjectID()
	m.users[user.Email] = &stored
	return stored.ID, nil
}

func (m *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (m *userRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeResolver answers immediately from in-memory state.
type fakeResolver struct {
	calendar schedule.Calendar

	mu           sync.Mutex
	program      domain.Program
	programErr   error
	failDates    map[string]error
	routines     []domain.ScheduledRoutine
	activeCalls  int
	resolveCalls int

	// When gate is set, ResolveForDate signals entered and blocks until gate
	// closes or ctx is done.
	gate    chan struct{}
	entered chan struct{}
}

func newFakeResolver(now time.Time, program domain.Program) *fakeResolver {
	return &fakeResolver{
		calendar:  schedule.NewCalendar(schedule.ClockFunc(func() time.Time { return now }), time.UTC),
		program:   program,
		failDates: map[string]error{},
	}
}

func (r *fakeResolver) Calendar() schedule.Calendar { return r.calendar }

func (r *fakeResolver) ActiveProgram(_ context.Context, _ primitive.ObjectID) (domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeCalls++
	if r.programErr != nil {
		return nil, r.programErr
	}
	return r.program, nil
}

func (r *fakeResolver) ResolveForDate(ctx context.Context, _ primitive.ObjectID, target time.Time) (*domain.ResolvedDay, error) {
	if r.gate != nil {
		r.entered <- struct{}{}
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolveCalls++
	if err, ok := r.failDates[domain.FormatDate(target)]; ok {
		return nil, err
	}
	if r.programErr != nil {
		return nil, r.programErr
	}
	if r.program == nil {
		return nil, nil
	}
	return &domain.ResolvedDay{
		Date:      target,
		Kind:      r.program.Kind(),
		Program:   r.program,
		DayOfWeek: target.Weekday(),
		Routines:  r.routines,
	}, nil
}

func (r *fakeResolver) calls() (active, resolve int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeCalls, r.resolveCalls
}

type mediaMock struct {
	failKeys map[string]bool
}

func (m *mediaMock) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if m.failKeys[objectKey] {
		return "", errors.New("presign failed")
	}
	return "https://media.example.com/" + objectKey + "?sig=1", nil
}

type workoutLogRepoMock struct {
	logs       []domain.WorkoutLog
	createErr  error
	lastBounds domain.DayBounds
}

func (m *workoutLogRepoMock) Create(_ context.Context, l *domain.WorkoutLog) (primitive.ObjectID, error) {
	if m.createErr != nil {
		return primitive.NilObjectID, m.createErr
	}
	id := primitive.NewObjectID()
	stored := *l
	stored.ID = id
	m.logs = append(m.logs, stored)
	return id, nil
}

func (m *workoutLogRepoMock) GetLogsForDate(_ context.Context, userID primitive.ObjectID, day domain.DayBounds) ([]domain.WorkoutLog, error) {
	m.lastBounds = day
	var result []domain.WorkoutLog
	for _, l := range m.logs {
		if l.UserID == userID && !l.CompletedAt.Before(day.Start) && !l.CompletedAt.After(day.End) {
			result = append(result, l)
		}
	}
	return result, nil
}

type refresherMock struct {
	refreshed []primitive.ObjectID
}

func (m *refresherMock) RefreshUser(_ context.Context, userID primitive.ObjectID) {
	m.refreshed = append(m.refreshed, userID)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
