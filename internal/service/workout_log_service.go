package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/schedule"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrRoutineRequired   = errors.New("routine id is required")
	ErrCompletedInFuture = errors.New("workout cannot be completed in the future")
	ErrInvalidDuration   = errors.New("duration cannot be negative")
)

// navigatorRefresher is notified after a write that changes completion.
type navigatorRefresher interface {
	RefreshUser(ctx context.Context, userID primitive.ObjectID)
}

// LogWorkoutInput describes a finished routine.
type LogWorkoutInput struct {
	RoutineID       primitive.ObjectID
	ProgramID       *primitive.ObjectID
	CompletedAt     time.Time // zero means now
	DurationMinutes int
	Notes           string
}

type WorkoutLogService interface {
	LogWorkout(ctx context.Context, userID primitive.ObjectID, in LogWorkoutInput) (*domain.WorkoutLog, error)
	// GetLogsForDate lists the user's logs on one calendar day. A zero date means today.
	GetLogsForDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WorkoutLog, error)
}

type workoutLogService struct {
	logs      repository.WorkoutLogRepository
	calendar  schedule.Calendar
	refresher navigatorRefresher
}

func NewWorkoutLogService(logs repository.WorkoutLogRepository, calendar schedule.Calendar, refresher navigatorRefresher) WorkoutLogService {
	return &workoutLogService{
		logs:      logs,
		calendar:  calendar,
		refresher: refresher,
	}
}

func (s *workoutLogService) LogWorkout(ctx context.Context, userID primitive.ObjectID, in LogWorkoutInput) (*domain.WorkoutLog, error) {
	if in.RoutineID.IsZero() {
		return nil, ErrRoutineRequired
	}
	if in.DurationMinutes < 0 {
		return nil, ErrInvalidDuration
	}
	now := s.calendar.Now()
	completedAt := in.CompletedAt
	if completedAt.IsZero() {
		completedAt = now
	}
	if completedAt.After(now) {
		return nil, ErrCompletedInFuture
	}

	entry := &domain.WorkoutLog{
		UserID:          userID,
		RoutineID:       in.RoutineID,
		ProgramID:       in.ProgramID,
		CompletedAt:     completedAt,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	}
	id, err := s.logs.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	log.Debugf("user %s logged routine %s", userID.Hex(), in.RoutineID.Hex())

	if s.refresher != nil {
		s.refresher.RefreshUser(ctx, userID)
	}
	return entry, nil
}

func (s *workoutLogService) GetLogsForDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.WorkoutLog, error) {
	day := s.calendar.Today()
	if !date.IsZero() {
		day = s.calendar.Day(date)
	}
	logs, err := s.logs.GetLogsForDate(ctx, userID, domain.BoundsOf(day))
	if err != nil {
		return nil, err
	}
	return logs, nil
}
