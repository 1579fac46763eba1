package repository

import (
	"alcyxob/fitness-tracker/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ProgramRepository reads the user's active program descriptors.
// Both getters return ErrNotFound when the user has no active program of that kind.
// Starting, pausing and advancing programs happen outside this service.
type ProgramRepository interface {
	GetActiveStructuredProgram(ctx context.Context, userID primitive.ObjectID) (*domain.StructuredProgram, error)
	GetActiveWeeklyProgram(ctx context.Context, userID primitive.ObjectID) (*domain.WeeklyProgram, error)
}

// AssignmentRepository reads the routines placed on program days.
type AssignmentRepository interface {
	// GetAssignments returns the assignments of one program day ordered by
	// OrderInDay. A nil weekNumber selects weekly-program assignments.
	GetAssignments(ctx context.Context, programID primitive.ObjectID, weekNumber *int, dayOfWeek time.Weekday) ([]domain.RoutineAssignment, error)
}

// RoutineRepository reads routine display records.
type RoutineRepository interface {
	// GetRoutineDetails fetches the given routines in one round-trip.
	// Unknown IDs are skipped, not reported as errors.
	GetRoutineDetails(ctx context.Context, routineIDs []primitive.ObjectID) ([]domain.RoutineDetail, error)
}

// WorkoutLogRepository stores and reads logged workouts.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	// GetLogsForDate returns the user's logs whose completion time falls
	// inside the inclusive bounds of one calendar day.
	GetLogsForDate(ctx context.Context, userID primitive.ObjectID, day domain.DayBounds) ([]domain.WorkoutLog, error)
}
