package schedule

import (
	"context"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionResolver decides whether a day's routines have been logged.
type CompletionResolver struct {
	logs repository.WorkoutLogRepository
}

func NewCompletionResolver(logs repository.WorkoutLogRepository) *CompletionResolver {
	return &CompletionResolver{logs: logs}
}

// IsCompleted reports whether any workout the user logged on day references
// one of routineIDs. The query is bounded by the explicit start and end of the
// calendar day in day's location.
func (c *CompletionResolver) IsCompleted(ctx context.Context, userID primitive.ObjectID, day time.Time, routineIDs []primitive.ObjectID) (bool, error) {
	if len(routineIDs) == 0 {
		return false, nil
	}

	logs, err := c.logs.GetLogsForDate(ctx, userID, domain.BoundsOf(day))
	if err != nil {
		return false, readError("get workout logs", err)
	}

	wanted := make(map[primitive.ObjectID]struct{}, len(routineIDs))
	for _, id := range routineIDs {
		wanted[id] = struct{}{}
	}
	for _, l := range logs {
		if _, ok := wanted[l.RoutineID]; ok {
			return true, nil
		}
	}
	return false, nil
}
