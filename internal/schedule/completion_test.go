package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompletionResolver_IsCompleted(t *testing.T) {
	userID := primitive.NewObjectID()
	routineA := primitive.NewObjectID()
	routineB := primitive.NewObjectID()
	other := primitive.NewObjectID()
	day := date(2024, 1, 8)

	tests := []struct {
		name string
		logs []domain.WorkoutLog
		want bool
	}{
		{
			name: "logged one of the assigned routines",
			logs: []domain.WorkoutLog{{UserID: userID, RoutineID: routineB, CompletedAt: day.Add(18 * time.Hour)}},
			want: true,
		},
		{
			name: "logged an unrelated routine",
			logs: []domain.WorkoutLog{{UserID: userID, RoutineID: other, CompletedAt: day.Add(9 * time.Hour)}},
			want: false,
		},
		{
			name: "logged the routine on another day",
			logs: []domain.WorkoutLog{{UserID: userID, RoutineID: routineA, CompletedAt: day.AddDate(0, 0, 1)}},
			want: false,
		},
		{
			name: "another user logged the routine",
			logs: []domain.WorkoutLog{{UserID: primitive.NewObjectID(), RoutineID: routineA, CompletedAt: day}},
			want: false,
		},
		{
			name: "logged at the last instant of the day",
			logs: []domain.WorkoutLog{{UserID: userID, RoutineID: routineA, CompletedAt: day.Add(24*time.Hour - time.Nanosecond)}},
			want: true,
		},
		{
			name: "nothing logged",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := &logsMock{logs: tt.logs}
			resolver := NewCompletionResolver(logs)

			got, err := resolver.IsCompleted(context.Background(), userID, day, []primitive.ObjectID{routineA, routineB})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompletionResolver_QueriesInclusiveDayBounds(t *testing.T) {
	logs := &logsMock{}
	resolver := NewCompletionResolver(logs)
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	_, err := resolver.IsCompleted(context.Background(), primitive.NewObjectID(), day, []primitive.ObjectID{primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Equal(t, day, logs.lastBounds.Start)
	assert.Equal(t, day.AddDate(0, 0, 1).Add(-time.Nanosecond), logs.lastBounds.End)
}

func TestCompletionResolver_NoRoutinesSkipsQuery(t *testing.T) {
	logs := &logsMock{err: errors.New("must not be called")}
	resolver := NewCompletionResolver(logs)

	got, err := resolver.IsCompleted(context.Background(), primitive.NewObjectID(), date(2024, 1, 8), nil)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCompletionResolver_ReadFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	resolver := NewCompletionResolver(&logsMock{err: storeErr})

	_, err := resolver.IsCompleted(context.Background(), primitive.NewObjectID(), date(2024, 1, 8), []primitive.ObjectID{primitive.NewObjectID()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransientRead)
	assert.ErrorIs(t, err, storeErr)
}
