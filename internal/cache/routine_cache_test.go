package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type routineRepoMock struct {
	details map[primitive.ObjectID]domain.RoutineDetail
	err     error
	calls   [][]primitive.ObjectID
}

func (m *routineRepoMock) GetRoutineDetails(_ context.Context, ids []primitive.ObjectID) ([]domain.RoutineDetail, error) {
	m.calls = append(m.calls, ids)
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.RoutineDetail
	for _, id := range ids {
		if d, ok := m.details[id]; ok {
			result = append(result, d)
		}
	}
	return result, nil
}

func newRoutine(name string) domain.RoutineDetail {
	return domain.RoutineDetail{
		ID:               primitive.NewObjectID(),
		Name:             name,
		EstimatedMinutes: 45,
		CreatedAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestRoutineCache_ReadThrough(t *testing.T) {
	squat := newRoutine("Squat")
	bench := newRoutine("Bench")
	repo := &routineRepoMock{details: map[primitive.ObjectID]domain.RoutineDetail{squat.ID: squat, bench.ID: bench}}
	m := metrics.NewTestManager()
	c := NewRoutineCache(repo, 1, time.Minute, m)

	got, err := c.GetRoutineDetails(context.Background(), []primitive.ObjectID{squat.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, squat, got[0])

	got, err = c.GetRoutineDetails(context.Background(), []primitive.ObjectID{bench.ID, squat.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bench", got[0].Name)
	assert.Equal(t, "Squat", got[1].Name)

	require.Len(t, repo.calls, 2)
	assert.Equal(t, []primitive.ObjectID{bench.ID}, repo.calls[1], "cached routines are not fetched again")
	assert.Equal(t, int64(2), c.EntryCount())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRoutineCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterRoutineCache.WithLabelValues("miss")))
}

func TestRoutineCache_AllCached(t *testing.T) {
	squat := newRoutine("Squat")
	repo := &routineRepoMock{details: map[primitive.ObjectID]domain.RoutineDetail{squat.ID: squat}}
	c := NewRoutineCache(repo, 1, time.Minute, nil)

	_, err := c.GetRoutineDetails(context.Background(), []primitive.ObjectID{squat.ID})
	require.NoError(t, err)

	repo.err = errors.New("must not be called")
	got, err := c.GetRoutineDetails(context.Background(), []primitive.ObjectID{squat.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRoutineCache_UnknownRoutineIsAbsent(t *testing.T) {
	repo := &routineRepoMock{details: map[primitive.ObjectID]domain.RoutineDetail{}}
	c := NewRoutineCache(repo, 1, time.Minute, nil)

	got, err := c.GetRoutineDetails(context.Background(), []primitive.ObjectID{primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, c.EntryCount())
}

func TestRoutineCache_RepositoryError(t *testing.T) {
	storeErr := errors.New("cursor killed")
	c := NewRoutineCache(&routineRepoMock{err: storeErr}, 1, time.Minute, nil)

	_, err := c.GetRoutineDetails(context.Background(), []primitive.ObjectID{primitive.NewObjectID()})
	assert.ErrorIs(t, err, storeErr)
}

func TestRoutineCache_Empty(t *testing.T) {
	repo := &routineRepoMock{}
	c := NewRoutineCache(repo, 0, 0, nil)

	got, err := c.GetRoutineDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, repo.calls)
}
