// internal/repository/mongo/workout_log_repo.go
package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new WorkoutLog repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// Create inserts a new workout log.
func (r *mongoWorkoutLogRepository) Create(ctx context.Context, workoutLog *domain.WorkoutLog) (primitive.ObjectID, error) {
	if workoutLog.UserID == primitive.NilObjectID || workoutLog.RoutineID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout log requires userId and routineId")
	}
	workoutLog.ID = primitive.NewObjectID()
	workoutLog.CreatedAt = time.Now().UTC()
	if workoutLog.CompletedAt.IsZero() {
		workoutLog.CompletedAt = workoutLog.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, workoutLog)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout log ID")
	}
	return insertedID, nil
}

// GetLogsForDate retrieves the user's logs completed inside the inclusive day bounds.
func (r *mongoWorkoutLogRepository) GetLogsForDate(ctx context.Context, userID primitive.ObjectID, day domain.DayBounds) ([]domain.WorkoutLog, error) {
	var logs []domain.WorkoutLog
	filter := bson.M{
		"userId": userID,
		"completedAt": bson.M{
			"$gte": day.Start.UTC(),
			"$lte": day.End.UTC(),
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Day lookups for the completion check
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
		return err
	}
	return nil
}
