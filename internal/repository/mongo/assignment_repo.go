package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assignmentCollectionName = "program_routines"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// assignmentFilter builds the day filter. Weekly programs repeat the same
// pattern every week, so their filter carries no week number.
func assignmentFilter(programID primitive.ObjectID, weekNumber *int, dayOfWeek time.Weekday) bson.M {
	filter := bson.M{
		"programId": programID,
		"dayOfWeek": int(dayOfWeek),
	}
	if weekNumber != nil {
		filter["weekNumber"] = *weekNumber
	}
	return filter
}

// GetAssignments retrieves the routines placed on one program day, ordered within the day.
func (r *mongoAssignmentRepository) GetAssignments(ctx context.Context, programID primitive.ObjectID, weekNumber *int, dayOfWeek time.Weekday) ([]domain.RoutineAssignment, error) {
	var assignments []domain.RoutineAssignment
	findOptions := options.Find().SetSort(bson.D{{Key: "orderInDay", Value: 1}})

	cursor, err := r.collection.Find(ctx, assignmentFilter(programID, weekNumber, dayOfWeek), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	// Rest days come back as an empty slice, not an error
	return assignments, nil
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Covers both the weekly (programId, dayOfWeek) and the structured
			// (programId, weekNumber, dayOfWeek) lookups
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "dayOfWeek", Value: 1}, {Key: "weekNumber", Value: 1}, {Key: "orderInDay", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
		return err
	}
	return nil
}
