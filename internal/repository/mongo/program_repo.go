// internal/repository/mongo/program_repo.go
package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	structuredProgressCollectionName = "program_progress"
	weeklyProgramCollectionName      = "weekly_programs"
)

// mongoProgramRepository implements repository.ProgramRepository
type mongoProgramRepository struct {
	progress *mongo.Collection
	weekly   *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		progress: db.Collection(structuredProgressCollectionName),
		weekly:   db.Collection(weeklyProgramCollectionName),
	}
}

// GetActiveStructuredProgram returns the user's active structured program
// progress record. If the data holds more than one active record the most
// recently started one wins.
func (r *mongoProgramRepository) GetActiveStructuredProgram(ctx context.Context, userID primitive.ObjectID) (*domain.StructuredProgram, error) {
	var program domain.StructuredProgram
	filter := bson.M{"userId": userID, "isActive": true}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})

	err := r.progress.FindOne(ctx, filter, findOptions).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetActiveWeeklyProgram returns the user's active weekly program.
func (r *mongoProgramRepository) GetActiveWeeklyProgram(ctx context.Context, userID primitive.ObjectID) (*domain.WeeklyProgram, error) {
	var program domain.WeeklyProgram
	filter := bson.M{"userId": userID, "isActive": true}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	err := r.weekly.FindOne(ctx, filter, findOptions).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// EnsureProgramIndexes creates the indexes behind the active-program lookups.
func EnsureProgramIndexes(ctx context.Context, db *mongo.Database) error {
	progressIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	weeklyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := db.Collection(structuredProgressCollectionName).Indexes().CreateMany(ctx, progressIndexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", structuredProgressCollectionName, err)
		return err
	}
	if _, err := db.Collection(weeklyProgramCollectionName).Indexes().CreateMany(ctx, weeklyIndexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", weeklyProgramCollectionName, err)
		return err
	}
	return nil
}
