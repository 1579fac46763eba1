package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLog records a routine the user finished.
type WorkoutLog struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	RoutineID       primitive.ObjectID  `bson:"routineId" json:"routineId"`
	ProgramID       *primitive.ObjectID `bson:"programId,omitempty" json:"programId,omitempty"`
	CompletedAt     time.Time           `bson:"completedAt" json:"completedAt"`
	DurationMinutes int                 `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}
