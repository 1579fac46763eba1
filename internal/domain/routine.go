// internal/domain/routine.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineDetail is the display record of a routine.
type RoutineDetail struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Type             string             `bson:"type,omitempty" json:"type,omitempty"` // e.g., "strength", "cardio", "mobility"
	EstimatedMinutes int                `bson:"estimatedMinutes,omitempty" json:"estimatedMinutes,omitempty"`
	ThumbnailKey     string             `bson:"thumbnailKey,omitempty" json:"thumbnailKey,omitempty"` // object key in the media bucket
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
