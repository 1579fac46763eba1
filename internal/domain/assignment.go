package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineAssignment places a routine on a program day. Weekly programs leave
// WeekNumber unset. Several assignments may share a day; OrderInDay sorts them.
type RoutineAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID  primitive.ObjectID `bson:"programId" json:"programId"`
	WeekNumber *int               `bson:"weekNumber,omitempty" json:"weekNumber,omitempty"`
	DayOfWeek  time.Weekday       `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday
	RoutineID  primitive.ObjectID `bson:"routineId" json:"routineId"`
	OrderInDay int                `bson:"orderInDay" json:"orderInDay"`
}

// RoutineIDs returns the distinct routine IDs referenced by the assignments,
// in first-seen order.
func RoutineIDs(assignments []RoutineAssignment) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(assignments))
	ids := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.RoutineID]; ok {
			continue
		}
		seen[a.RoutineID] = struct{}{}
		ids = append(ids, a.RoutineID)
	}
	return ids
}
