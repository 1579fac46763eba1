// internal/domain/program.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramKind distinguishes the two program variants a user can be enrolled in.
type ProgramKind string

const (
	ProgramKindWeekly     ProgramKind = "weekly"
	ProgramKindStructured ProgramKind = "structured"
)

// ProgramKey identifies a program descriptor. The navigation index is rebuilt
// whenever the key of the active program changes.
type ProgramKey struct {
	Kind ProgramKind
	ID   primitive.ObjectID
}

// Program is the active-program descriptor. It is a closed sum type: the only
// implementations are WeeklyProgram and StructuredProgram, and callers switch
// over them exhaustively.
type Program interface {
	Kind() ProgramKind
	Key() ProgramKey
	isProgram()
}

// ProgramMeta is the nested program metadata returned with a descriptor.
// It is opaque to day resolution.
type ProgramMeta struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Difficulty  string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
}

// WeeklyProgram is a recurring 7-day routine pattern with no start date.
type WeeklyProgram struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Meta      ProgramMeta        `bson:"program" json:"program"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (WeeklyProgram) Kind() ProgramKind { return ProgramKindWeekly }

func (p WeeklyProgram) Key() ProgramKey {
	return ProgramKey{Kind: ProgramKindWeekly, ID: p.ID}
}

func (WeeklyProgram) isProgram() {}

// StructuredProgram is a user's progress record in a dated program of fixed
// length. ProgramID references the program template the routine assignments
// hang off; ID is the enrollment itself.
type StructuredProgram struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	ProgramID     primitive.ObjectID `bson:"programId" json:"programId"`
	Meta          ProgramMeta        `bson:"program" json:"program"`
	StartedAt     time.Time          `bson:"startedAt" json:"startedAt"`
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	CurrentWeek   int                `bson:"currentWeek" json:"currentWeek"` // advanced by the program store as days are completed
	CurrentDay    int                `bson:"currentDay" json:"currentDay"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (StructuredProgram) Kind() ProgramKind { return ProgramKindStructured }

// Key uses the enrollment ID, so restarting the same template yields a new key.
func (p StructuredProgram) Key() ProgramKey {
	return ProgramKey{Kind: ProgramKindStructured, ID: p.ID}
}

func (StructuredProgram) isProgram() {}

// ProgramName returns the display name of any program variant.
func ProgramName(p Program) string {
	switch prog := p.(type) {
	case WeeklyProgram:
		return prog.Meta.Name
	case StructuredProgram:
		return prog.Meta.Name
	default:
		return ""
	}
}
