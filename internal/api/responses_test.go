package api

import (
	"testing"
	"time"

	"alcyxob/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMapProgramToResponse(t *testing.T) {
	assert.Nil(t, MapProgramToResponse(nil))

	weekly := domain.WeeklyProgram{
		ID:   primitive.NewObjectID(),
		Meta: domain.ProgramMeta{Name: "Weekly split", Difficulty: "beginner"},
	}
	resp := MapProgramToResponse(weekly)
	require.NotNil(t, resp)
	assert.Equal(t, weekly.ID.Hex(), resp.ID)
	assert.Equal(t, "weekly", resp.Kind)
	assert.Equal(t, "Weekly split", resp.Name)
	assert.Equal(t, "beginner", resp.Difficulty)
	assert.Nil(t, resp.StartedAt)

	structured := domain.StructuredProgram{
		ID:            primitive.NewObjectID(),
		ProgramID:     primitive.NewObjectID(),
		StartedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DurationWeeks: 4,
		Meta:          domain.ProgramMeta{Name: "Strength 101"},
	}
	resp = MapProgramToResponse(structured)
	require.NotNil(t, resp)
	assert.Equal(t, "Strength 101", resp.Name)
	assert.Equal(t, structured.ProgramID.Hex(), resp.TemplateID)
	require.NotNil(t, resp.StartedAt)
	assert.Equal(t, structured.StartedAt, *resp.StartedAt)
	assert.Equal(t, 4, resp.DurationWeeks)
}
