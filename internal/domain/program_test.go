package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramName(t *testing.T) {
	tests := []struct {
		name    string
		program Program
		want    string
	}{
		{"weekly", WeeklyProgram{Meta: ProgramMeta{Name: "Weekly split"}}, "Weekly split"},
		{"structured", StructuredProgram{Meta: ProgramMeta{Name: "Strength 101"}}, "Strength 101"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgramName(tt.program))
		})
	}
}
