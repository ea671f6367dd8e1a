package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeChoice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		choices []string
		want    string
	}{
		{"free text bachelor", "i have a Bachelor degree", PriorEducations, "BACHELOR"},
		{"lowercase exact", "phd", PriorEducations, "PHD"},
		{"plural masters", "Masters", PriorEducations, "MASTER"},
		{"no education wins over nothing", "No Education at all", PriorEducations, "NO EDUCATION"},
		{"high school", "finished high school in 2019", PriorEducations, "HIGH SCHOOL"},
		{"unmatched left unchanged", "kindergarten", PriorEducations, "kindergarten"},
		{"empty left unchanged", "", PriorEducations, ""},
		{"target program", "a master programme", TargetPrograms, "MASTER"},
		{"status with space", "under review", ApplicationStatuses, "UNDER REVIEW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeChoice(tt.input, tt.choices))
		})
	}
}

func TestIsChoice(t *testing.T) {
	assert.True(t, IsChoice("BACHELOR", TargetPrograms))
	assert.False(t, IsChoice("bachelor", TargetPrograms))
	assert.False(t, IsChoice("HIGH SCHOOL", TargetPrograms))
}
