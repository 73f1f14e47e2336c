package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{JobStatusPending, JobStatusOpen, true},
		{JobStatusPending, JobStatusCancelled, true},
		{JobStatusOpen, JobStatusAssigned, true},
		{JobStatusOpen, JobStatusCancelled, true},
		{JobStatusAssigned, JobStatusCompleted, true},
		{JobStatusAssigned, JobStatusCancelled, true},

		{JobStatusPending, JobStatusAssigned, false},
		{JobStatusOpen, JobStatusCompleted, false},
		{JobStatusCompleted, JobStatusCancelled, false},
		{JobStatusCancelled, JobStatusOpen, false},
		{JobStatusCompleted, JobStatusOpen, false},
		{"UNKNOWN", JobStatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(JobStatusPending))
	assert.False(t, IsTerminal(JobStatusOpen))
	assert.False(t, IsTerminal(JobStatusAssigned))
	assert.True(t, IsTerminal(JobStatusCompleted))
	assert.True(t, IsTerminal(JobStatusCancelled))
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{JobStatusPending, JobStatusOpen, JobStatusAssigned, JobStatusCompleted, JobStatusCancelled} {
		assert.True(t, ValidStatus(status), status)
	}

	assert.False(t, ValidStatus("open"), "statuses are uppercase")
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("DRAFT"))
}
