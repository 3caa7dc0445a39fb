package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allJobStatuses is every status defined in the lifecycle table
var allJobStatuses = []JobStatus{
	JobStatusPosted,
	JobStatusAssigned,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusCancelled,
}

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        JobStatus
		stringValue   string
		jsonValue     string
		validForParse bool
	}{
		{
			name:          "Unknown status",
			status:        JobStatusUnknown,
			stringValue:   "unknown",
			jsonValue:     `"unknown"`,
			validForParse: true,
		},
		{
			name:          "Posted status",
			status:        JobStatusPosted,
			stringValue:   "posted",
			jsonValue:     `"posted"`,
			validForParse: true,
		},
		{
			name:          "Assigned status",
			status:        JobStatusAssigned,
			stringValue:   "assigned",
			jsonValue:     `"assigned"`,
			validForParse: true,
		},
		{
			name:          "In progress status",
			status:        JobStatusInProgress,
			stringValue:   "in_progress",
			jsonValue:     `"in_progress"`,
			validForParse: true,
		},
		{
			name:          "Completed status",
			status:        JobStatusCompleted,
			stringValue:   "completed",
			jsonValue:     `"completed"`,
			validForParse: true,
		},
		{
			name:          "Cancelled status",
			status:        JobStatusCancelled,
			stringValue:   "cancelled",
			jsonValue:     `"cancelled"`,
			validForParse: true,
		},
		{
			name:          "Invalid status",
			stringValue:   "invalid_status",
			jsonValue:     `"invalid_status"`,
			validForParse: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseJobStatus(tt.stringValue)
			if tt.validForParse {
				assert.NoError(t, err)
				assert.Equal(t, tt.status, parsed)
				assert.Equal(t, tt.stringValue, parsed.String())

				data, err := json.Marshal(tt.status)
				assert.NoError(t, err)
				assert.Equal(t, tt.jsonValue, string(data))

				var roundTrip JobStatus
				assert.NoError(t, json.Unmarshal(data, &roundTrip))
				assert.Equal(t, tt.status, roundTrip)
			} else {
				assert.Error(t, err)

				var s JobStatus
				assert.Error(t, json.Unmarshal([]byte(tt.jsonValue), &s))
			}
		})
	}
}

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		name    string
		current JobStatus
		next    JobStatus
		valid   bool
	}{
		{"posted to assigned", JobStatusPosted, JobStatusAssigned, true},
		{"posted to cancelled", JobStatusPosted, JobStatusCancelled, true},
		{"posted to in_progress skips assignment", JobStatusPosted, JobStatusInProgress, false},
		{"posted to completed skips work", JobStatusPosted, JobStatusCompleted, false},
		{"assigned to in_progress", JobStatusAssigned, JobStatusInProgress, true},
		{"assigned to cancelled", JobStatusAssigned, JobStatusCancelled, true},
		{"assigned to completed skips work", JobStatusAssigned, JobStatusCompleted, false},
		{"assigned back to posted", JobStatusAssigned, JobStatusPosted, false},
		{"in_progress to completed", JobStatusInProgress, JobStatusCompleted, true},
		{"in_progress to cancelled", JobStatusInProgress, JobStatusCancelled, true},
		{"in_progress back to assigned", JobStatusInProgress, JobStatusAssigned, false},
		{"completed to cancelled", JobStatusCompleted, JobStatusCancelled, false},
		{"cancelled to posted", JobStatusCancelled, JobStatusPosted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTransition(tt.current, tt.next))
		})
	}
}

func TestSelfTransitionsAlwaysValid(t *testing.T) {
	for _, s := range allJobStatuses {
		assert.True(t, IsValidTransition(s, s), "self transition should be valid for %q", s)
		assert.NoError(t, AssertTransition(s, s))
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range allJobStatuses {
		assert.Equal(t, len(ValidTransitionsFrom(s)) == 0, IsTerminal(s),
			"IsTerminal must agree with the adjacency set for %q", s)
	}

	assert.True(t, IsTerminal(JobStatusCompleted))
	assert.True(t, IsTerminal(JobStatusCancelled))
	assert.False(t, IsTerminal(JobStatusPosted))
	assert.False(t, IsTerminal(JobStatusAssigned))
	assert.False(t, IsTerminal(JobStatusInProgress))

	// Terminal states admit nothing but the self transition
	for _, next := range allJobStatuses {
		if next != JobStatusCompleted {
			assert.False(t, IsValidTransition(JobStatusCompleted, next),
				"completed must not transition to %q", next)
		}
		if next != JobStatusCancelled {
			assert.False(t, IsValidTransition(JobStatusCancelled, next),
				"cancelled must not transition to %q", next)
		}
	}
}

func TestValidTransitionsFromMatchesIsValidTransition(t *testing.T) {
	for _, current := range allJobStatuses {
		expected := []JobStatus{}
		for _, next := range allJobStatuses {
			if next != current && IsValidTransition(current, next) {
				expected = append(expected, next)
			}
		}
		assert.ElementsMatch(t, expected, ValidTransitionsFrom(current),
			"adjacency set mismatch for %q", current)
	}
}

func TestValidTransitionsFromReturnsCopy(t *testing.T) {
	first := ValidTransitionsFrom(JobStatusPosted)
	require.NotEmpty(t, first)
	first[0] = JobStatusCompleted

	second := ValidTransitionsFrom(JobStatusPosted)
	assert.Equal(t, JobStatusAssigned, second[0], "mutating a returned set must not affect the table")
}

func TestAssertTransition(t *testing.T) {
	err := AssertTransition(JobStatusPosted, JobStatusInProgress)
	require.Error(t, err)

	var invalidErr *InvalidTransitionError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, JobStatusPosted, invalidErr.Current)
	assert.Equal(t, JobStatusInProgress, invalidErr.Attempted)
	assert.ElementsMatch(t, []JobStatus{JobStatusAssigned, JobStatusCancelled}, invalidErr.Valid)
	assert.Contains(t, invalidErr.Error(), "posted")
	assert.Contains(t, invalidErr.Error(), "in_progress")

	assert.NoError(t, AssertTransition(JobStatusPosted, JobStatusAssigned))
	assert.NoError(t, AssertTransition(JobStatusInProgress, JobStatusCompleted))
}

func TestUnknownStatusFailsClosed(t *testing.T) {
	bogus := JobStatus("totally_bogus")

	assert.Empty(t, ValidTransitionsFrom(bogus))
	assert.False(t, IsValidTransition(bogus, JobStatusPosted))
	assert.True(t, IsValidTransition(bogus, bogus), "identity is still legal")
	assert.Error(t, AssertTransition(bogus, JobStatusCompleted))
}

func TestJobValidate(t *testing.T) {
	job := &Job{Title: "Fix leaking roof", HomeownerID: 1}
	assert.NoError(t, job.Validate())

	assert.Error(t, (&Job{HomeownerID: 1}).Validate())
	assert.Error(t, (&Job{Title: "Fix leaking roof"}).Validate())
}

func TestJobBeforeCreateDefaultsStatus(t *testing.T) {
	job := &Job{Title: "Repaint fence", HomeownerID: 2}
	require.NoError(t, job.BeforeCreate(nil))
	assert.Equal(t, JobStatusPosted, job.Status)
}
