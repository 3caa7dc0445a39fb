package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Field names for job model
const (
	// JobStatusField is the field name for job status
	JobStatusField = "status"
	// JobCreatedAtField is the database field name for the job creation timestamp
	JobCreatedAtField = "created_at"
)

// JobStatus represents the current state of a job in the marketplace
type JobStatus string

// Job status constants
const (
	// JobStatusUnknown represents an unknown or invalid job status
	JobStatusUnknown JobStatus = "unknown"
	// JobStatusPosted indicates the job is open and accepting bids
	JobStatusPosted JobStatus = "posted"
	// JobStatusAssigned indicates a contractor has been assigned to the job
	JobStatusAssigned JobStatus = "assigned"
	// JobStatusInProgress indicates the assigned contractor has started work
	JobStatusInProgress JobStatus = "in_progress"
	// JobStatusCompleted indicates the work has been finished
	JobStatusCompleted JobStatus = "completed"
	// JobStatusCancelled indicates the job was cancelled before completion
	JobStatusCancelled JobStatus = "cancelled"
)

// Job represents a home-services job posted by a homeowner
type Job struct {
	gorm.Model
	Title        string    `json:"title" gorm:"not null; index"`
	Description  string    `json:"description" gorm:"type:text"`
	HomeownerID  uint      `json:"homeowner_id" gorm:"not null;index"` // ID from the users table
	ContractorID uint      `json:"contractor_id,omitempty" gorm:"index"`
	Status       JobStatus `json:"status" gorm:"not null;index"`
	BudgetCents  int64     `json:"budget_cents"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

// jobTransitions is the legal state graph for a job's status field.
// Self-transitions are legal for every state and are handled separately.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPosted:     {JobStatusAssigned, JobStatusCancelled},
	JobStatusAssigned:   {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusCompleted, JobStatusCancelled},
	JobStatusCompleted:  {},
	JobStatusCancelled:  {},
}

// ValidTransitionsFrom returns the set of statuses reachable from the given
// status. The returned slice is a copy; terminal and unknown statuses yield
// an empty set.
func ValidTransitionsFrom(current JobStatus) []JobStatus {
	next := jobTransitions[current]
	out := make([]JobStatus, len(next))
	copy(out, next)
	return out
}

// IsValidTransition reports whether a job may move from current to next.
// A self-transition is always legal, including on terminal states.
func IsValidTransition(current, next JobStatus) bool {
	if next == current {
		return true
	}
	for _, s := range jobTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the given status has no outbound transitions
func IsTerminal(status JobStatus) bool {
	return len(jobTransitions[status]) == 0
}

// InvalidTransitionError is returned when a requested status change is not
// permitted by the job state graph
type InvalidTransitionError struct {
	Current   JobStatus   `json:"current"`
	Attempted JobStatus   `json:"attempted"`
	Valid     []JobStatus `json:"valid"`
}

// Error implements the error interface for InvalidTransitionError
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid job status transition from %q to %q (valid: %v)", e.Current, e.Attempted, e.Valid)
}

// AssertTransition returns an *InvalidTransitionError when the transition from
// current to next is not legal, and nil when it is
func AssertTransition(current, next JobStatus) error {
	if IsValidTransition(current, next) {
		return nil
	}
	return &InvalidTransitionError{
		Current:   current,
		Attempted: next,
		Valid:     ValidTransitionsFrom(current),
	}
}

// String returns the string representation of the job status
func (s JobStatus) String() string {
	return string(s)
}

// ParseJobStatus converts a string to a JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	switch str {
	case string(JobStatusUnknown):
		return JobStatusUnknown, nil
	case string(JobStatusPosted):
		return JobStatusPosted, nil
	case string(JobStatusAssigned):
		return JobStatusAssigned, nil
	case string(JobStatusInProgress):
		return JobStatusInProgress, nil
	case string(JobStatusCompleted):
		return JobStatusCompleted, nil
	case string(JobStatusCancelled):
		return JobStatusCancelled, nil
	default:
		return JobStatusUnknown, fmt.Errorf("invalid job status: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for JobStatus
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseJobStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// MarshalJSON implements json.Marshaler for JobStatus
func (s JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Validate ensures that the job data is valid
func (j *Job) Validate() error {
	if j.Title == "" {
		return fmt.Errorf("job title cannot be empty")
	}
	if j.HomeownerID == 0 {
		return fmt.Errorf("job homeowner_id cannot be 0")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new job
func (j *Job) BeforeCreate(_ *gorm.DB) error {
	if j.Status == "" {
		j.Status = JobStatusPosted
	}
	return j.Validate()
}
