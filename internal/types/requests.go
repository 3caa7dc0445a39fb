package types

import (
	"fmt"
	"net/mail"

	"github.com/mintenance/mintenance/internal/db/models"
)

// CreateJobRequest is the request body for posting a new job
type CreateJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	HomeownerID uint   `json:"homeowner_id"`
	BudgetCents int64  `json:"budget_cents"`
}

// Validate ensures the job request has the required fields
func (r *CreateJobRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.HomeownerID == 0 {
		return fmt.Errorf("homeowner_id is required")
	}
	if r.BudgetCents < 0 {
		return fmt.Errorf("budget_cents cannot be negative")
	}
	return nil
}

// UpdateJobStatusRequest is the request body for moving a job through its
// lifecycle
type UpdateJobStatusRequest struct {
	Status string `json:"status"`
}

// Validate ensures the requested status is a known job status
func (r *UpdateJobStatusRequest) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}
	if _, err := models.ParseJobStatus(r.Status); err != nil {
		return err
	}
	return nil
}

// CreateBidRequest is the request body for a contractor bidding on a job
type CreateBidRequest struct {
	ContractorID uint   `json:"contractor_id"`
	AmountCents  int64  `json:"amount_cents"`
	Message      string `json:"message,omitempty"`
}

// Validate ensures the bid request has the required fields
func (r *CreateBidRequest) Validate() error {
	if r.ContractorID == 0 {
		return fmt.Errorf("contractor_id is required")
	}
	if r.AmountCents <= 0 {
		return fmt.Errorf("amount_cents must be positive")
	}
	return nil
}

// SetAdminHoldRequest is the request body for placing or clearing an
// administrative hold on an escrow
type SetAdminHoldRequest struct {
	HoldStatus string `json:"hold_status"`
	Reason     string `json:"reason,omitempty"`
}

// Validate ensures the hold status is a known value
func (r *SetAdminHoldRequest) Validate() error {
	if r.HoldStatus == "" {
		return fmt.Errorf("hold_status is required")
	}
	if _, err := models.ParseAdminHoldStatus(r.HoldStatus); err != nil {
		return err
	}
	return nil
}

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Validate ensures the user request has the required fields
func (r *CreateUserRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return fmt.Errorf("invalid user email format")
		}
	}
	if r.Role != "" {
		if _, err := models.ParseUserRole(r.Role); err != nil {
			return err
		}
	}
	return nil
}
