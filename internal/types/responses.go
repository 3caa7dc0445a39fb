package types

import (
	"github.com/mintenance/mintenance/internal/db/models"
)

// PaginationResponse represents pagination information for list endpoints
type PaginationResponse struct {
	// Total number of items available across all pages
	Total int `json:"total"`

	// Current page number (1-based)
	Page int `json:"page"`

	// Maximum number of items per page
	Limit int `json:"limit"`

	// Number of items skipped from the beginning of the result set
	Offset int `json:"offset"`
}

// ListJobsResponse represents a response containing a list of jobs
type ListJobsResponse struct {
	Slug       Slug               `json:"slug"`
	Jobs       []models.Job       `json:"jobs"`
	Pagination PaginationResponse `json:"pagination"`
}

// ListBidsResponse represents a response containing a list of bids
type ListBidsResponse struct {
	Slug       Slug               `json:"slug"`
	Bids       []models.Bid       `json:"bids"`
	Pagination PaginationResponse `json:"pagination"`
}

// ListEscrowsResponse represents a response containing a list of escrows
type ListEscrowsResponse struct {
	Slug       Slug               `json:"slug"`
	Escrows    []models.Escrow    `json:"escrows"`
	Pagination PaginationResponse `json:"pagination"`
}

// ReleaseStatusResponse wraps the release decision for a single escrow
type ReleaseStatusResponse struct {
	EscrowID uint                   `json:"escrow_id"`
	Decision models.ReleaseDecision `json:"decision"`
}

// CreateUserResponse is returned when a user is created
type CreateUserResponse struct {
	UserID uint `json:"user_id"`
}
