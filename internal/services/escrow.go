package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/db/repos"
)

// Escrow service errors
var (
	// ErrReleaseBlocked is returned when a release is requested while one or
	// more release gates are still unmet
	ErrReleaseBlocked = errors.New("escrow release blocked")
	// ErrEscrowFinalized is returned when an operation targets an escrow that
	// has already been released, refunded or completed
	ErrEscrowFinalized = errors.New("escrow already finalized")
)

// Escrow provides business logic for escrow operations. All release
// decisions go through the snapshot evaluator; this service owns the I/O
// around it.
type Escrow struct {
	escrowRepo *repos.EscrowRepository
}

// NewEscrowService creates a new escrow service instance
func NewEscrowService(escrowRepo *repos.EscrowRepository) *Escrow {
	return &Escrow{escrowRepo: escrowRepo}
}

// GetEscrow retrieves an escrow by its ID
func (s *Escrow) GetEscrow(ctx context.Context, ownerID, id uint) (*models.Escrow, error) {
	return s.escrowRepo.GetByID(ctx, ownerID, id)
}

// GetEscrowByJob retrieves the escrow held against a job
func (s *Escrow) GetEscrowByJob(ctx context.Context, jobID uint) (*models.Escrow, error) {
	return s.escrowRepo.GetByJobID(ctx, jobID)
}

// ListEscrows retrieves a paginated list of escrows
func (s *Escrow) ListEscrows(ctx context.Context, status models.EscrowStatus, ownerID uint, opts *models.ListOptions) ([]models.Escrow, error) {
	return s.escrowRepo.List(ctx, status, ownerID, opts)
}

// CountEscrows returns the total number of escrows matching the status and
// owner filters, independent of pagination
func (s *Escrow) CountEscrows(ctx context.Context, status models.EscrowStatus, ownerID uint) (int64, error) {
	return s.escrowRepo.Count(ctx, status, ownerID)
}

// ListReleasable returns every escrow the release sweep should evaluate
func (s *Escrow) ListReleasable(ctx context.Context) ([]models.Escrow, error) {
	return s.escrowRepo.ListReleasable(ctx)
}

// ReleaseStatus evaluates the release gates for an escrow at the current
// instant without changing anything
func (s *Escrow) ReleaseStatus(ctx context.Context, ownerID, id uint) (models.ReleaseDecision, error) {
	escrow, err := s.escrowRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return models.ReleaseDecision{}, err
	}
	return escrow.EvaluateRelease(time.Now()), nil
}

// Release releases a held escrow to the contractor. The decision is returned
// in all cases; when any gate is still unmet the error is ErrReleaseBlocked
// and nothing is persisted.
func (s *Escrow) Release(ctx context.Context, ownerID, id uint) (models.ReleaseDecision, error) {
	escrow, err := s.escrowRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return models.ReleaseDecision{}, err
	}

	now := time.Now()
	decision := escrow.EvaluateRelease(now)
	if !decision.CanRelease {
		return decision, ErrReleaseBlocked
	}

	if err := s.escrowRepo.Release(ctx, id, now); err != nil {
		return decision, err
	}
	return decision, nil
}

// Approve records the homeowner's approval of the completed work
func (s *Escrow) Approve(ctx context.Context, ownerID, id uint) error {
	escrow, err := s.escrowRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if escrowFinalized(escrow.Status) {
		return fmt.Errorf("%w: escrow %d is %s", ErrEscrowFinalized, id, escrow.Status)
	}
	return s.escrowRepo.Approve(ctx, id)
}

// Refund returns held funds to the homeowner
func (s *Escrow) Refund(ctx context.Context, ownerID, id uint) error {
	escrow, err := s.escrowRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if escrowFinalized(escrow.Status) {
		return fmt.Errorf("%w: escrow %d is %s", ErrEscrowFinalized, id, escrow.Status)
	}
	return s.escrowRepo.UpdateStatus(ctx, id, models.EscrowStatusRefunded)
}

// Dispute opens a dispute on a held escrow, pausing release until resolved
func (s *Escrow) Dispute(ctx context.Context, ownerID, id uint) error {
	escrow, err := s.escrowRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if escrowFinalized(escrow.Status) {
		return fmt.Errorf("%w: escrow %d is %s", ErrEscrowFinalized, id, escrow.Status)
	}
	return s.escrowRepo.UpdateStatus(ctx, id, models.EscrowStatusDisputed)
}

// SetAdminHold places or clears an administrative hold on an escrow
func (s *Escrow) SetAdminHold(ctx context.Context, id uint, hold models.AdminHoldStatus, reason string) error {
	if _, err := s.escrowRepo.GetByID(ctx, models.AdminID, id); err != nil {
		return err
	}
	return s.escrowRepo.SetAdminHold(ctx, id, hold, reason)
}

func escrowFinalized(status models.EscrowStatus) bool {
	switch status {
	case models.EscrowStatusReleased, models.EscrowStatusRefunded, models.EscrowStatusCompleted:
		return true
	default:
		return false
	}
}
