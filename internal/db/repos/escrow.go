package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mintenance/mintenance/internal/db/models"
)

// EscrowRepository provides access to escrow-related database operations
type EscrowRepository struct {
	db *gorm.DB
}

// NewEscrowRepository creates a new escrow repository instance
func NewEscrowRepository(db *gorm.DB) *EscrowRepository {
	return &EscrowRepository{db: db}
}

// Create creates a new escrow in the database
func (r *EscrowRepository) Create(ctx context.Context, escrow *models.Escrow) error {
	return r.db.WithContext(ctx).Create(escrow).Error
}

// Update updates an existing escrow in the database
func (r *EscrowRepository) Update(ctx context.Context, escrow *models.Escrow) error {
	return r.db.WithContext(ctx).Save(escrow).Error
}

// GetByID retrieves an escrow by its ID
// if the ownerID is the admin ID, it will return the escrow regardless of the owner
func (r *EscrowRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Escrow, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var escrow models.Escrow
	qry := &models.Escrow{Model: gorm.Model{ID: id}}
	if ownerID != models.AdminID {
		qry.HomeownerID = ownerID
	}
	err := r.db.WithContext(ctx).Where(qry).First(&escrow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("escrow not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}
	return &escrow, nil
}

// GetByJobID retrieves the escrow held against a job
func (r *EscrowRepository) GetByJobID(ctx context.Context, jobID uint) (*models.Escrow, error) {
	var escrow models.Escrow
	err := r.db.WithContext(ctx).Where(&models.Escrow{JobID: jobID}).First(&escrow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("escrow not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}
	return &escrow, nil
}

// List returns a list of escrows
// if the ownerID is the admin ID, it will return the escrows regardless of the owner
// if the status is unknown, it will return all escrows regardless of their status
func (r *EscrowRepository) List(ctx context.Context, status models.EscrowStatus, ownerID uint, opts *models.ListOptions) ([]models.Escrow, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var escrows []models.Escrow
	qry := &models.Escrow{}

	if status != models.EscrowStatusUnknown && status != "" {
		qry.Status = status
	}
	if ownerID != models.AdminID {
		qry.HomeownerID = ownerID
	}

	db := r.db.WithContext(ctx)
	if !opts.IncludeDeleted {
		db = db.Unscoped().Where("deleted_at IS NULL")
	}

	err := db.Model(&models.Escrow{}).
		Where(qry).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&escrows).Error
	return escrows, err
}

// Count returns the number of escrows
// if the ownerID is the admin ID, it will return the number of escrows regardless of the owner
func (r *EscrowRepository) Count(ctx context.Context, status models.EscrowStatus, ownerID uint) (int64, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return 0, fmt.Errorf("invalid owner_id: %w", err)
	}
	var count int64
	qry := &models.Escrow{}

	if status != models.EscrowStatusUnknown && status != "" {
		qry.Status = status
	}
	if ownerID != models.AdminID {
		qry.HomeownerID = ownerID
	}
	err := r.db.WithContext(ctx).Model(&models.Escrow{}).Where(qry).Count(&count).Error
	return count, err
}

// ListReleasable returns every escrow in a status the release sweep should
// look at: held or awaiting homeowner approval
func (r *EscrowRepository) ListReleasable(ctx context.Context) ([]models.Escrow, error) {
	var escrows []models.Escrow
	err := r.db.WithContext(ctx).
		Where(models.EscrowStatusField+" IN ?", []models.EscrowStatus{
			models.EscrowStatusHeld,
			models.EscrowStatusAwaitingApproval,
		}).
		Find(&escrows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list releasable escrows: %w", err)
	}
	return escrows, nil
}

// UpdateStatus sets the status of an escrow without any precondition
func (r *EscrowRepository) UpdateStatus(ctx context.Context, id uint, status models.EscrowStatus) error {
	return r.db.WithContext(ctx).Model(&models.Escrow{}).
		Where("id = ?", id).
		Update(models.EscrowStatusField, status).Error
}

// Release moves a held escrow to released, recording the release time. Uses a
// compare-and-swap guard so two sweepers cannot both release the same escrow.
func (r *EscrowRepository) Release(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Escrow{}).
		Where("id = ? AND status = ?", id, models.EscrowStatusHeld).
		Updates(map[string]interface{}{
			"status":      models.EscrowStatusReleased,
			"released_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to release escrow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// Approve records the homeowner's approval on an escrow
func (r *EscrowRepository) Approve(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Escrow{}).
		Where("id = ?", id).
		Update("homeowner_approval", true).Error
}

// SetAdminHold sets the administrative hold state and an optional free-text
// reason surfaced verbatim to clients
func (r *EscrowRepository) SetAdminHold(ctx context.Context, id uint, hold models.AdminHoldStatus, reason string) error {
	return r.db.WithContext(ctx).Model(&models.Escrow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"admin_hold_status":      hold,
			"release_blocked_reason": reason,
		}).Error
}
