package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mintenance/mintenance/internal/db/models"
)

// BidRepository provides access to bid-related database operations
type BidRepository struct {
	db *gorm.DB
}

// NewBidRepository creates a new bid repository instance
func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Create creates a new bid in the database
func (r *BidRepository) Create(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

// GetByID retrieves a bid by its ID
func (r *BidRepository) GetByID(ctx context.Context, id uint) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).First(&bid, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("bid not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}
	return &bid, nil
}

// ListByJob returns the bids placed on a job, newest first
func (r *BidRepository) ListByJob(ctx context.Context, jobID uint, opts *models.ListOptions) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Where(&models.Bid{JobID: jobID}).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&bids).Error
	return bids, err
}

// UpdateStatus sets the status of a bid
func (r *BidRepository) UpdateStatus(ctx context.Context, id uint, status models.BidStatus) error {
	return r.db.WithContext(ctx).Model(&models.Bid{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Accept performs the full acceptance of a bid in one transaction: the job is
// assigned to the bidding contractor, the bid is marked accepted, the
// remaining pending bids are rejected and the escrow hold is created. The job
// assignment uses a compare-and-swap guard on the posted status; if another
// writer won the race the whole transaction rolls back with ErrStaleStatus,
// and any later failure rolls back every earlier write.
func (r *BidRepository) Accept(ctx context.Context, bid *models.Bid, escrow *models.Escrow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", bid.JobID, models.JobStatusPosted).
			Updates(map[string]interface{}{
				"status":        models.JobStatusAssigned,
				"contractor_id": bid.ContractorID,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to assign job: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if err := tx.Model(&models.Bid{}).
			Where("id = ?", bid.ID).
			Update("status", models.BidStatusAccepted).Error; err != nil {
			return fmt.Errorf("failed to accept bid: %w", err)
		}

		if err := tx.Model(&models.Bid{}).
			Where("job_id = ? AND id <> ? AND status = ?", bid.JobID, bid.ID, models.BidStatusPending).
			Update("status", models.BidStatusRejected).Error; err != nil {
			return fmt.Errorf("failed to reject losing bids: %w", err)
		}

		if err := tx.Create(escrow).Error; err != nil {
			return fmt.Errorf("failed to create escrow hold: %w", err)
		}
		return nil
	})
}
