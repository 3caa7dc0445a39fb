package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mintenance/mintenance/internal/db/models"
)

// ErrStaleStatus is returned when a compare-and-swap status update matched no
// row, meaning another caller changed the status first
var ErrStaleStatus = errors.New("status changed concurrently")

// JobRepository provides access to job-related database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := models.ValidateOwnerID(job.HomeownerID); err != nil {
		return fmt.Errorf("invalid homeowner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// Update updates an existing job in the database
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	if err := models.ValidateOwnerID(job.HomeownerID); err != nil {
		return fmt.Errorf("invalid homeowner_id: %w", err)
	}
	return r.db.WithContext(ctx).Save(job).Error
}

// GetByID retrieves a job by its ID
// if the ownerID is the admin ID, it will return the job regardless of the owner
func (r *JobRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Job, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var job models.Job
	qry := &models.Job{Model: gorm.Model{ID: id}}
	if ownerID != models.AdminID {
		qry.HomeownerID = ownerID
	}
	err := r.db.WithContext(ctx).Where(qry).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// UpdateStatusFrom moves a job from one status to another using a
// compare-and-swap update. Returns ErrStaleStatus when the job was not in the
// expected status, which covers concurrent writers racing on the same row.
func (r *JobRepository) UpdateStatusFrom(ctx context.Context, id uint, from, to models.JobStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ?", id, from).
		Update(models.JobStatusField, to)
	if res.Error != nil {
		return fmt.Errorf("failed to update job status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// List returns a list of jobs
// if the ownerID is the admin ID, it will return the jobs regardless of the owner
// if the status is unknown, it will return all jobs regardless of their status
func (r *JobRepository) List(ctx context.Context, status models.JobStatus, ownerID uint, opts *models.ListOptions) ([]models.Job, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var jobs []models.Job
	qry := &models.Job{}

	// If status is unknown, we don't need to filter by status
	if status != models.JobStatusUnknown && status != "" {
		qry.Status = status
	}

	if ownerID != models.AdminID {
		qry.HomeownerID = ownerID
	}

	db := r.db.WithContext(ctx)
	if !opts.IncludeDeleted {
		db = db.Unscoped().Where("deleted_at IS NULL")
	}

	err := db.Model(&models.Job{}).
		Where(qry).
		Limit(opts.Limit).Offset(opts.Offset).
		Order(models.JobCreatedAtField + " DESC").
		Find(&jobs).Error
	return jobs, err
}

// Count returns the number of jobs
// if the ownerID is the admin ID, it will return the number of jobs regardless of the owner
func (r *JobRepository) Count(ctx context.Context, status models.JobStatus, ownerID uint) (int64, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return 0, fmt.Errorf("invalid owner_id: %w", err)
	}
	var count int64
	qry := &models.Job{}

	if status != models.JobStatusUnknown && status != "" {
		qry.Status = status
	}
	if ownerID != models.AdminID {
		qry.HomeownerID = ownerID
	}
	err := r.db.WithContext(ctx).Model(&models.Job{}).Where(qry).Count(&count).Error
	return count, err
}
