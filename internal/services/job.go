package services

import (
	"context"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/db/repos"
	"github.com/mintenance/mintenance/internal/types"
)

// Job provides business logic for job operations
type Job struct {
	jobRepo *repos.JobRepository
}

// NewJobService creates a new job service instance
func NewJobService(jobRepo *repos.JobRepository) *Job {
	return &Job{jobRepo: jobRepo}
}

// CreateJob creates a new job in the posted state
func (s *Job) CreateJob(ctx context.Context, req *types.CreateJobRequest) (*models.Job, error) {
	job := &models.Job{
		Title:       req.Title,
		Description: req.Description,
		HomeownerID: req.HomeownerID,
		BudgetCents: req.BudgetCents,
		Status:      models.JobStatusPosted,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob retrieves a job by its ID
func (s *Job) GetJob(ctx context.Context, ownerID, id uint) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, ownerID, id)
}

// ListJobs retrieves a paginated list of jobs
func (s *Job) ListJobs(ctx context.Context, status models.JobStatus, ownerID uint, opts *models.ListOptions) ([]models.Job, error) {
	return s.jobRepo.List(ctx, status, ownerID, opts)
}

// CountJobs returns the total number of jobs matching the status and owner
// filters, independent of pagination
func (s *Job) CountJobs(ctx context.Context, status models.JobStatus, ownerID uint) (int64, error) {
	return s.jobRepo.Count(ctx, status, ownerID)
}

// UpdateJobStatus moves a job to the requested status. The transition is
// checked against the lifecycle table before anything is persisted; an
// illegal transition surfaces as *models.InvalidTransitionError and nothing
// is written. A self-transition is a no-op.
func (s *Job) UpdateJobStatus(ctx context.Context, ownerID, id uint, next models.JobStatus) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := models.AssertTransition(job.Status, next); err != nil {
		return nil, err
	}

	if next == job.Status {
		return job, nil
	}

	if err := s.jobRepo.UpdateStatusFrom(ctx, id, job.Status, next); err != nil {
		return nil, err
	}

	job.Status = next
	return job, nil
}

// CancelJob cancels a job if its current status allows it
func (s *Job) CancelJob(ctx context.Context, ownerID, id uint) (*models.Job, error) {
	return s.UpdateJobStatus(ctx, ownerID, id, models.JobStatusCancelled)
}
