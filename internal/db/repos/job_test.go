package repos

import (
	"errors"

	"github.com/mintenance/mintenance/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestJobCreateAndGet() {
	job := s.createTestJob()
	s.Equal(models.JobStatusPosted, job.Status, "new jobs default to posted")

	fetched, err := s.jobRepo.GetByID(s.ctx, job.HomeownerID, job.ID)
	s.Require().NoError(err)
	s.Equal(job.Title, fetched.Title)
	s.Equal(models.JobStatusPosted, fetched.Status)

	// Admin bypasses owner scoping
	fetched, err = s.jobRepo.GetByID(s.ctx, models.AdminID, job.ID)
	s.Require().NoError(err)
	s.Equal(job.ID, fetched.ID)

	// A different owner cannot see the job
	_, err = s.jobRepo.GetByID(s.ctx, job.HomeownerID+1, job.ID)
	s.Error(err)
}

func (s *DBRepositoryTestSuite) TestJobUpdateStatusFrom() {
	job := s.createTestJob()

	err := s.jobRepo.UpdateStatusFrom(s.ctx, job.ID, models.JobStatusPosted, models.JobStatusCancelled)
	s.Require().NoError(err)

	fetched, err := s.jobRepo.GetByID(s.ctx, models.AdminID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCancelled, fetched.Status)

	// A second writer expecting the old status loses the race
	err = s.jobRepo.UpdateStatusFrom(s.ctx, job.ID, models.JobStatusPosted, models.JobStatusAssigned)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrStaleStatus))
}

func (s *DBRepositoryTestSuite) TestJobList() {
	ownerID := s.randomOwnerID()
	first := s.createTestJobForOwner(ownerID)
	second := s.createTestJobForOwner(ownerID)
	s.createTestJob() // different owner

	s.Require().NoError(s.jobRepo.UpdateStatusFrom(s.ctx, second.ID, models.JobStatusPosted, models.JobStatusCancelled))

	opts := &models.ListOptions{Limit: models.DefaultLimit}

	jobs, err := s.jobRepo.List(s.ctx, models.JobStatusUnknown, ownerID, opts)
	s.Require().NoError(err)
	s.Len(jobs, 2)

	jobs, err = s.jobRepo.List(s.ctx, models.JobStatusPosted, ownerID, opts)
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(first.ID, jobs[0].ID)

	count, err := s.jobRepo.Count(s.ctx, models.JobStatusUnknown, ownerID)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *DBRepositoryTestSuite) TestJobCreateRejectsMissingOwner() {
	err := s.jobRepo.Create(s.ctx, &models.Job{Title: "No owner"})
	s.Error(err)
}
