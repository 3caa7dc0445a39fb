package services

import (
	"github.com/mintenance/mintenance/internal/db/models"
)

func (s *ServicesTestSuite) TestCreateJobDefaultsToPosted() {
	job := s.postJob(1)
	s.Equal(models.JobStatusPosted, job.Status)
}

func (s *ServicesTestSuite) TestUpdateJobStatusRejectsIllegalTransition() {
	job := s.postJob(1)

	_, err := s.jobService.UpdateJobStatus(s.ctx, job.HomeownerID, job.ID, models.JobStatusInProgress)
	s.Require().Error(err)

	var invalidErr *models.InvalidTransitionError
	s.Require().ErrorAs(err, &invalidErr)
	s.Equal(models.JobStatusPosted, invalidErr.Current)
	s.Equal(models.JobStatusInProgress, invalidErr.Attempted)

	// Nothing was persisted
	fetched, err := s.jobService.GetJob(s.ctx, job.HomeownerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPosted, fetched.Status)
}

func (s *ServicesTestSuite) TestUpdateJobStatusSelfTransitionIsNoOp() {
	job := s.postJob(1)

	updated, err := s.jobService.UpdateJobStatus(s.ctx, job.HomeownerID, job.ID, models.JobStatusPosted)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPosted, updated.Status)
}

func (s *ServicesTestSuite) TestJobRunsFullLifecycle() {
	job := s.postJob(1)
	s.heldEscrow(job, 2)

	updated, err := s.jobService.UpdateJobStatus(s.ctx, job.HomeownerID, job.ID, models.JobStatusInProgress)
	s.Require().NoError(err)
	s.Equal(models.JobStatusInProgress, updated.Status)

	updated, err = s.jobService.UpdateJobStatus(s.ctx, job.HomeownerID, job.ID, models.JobStatusCompleted)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCompleted, updated.Status)

	// Completed is terminal
	_, err = s.jobService.UpdateJobStatus(s.ctx, job.HomeownerID, job.ID, models.JobStatusCancelled)
	var invalidErr *models.InvalidTransitionError
	s.Require().ErrorAs(err, &invalidErr)
	s.Empty(invalidErr.Valid)
}

func (s *ServicesTestSuite) TestCancelJob() {
	job := s.postJob(1)

	cancelled, err := s.jobService.CancelJob(s.ctx, job.HomeownerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCancelled, cancelled.Status)

	// Cancelled is terminal; a second cancel is an idempotent no-op
	again, err := s.jobService.CancelJob(s.ctx, job.HomeownerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCancelled, again.Status)
}

func (s *ServicesTestSuite) TestBidFlow() {
	job := s.postJob(1)
	escrow := s.heldEscrow(job, 2)

	s.Equal(models.EscrowStatusHeld, escrow.Status)
	s.Equal(job.ID, escrow.JobID)
	s.Equal(uint(2), escrow.ContractorID)
	s.Equal(int64(14_000), escrow.AmountCents)
	s.NotEmpty(escrow.PaymentRef)

	fetched, err := s.jobService.GetJob(s.ctx, job.HomeownerID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusAssigned, fetched.Status)
	s.Equal(uint(2), fetched.ContractorID)
}

func (s *ServicesTestSuite) TestPlaceBidRequiresPostedJob() {
	job := s.postJob(1)
	_, err := s.jobService.CancelJob(s.ctx, job.HomeownerID, job.ID)
	s.Require().NoError(err)

	_, err = s.bidService.PlaceBid(s.ctx, job.ID, s.bidRequest())
	s.Require().ErrorIs(err, ErrJobNotOpen)
}

func (s *ServicesTestSuite) TestAcceptBidRejectsSiblingsAndNonPending() {
	job := s.postJob(1)

	winning, err := s.bidService.PlaceBid(s.ctx, job.ID, s.bidRequest())
	s.Require().NoError(err)
	losing, err := s.bidService.PlaceBid(s.ctx, job.ID, s.bidRequest())
	s.Require().NoError(err)

	_, err = s.bidService.AcceptBid(s.ctx, job.HomeownerID, winning.ID)
	s.Require().NoError(err)

	bids, err := s.bidService.ListBids(s.ctx, job.ID, &models.ListOptions{Limit: models.DefaultLimit})
	s.Require().NoError(err)
	statuses := map[uint]models.BidStatus{}
	for _, b := range bids {
		statuses[b.ID] = b.Status
	}
	s.Equal(models.BidStatusAccepted, statuses[winning.ID])
	s.Equal(models.BidStatusRejected, statuses[losing.ID])

	// The losing bid can no longer be accepted
	_, err = s.bidService.AcceptBid(s.ctx, job.HomeownerID, losing.ID)
	s.Require().ErrorIs(err, ErrBidNotPending)
}

func (s *ServicesTestSuite) TestWithdrawBid() {
	job := s.postJob(1)

	bid, err := s.bidService.PlaceBid(s.ctx, job.ID, s.bidRequest())
	s.Require().NoError(err)

	// Only the owning contractor may withdraw
	err = s.bidService.WithdrawBid(s.ctx, bid.ContractorID+1, bid.ID)
	s.Error(err)

	s.Require().NoError(s.bidService.WithdrawBid(s.ctx, bid.ContractorID, bid.ID))

	_, err = s.bidService.AcceptBid(s.ctx, job.HomeownerID, bid.ID)
	s.Require().ErrorIs(err, ErrBidNotPending)
}
