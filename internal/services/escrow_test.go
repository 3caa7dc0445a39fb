package services

import (
	"time"

	"github.com/mintenance/mintenance/internal/db/models"
)

func (s *ServicesTestSuite) TestReleaseStatusReportsBlockingReasons() {
	job := s.postJob(1)
	escrow := s.heldEscrow(job, 2)

	decision, err := s.escrowService.ReleaseStatus(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().NoError(err)

	s.False(decision.CanRelease)
	s.Contains(decision.BlockingReasons, models.ReasonAwaitingApproval)
	s.Contains(decision.BlockingReasons, models.ReasonPhotoNotVerified)
	s.Equal(models.NextActionHomeownerApproval, decision.NextAction)
}

func (s *ServicesTestSuite) TestReleaseBlockedWhenGatesUnmet() {
	job := s.postJob(1)
	escrow := s.heldEscrow(job, 2)

	decision, err := s.escrowService.Release(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().ErrorIs(err, ErrReleaseBlocked)
	s.NotEmpty(decision.BlockingReasons)

	// Nothing was persisted
	fetched, err := s.escrowService.GetEscrow(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().NoError(err)
	s.Equal(models.EscrowStatusHeld, fetched.Status)
}

func (s *ServicesTestSuite) TestReleaseSucceedsWhenGatesClear() {
	job := s.postJob(1)
	escrow := s.heldEscrow(job, 2)
	s.clearReleaseGates(escrow)

	decision, err := s.escrowService.Release(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().NoError(err)
	s.True(decision.CanRelease)
	s.Empty(decision.BlockingReasons)

	fetched, err := s.escrowService.GetEscrow(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().NoError(err)
	s.Equal(models.EscrowStatusReleased, fetched.Status)
	s.NotNil(fetched.ReleasedAt)

	// A released escrow is finalized
	s.Require().ErrorIs(s.escrowService.Refund(s.ctx, job.HomeownerID, escrow.ID), ErrEscrowFinalized)
}

func (s *ServicesTestSuite) TestAdminHoldBlocksRelease() {
	job := s.postJob(1)
	escrow := s.heldEscrow(job, 2)
	s.clearReleaseGates(escrow)

	s.Require().NoError(s.escrowService.SetAdminHold(s.ctx, escrow.ID, models.AdminHoldActive, "Suspicious activity flagged"))

	decision, err := s.escrowService.Release(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().ErrorIs(err, ErrReleaseBlocked)
	s.Require().Len(decision.BlockingReasons, 2)
	s.Equal(models.ReasonAdminReviewPending, decision.BlockingReasons[0])
	s.Equal("Suspicious activity flagged", decision.BlockingReasons[1])

	// Clearing the hold makes the escrow releasable again
	s.Require().NoError(s.escrowService.SetAdminHold(s.ctx, escrow.ID, models.AdminHoldNone, ""))

	_, err = s.escrowService.Release(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().NoError(err)
}

func (s *ServicesTestSuite) TestApproveAndDispute() {
	job := s.postJob(1)
	escrow := s.heldEscrow(job, 2)

	s.Require().NoError(s.escrowService.Approve(s.ctx, job.HomeownerID, escrow.ID))

	fetched, err := s.escrowService.GetEscrow(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().NoError(err)
	s.True(fetched.HomeownerApproval)

	s.Require().NoError(s.escrowService.Dispute(s.ctx, job.HomeownerID, escrow.ID))

	decision, err := s.escrowService.ReleaseStatus(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().NoError(err)
	s.False(decision.CanRelease)
	s.Contains(decision.BlockingReasons, models.ReasonEscrowStatusPrefix+"disputed")
}

func (s *ServicesTestSuite) TestSweepReleasesOnlyClearEscrows() {
	ready := s.heldEscrow(s.postJob(1), 2)
	s.clearReleaseGates(ready)

	blocked := s.heldEscrow(s.postJob(3), 4)

	elapsed := s.heldEscrow(s.postJob(5), 6)
	s.clearReleaseGates(elapsed)
	past := time.Now().Add(-time.Hour)
	elapsed.CoolingOffEndsAt = &past
	s.Require().NoError(s.escrowRepo.Update(s.ctx, elapsed))

	worker := NewReleaseWorker(s.escrowService, DefaultSweepSchedule)
	released, err := worker.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, released)

	for id, want := range map[uint]models.EscrowStatus{
		ready.ID:   models.EscrowStatusReleased,
		blocked.ID: models.EscrowStatusHeld,
		elapsed.ID: models.EscrowStatusReleased,
	} {
		fetched, err := s.escrowService.GetEscrow(s.ctx, models.AdminID, id)
		s.Require().NoError(err)
		s.Equal(want, fetched.Status, "escrow %d", id)
	}

	// A second sweep finds nothing new to release
	released, err = worker.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Zero(released)
}
