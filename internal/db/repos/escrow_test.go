package repos

import (
	"errors"
	"time"

	"github.com/mintenance/mintenance/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestEscrowCreateAndGet() {
	job := s.createTestJob()
	escrow := s.createTestEscrow(job, s.randomOwnerID())
	s.Equal(models.EscrowStatusHeld, escrow.Status, "new escrows default to held")
	s.Equal(models.AdminHoldNone, escrow.AdminHoldStatus)

	fetched, err := s.escrowRepo.GetByID(s.ctx, job.HomeownerID, escrow.ID)
	s.Require().NoError(err)
	s.Equal(escrow.AmountCents, fetched.AmountCents)

	byJob, err := s.escrowRepo.GetByJobID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(escrow.ID, byJob.ID)

	_, err = s.escrowRepo.GetByJobID(s.ctx, job.ID+100)
	s.Error(err)
}

func (s *DBRepositoryTestSuite) TestEscrowListReleasable() {
	job := s.createTestJob()
	held := s.createTestEscrow(job, s.randomOwnerID())

	other := s.createTestJob()
	awaiting := s.createTestEscrow(other, s.randomOwnerID())
	s.Require().NoError(s.escrowRepo.UpdateStatus(s.ctx, awaiting.ID, models.EscrowStatusAwaitingApproval))

	third := s.createTestJob()
	refunded := s.createTestEscrow(third, s.randomOwnerID())
	s.Require().NoError(s.escrowRepo.UpdateStatus(s.ctx, refunded.ID, models.EscrowStatusRefunded))

	releasable, err := s.escrowRepo.ListReleasable(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(releasable, 2)

	ids := []uint{releasable[0].ID, releasable[1].ID}
	s.ElementsMatch([]uint{held.ID, awaiting.ID}, ids)

	count, err := s.escrowRepo.Count(s.ctx, models.EscrowStatusUnknown, models.AdminID)
	s.Require().NoError(err)
	s.Equal(int64(3), count)

	count, err = s.escrowRepo.Count(s.ctx, models.EscrowStatusHeld, models.AdminID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *DBRepositoryTestSuite) TestEscrowRelease() {
	job := s.createTestJob()
	escrow := s.createTestEscrow(job, s.randomOwnerID())

	now := time.Now().UTC().Truncate(time.Second)
	s.Require().NoError(s.escrowRepo.Release(s.ctx, escrow.ID, now))

	fetched, err := s.escrowRepo.GetByID(s.ctx, models.AdminID, escrow.ID)
	s.Require().NoError(err)
	s.Equal(models.EscrowStatusReleased, fetched.Status)
	s.Require().NotNil(fetched.ReleasedAt)

	// Releasing an already-released escrow fails the compare-and-swap
	err = s.escrowRepo.Release(s.ctx, escrow.ID, now)
	s.True(errors.Is(err, ErrStaleStatus))
}

func (s *DBRepositoryTestSuite) TestEscrowApproveAndAdminHold() {
	job := s.createTestJob()
	escrow := s.createTestEscrow(job, s.randomOwnerID())

	s.Require().NoError(s.escrowRepo.Approve(s.ctx, escrow.ID))

	fetched, err := s.escrowRepo.GetByID(s.ctx, models.AdminID, escrow.ID)
	s.Require().NoError(err)
	s.True(fetched.HomeownerApproval)

	s.Require().NoError(s.escrowRepo.SetAdminHold(s.ctx, escrow.ID, models.AdminHoldActive, "Chargeback received"))

	fetched, err = s.escrowRepo.GetByID(s.ctx, models.AdminID, escrow.ID)
	s.Require().NoError(err)
	s.Equal(models.AdminHoldActive, fetched.AdminHoldStatus)
	s.Equal("Chargeback received", fetched.ReleaseBlockedReason)

	s.Require().NoError(s.escrowRepo.SetAdminHold(s.ctx, escrow.ID, models.AdminHoldNone, ""))

	fetched, err = s.escrowRepo.GetByID(s.ctx, models.AdminID, escrow.ID)
	s.Require().NoError(err)
	s.Equal(models.AdminHoldNone, fetched.AdminHoldStatus)
	s.Empty(fetched.ReleaseBlockedReason)
}

func (s *DBRepositoryTestSuite) TestBidAccept() {
	job := s.createTestJob()
	contractorID := s.randomOwnerID()

	winning := &models.Bid{JobID: job.ID, ContractorID: contractorID, AmountCents: 80_000}
	s.Require().NoError(s.bidRepo.Create(s.ctx, winning))
	s.Equal(models.BidStatusPending, winning.Status)

	losing := &models.Bid{JobID: job.ID, ContractorID: s.randomOwnerID(), AmountCents: 95_000}
	s.Require().NoError(s.bidRepo.Create(s.ctx, losing))

	bids, err := s.bidRepo.ListByJob(s.ctx, job.ID, &models.ListOptions{Limit: models.DefaultLimit})
	s.Require().NoError(err)
	s.Len(bids, 2)

	escrow := &models.Escrow{
		JobID:        job.ID,
		HomeownerID:  job.HomeownerID,
		ContractorID: contractorID,
		AmountCents:  winning.AmountCents,
		PaymentRef:   "pay-accept-test",
	}
	s.Require().NoError(s.bidRepo.Accept(s.ctx, winning, escrow))

	fetchedJob, err := s.jobRepo.GetByID(s.ctx, models.AdminID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusAssigned, fetchedJob.Status)
	s.Equal(contractorID, fetchedJob.ContractorID)

	fetched, err := s.bidRepo.GetByID(s.ctx, winning.ID)
	s.Require().NoError(err)
	s.Equal(models.BidStatusAccepted, fetched.Status)

	fetched, err = s.bidRepo.GetByID(s.ctx, losing.ID)
	s.Require().NoError(err)
	s.Equal(models.BidStatusRejected, fetched.Status)

	held, err := s.escrowRepo.GetByJobID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.EscrowStatusHeld, held.Status)
	s.Equal(winning.AmountCents, held.AmountCents)

	// The job is no longer posted, so a second acceptance loses the
	// compare-and-swap
	err = s.bidRepo.Accept(s.ctx, losing, escrow)
	s.True(errors.Is(err, ErrStaleStatus))
}

func (s *DBRepositoryTestSuite) TestBidAcceptRollsBackOnFailure() {
	job := s.createTestJob()
	contractorID := s.randomOwnerID()

	bid := &models.Bid{JobID: job.ID, ContractorID: contractorID, AmountCents: 80_000}
	s.Require().NoError(s.bidRepo.Create(s.ctx, bid))

	// A zero amount fails escrow validation inside the transaction, after
	// the job and bid rows were already updated
	bad := &models.Escrow{
		JobID:        job.ID,
		HomeownerID:  job.HomeownerID,
		ContractorID: contractorID,
		PaymentRef:   "pay-rollback-test",
	}
	err := s.bidRepo.Accept(s.ctx, bid, bad)
	s.Require().Error(err)

	fetchedJob, err := s.jobRepo.GetByID(s.ctx, models.AdminID, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPosted, fetchedJob.Status, "failed acceptance must not leave the job assigned")
	s.Zero(fetchedJob.ContractorID)

	fetched, err := s.bidRepo.GetByID(s.ctx, bid.ID)
	s.Require().NoError(err)
	s.Equal(models.BidStatusPending, fetched.Status)

	_, err = s.escrowRepo.GetByJobID(s.ctx, job.ID)
	s.Error(err, "no escrow row should survive the rollback")
}
