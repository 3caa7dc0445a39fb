package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/db/repos"
	"github.com/mintenance/mintenance/internal/types"
)

// Bid service errors
var (
	// ErrJobNotOpen is returned when bidding on a job that is not posted
	ErrJobNotOpen = errors.New("job is not open for bids")
	// ErrBidNotPending is returned when acting on a bid that has already been decided
	ErrBidNotPending = errors.New("bid is not pending")
)

// Bid provides business logic for bid operations
type Bid struct {
	bidRepo *repos.BidRepository
	jobRepo *repos.JobRepository
}

// NewBidService creates a new bid service instance
func NewBidService(bidRepo *repos.BidRepository, jobRepo *repos.JobRepository) *Bid {
	return &Bid{bidRepo: bidRepo, jobRepo: jobRepo}
}

// PlaceBid records a contractor's offer on a posted job
func (s *Bid) PlaceBid(ctx context.Context, jobID uint, req *types.CreateBidRequest) (*models.Bid, error) {
	job, err := s.jobRepo.GetByID(ctx, models.AdminID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusPosted {
		return nil, fmt.Errorf("%w: job %d is %s", ErrJobNotOpen, jobID, job.Status)
	}

	bid := &models.Bid{
		JobID:        jobID,
		ContractorID: req.ContractorID,
		AmountCents:  req.AmountCents,
		Message:      req.Message,
		Status:       models.BidStatusPending,
	}
	if err := s.bidRepo.Create(ctx, bid); err != nil {
		return nil, err
	}
	return bid, nil
}

// ListBids returns the bids placed on a job
func (s *Bid) ListBids(ctx context.Context, jobID uint, opts *models.ListOptions) ([]models.Bid, error) {
	return s.bidRepo.ListByJob(ctx, jobID, opts)
}

// AcceptBid accepts a pending bid on behalf of the homeowner: in a single
// transaction the job moves posted -> assigned, losing bids are rejected, and
// an escrow hold is opened for the bid amount. The job assignment uses a
// compare-and-swap update, so two homeowner sessions accepting different bids
// cannot both win, and a failure anywhere rolls the whole acceptance back.
func (s *Bid) AcceptBid(ctx context.Context, ownerID, bidID uint) (*models.Escrow, error) {
	bid, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if bid.Status != models.BidStatusPending {
		return nil, fmt.Errorf("%w: bid %d is %s", ErrBidNotPending, bidID, bid.Status)
	}

	job, err := s.jobRepo.GetByID(ctx, ownerID, bid.JobID)
	if err != nil {
		return nil, err
	}
	if err := models.AssertTransition(job.Status, models.JobStatusAssigned); err != nil {
		return nil, err
	}

	escrow := &models.Escrow{
		JobID:        job.ID,
		HomeownerID:  job.HomeownerID,
		ContractorID: bid.ContractorID,
		AmountCents:  bid.AmountCents,
		PaymentRef:   uuid.NewString(),
		Status:       models.EscrowStatusHeld,
	}
	if err := s.bidRepo.Accept(ctx, bid, escrow); err != nil {
		return nil, err
	}
	return escrow, nil
}

// WithdrawBid withdraws a contractor's pending bid
func (s *Bid) WithdrawBid(ctx context.Context, contractorID, bidID uint) error {
	bid, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return err
	}
	if bid.ContractorID != contractorID && contractorID != models.AdminID {
		return fmt.Errorf("bid %d does not belong to contractor %d", bidID, contractorID)
	}
	if bid.Status != models.BidStatusPending {
		return fmt.Errorf("%w: bid %d is %s", ErrBidNotPending, bidID, bid.Status)
	}
	return s.bidRepo.UpdateStatus(ctx, bidID, models.BidStatusWithdrawn)
}
