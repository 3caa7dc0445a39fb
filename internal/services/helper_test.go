package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/db/repos"
	"github.com/mintenance/mintenance/internal/types"
)

// ServicesTestSuite wires the services against an in-memory database
type ServicesTestSuite struct {
	suite.Suite
	db            *gorm.DB
	ctx           context.Context
	escrowRepo    *repos.EscrowRepository
	jobService    *Job
	bidService    *Bid
	escrowService *Escrow
}

func (s *ServicesTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	err = db.AutoMigrate(&models.Job{}, &models.Escrow{}, &models.Bid{}, &models.User{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	jobRepo := repos.NewJobRepository(db)
	bidRepo := repos.NewBidRepository(db)
	s.escrowRepo = repos.NewEscrowRepository(db)

	s.db = db
	s.jobService = NewJobService(jobRepo)
	s.bidService = NewBidService(bidRepo, jobRepo)
	s.escrowService = NewEscrowService(s.escrowRepo)
	s.ctx = context.Background()
}

func (s *ServicesTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// postJob creates a posted job for the given homeowner
func (s *ServicesTestSuite) postJob(homeownerID uint) *models.Job {
	job, err := s.jobService.CreateJob(s.ctx, &types.CreateJobRequest{
		Title:       "Install ceiling fan",
		HomeownerID: homeownerID,
		BudgetCents: 15_000,
	})
	s.Require().NoError(err)
	return job
}

// bidRequest returns a valid bid request from contractor 2
func (s *ServicesTestSuite) bidRequest() *types.CreateBidRequest {
	return &types.CreateBidRequest{
		ContractorID: 2,
		AmountCents:  14_000,
	}
}

// heldEscrow places and accepts a bid so the job has an escrow hold
func (s *ServicesTestSuite) heldEscrow(job *models.Job, contractorID uint) *models.Escrow {
	bid, err := s.bidService.PlaceBid(s.ctx, job.ID, &types.CreateBidRequest{
		ContractorID: contractorID,
		AmountCents:  14_000,
	})
	s.Require().NoError(err)

	escrow, err := s.bidService.AcceptBid(s.ctx, job.HomeownerID, bid.ID)
	s.Require().NoError(err)
	return escrow
}

// clearReleaseGates satisfies every verification gate on an escrow
func (s *ServicesTestSuite) clearReleaseGates(escrow *models.Escrow) {
	escrow.HomeownerApproval = true
	escrow.PhotoVerificationStatus = models.PhotoVerificationVerified
	escrow.PhotoQualityPassed = true
	escrow.GeolocationVerified = true
	escrow.TimestampVerified = true
	s.Require().NoError(s.escrowRepo.Update(s.ctx, escrow))
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}
