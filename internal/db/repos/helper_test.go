package repos

import (
	"context"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mintenance/mintenance/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db         *gorm.DB
	ctx        context.Context
	jobRepo    *JobRepository
	escrowRepo *EscrowRepository
	bidRepo    *BidRepository
	userRepo   *UserRepository
}

// randomOwnerID creates a random owner ID using crypto/rand
func (s *DBRepositoryTestSuite) randomOwnerID() uint {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	s.Require().NoError(err, "Failed to generate random owner ID")
	return uint(n.Uint64() + 1) // +1 to avoid 0
}

func (s *DBRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	err = db.AutoMigrate(&models.Job{}, &models.Escrow{}, &models.Bid{}, &models.User{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.jobRepo = NewJobRepository(s.db)
	s.escrowRepo = NewEscrowRepository(s.db)
	s.bidRepo = NewBidRepository(s.db)
	s.userRepo = NewUserRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) createTestJob() *models.Job {
	return s.createTestJobForOwner(s.randomOwnerID())
}

func (s *DBRepositoryTestSuite) createTestJobForOwner(ownerID uint) *models.Job {
	job := &models.Job{
		Title:       "Replace water heater",
		Description: "40 gallon tank in the garage",
		HomeownerID: ownerID,
		BudgetCents: 85_000,
	}
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	return job
}

func (s *DBRepositoryTestSuite) createTestEscrow(job *models.Job, contractorID uint) *models.Escrow {
	escrow := &models.Escrow{
		JobID:        job.ID,
		HomeownerID:  job.HomeownerID,
		ContractorID: contractorID,
		AmountCents:  job.BudgetCents,
	}
	s.Require().NoError(s.escrowRepo.Create(s.ctx, escrow))
	return escrow
}

func TestDBRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(DBRepositoryTestSuite))
}
