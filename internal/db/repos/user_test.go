package repos

import (
	"github.com/mintenance/mintenance/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestUserCreateAndGet() {
	user := &models.User{Username: "homeowner-1", Email: "owner@example.com", Role: models.UserRoleHomeowner}
	s.Require().NoError(s.userRepo.CreateUser(s.ctx, user))
	s.NotZero(user.ID)

	fetched, err := s.userRepo.GetUserByUsername(s.ctx, "homeowner-1")
	s.Require().NoError(err)
	s.Equal(user.ID, fetched.ID)
	s.Equal(models.UserRoleHomeowner, fetched.Role)

	fetched, err = s.userRepo.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("homeowner-1", fetched.Username)
}

func (s *DBRepositoryTestSuite) TestUserCreateDuplicateUsername() {
	user := &models.User{Username: "taken", Role: models.UserRoleContractor}
	s.Require().NoError(s.userRepo.CreateUser(s.ctx, user))

	// The unique index is the only guard, so the second insert must fail
	dup := &models.User{Username: "taken", Role: models.UserRoleHomeowner}
	err := s.userRepo.CreateUser(s.ctx, dup)
	s.Require().Error(err)
	s.Contains(err.Error(), "username already exists")
}
