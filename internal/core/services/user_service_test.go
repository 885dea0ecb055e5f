package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/comercioapp/ledger_backend/internal/apperrors"
	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
	"github.com/comercioapp/ledger_backend/internal/core/services"
	"github.com/comercioapp/ledger_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	ctx          context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
	suite.ctx = context.Background()
}

// --- Authenticate Tests ---

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	username := "admin"
	password := "password123"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	expectedUser := &domain.User{UserID: uuid.NewString(), Username: username, PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, username).Return(expectedUser, nil).Once()

	user, err := suite.service.Authenticate(suite.ctx, username, password)

	suite.Require().NoError(err)
	suite.Equal(expectedUser.UserID, user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	username := "admin"
	hash, err := utils.HashPassword("correct-password")
	suite.Require().NoError(err)

	existing := &domain.User{UserID: uuid.NewString(), Username: username, PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, username).Return(existing, nil).Once()

	user, err := suite.service.Authenticate(suite.ctx, username, "wrong-password")

	suite.Require().Error(err)
	suite.Nil(user)
	// Wrong password and unknown user are indistinguishable to the caller.
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUser() {
	username := "ghost"
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, username).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.Authenticate(suite.ctx, username, "whatever")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- GetUserByID Tests ---

func (suite *UserServiceTestSuite) TestGetUserByID_Success() {
	userID := uuid.NewString()
	expectedUser := &domain.User{UserID: userID, Username: "admin"}

	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(expectedUser, nil).Once()

	user, err := suite.service.GetUserByID(suite.ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(expectedUser, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	userID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(suite.ctx, userID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- EnsureAdminUser Tests ---

func (suite *UserServiceTestSuite) TestEnsureAdminUser_CreatesWhenMissing() {
	username := "admin"
	password := "bootstrap-secret"

	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == username &&
			user.IsAdmin &&
			user.PasswordHash != password &&
			utils.CheckPasswordHash(password, user.PasswordHash) &&
			user.CreatedBy == "system"
	})).Return(nil).Once()

	err := suite.service.EnsureAdminUser(suite.ctx, username, password)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestEnsureAdminUser_ExistingUserUntouched() {
	username := "admin"
	existing := &domain.User{UserID: uuid.NewString(), Username: username}

	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, username).Return(existing, nil).Once()

	err := suite.service.EnsureAdminUser(suite.ctx, username, "irrelevant")

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestEnsureAdminUser_DuplicateRaceTolerated() {
	username := "admin"

	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	err := suite.service.EnsureAdminUser(suite.ctx, username, "bootstrap-secret")

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestEnsureAdminUser_SaveError() {
	username := "admin"
	expectedErr := assert.AnError

	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(expectedErr).Once()

	err := suite.service.EnsureAdminUser(suite.ctx, username, "bootstrap-secret")

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
