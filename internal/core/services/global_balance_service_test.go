package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
	"github.com/comercioapp/ledger_backend/internal/core/services"
	"github.com/comercioapp/ledger_backend/internal/dto"
)

type GlobalBalanceServiceTestSuite struct {
	suite.Suite
	mockGlobalRepo *MockGlobalBalanceRepository
	service        portssvc.GlobalBalanceSvcFacade
	ctx            context.Context
	userID         string
}

func (suite *GlobalBalanceServiceTestSuite) SetupTest() {
	suite.mockGlobalRepo = new(MockGlobalBalanceRepository)
	suite.service = services.NewGlobalBalanceService(suite.mockGlobalRepo)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *GlobalBalanceServiceTestSuite) TestGetGlobalBalance_Success() {
	expected := &domain.GlobalBalance{
		ID:             domain.GlobalBalanceID,
		CurrentBalance: decimal.NewFromInt(60),
		InitialBalance: decimal.NewFromInt(100),
	}
	suite.mockGlobalRepo.On("GetGlobalBalance", suite.ctx).Return(expected, nil).Once()

	gb, err := suite.service.GetGlobalBalance(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal(expected, gb)
	suite.mockGlobalRepo.AssertExpectations(suite.T())
}

func (suite *GlobalBalanceServiceTestSuite) TestUpdateInitialBalance_PatchesAndRereads() {
	newInitial := decimal.RequireFromString("250.00")
	req := dto.UpdateInitialBalanceRequest{InitialBalance: newInitial}
	updated := &domain.GlobalBalance{
		ID:             domain.GlobalBalanceID,
		CurrentBalance: decimal.NewFromInt(60),
		InitialBalance: newInitial,
	}

	suite.mockGlobalRepo.On("UpdateInitialBalance", suite.ctx, decEq(newInitial), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockGlobalRepo.On("GetGlobalBalance", suite.ctx).Return(updated, nil).Once()

	gb, err := suite.service.UpdateInitialBalance(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(gb.InitialBalance.Equal(newInitial))
	// The derived current balance is untouched by the patch; it only moves
	// when the ledger cascade runs.
	suite.True(gb.CurrentBalance.Equal(decimal.NewFromInt(60)))
	suite.mockGlobalRepo.AssertExpectations(suite.T())
}

func (suite *GlobalBalanceServiceTestSuite) TestUpdateInitialBalance_RepoError() {
	expectedErr := assert.AnError
	suite.mockGlobalRepo.On("UpdateInitialBalance", suite.ctx, mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).Return(expectedErr).Once()

	gb, err := suite.service.UpdateInitialBalance(suite.ctx, dto.UpdateInitialBalanceRequest{InitialBalance: decimal.NewFromInt(1)}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(gb)
	suite.ErrorIs(err, expectedErr)
	suite.mockGlobalRepo.AssertExpectations(suite.T())
}

func TestGlobalBalanceService(t *testing.T) {
	suite.Run(t, new(GlobalBalanceServiceTestSuite))
}
