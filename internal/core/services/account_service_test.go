package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/comercioapp/ledger_backend/internal/apperrors"
	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
	"github.com/comercioapp/ledger_backend/internal/core/services"
	"github.com/comercioapp/ledger_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	ctx             context.Context
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

// --- CreateAccount Tests ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Name:         "Acme Supplies",
		ContactEmail: "orders@acme.test",
		Kind:         domain.KindSupplier,
	}

	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Name == req.Name &&
			acc.Kind == domain.KindSupplier &&
			acc.Balance.IsZero() &&
			acc.CreatedBy == suite.userID
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.True(account.Balance.IsZero())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	req := dto.CreateAccountRequest{Name: "Acme", Kind: domain.KindCustomer}
	expectedErr := assert.AnError

	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(expectedErr).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, expectedErr)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// --- GetAccountByID Tests ---

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(suite.ctx, accountID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// --- ListAccounts Tests ---

func (suite *AccountServiceTestSuite) TestListAccounts_DefaultLimit() {
	expected := []domain.Account{{AccountID: uuid.NewString()}}
	suite.mockAccountRepo.On("ListAccounts", suite.ctx, 20, 0).Return(expected, nil).Once()

	accounts, err := suite.service.ListAccounts(suite.ctx, 0, 0)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// --- UpdateAccount Tests ---

func (suite *AccountServiceTestSuite) TestUpdateAccount_Success() {
	accountID := uuid.NewString()
	newName := "Acme Wholesale"
	existing := &domain.Account{
		AccountID: accountID,
		Name:      "Acme",
		Kind:      domain.KindSupplier,
		Balance:   decimal.NewFromInt(50),
		AuditFields: domain.AuditFields{
			LastUpdatedAt: time.Now().Add(-time.Hour),
			LastUpdatedBy: "someoneElse",
		},
	}
	req := dto.UpdateAccountRequest{Name: &newName}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.AccountID == accountID &&
			acc.Name == newName &&
			acc.LastUpdatedBy == suite.userID
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(suite.ctx, accountID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, account.Name)
	suite.Equal(suite.userID, account.LastUpdatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoFieldsIsNoOp() {
	accountID := uuid.NewString()
	existing := &domain.Account{AccountID: accountID, Name: "Acme"}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(existing, nil).Once()

	account, err := suite.service.UpdateAccount(suite.ctx, accountID, dto.UpdateAccountRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing, account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// --- DeleteAccount Tests ---

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	accountID := uuid.NewString()
	suite.mockAccountRepo.On("DeleteAccount", suite.ctx, accountID).Return(nil).Once()

	err := suite.service.DeleteAccount(suite.ctx, accountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountRepo.On("DeleteAccount", suite.ctx, accountID).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteAccount(suite.ctx, accountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
