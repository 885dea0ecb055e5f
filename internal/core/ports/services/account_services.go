package services

import (
	"context"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	"github.com/comercioapp/ledger_backend/internal/dto"
)

// AccountSvcFacade defines operations on customer/supplier accounts.
// Account.Balance is derived state: it is never written here, only through
// the ledger service's reconciliation cascade.
type AccountSvcFacade interface {
	// CreateAccount persists a new account with a zero balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves a specific account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// UpdateAccount updates an account's name and contact details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account and its transactions.
	DeleteAccount(ctx context.Context, accountID string, userID string) error
}
