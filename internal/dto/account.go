package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required"`
	ContactEmail string             `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone string             `json:"contactPhone"`
	Kind         domain.AccountKind `json:"kind" binding:"required,oneof=CUSTOMER SUPPLIER OTHER"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish zero-value updates from fields not provided.
// Balance is derived and cannot be set through this request.
type UpdateAccountRequest struct {
	Name         *string             `json:"name"`
	ContactEmail *string             `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone *string             `json:"contactPhone"`
	Kind         *domain.AccountKind `json:"kind" binding:"omitempty,oneof=CUSTOMER SUPPLIER OTHER"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	Name         string             `json:"name"`
	ContactEmail string             `json:"contactEmail"`
	ContactPhone string             `json:"contactPhone"`
	Kind         domain.AccountKind `json:"kind"`
	Balance      decimal.Decimal    `json:"balance"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		Name:         acc.Name,
		ContactEmail: acc.ContactEmail,
		ContactPhone: acc.ContactPhone,
		Kind:         acc.Kind,
		Balance:      acc.Balance,
		CreatedAt:    acc.CreatedAt,
		UpdatedAt:    acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to responses.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
