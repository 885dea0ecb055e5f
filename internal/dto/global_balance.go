package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// UpdateInitialBalanceRequest patches the operator-set initial balance of
// the running-balance singleton.
type UpdateInitialBalanceRequest struct {
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// GlobalBalanceResponse defines the data returned for the singleton.
type GlobalBalanceResponse struct {
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ToGlobalBalanceResponse converts the domain singleton to its response.
func ToGlobalBalanceResponse(gb *domain.GlobalBalance) GlobalBalanceResponse {
	return GlobalBalanceResponse{
		CurrentBalance: gb.CurrentBalance,
		InitialBalance: gb.InitialBalance,
		UpdatedAt:      gb.LastUpdatedAt,
	}
}

// RecalculateResponse reports the outcome of a batch recomputation.
type RecalculateResponse struct {
	Message string `json:"message"`
	Changed int    `json:"changed"`
	Total   int    `json:"total"`
}
