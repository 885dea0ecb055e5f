package services

import (
	"context"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	"github.com/comercioapp/ledger_backend/internal/dto"
)

// GlobalBalanceSvcFacade exposes the running-balance singleton. The current
// balance is derived and read-only here; only the initial balance can be
// patched.
type GlobalBalanceSvcFacade interface {
	// GetGlobalBalance retrieves the singleton record.
	GetGlobalBalance(ctx context.Context) (*domain.GlobalBalance, error)

	// UpdateInitialBalance patches the operator-set initial balance.
	UpdateInitialBalance(ctx context.Context, req dto.UpdateInitialBalanceRequest, userID string) (*domain.GlobalBalance, error)
}
