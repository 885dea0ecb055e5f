package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// GlobalBalanceRepositoryFacade defines persistence for the running-balance
// singleton. The row is created by a migration and constrained to a single
// instance; there is no insert operation.
type GlobalBalanceRepositoryFacade interface {
	// GetGlobalBalance retrieves the singleton record.
	GetGlobalBalance(ctx context.Context) (*domain.GlobalBalance, error)

	// GetGlobalBalanceForUpdate retrieves and locks the singleton row within
	// a transaction, serialising concurrent updaters.
	GetGlobalBalanceForUpdate(ctx context.Context, tx pgx.Tx) (*domain.GlobalBalance, error)

	// UpdateCurrentBalanceInTx overwrites the derived current balance within
	// the given transaction.
	UpdateCurrentBalanceInTx(ctx context.Context, tx pgx.Tx, current decimal.Decimal, userID string, now time.Time) error

	// UpdateInitialBalance patches the operator-set initial balance.
	UpdateInitialBalance(ctx context.Context, initial decimal.Decimal, userID string, now time.Time) error
}
