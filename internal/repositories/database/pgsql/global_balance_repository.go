package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/apperrors"
	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portsrepo "github.com/comercioapp/ledger_backend/internal/core/ports/repositories"
	"github.com/comercioapp/ledger_backend/internal/models"
)

type PgxGlobalBalanceRepository struct {
	pool *pgxpool.Pool
}

// newPgxGlobalBalanceRepository creates a new repository for the
// running-balance singleton. The row itself is seeded by a migration.
func newPgxGlobalBalanceRepository(pool *pgxpool.Pool) portsrepo.GlobalBalanceRepositoryFacade {
	return &PgxGlobalBalanceRepository{pool: pool}
}

var _ portsrepo.GlobalBalanceRepositoryFacade = (*PgxGlobalBalanceRepository)(nil)

func toDomainGlobalBalance(m models.GlobalBalance) domain.GlobalBalance {
	return domain.GlobalBalance{
		ID:             m.ID,
		CurrentBalance: m.CurrentBalance,
		InitialBalance: m.InitialBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const globalBalanceColumns = `id, current_balance, initial_balance, created_at, created_by, last_updated_at, last_updated_by`

func scanGlobalBalance(row pgx.Row) (models.GlobalBalance, error) {
	var m models.GlobalBalance
	err := row.Scan(
		&m.ID,
		&m.CurrentBalance,
		&m.InitialBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// GetGlobalBalance retrieves the singleton record.
func (r *PgxGlobalBalanceRepository) GetGlobalBalance(ctx context.Context) (*domain.GlobalBalance, error) {
	query := `SELECT ` + globalBalanceColumns + ` FROM global_balance WHERE id = $1;`

	m, err := scanGlobalBalance(r.pool.QueryRow(ctx, query, domain.GlobalBalanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: global balance row missing, migrations not applied", apperrors.ErrInternal)
		}
		return nil, fmt.Errorf("failed to get global balance: %w", err)
	}

	d := toDomainGlobalBalance(m)
	return &d, nil
}

// GetGlobalBalanceForUpdate retrieves and locks the singleton row within a
// transaction, serialising concurrent updaters.
func (r *PgxGlobalBalanceRepository) GetGlobalBalanceForUpdate(ctx context.Context, tx pgx.Tx) (*domain.GlobalBalance, error) {
	query := `SELECT ` + globalBalanceColumns + ` FROM global_balance WHERE id = $1 FOR UPDATE;`

	m, err := scanGlobalBalance(tx.QueryRow(ctx, query, domain.GlobalBalanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: global balance row missing, migrations not applied", apperrors.ErrInternal)
		}
		return nil, fmt.Errorf("failed to lock global balance: %w", mapPgError(err))
	}

	d := toDomainGlobalBalance(m)
	return &d, nil
}

// UpdateCurrentBalanceInTx overwrites the derived current balance within the
// given transaction.
func (r *PgxGlobalBalanceRepository) UpdateCurrentBalanceInTx(ctx context.Context, tx pgx.Tx, current decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE global_balance
		SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, domain.GlobalBalanceID, current, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update current balance: %w", mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: global balance row missing, migrations not applied", apperrors.ErrInternal)
	}
	return nil
}

// UpdateInitialBalance patches the operator-set initial balance.
func (r *PgxGlobalBalanceRepository) UpdateInitialBalance(ctx context.Context, initial decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE global_balance
		SET initial_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, domain.GlobalBalanceID, initial, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update initial balance: %w", mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: global balance row missing, migrations not applied", apperrors.ErrInternal)
	}
	return nil
}
