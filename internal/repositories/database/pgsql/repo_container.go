package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/comercioapp/ledger_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every Postgres repository from one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:       newPgxAccountRepository(dbPool),
		ProductRepo:       newPgxProductRepository(dbPool),
		TransactionRepo:   newPgxTransactionRepository(dbPool),
		GlobalBalanceRepo: newPgxGlobalBalanceRepository(dbPool),
		UserRepo:          newPgxUserRepository(dbPool),
		ReportingRepo:     newPgxReportingRepository(dbPool),
	}
}
