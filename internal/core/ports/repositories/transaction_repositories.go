package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	"github.com/comercioapp/ledger_backend/internal/utils/ledger"
)

// TransactionReader defines read operations for transactions and their items.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its items loaded.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindItemByID retrieves a single transaction item.
	FindItemByID(ctx context.Context, itemID string) (*domain.TransactionItem, error)

	// ListTransactionsByAccount retrieves transactions for one account,
	// newest first, using token pagination.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListTransactions retrieves all transactions, newest first, using
	// token pagination.
	ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines the source-row mutations. Each runs inside the
// caller's database transaction so the cascade reads post-mutation state.
type TransactionWriter interface {
	// InsertTransactionInTx inserts a transaction and its items.
	InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction, items []domain.TransactionItem) error

	// UpdateTransactionInTx updates the source fields of a transaction plus
	// the type-normalised settlement status. The balance diff is not touched.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// DeleteTransactionInTx removes a transaction; items cascade in the schema.
	DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error

	// InsertItemInTx inserts a single transaction item.
	InsertItemInTx(ctx context.Context, tx pgx.Tx, item domain.TransactionItem) error

	// UpdateItemInTx updates a single transaction item.
	UpdateItemInTx(ctx context.Context, tx pgx.Tx, item domain.TransactionItem) error

	// DeleteItemInTx removes a single transaction item.
	DeleteItemInTx(ctx context.Context, tx pgx.Tx, itemID string) error
}

// TransactionCascadeSupport defines the reads and derived-field writes the
// reconciliation cascade performs. The derived-field writers are internal to
// the cascade and never reachable through the public mutation entry points.
type TransactionCascadeSupport interface {
	// ListAccountTransactionsInTx loads every transaction of an account,
	// items included, within the cascade's database transaction.
	ListAccountTransactionsInTx(ctx context.Context, tx pgx.Tx, accountID string) ([]domain.Transaction, error)

	// ListProductStockEntriesInTx loads the stock-affecting item quantities
	// referencing a product, paired with their parent transaction types.
	ListProductStockEntriesInTx(ctx context.Context, tx pgx.Tx, productID string) ([]ledger.StockEntry, error)

	// FindInvoiceByVoucherInTx finds the invoice transaction with the given
	// account, type and voucher number, if any.
	FindInvoiceByVoucherInTx(ctx context.Context, tx pgx.Tx, accountID string, invoiceType domain.TransactionType, voucherNumber int64) (*domain.Transaction, error)

	// SumSettlementsInTx sums the totals of all transactions of the given
	// settlement type on the account carrying the voucher number.
	SumSettlementsInTx(ctx context.Context, tx pgx.Tx, accountID string, settlementType domain.TransactionType, voucherNumber int64) (decimal.Decimal, error)

	// SetSettlementStatusInTx overwrites an invoice's derived settlement status.
	SetSettlementStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.SettlementStatus, userID string, now time.Time) error

	// SetBalanceDiffInTx overwrites a transaction's derived balance diff.
	SetBalanceDiffInTx(ctx context.Context, tx pgx.Tx, transactionID string, diff decimal.Decimal, userID string, now time.Time) error

	// ListNonInvoiceTransactionsInTx loads every non-invoice transaction in
	// ascending identity order, for the deterministic batch recompute of the
	// global balance.
	ListNonInvoiceTransactionsInTx(ctx context.Context, tx pgx.Tx) ([]domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionCascadeSupport
	TransactionManager
}
