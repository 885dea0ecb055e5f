package services

import (
	"context"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	"github.com/comercioapp/ledger_backend/internal/dto"
)

// LedgerSvcFacade is the mutation entry point for transactions and their
// items. Every mutation runs the reconciliation cascade inside one atomic
// unit: source write, account balance, product quantities, invoice
// settlement, global balance, then commit.
type LedgerSvcFacade interface {
	// CreateTransaction validates, applies the voucher uniqueness guard,
	// inserts the transaction with its items and runs the cascade.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// GetTransactionByID retrieves a transaction with its items.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions, newest first, with token
	// pagination.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListTransactionsByAccount retrieves one account's transactions, newest
	// first, with token pagination.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// UpdateTransaction updates source fields and reruns the cascade for
	// every touched aggregate, including the previous account when the
	// transaction moved between accounts.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and reruns the cascade over
	// the aggregates it used to touch.
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error

	// CreateTransactionItem adds an item to an existing transaction and
	// reruns the cascade for the parent's account and the item's product.
	CreateTransactionItem(ctx context.Context, req dto.CreateTransactionItemRequest, userID string) (*domain.TransactionItem, error)

	// UpdateTransactionItem updates an item and reruns the cascade.
	UpdateTransactionItem(ctx context.Context, itemID string, req dto.UpdateTransactionItemRequest, userID string) (*domain.TransactionItem, error)

	// DeleteTransactionItem removes an item and reruns the cascade.
	DeleteTransactionItem(ctx context.Context, itemID string, userID string) error

	// RecalculateAllAccountBalances recomputes every account's balance from
	// its transactions. Returns the number of accounts whose balance changed
	// and the total number examined.
	RecalculateAllAccountBalances(ctx context.Context, userID string) (changed int, total int, err error)

	// RecalculateAllProductQuantities recomputes every product's stock level.
	RecalculateAllProductQuantities(ctx context.Context, userID string) (changed int, total int, err error)

	// RecalculateGlobalBalance replays the per-save overwrite rule over all
	// non-invoice transactions in ascending identity order.
	RecalculateGlobalBalance(ctx context.Context, userID string) (*domain.GlobalBalance, error)
}
