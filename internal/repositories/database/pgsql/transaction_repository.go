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
	"github.com/comercioapp/ledger_backend/internal/utils/ledger"
	"github.com/comercioapp/ledger_backend/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		Type:          models.TransactionType(d.Type),
		Date:          d.Date,
		AccountID:     d.AccountID,
		Total:         d.Total,
		DiscountTotal: d.DiscountTotal,
		VoucherNumber: d.VoucherNumber,
		BalanceDiff:   d.BalanceDiff,
		Memo:          d.Memo,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.SettlementStatus != "" {
		status := string(d.SettlementStatus)
		m.SettlementStatus = &status
	}
	return m
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		Type:          domain.TransactionType(m.Type),
		Date:          m.Date,
		AccountID:     m.AccountID,
		Total:         m.Total,
		DiscountTotal: m.DiscountTotal,
		VoucherNumber: m.VoucherNumber,
		BalanceDiff:   m.BalanceDiff,
		Memo:          m.Memo,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.SettlementStatus != nil {
		d.SettlementStatus = domain.SettlementStatus(*m.SettlementStatus)
	}
	return d
}

func toModelItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem{
		ItemID:        d.ItemID,
		TransactionID: d.TransactionID,
		ProductID:     d.ProductID,
		ProductName:   d.ProductName,
		UnitPrice:     d.UnitPrice,
		Quantity:      d.Quantity,
		Discount:      d.Discount,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem{
		ItemID:        m.ItemID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		UnitPrice:     m.UnitPrice,
		Quantity:      m.Quantity,
		Discount:      m.Discount,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const transactionColumns = `transaction_id, type, date, account_id, total, discount_total, voucher_number, settlement_status, balance_diff, memo, created_at, created_by, last_updated_at, last_updated_by`

const itemColumns = `item_id, transaction_id, product_id, product_name, unit_price, quantity, discount, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Type,
		&m.Date,
		&m.AccountID,
		&m.Total,
		&m.DiscountTotal,
		&m.VoucherNumber,
		&m.SettlementStatus,
		&m.BalanceDiff,
		&m.Memo,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanItem(row pgx.Row) (models.TransactionItem, error) {
	var m models.TransactionItem
	err := row.Scan(
		&m.ItemID,
		&m.TransactionID,
		&m.ProductID,
		&m.ProductName,
		&m.UnitPrice,
		&m.Quantity,
		&m.Discount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// queryRower abstracts pool and tx so list helpers work in both contexts.
type queryRower interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func collectTransactions(ctx context.Context, q queryRower, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return txns, nil
}

// attachItems loads the items of every listed transaction in one query and
// attaches them to their parents. Transactions without items get an empty
// slice, distinguishing "loaded, none" from the nil "not loaded".
func attachItems(ctx context.Context, q queryRower, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	ids := make([]string, len(txns))
	index := make(map[string]int, len(txns))
	for i, txn := range txns {
		ids[i] = txn.TransactionID
		index[txn.TransactionID] = i
		txns[i].Items = []domain.TransactionItem{}
	}

	query := `SELECT ` + itemColumns + ` FROM transaction_items WHERE transaction_id = ANY($1) ORDER BY created_at;`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query transaction items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return fmt.Errorf("failed to scan item row: %w", err)
		}
		if i, ok := index[m.TransactionID]; ok {
			txns[i].Items = append(txns[i].Items, toDomainItem(m))
		}
	}
	if rows.Err() != nil {
		return fmt.Errorf("error iterating item rows: %w", rows.Err())
	}
	return nil
}

// FindTransactionByID retrieves a transaction with its items loaded.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txns := []domain.Transaction{toDomainTransaction(m)}
	if err := attachItems(ctx, r.Pool, txns); err != nil {
		return nil, err
	}
	return &txns[0], nil
}

// FindItemByID retrieves a single transaction item.
func (r *PgxTransactionRepository) FindItemByID(ctx context.Context, itemID string) (*domain.TransactionItem, error) {
	query := `SELECT ` + itemColumns + ` FROM transaction_items WHERE item_id = $1;`

	m, err := scanItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction item %s: %w", itemID, err)
	}

	d := toDomainItem(m)
	return &d, nil
}

// listPage runs a keyset-paginated transaction query, newest first. The
// token encodes the (date, created_at) cursor of the last returned row.
func (r *PgxTransactionRepository) listPage(ctx context.Context, limit int, nextToken *string, where string, args []any) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		if where == "" {
			query += ` WHERE`
		} else {
			query += ` AND`
		}
		query += fmt.Sprintf(` (date, created_at) < ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, cursorDate, cursorCreated)
	}

	query += fmt.Sprintf(` ORDER BY date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	txns, err := collectTransactions(ctx, r.Pool, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &t
	}

	if err := attachItems(ctx, r.Pool, txns); err != nil {
		return nil, nil, err
	}
	return txns, token, nil
}

// ListTransactions retrieves all transactions, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	return r.listPage(ctx, limit, nextToken, "", nil)
}

// ListTransactionsByAccount retrieves one account's transactions, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	return r.listPage(ctx, limit, nextToken, ` WHERE account_id = $1`, []any{accountID})
}

// InsertTransactionInTx inserts a transaction and its items within the
// caller's database transaction.
func (r *PgxTransactionRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction, items []domain.TransactionItem) error {
	m := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.Type,
		m.Date,
		m.AccountID,
		m.Total,
		m.DiscountTotal,
		m.VoucherNumber,
		m.SettlementStatus,
		m.BalanceDiff,
		m.Memo,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: voucher number already used for this account and type", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, mapPgError(err))
	}

	for _, item := range items {
		if err := r.InsertItemInTx(ctx, tx, item); err != nil {
			return err
		}
	}
	return nil
}

// UpdateTransactionInTx updates a transaction's source fields plus the
// type-normalised settlement status. The balance diff is never written here.
func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := toModelTransaction(txn)

	query := `
		UPDATE transactions
		SET type = $2, date = $3, account_id = $4, total = $5, discount_total = $6,
		    voucher_number = $7, settlement_status = $8, memo = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE transaction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.Type,
		m.Date,
		m.AccountID,
		m.Total,
		m.DiscountTotal,
		m.VoucherNumber,
		m.SettlementStatus,
		m.Memo,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: voucher number already used for this account and type", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransactionInTx removes a transaction. Items cascade via the schema.
func (r *PgxTransactionRepository) DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// InsertItemInTx inserts a single transaction item.
func (r *PgxTransactionRepository) InsertItemInTx(ctx context.Context, tx pgx.Tx, item domain.TransactionItem) error {
	m := toModelItem(item)

	query := `
		INSERT INTO transaction_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.ItemID,
		m.TransactionID,
		m.ProductID,
		m.ProductName,
		m.UnitPrice,
		m.Quantity,
		m.Discount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: item with ID %s already exists", apperrors.ErrDuplicate, m.ItemID)
		}
		return fmt.Errorf("failed to insert transaction item %s: %w", m.ItemID, mapPgError(err))
	}
	return nil
}

// UpdateItemInTx updates a single transaction item.
func (r *PgxTransactionRepository) UpdateItemInTx(ctx context.Context, tx pgx.Tx, item domain.TransactionItem) error {
	m := toModelItem(item)

	query := `
		UPDATE transaction_items
		SET product_id = $2, product_name = $3, unit_price = $4, quantity = $5,
		    discount = $6, last_updated_at = $7, last_updated_by = $8
		WHERE item_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ItemID,
		m.ProductID,
		m.ProductName,
		m.UnitPrice,
		m.Quantity,
		m.Discount,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction item %s: %w", m.ItemID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteItemInTx removes a single transaction item.
func (r *PgxTransactionRepository) DeleteItemInTx(ctx context.Context, tx pgx.Tx, itemID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM transaction_items WHERE item_id = $1;`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction item %s: %w", itemID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListAccountTransactionsInTx loads every transaction of an account, items
// included, within the cascade's database transaction.
func (r *PgxTransactionRepository) ListAccountTransactionsInTx(ctx context.Context, tx pgx.Tx, accountID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1;`

	txns, err := collectTransactions(ctx, tx, query, accountID)
	if err != nil {
		return nil, err
	}
	if err := attachItems(ctx, tx, txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// ListProductStockEntriesInTx loads the stock-affecting item quantities of a
// product, paired with their parent transaction types.
func (r *PgxTransactionRepository) ListProductStockEntriesInTx(ctx context.Context, tx pgx.Tx, productID string) ([]ledger.StockEntry, error) {
	query := `
		SELECT t.type, i.quantity
		FROM transaction_items i
		JOIN transactions t ON t.transaction_id = i.transaction_id
		WHERE i.product_id = $1;
	`
	rows, err := tx.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock entries for product %s: %w", productID, err)
	}
	defer rows.Close()

	entries := []ledger.StockEntry{}
	for rows.Next() {
		var entry ledger.StockEntry
		if err := rows.Scan(&entry.Type, &entry.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan stock entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating stock entries: %w", rows.Err())
	}
	return entries, nil
}

// FindInvoiceByVoucherInTx finds the invoice with the given account, type
// and voucher number, if any.
func (r *PgxTransactionRepository) FindInvoiceByVoucherInTx(ctx context.Context, tx pgx.Tx, accountID string, invoiceType domain.TransactionType, voucherNumber int64) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND type = $2 AND voucher_number = $3;
	`
	m, err := scanTransaction(tx.QueryRow(ctx, query, accountID, string(invoiceType), voucherNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by voucher %d: %w", voucherNumber, err)
	}

	d := toDomainTransaction(m)
	return &d, nil
}

// SumSettlementsInTx sums the totals of all transactions of the settlement
// type on the account carrying the voucher number.
func (r *PgxTransactionRepository) SumSettlementsInTx(ctx context.Context, tx pgx.Tx, accountID string, settlementType domain.TransactionType, voucherNumber int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM transactions
		WHERE account_id = $1 AND type = $2 AND voucher_number = $3;
	`
	var sum decimal.Decimal
	if err := tx.QueryRow(ctx, query, accountID, string(settlementType), voucherNumber).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum settlements for voucher %d: %w", voucherNumber, err)
	}
	return sum, nil
}

// SetSettlementStatusInTx overwrites an invoice's derived settlement status.
func (r *PgxTransactionRepository) SetSettlementStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.SettlementStatus, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET settlement_status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, transactionID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to set settlement status on %s: %w", transactionID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetBalanceDiffInTx overwrites a transaction's derived balance diff.
func (r *PgxTransactionRepository) SetBalanceDiffInTx(ctx context.Context, tx pgx.Tx, transactionID string, diff decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET balance_diff = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, transactionID, diff, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set balance diff on %s: %w", transactionID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListNonInvoiceTransactionsInTx loads every non-invoice transaction in
// insertion order, so replaying the overwrite rule is deterministic.
func (r *PgxTransactionRepository) ListNonInvoiceTransactionsInTx(ctx context.Context, tx pgx.Tx) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type NOT IN ($1, $2)
		ORDER BY created_at, transaction_id;
	`
	return collectTransactions(ctx, tx, query, string(domain.PurchaseInvoice), string(domain.SaleInvoice))
}
