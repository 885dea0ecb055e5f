package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/comercioapp/ledger_backend/internal/apperrors"
	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portsrepo "github.com/comercioapp/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
	"github.com/comercioapp/ledger_backend/internal/dto"
	"github.com/comercioapp/ledger_backend/internal/middleware"
	"github.com/comercioapp/ledger_backend/internal/utils/ledger"
)

var (
	ErrVoucherRequired  = errors.New("voucher number is required for invoice transactions")
	ErrDuplicateVoucher = errors.New("an invoice with this voucher number already exists for the account")
	ErrItemsNotAllowed  = errors.New("items are only allowed on invoice transactions")
)

// ledgerService is the mutation entry point for transactions and their
// items. Every create/update/delete runs inside one database transaction
// together with the reconciliation cascade: account balances, product
// quantities, invoice settlement and the global running balance are
// recomputed from post-mutation state before the unit commits.
//
// The recompute-and-persist steps only ever call the *InTx repository
// methods; they cannot re-enter the public entry points, so one external
// mutation triggers exactly one cascade pass.
type ledgerService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	productRepo portsrepo.ProductRepositoryFacade
	globalRepo  portsrepo.GlobalBalanceRepositoryFacade
}

// NewLedgerService creates the ledger service.
func NewLedgerService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	productRepo portsrepo.ProductRepositoryFacade,
	globalRepo portsrepo.GlobalBalanceRepositoryFacade,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		productRepo: productRepo,
		globalRepo:  globalRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// settlementTarget identifies an invoice whose settlement status must be
// recomputed: the (account, invoice type, voucher) triple is unique.
type settlementTarget struct {
	accountID     string
	invoiceType   domain.TransactionType
	voucherNumber int64
}

// cascadeScope collects the aggregates one mutation touches. The cascade
// visits them in a fixed order: accounts, products, settlements, global.
type cascadeScope struct {
	accountIDs  map[string]struct{}
	productIDs  map[string]struct{}
	settlements []settlementTarget
	// globalTxn is the non-invoice transaction whose save overwrites the
	// running balance; nil when the mutation does not qualify.
	globalTxn *domain.Transaction
	// globalReplay replays the overwrite rule over all remaining
	// qualifying transactions instead (delete path).
	globalReplay bool
}

func newCascadeScope() *cascadeScope {
	return &cascadeScope{
		accountIDs: make(map[string]struct{}),
		productIDs: make(map[string]struct{}),
	}
}

func (sc *cascadeScope) addAccount(accountID string) {
	if accountID != "" {
		sc.accountIDs[accountID] = struct{}{}
	}
}

func (sc *cascadeScope) addItemProducts(items []domain.TransactionItem) {
	for _, item := range items {
		if item.ProductID != nil {
			sc.productIDs[*item.ProductID] = struct{}{}
		}
	}
}

// addSettlements registers the invoices affected by a transaction: the
// matching invoice when the transaction is a payment/collection carrying a
// voucher, and the transaction itself when it is an invoice.
func (sc *cascadeScope) addSettlements(txn domain.Transaction) {
	if txn.VoucherNumber == nil {
		return
	}
	if invoiceType, ok := txn.Type.SettledInvoiceType(); ok {
		sc.settlements = append(sc.settlements, settlementTarget{
			accountID:     txn.AccountID,
			invoiceType:   invoiceType,
			voucherNumber: *txn.VoucherNumber,
		})
	}
	if txn.Type.IsInvoice() {
		sc.settlements = append(sc.settlements, settlementTarget{
			accountID:     txn.AccountID,
			invoiceType:   txn.Type,
			voucherNumber: *txn.VoucherNumber,
		})
	}
}

// sortedKeys returns map keys in ascending order so the cascade locks rows
// in a deterministic order across concurrent writers.
func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- public mutation entry points ---

func (s *ledgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}
	if req.Type.IsInvoice() && req.VoucherNumber == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrVoucherRequired)
	}
	if (len(req.Items) > 0 || len(req.Cart) > 0) && !req.Type.IsInvoice() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrItemsNotAllowed)
	}

	now := time.Now().UTC()
	txnID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	items, err := s.buildItems(ctx, txnID, req, audit)
	if err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID: txnID,
		Type:          req.Type,
		Date:          req.Date,
		AccountID:     req.AccountID,
		Total:         ledger.RoundMoney(req.Total),
		DiscountTotal: req.DiscountTotal,
		VoucherNumber: req.VoucherNumber,
		Memo:          req.Memo,
		AuditFields:   audit,
	}
	if txn.Type.IsInvoice() {
		txn.SettlementStatus = domain.SettlementPending
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if txn.Type.IsInvoice() {
		if err := s.checkVoucherUnique(ctx, tx, txn.AccountID, txn.Type, *txn.VoucherNumber, ""); err != nil {
			return nil, err
		}
	}

	if err := s.txnRepo.InsertTransactionInTx(ctx, tx, txn, items); err != nil {
		logger.Error("Failed to insert transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	scope := newCascadeScope()
	scope.addAccount(txn.AccountID)
	scope.addItemProducts(items)
	scope.addSettlements(txn)
	if !txn.Type.IsInvoice() {
		scope.globalTxn = &txn
	}

	if err := s.runCascade(ctx, tx, scope, creatorUserID, now); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("account_id", txn.AccountID))

	txn.Items = items
	return &txn, nil
}

// buildItems assembles the item rows of a new transaction from the inline
// item lines and the cart lines. Cart lines snapshot the product's name and
// sale price; lines referencing a since-deleted product are dropped.
func (s *ledgerService) buildItems(ctx context.Context, txnID string, req dto.CreateTransactionRequest, audit domain.AuditFields) ([]domain.TransactionItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	items := make([]domain.TransactionItem, 0, len(req.Items)+len(req.Cart))
	for _, line := range req.Items {
		items = append(items, domain.TransactionItem{
			ItemID:        uuid.NewString(),
			TransactionID: txnID,
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			UnitPrice:     ledger.RoundMoney(line.UnitPrice),
			Quantity:      line.Quantity,
			Discount:      ledger.RoundMoney(line.Discount),
			AuditFields:   audit,
		})
	}

	for _, line := range req.Cart {
		product, err := s.productRepo.FindProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Cart references missing product, line dropped", slog.String("product_id", line.ProductID))
				continue
			}
			return nil, fmt.Errorf("failed to resolve cart product %s: %w", line.ProductID, err)
		}
		productID := product.ProductID
		items = append(items, domain.TransactionItem{
			ItemID:        uuid.NewString(),
			TransactionID: txnID,
			ProductID:     &productID,
			ProductName:   product.Description,
			UnitPrice:     product.UnitSalePrice,
			Quantity:      line.Quantity,
			AuditFields:   audit,
		})
	}
	return items, nil
}

// checkVoucherUnique is the voucher uniqueness guard. The read runs inside
// the mutation's transaction; the partial unique index on
// (account_id, type, voucher_number) is the backstop against writers that
// race between this check and the insert.
func (s *ledgerService) checkVoucherUnique(ctx context.Context, tx pgx.Tx, accountID string, invoiceType domain.TransactionType, voucherNumber int64, selfID string) error {
	existing, err := s.txnRepo.FindInvoiceByVoucherInTx(ctx, tx, accountID, invoiceType, voucherNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("voucher uniqueness check failed: %w", err)
	}
	if existing.TransactionID == selfID {
		return nil
	}
	return fmt.Errorf("%w: %s (voucher %d)", apperrors.ErrValidation, ErrDuplicateVoucher, voucherNumber)
}

func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

func (s *ledgerService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, nextToken, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

func (s *ledgerService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.AccountID != nil {
		updated.AccountID = *req.AccountID
	}
	if req.Total != nil {
		updated.Total = ledger.RoundMoney(*req.Total)
	}
	if req.DiscountTotal != nil {
		updated.DiscountTotal = req.DiscountTotal
	}
	if req.VoucherNumber != nil {
		updated.VoucherNumber = req.VoucherNumber
	}
	if req.Memo != nil {
		updated.Memo = *req.Memo
	}

	if !updated.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, updated.Type)
	}
	if updated.Type.IsInvoice() && updated.VoucherNumber == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrVoucherRequired)
	}
	if len(existing.Items) > 0 && !updated.Type.IsInvoice() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrItemsNotAllowed)
	}

	// Settlement status follows the type: only invoices carry one. The
	// cascade recomputes the precise value below.
	if updated.Type.IsInvoice() {
		if !updated.SettlementStatus.IsSettled() {
			updated.SettlementStatus = domain.SettlementPending
		}
	} else {
		updated.SettlementStatus = ""
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if updated.Type.IsInvoice() {
		if err := s.checkVoucherUnique(ctx, tx, updated.AccountID, updated.Type, *updated.VoucherNumber, updated.TransactionID); err != nil {
			return nil, err
		}
	}

	if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, updated); err != nil {
		logger.Error("Failed to update transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	scope := newCascadeScope()
	scope.addAccount(existing.AccountID)
	scope.addAccount(updated.AccountID)
	scope.addItemProducts(existing.Items)
	scope.addSettlements(*existing)
	scope.addSettlements(updated)
	if !updated.Type.IsInvoice() {
		scope.globalTxn = &updated
	} else if !existing.Type.IsInvoice() {
		// The transaction used to feed the running balance and no longer
		// does; replay the rule over the remaining qualifying rows.
		scope.globalReplay = true
	}

	if err := s.runCascade(ctx, tx, scope, userID, now); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

func (s *ledgerService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if err := s.txnRepo.DeleteTransactionInTx(ctx, tx, transactionID); err != nil {
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	scope := newCascadeScope()
	scope.addAccount(existing.AccountID)
	scope.addItemProducts(existing.Items)
	if _, ok := existing.Type.SettledInvoiceType(); ok {
		// Removing a payment/collection changes the matching invoice's
		// covered sum.
		scope.addSettlements(*existing)
	}
	if !existing.Type.IsInvoice() {
		scope.globalReplay = true
	}

	if err := s.runCascade(ctx, tx, scope, userID, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *ledgerService) CreateTransactionItem(ctx context.Context, req dto.CreateTransactionItemRequest, userID string) (*domain.TransactionItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	parent, err := s.txnRepo.FindTransactionByID(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if !parent.Type.IsInvoice() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrItemsNotAllowed)
	}

	now := time.Now().UTC()
	item := domain.TransactionItem{
		ItemID:        uuid.NewString(),
		TransactionID: parent.TransactionID,
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		UnitPrice:     ledger.RoundMoney(req.UnitPrice),
		Quantity:      req.Quantity,
		Discount:      ledger.RoundMoney(req.Discount),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Snapshot name and price from the product when the caller did not
	// supply them.
	if req.ProductID != nil && (item.ProductName == "" || item.UnitPrice.IsZero()) {
		product, err := s.productRepo.FindProductByID(ctx, *req.ProductID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve product %s: %w", *req.ProductID, err)
		}
		if err == nil {
			if item.ProductName == "" {
				item.ProductName = product.Description
			}
			if item.UnitPrice.IsZero() {
				item.UnitPrice = product.UnitSalePrice
			}
		}
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if err := s.txnRepo.InsertItemInTx(ctx, tx, item); err != nil {
		logger.Error("Failed to insert transaction item", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to insert transaction item: %w", err)
	}

	scope := newCascadeScope()
	scope.addAccount(parent.AccountID)
	scope.addItemProducts([]domain.TransactionItem{item})

	if err := s.runCascade(ctx, tx, scope, userID, now); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transaction item created", slog.String("item_id", item.ItemID), slog.String("transaction_id", parent.TransactionID))
	return &item, nil
}

func (s *ledgerService) UpdateTransactionItem(ctx context.Context, itemID string, req dto.UpdateTransactionItemRequest, userID string) (*domain.TransactionItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	parent, err := s.txnRepo.FindTransactionByID(ctx, existing.TransactionID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.ProductID != nil {
		updated.ProductID = req.ProductID
	}
	if req.ProductName != nil {
		updated.ProductName = *req.ProductName
	}
	if req.UnitPrice != nil {
		updated.UnitPrice = ledger.RoundMoney(*req.UnitPrice)
	}
	if req.Quantity != nil {
		updated.Quantity = *req.Quantity
	}
	if req.Discount != nil {
		updated.Discount = ledger.RoundMoney(*req.Discount)
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if err := s.txnRepo.UpdateItemInTx(ctx, tx, updated); err != nil {
		logger.Error("Failed to update transaction item", slog.String("error", err.Error()), slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to update transaction item: %w", err)
	}

	scope := newCascadeScope()
	scope.addAccount(parent.AccountID)
	scope.addItemProducts([]domain.TransactionItem{*existing, updated})

	if err := s.runCascade(ctx, tx, scope, userID, now); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transaction item updated", slog.String("item_id", itemID))
	return &updated, nil
}

func (s *ledgerService) DeleteTransactionItem(ctx context.Context, itemID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	parent, err := s.txnRepo.FindTransactionByID(ctx, existing.TransactionID)
	if err != nil {
		return err
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if err := s.txnRepo.DeleteItemInTx(ctx, tx, itemID); err != nil {
		logger.Error("Failed to delete transaction item", slog.String("error", err.Error()), slog.String("item_id", itemID))
		return fmt.Errorf("failed to delete transaction item: %w", err)
	}

	scope := newCascadeScope()
	scope.addAccount(parent.AccountID)
	scope.addItemProducts([]domain.TransactionItem{*existing})

	if err := s.runCascade(ctx, tx, scope, userID, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Transaction item deleted", slog.String("item_id", itemID))
	return nil
}

// --- the reconciliation cascade ---

// runCascade recomputes every derived aggregate the mutation touched, in a
// fixed order, inside the mutation's own database transaction. Any failure
// aborts the whole unit; no partial derived state survives.
func (s *ledgerService) runCascade(ctx context.Context, tx pgx.Tx, scope *cascadeScope, userID string, now time.Time) error {
	for _, accountID := range sortedKeys(scope.accountIDs) {
		if _, err := s.recalculateAccountBalanceInTx(ctx, tx, accountID, userID, now); err != nil {
			return err
		}
	}
	for _, productID := range sortedKeys(scope.productIDs) {
		if _, err := s.recalculateProductQuantityInTx(ctx, tx, productID, userID, now); err != nil {
			return err
		}
	}
	for _, target := range scope.settlements {
		if err := s.recalculateSettlementInTx(ctx, tx, target, userID, now); err != nil {
			return err
		}
	}
	if scope.globalTxn != nil {
		if err := s.applyGlobalBalanceInTx(ctx, tx, *scope.globalTxn, userID, now); err != nil {
			return err
		}
	} else if scope.globalReplay {
		if _, err := s.replayGlobalBalanceInTx(ctx, tx, userID, now); err != nil {
			return err
		}
	}
	return nil
}

// recalculateAccountBalanceInTx derives the account's balance from the full
// post-mutation set of its transactions and overwrites the stored value.
// A concurrently deleted account is a benign no-op.
func (s *ledgerService) recalculateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, userID string, now time.Time) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Account gone, balance recompute skipped", slog.String("account_id", accountID))
			return false, nil
		}
		return false, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}

	txns, err := s.txnRepo.ListAccountTransactionsInTx(ctx, tx, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to load transactions for account %s: %w", accountID, err)
	}

	balance := ledger.AccountBalance(txns)
	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, accountID, balance, userID, now); err != nil {
		return false, fmt.Errorf("failed to write balance for account %s: %w", accountID, err)
	}
	return !balance.Equal(account.Balance), nil
}

// recalculateProductQuantityInTx derives the product's stock level from its
// item history and overwrites the stored value. A concurrently deleted
// product is a benign no-op.
func (s *ledgerService) recalculateProductQuantityInTx(ctx context.Context, tx pgx.Tx, productID string, userID string, now time.Time) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductForUpdate(ctx, tx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Product gone, quantity recompute skipped", slog.String("product_id", productID))
			return false, nil
		}
		return false, fmt.Errorf("failed to lock product %s: %w", productID, err)
	}

	entries, err := s.txnRepo.ListProductStockEntriesInTx(ctx, tx, productID)
	if err != nil {
		return false, fmt.Errorf("failed to load stock entries for product %s: %w", productID, err)
	}

	quantity := ledger.ProductQuantity(product.InitialQuantity, entries)
	if err := s.productRepo.UpdateProductQuantityInTx(ctx, tx, productID, quantity, userID, now); err != nil {
		return false, fmt.Errorf("failed to write quantity for product %s: %w", productID, err)
	}
	return quantity != product.Quantity, nil
}

// recalculateSettlementInTx recomputes one invoice's settlement status from
// the sum of its matching payments/collections. The comparison is exact
// fixed-point >=. A missing invoice is a benign no-op.
func (s *ledgerService) recalculateSettlementInTx(ctx context.Context, tx pgx.Tx, target settlementTarget, userID string, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.txnRepo.FindInvoiceByVoucherInTx(ctx, tx, target.accountID, target.invoiceType, target.voucherNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("No matching invoice for settlement recompute",
				slog.String("account_id", target.accountID),
				slog.Int64("voucher_number", target.voucherNumber))
			return nil
		}
		return fmt.Errorf("failed to find invoice for settlement: %w", err)
	}

	settlementType, ok := target.invoiceType.SettlementType()
	if !ok {
		return fmt.Errorf("%w: type %s has no settlement counterpart", apperrors.ErrInternal, target.invoiceType)
	}

	covered, err := s.txnRepo.SumSettlementsInTx(ctx, tx, target.accountID, settlementType, target.voucherNumber)
	if err != nil {
		return fmt.Errorf("failed to sum settlements: %w", err)
	}

	status := domain.SettlementPending
	if ledger.IsCovered(invoice.Total, covered) {
		status = domain.SettledStatusFor(target.invoiceType)
	}
	if status == invoice.SettlementStatus {
		return nil
	}

	if err := s.txnRepo.SetSettlementStatusInTx(ctx, tx, invoice.TransactionID, status, userID, now); err != nil {
		return fmt.Errorf("failed to write settlement status: %w", err)
	}

	logger.Info("Invoice settlement updated",
		slog.String("transaction_id", invoice.TransactionID),
		slog.String("status", string(status)))
	return nil
}

// applyGlobalBalanceInTx applies the per-save overwrite rule: the saved
// non-invoice transaction's diff replaces the global running balance.
// Last write wins; this is deliberately not an accumulating sum.
func (s *ledgerService) applyGlobalBalanceInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction, userID string, now time.Time) error {
	gb, err := s.globalRepo.GetGlobalBalanceForUpdate(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to lock global balance: %w", err)
	}

	diff := ledger.GlobalDiff(gb.InitialBalance, txn.Total)
	if err := s.txnRepo.SetBalanceDiffInTx(ctx, tx, txn.TransactionID, diff, userID, now); err != nil {
		return fmt.Errorf("failed to write balance diff: %w", err)
	}
	if err := s.globalRepo.UpdateCurrentBalanceInTx(ctx, tx, diff, userID, now); err != nil {
		return fmt.Errorf("failed to overwrite global balance: %w", err)
	}
	return nil
}

// replayGlobalBalanceInTx reapplies the overwrite rule to every qualifying
// transaction in ascending identity order, leaving the final state equal to
// the last one's diff. Used when a qualifying transaction disappears and by
// the batch recompute operation.
func (s *ledgerService) replayGlobalBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (*domain.GlobalBalance, error) {
	gb, err := s.globalRepo.GetGlobalBalanceForUpdate(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock global balance: %w", err)
	}

	txns, err := s.txnRepo.ListNonInvoiceTransactionsInTx(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to list non-invoice transactions: %w", err)
	}

	for _, txn := range txns {
		diff := ledger.GlobalDiff(gb.InitialBalance, txn.Total)
		if err := s.txnRepo.SetBalanceDiffInTx(ctx, tx, txn.TransactionID, diff, userID, now); err != nil {
			return nil, fmt.Errorf("failed to write balance diff for %s: %w", txn.TransactionID, err)
		}
		gb.CurrentBalance = diff
	}

	if len(txns) > 0 {
		if err := s.globalRepo.UpdateCurrentBalanceInTx(ctx, tx, gb.CurrentBalance, userID, now); err != nil {
			return nil, fmt.Errorf("failed to overwrite global balance: %w", err)
		}
	}
	gb.LastUpdatedAt = now
	gb.LastUpdatedBy = userID
	return gb, nil
}

// --- batch recomputation ---

func (s *ledgerService) RecalculateAllAccountBalances(ctx context.Context, userID string) (int, int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountIDs, err := s.accountRepo.ListAccountIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list accounts: %w", err)
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	now := time.Now().UTC()
	changed := 0
	for _, accountID := range accountIDs {
		didChange, err := s.recalculateAccountBalanceInTx(ctx, tx, accountID, userID, now)
		if err != nil {
			return 0, 0, err
		}
		if didChange {
			changed++
		}
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return 0, 0, err
	}

	logger.Info("Account balances recalculated", slog.Int("changed", changed), slog.Int("total", len(accountIDs)))
	return changed, len(accountIDs), nil
}

func (s *ledgerService) RecalculateAllProductQuantities(ctx context.Context, userID string) (int, int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	productIDs, err := s.productRepo.ListProductIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list products: %w", err)
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	now := time.Now().UTC()
	changed := 0
	for _, productID := range productIDs {
		didChange, err := s.recalculateProductQuantityInTx(ctx, tx, productID, userID, now)
		if err != nil {
			return 0, 0, err
		}
		if didChange {
			changed++
		}
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return 0, 0, err
	}

	logger.Info("Product quantities recalculated", slog.Int("changed", changed), slog.Int("total", len(productIDs)))
	return changed, len(productIDs), nil
}

func (s *ledgerService) RecalculateGlobalBalance(ctx context.Context, userID string) (*domain.GlobalBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	gb, err := s.replayGlobalBalanceInTx(ctx, tx, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Global balance recalculated")
	return gb, nil
}
