package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType at the persistence layer.
type TransactionType string

// Transaction is the database model for the transactions table.
// settlement_status and voucher_number are nullable columns.
type Transaction struct {
	TransactionID    string           `db:"transaction_id"`
	Type             TransactionType  `db:"type"`
	Date             time.Time        `db:"date"`
	AccountID        string           `db:"account_id"`
	Total            decimal.Decimal  `db:"total"`
	DiscountTotal    *decimal.Decimal `db:"discount_total"`
	VoucherNumber    *int64           `db:"voucher_number"`
	SettlementStatus *string          `db:"settlement_status"`
	BalanceDiff      decimal.Decimal  `db:"balance_diff"`
	Memo             string           `db:"memo"`
	AuditFields
}

// TransactionItem is the database model for the transaction_items table.
type TransactionItem struct {
	ItemID        string          `db:"item_id"`
	TransactionID string          `db:"transaction_id"`
	ProductID     *string         `db:"product_id"`
	ProductName   string          `db:"product_name"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Quantity      decimal.Decimal `db:"quantity"`
	Discount      decimal.Decimal `db:"discount"`
	AuditFields
}
