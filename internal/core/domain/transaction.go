package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of voucher kinds the ledger records.
type TransactionType string

const (
	PurchaseInvoice TransactionType = "PURCHASE_INVOICE"
	SaleInvoice     TransactionType = "SALE_INVOICE"
	Collection      TransactionType = "COLLECTION"
	Payment         TransactionType = "PAYMENT"
	Wage            TransactionType = "WAGE"
	Rent            TransactionType = "RENT"
	Tax             TransactionType = "TAX"
	Bonus           TransactionType = "BONUS"
	Salary          TransactionType = "SALARY"
	MiscInvoice     TransactionType = "MISC_INVOICE"
	Service         TransactionType = "SERVICE"
)

// ValidTransactionTypes lists every member of the closed enum.
var ValidTransactionTypes = []TransactionType{
	PurchaseInvoice, SaleInvoice, Collection, Payment, Wage,
	Rent, Tax, Bonus, Salary, MiscInvoice, Service,
}

// IsValid reports whether t is a member of the closed enum.
func (t TransactionType) IsValid() bool {
	for _, v := range ValidTransactionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsInvoice reports whether t is an invoice type: one that carries a
// mandatory voucher number and is subject to settlement tracking.
func (t TransactionType) IsInvoice() bool {
	return t == PurchaseInvoice || t == SaleInvoice
}

// SettlementType returns the transaction type whose totals settle an
// invoice of type t: payments settle purchases, collections settle sales.
func (t TransactionType) SettlementType() (TransactionType, bool) {
	switch t {
	case PurchaseInvoice:
		return Payment, true
	case SaleInvoice:
		return Collection, true
	}
	return "", false
}

// SettledInvoiceType is the inverse of SettlementType: the invoice type
// that a payment or collection transaction can settle.
func (t TransactionType) SettledInvoiceType() (TransactionType, bool) {
	switch t {
	case Payment:
		return PurchaseInvoice, true
	case Collection:
		return SaleInvoice, true
	}
	return "", false
}

// SettlementStatus tracks whether an invoice has been covered by matching
// payments or collections.
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "PENDING"
	// SettlementPaid marks a settled purchase invoice.
	SettlementPaid SettlementStatus = "PAID"
	// SettlementCollected marks a settled sale invoice.
	SettlementCollected SettlementStatus = "COLLECTED"
)

// IsSettled reports whether the status represents a covered invoice.
func (s SettlementStatus) IsSettled() bool {
	return s == SettlementPaid || s == SettlementCollected
}

// SettledStatusFor returns the type-specific settled label for an invoice type.
func SettledStatusFor(t TransactionType) SettlementStatus {
	if t == PurchaseInvoice {
		return SettlementPaid
	}
	return SettlementCollected
}

// Transaction is a financial movement recorded against an account.
//
// SettlementStatus and BalanceDiff are derived fields. SettlementStatus is
// owned by the settlement tracker and only meaningful for invoice types;
// BalanceDiff is owned by the global balance updater and only meaningful
// for non-invoice types.
type Transaction struct {
	TransactionID    string
	Type             TransactionType
	Date             time.Time
	AccountID        string
	Total            decimal.Decimal
	DiscountTotal    *decimal.Decimal
	VoucherNumber    *int64
	SettlementStatus SettlementStatus
	BalanceDiff      decimal.Decimal
	Memo             string
	AuditFields
	// Items are loaded on demand; nil means "not loaded", not "no items".
	Items []TransactionItem
}

// TransactionItem is one product line of an invoice transaction.
// ProductName and UnitPrice are snapshots taken at creation so later product
// edits do not rewrite history. ProductID may be nil for free-form lines.
type TransactionItem struct {
	ItemID        string
	TransactionID string
	ProductID     *string
	ProductName   string
	UnitPrice     decimal.Decimal
	Quantity      decimal.Decimal
	Discount      decimal.Decimal
	AuditFields
}

// LineTotal is unit price times quantity minus the per-item discount.
// Negative results are allowed and flow into the aggregates as-is.
func (i TransactionItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(i.Quantity).Sub(i.Discount)
}
