package domain

import (
	"github.com/shopspring/decimal"
)

// AccountKind classifies who is on the other side of an account.
type AccountKind string

const (
	KindCustomer AccountKind = "CUSTOMER"
	KindSupplier AccountKind = "SUPPLIER"
	KindOther    AccountKind = "OTHER"
)

// Account represents a customer or supplier ledger account.
// Balance is a derived aggregate: it is recomputed from the account's
// transactions and must only be written by the balance calculator.
type Account struct {
	AccountID    string
	Name         string
	ContactEmail string
	ContactPhone string
	Kind         AccountKind
	Balance      decimal.Decimal
	AuditFields
}
