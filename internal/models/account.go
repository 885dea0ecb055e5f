package models

import "github.com/shopspring/decimal"

// AccountKind mirrors domain.AccountKind at the persistence layer.
type AccountKind string

// Account is the database model for the accounts table.
type Account struct {
	AccountID    string          `db:"account_id"`
	Name         string          `db:"name"`
	ContactEmail string          `db:"contact_email"`
	ContactPhone string          `db:"contact_phone"`
	Kind         AccountKind     `db:"kind"`
	Balance      decimal.Decimal `db:"balance"`
	AuditFields
}
