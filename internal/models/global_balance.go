package models

import "github.com/shopspring/decimal"

// GlobalBalance is the database model for the global_balance singleton table.
type GlobalBalance struct {
	ID             int             `db:"id"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	AuditFields
}
