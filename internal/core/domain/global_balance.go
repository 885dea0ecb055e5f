package domain

import "github.com/shopspring/decimal"

// GlobalBalanceID is the fixed primary key of the singleton row. The table
// carries a CHECK constraint so no second row can ever persist.
const GlobalBalanceID = 1

// GlobalBalance is the system-wide running-balance singleton.
//
// CurrentBalance is derived: every save of a non-invoice transaction
// overwrites it with that transaction's balance diff (last write wins).
// InitialBalance is operator-set and only changed through an explicit patch.
type GlobalBalance struct {
	ID             int
	CurrentBalance decimal.Decimal
	InitialBalance decimal.Decimal
	AuditFields
}
