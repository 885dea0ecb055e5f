package domain

import "github.com/shopspring/decimal"

// Product is an inventory item.
//
// InitialQuantity is the immutable stock baseline fixed at creation.
// Quantity is a derived aggregate owned by the quantity calculator:
// baseline plus purchased units minus sold units, truncated to whole units.
type Product struct {
	ProductID       string
	Description     string
	UnitSalePrice   decimal.Decimal
	UnitCost        decimal.Decimal
	InitialQuantity int64
	Quantity        int64
	AuditFields
}
