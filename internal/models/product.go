package models

import "github.com/shopspring/decimal"

// Product is the database model for the products table.
type Product struct {
	ProductID       string          `db:"product_id"`
	Description     string          `db:"description"`
	UnitSalePrice   decimal.Decimal `db:"unit_sale_price"`
	UnitCost        decimal.Decimal `db:"unit_cost"`
	InitialQuantity int64           `db:"initial_quantity"`
	Quantity        int64           `db:"quantity"`
	AuditFields
}
