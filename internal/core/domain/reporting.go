package domain

import "github.com/shopspring/decimal"

// ProductSales is one row of the units-sold-per-product report, aggregated
// over sale-invoice items by product name snapshot.
type ProductSales struct {
	ProductName string
	UnitsSold   decimal.Decimal
}
