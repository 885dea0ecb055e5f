package dto

import (
	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// ProductSalesResponse is one row of the units-sold-per-product report.
type ProductSalesResponse struct {
	ProductName string          `json:"productName"`
	UnitsSold   decimal.Decimal `json:"unitsSold"`
}

// ToProductSalesResponses converts report rows to their responses.
func ToProductSalesResponses(rows []domain.ProductSales) []ProductSalesResponse {
	res := make([]ProductSalesResponse, len(rows))
	for i, r := range rows {
		res[i] = ProductSalesResponse{ProductName: r.ProductName, UnitsSold: r.UnitsSold}
	}
	return res
}
