package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// CreateProductRequest defines the data needed to create a new product.
// Quantity is optional; when omitted it is seeded from InitialQuantity.
type CreateProductRequest struct {
	Description     string          `json:"description" binding:"required"`
	UnitSalePrice   decimal.Decimal `json:"unitSalePrice"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	InitialQuantity int64           `json:"initialQuantity"`
	Quantity        *int64          `json:"quantity"`
}

// UpdateProductRequest defines the fields that may change on a product.
// InitialQuantity is immutable and Quantity is derived; neither can be set.
type UpdateProductRequest struct {
	Description   *string          `json:"description"`
	UnitSalePrice *decimal.Decimal `json:"unitSalePrice"`
	UnitCost      *decimal.Decimal `json:"unitCost"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID       string          `json:"productID"`
	Description     string          `json:"description"`
	UnitSalePrice   decimal.Decimal `json:"unitSalePrice"`
	UnitCost        decimal.Decimal `json:"unitCost"`
	InitialQuantity int64           `json:"initialQuantity"`
	Quantity        int64           `json:"quantity"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ToProductResponse converts a domain.Product to ProductResponse.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:       p.ProductID,
		Description:     p.Description,
		UnitSalePrice:   p.UnitSalePrice,
		UnitCost:        p.UnitCost,
		InitialQuantity: p.InitialQuantity,
		Quantity:        p.Quantity,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.LastUpdatedAt,
	}
}

// ToListProductResponse converts a slice of domain.Product to responses.
func ToListProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = ToProductResponse(&p)
	}
	return res
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}
