package services

import (
	"context"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	"github.com/comercioapp/ledger_backend/internal/dto"
)

// ProductSvcFacade defines operations on inventory products. Quantity is
// derived state owned by the ledger service's cascade; creation seeds it
// from the initial quantity when no explicit value is supplied.
type ProductSvcFacade interface {
	// CreateProduct persists a new product.
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error)

	// GetProductByID retrieves a specific product.
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListProducts retrieves a paginated list of products.
	ListProducts(ctx context.Context, limit int, offset int) ([]domain.Product, error)

	// UpdateProduct updates a product's description and prices.
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, productID string, userID string) error
}
