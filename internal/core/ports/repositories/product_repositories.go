package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// ProductReader defines read operations for product data.
type ProductReader interface {
	// FindProductByID retrieves a specific product.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListProducts retrieves a paginated list of products.
	ListProducts(ctx context.Context, limit int, offset int) ([]domain.Product, error)

	// ListProductIDs retrieves the IDs of every product, for batch recomputation.
	ListProductIDs(ctx context.Context) ([]string, error)
}

// ProductWriter defines write operations for product data.
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates a product's description and prices.
	// InitialQuantity is immutable and Quantity is derived; neither is written.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, productID string) error
}

// ProductTransactionSupport defines the operations the quantity calculator
// uses inside a mutation cascade. These are the only writers of
// Product.Quantity.
type ProductTransactionSupport interface {
	// FindProductForUpdate selects a product and locks its row within a
	// transaction. Returns apperrors.ErrNotFound when the product is gone.
	FindProductForUpdate(ctx context.Context, tx pgx.Tx, productID string) (*domain.Product, error)

	// UpdateProductQuantityInTx overwrites the product's derived stock level
	// within the given transaction.
	UpdateProductQuantityInTx(ctx context.Context, tx pgx.Tx, productID string, quantity int64, userID string, now time.Time) error
}

// ProductRepositoryFacade combines all product-related repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductTransactionSupport
}
