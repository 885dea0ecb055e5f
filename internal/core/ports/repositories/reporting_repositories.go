package repositories

import (
	"context"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// ReportingRepositoryFacade defines read-only aggregate queries that do not
// belong to any single entity repository.
type ReportingRepositoryFacade interface {
	// ListProductSales aggregates units sold per product across all
	// sale-invoice items, most sold first.
	ListProductSales(ctx context.Context) ([]domain.ProductSales, error)
}
