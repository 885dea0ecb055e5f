package services

import (
	"context"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// ReportingSvcFacade defines read-only aggregate reports.
type ReportingSvcFacade interface {
	// GetProductSales returns units sold per product across all sale
	// invoices, most sold first.
	GetProductSales(ctx context.Context) ([]domain.ProductSales, error)
}
