package services

import (
	"context"
	"fmt"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portsrepo "github.com/comercioapp/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
)

// reportingService serves read-only aggregate reports.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetProductSales(ctx context.Context) ([]domain.ProductSales, error) {
	sales, err := s.reportingRepo.ListProductSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product sales: %w", err)
	}
	return sales, nil
}
