package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portsrepo "github.com/comercioapp/ledger_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// newPgxReportingRepository creates a new repository for aggregate reports.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// ListProductSales aggregates units sold per product across all sale-invoice
// items, most sold first. Grouping is by the snapshot name so lines of
// deleted products still count.
func (r *PgxReportingRepository) ListProductSales(ctx context.Context) ([]domain.ProductSales, error) {
	query := `
		SELECT i.product_name, SUM(i.quantity) AS units_sold
		FROM transaction_items i
		JOIN transactions t ON t.transaction_id = i.transaction_id
		WHERE t.type = $1
		GROUP BY i.product_name
		ORDER BY units_sold DESC, i.product_name;
	`
	rows, err := r.pool.Query(ctx, query, string(domain.SaleInvoice))
	if err != nil {
		return nil, fmt.Errorf("failed to query product sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.ProductSales{}
	for rows.Next() {
		var s domain.ProductSales
		if err := rows.Scan(&s.ProductName, &s.UnitsSold); err != nil {
			return nil, fmt.Errorf("failed to scan product sales row: %w", err)
		}
		sales = append(sales, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating product sales rows: %w", rows.Err())
	}
	return sales, nil
}
