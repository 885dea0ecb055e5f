package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portsrepo "github.com/comercioapp/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
	"github.com/comercioapp/ledger_backend/internal/dto"
	"github.com/comercioapp/ledger_backend/internal/middleware"
)

// productService provides CRUD on inventory products. The derived stock
// level is owned by the ledger service's cascade.
type productService struct {
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new product service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &productService{productRepo: productRepo}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Quantity defaults to the immutable baseline when not supplied.
	quantity := req.InitialQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	now := time.Now().UTC()
	product := domain.Product{
		ProductID:       uuid.NewString(),
		Description:     req.Description,
		UnitSalePrice:   req.UnitSalePrice,
		UnitCost:        req.UnitCost,
		InitialQuantity: req.InitialQuantity,
		Quantity:        quantity,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		logger.Error("Failed to save product", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	logger.Info("Product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, limit int, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	products, err := s.productRepo.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Description != nil {
		product.Description = *req.Description
		updated = true
	}
	if req.UnitSalePrice != nil {
		product.UnitSalePrice = *req.UnitSalePrice
		updated = true
	}
	if req.UnitCost != nil {
		product.UnitCost = *req.UnitCost
		updated = true
	}
	if !updated {
		return product, nil
	}

	product.LastUpdatedAt = time.Now().UTC()
	product.LastUpdatedBy = userID

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		logger.Error("Failed to update product", slog.String("error", err.Error()), slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	logger.Info("Product updated", slog.String("product_id", productID))
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, productID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.productRepo.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}

	logger.Info("Product deleted", slog.String("product_id", productID), slog.String("deleted_by", userID))
	return nil
}
