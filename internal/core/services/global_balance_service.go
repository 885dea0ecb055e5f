package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	portsrepo "github.com/comercioapp/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
	"github.com/comercioapp/ledger_backend/internal/dto"
	"github.com/comercioapp/ledger_backend/internal/middleware"
)

// globalBalanceService exposes the running-balance singleton. Writes to the
// derived current balance happen only inside the ledger cascade; here only
// the operator-set initial balance can change.
type globalBalanceService struct {
	globalRepo portsrepo.GlobalBalanceRepositoryFacade
}

// NewGlobalBalanceService creates a new global balance service.
func NewGlobalBalanceService(globalRepo portsrepo.GlobalBalanceRepositoryFacade) portssvc.GlobalBalanceSvcFacade {
	return &globalBalanceService{globalRepo: globalRepo}
}

var _ portssvc.GlobalBalanceSvcFacade = (*globalBalanceService)(nil)

func (s *globalBalanceService) GetGlobalBalance(ctx context.Context) (*domain.GlobalBalance, error) {
	gb, err := s.globalRepo.GetGlobalBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get global balance: %w", err)
	}
	return gb, nil
}

func (s *globalBalanceService) UpdateInitialBalance(ctx context.Context, req dto.UpdateInitialBalanceRequest, userID string) (*domain.GlobalBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	if err := s.globalRepo.UpdateInitialBalance(ctx, req.InitialBalance, userID, now); err != nil {
		logger.Error("Failed to update initial balance", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update initial balance: %w", err)
	}

	logger.Info("Initial balance updated", slog.String("initial_balance", req.InitialBalance.String()))
	return s.globalRepo.GetGlobalBalance(ctx)
}
