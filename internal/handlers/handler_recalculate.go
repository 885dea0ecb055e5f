package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
	"github.com/comercioapp/ledger_backend/internal/dto"
	"github.com/comercioapp/ledger_backend/internal/middleware"
)

// recalculateHandler exposes the batch recompute operations: every derived
// aggregate can be rebuilt from source rows at any time.
type recalculateHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newRecalculateHandler(ls portssvc.LedgerSvcFacade) *recalculateHandler {
	return &recalculateHandler{ledgerService: ls}
}

// registerRecalculateRoutes registers the batch recompute routes.
func registerRecalculateRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newRecalculateHandler(ledgerService)

	recalc := rg.Group("/recalculate")
	{
		recalc.POST("/account-balances", h.recalculateAccountBalances)
		recalc.POST("/product-quantities", h.recalculateProductQuantities)
		recalc.POST("/global-balance", h.recalculateGlobalBalance)
	}
}

// recalculateAccountBalances godoc
// @Summary Recompute all account balances
// @Description Rebuilds every account's balance from its transactions in one database transaction
// @Tags recalculate
// @Produce  json
// @Success 200 {object} dto.RecalculateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to recalculate balances"
// @Security BearerAuth
// @Router /recalculate/account-balances [post]
func (h *recalculateHandler) recalculateAccountBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	changed, total, err := h.ledgerService.RecalculateAllAccountBalances(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to recalculate account balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate balances"})
		return
	}

	c.JSON(http.StatusOK, dto.RecalculateResponse{
		Message: "account balances recalculated",
		Changed: changed,
		Total:   total,
	})
}

// recalculateProductQuantities godoc
// @Summary Recompute all product quantities
// @Description Rebuilds every product's stock level from its item history in one database transaction
// @Tags recalculate
// @Produce  json
// @Success 200 {object} dto.RecalculateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to recalculate quantities"
// @Security BearerAuth
// @Router /recalculate/product-quantities [post]
func (h *recalculateHandler) recalculateProductQuantities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	changed, total, err := h.ledgerService.RecalculateAllProductQuantities(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to recalculate product quantities", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate quantities"})
		return
	}

	c.JSON(http.StatusOK, dto.RecalculateResponse{
		Message: "product quantities recalculated",
		Changed: changed,
		Total:   total,
	})
}

// recalculateGlobalBalance godoc
// @Summary Recompute the global balance
// @Description Replays the overwrite rule over all non-invoice transactions in insertion order
// @Tags recalculate
// @Produce  json
// @Success 200 {object} dto.GlobalBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to recalculate global balance"
// @Security BearerAuth
// @Router /recalculate/global-balance [post]
func (h *recalculateHandler) recalculateGlobalBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	gb, err := h.ledgerService.RecalculateGlobalBalance(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to recalculate global balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate global balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToGlobalBalanceResponse(gb))
}
