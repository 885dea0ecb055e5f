package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
	"github.com/comercioapp/ledger_backend/internal/dto"
	"github.com/comercioapp/ledger_backend/internal/middleware"
)

// globalBalanceHandler handles HTTP requests for the running-balance
// singleton.
type globalBalanceHandler struct {
	globalBalanceService portssvc.GlobalBalanceSvcFacade
}

func newGlobalBalanceHandler(gs portssvc.GlobalBalanceSvcFacade) *globalBalanceHandler {
	return &globalBalanceHandler{globalBalanceService: gs}
}

// registerGlobalBalanceRoutes registers routes for the singleton.
func registerGlobalBalanceRoutes(rg *gin.RouterGroup, globalBalanceService portssvc.GlobalBalanceSvcFacade) {
	h := newGlobalBalanceHandler(globalBalanceService)

	gb := rg.Group("/global-balance")
	{
		gb.GET("", h.getGlobalBalance)
		gb.PATCH("/initial", h.updateInitialBalance)
	}
}

// getGlobalBalance godoc
// @Summary Get the global balance
// @Description Retrieves the system-wide running balance singleton
// @Tags global-balance
// @Produce  json
// @Success 200 {object} dto.GlobalBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve global balance"
// @Security BearerAuth
// @Router /global-balance [get]
func (h *globalBalanceHandler) getGlobalBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	gb, err := h.globalBalanceService.GetGlobalBalance(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get global balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve global balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToGlobalBalanceResponse(gb))
}

// updateInitialBalance godoc
// @Summary Patch the initial balance
// @Description Sets the operator-defined initial balance; the running balance is derived and cannot be set
// @Tags global-balance
// @Accept  json
// @Produce  json
// @Param   balance body dto.UpdateInitialBalanceRequest true "New initial balance"
// @Success 200 {object} dto.GlobalBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to update initial balance"
// @Security BearerAuth
// @Router /global-balance/initial [patch]
func (h *globalBalanceHandler) updateInitialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateInitialBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	gb, err := h.globalBalanceService.UpdateInitialBalance(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to update initial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update initial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToGlobalBalanceResponse(gb))
}
