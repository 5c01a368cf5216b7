package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/middleware"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/service"
)

// SwapHandler handles swap finalization and history requests
type SwapHandler struct {
	swapService *service.SwapService
	logger      *zap.Logger
}

// NewSwapHandler creates a new swap handler
func NewSwapHandler(swapService *service.SwapService, logger *zap.Logger) *SwapHandler {
	return &SwapHandler{
		swapService: swapService,
		logger:      logger,
	}
}

// Finalize completes an accepted swap request
// POST /api/swaps
func (h *SwapHandler) Finalize(c *gin.Context) {
	var request model.SwapCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	swap, err := h.swapService.Finalize(c.Request.Context(), request.SwapRequestID, request.Method, middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, swap)
}

// List retrieves the caller's completed swaps
// GET /api/swaps
func (h *SwapHandler) List(c *gin.Context) {
	swaps, err := h.swapService.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": swaps})
}
