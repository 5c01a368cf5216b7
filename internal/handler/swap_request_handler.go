package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/middleware"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/service"
)

// SwapRequestHandler handles swap request lifecycle requests
type SwapRequestHandler struct {
	swapRequestService *service.SwapRequestService
	logger             *zap.Logger
}

// NewSwapRequestHandler creates a new swap request handler
func NewSwapRequestHandler(swapRequestService *service.SwapRequestService, logger *zap.Logger) *SwapRequestHandler {
	return &SwapRequestHandler{
		swapRequestService: swapRequestService,
		logger:             logger,
	}
}

// Create opens a swap request for an item
// POST /api/swap-requests
func (h *SwapRequestHandler) Create(c *gin.Context) {
	var request model.SwapRequestCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.swapRequestService.Create(c.Request.Context(), request.ItemID, middleware.UserID(c), request.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List retrieves the caller's swap requests, or the requests targeting
// one of their items when item_id is given
// GET /api/swap-requests?item_id=
func (h *SwapRequestHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	if itemID := c.Query("item_id"); itemID != "" {
		requests, err := h.swapRequestService.ListByItem(ctx, itemID)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": requests})
		return
	}

	requests, err := h.swapRequestService.ListByRequester(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

// Get retrieves a single swap request
// GET /api/swap-requests/:id
func (h *SwapRequestHandler) Get(c *gin.Context) {
	request, err := h.swapRequestService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// UpdateStatus transitions a swap request
// PUT /api/swap-requests/:id
func (h *SwapRequestHandler) UpdateStatus(c *gin.Context) {
	var request model.SwapRequestStatusUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.swapRequestService.UpdateStatus(c.Request.Context(), c.Param("id"), request.Status, middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
