package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/middleware"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/service"
)

// PointsHandler handles points balance and history requests
type PointsHandler struct {
	pointsService *service.PointsService
	logger        *zap.Logger
}

// NewPointsHandler creates a new points handler
func NewPointsHandler(pointsService *service.PointsService, logger *zap.Logger) *PointsHandler {
	return &PointsHandler{
		pointsService: pointsService,
		logger:        logger,
	}
}

// Balance returns the caller's derived points balance
// GET /api/points/balance
func (h *PointsHandler) Balance(c *gin.Context) {
	userID := middleware.UserID(c)
	balance, err := h.pointsService.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.BalanceResponse{UserID: userID, Balance: balance})
}

// Transactions returns the caller's points history, newest first
// GET /api/points/transactions
func (h *PointsHandler) Transactions(c *gin.Context) {
	transactions, err := h.pointsService.Transactions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": transactions})
}
