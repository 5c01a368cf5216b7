package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/service"
)

// AdminHandler handles moderation requests
type AdminHandler struct {
	adminService *service.AdminService
	logger       *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// Stats returns platform counters
// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ApproveItem moves a pending listing to available
// PUT /api/admin/items/:id/approve
func (h *AdminHandler) ApproveItem(c *gin.Context) {
	item, err := h.adminService.ApproveItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// RejectItem moves a pending listing to rejected
// PUT /api/admin/items/:id/reject
func (h *AdminHandler) RejectItem(c *gin.Context) {
	item, err := h.adminService.RejectItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem removes a listing on behalf of moderation
// DELETE /api/admin/items/:id
func (h *AdminHandler) DeleteItem(c *gin.Context) {
	if err := h.adminService.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
