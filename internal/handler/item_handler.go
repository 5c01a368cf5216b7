package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/middleware"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/service"
	"github.com/rewear/exchange-service/internal/utils"
)

// ItemHandler handles listing catalog requests
type ItemHandler struct {
	itemService *service.ItemService
	logger      *zap.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// Create lists a new item
// POST /api/items
func (h *ItemHandler) Create(c *gin.Context) {
	var request model.ItemCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), middleware.UserID(c), request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Get retrieves a single listing
// GET /api/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.itemService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Search retrieves listings matching query parameters
// GET /api/items
func (h *ItemHandler) Search(c *gin.Context) {
	filter := parseItemFilter(c)

	items, total, err := h.itemService.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, items, total, filter.Page, filter.Limit)
}

// Update edits a listing
// PUT /api/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	var request model.ItemUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete removes a listing
// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.itemService.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func parseItemFilter(c *gin.Context) model.ItemFilter {
	pagination := utils.ParsePaginationParams(c, 12, 50)

	filter := model.ItemFilter{
		Query:     c.Query("q"),
		Location:  c.Query("location"),
		UserID:    c.Query("user_id"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		Page:      pagination.Page,
		Limit:     pagination.Limit,
	}

	for _, v := range c.QueryArray("category") {
		filter.Categories = append(filter.Categories, model.ItemCategory(v))
	}
	for _, v := range c.QueryArray("type") {
		filter.Types = append(filter.Types, model.ItemType(v))
	}
	for _, v := range c.QueryArray("size") {
		filter.Sizes = append(filter.Sizes, model.ItemSize(v))
	}
	for _, v := range c.QueryArray("condition") {
		filter.Conditions = append(filter.Conditions, model.ItemCondition(v))
	}

	if v := c.Query("min_points"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MinPoints = &n
		}
	}
	if v := c.Query("max_points"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MaxPoints = &n
		}
	}
	if v := c.Query("status"); v != "" {
		status := model.ItemStatus(v)
		filter.Status = &status
	}

	return filter
}
