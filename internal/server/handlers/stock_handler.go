package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/internal/service/catalog"
	"github.com/mamour/pharmastock/internal/service/mutation"
	"github.com/mamour/pharmastock/pkg/clients/backend"
)

// StockHandler serves catalog views and stock mutations.
type StockHandler struct {
	catalog     *catalog.Store
	coordinator *mutation.Coordinator
	api         backend.API
	expiryDays  int
	logger      *zap.Logger
}

// NewStockHandler constructs the stock HTTP handler adapter.
func NewStockHandler(catalogStore *catalog.Store, coordinator *mutation.Coordinator, api backend.API, expiryDays int, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{
		catalog:     catalogStore,
		coordinator: coordinator,
		api:         api,
		expiryDays:  expiryDays,
		logger:      logger,
	}
}

// Get returns one item, from the snapshot when possible and falling back to
// a direct backend fetch when the snapshot has not caught up yet.
func (h *StockHandler) Get(c *gin.Context) {
	id := c.Param("id")

	if item, ok := h.catalog.Find(id); ok {
		c.JSON(http.StatusOK, gin.H{"item": item})
		return
	}

	product, err := h.api.FetchProduct(c.Request.Context(), id)
	if err != nil || product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stock item not found"})
		return
	}

	items := catalog.Project([]backend.Product{*product})
	c.JSON(http.StatusOK, gin.H{"item": items[0]})
}

// List returns the catalog snapshot, optionally filtered by search term and category.
func (h *StockHandler) List(c *gin.Context) {
	items := catalog.Filter(h.catalog.Snapshot(), c.Query("search"), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Stats returns the derived catalog figures.
func (h *StockHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Stats())
}

// DispenseOrder returns the snapshot ranked for consumption: earliest expiry
// first, receipt order as tie-break.
func (h *StockHandler) DispenseOrder(c *gin.Context) {
	items := catalog.Filter(h.catalog.Snapshot(), c.Query("search"), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{"items": catalog.RankForDispensing(items)})
}

// LowStock returns in-stock items at or below their reorder level.
func (h *StockHandler) LowStock(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.catalog.LowStock()})
}

// Expiring returns items expiring within the requested horizon in days.
func (h *StockHandler) Expiring(c *gin.Context) {
	days := h.expiryDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	c.JSON(http.StatusOK, gin.H{"items": h.catalog.ExpiringWithin(days), "days": days})
}

// Update passes a product update through to the backend.
func (h *StockHandler) Update(c *gin.Context) {
	var update backend.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("invalid product update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.coordinator.UpdateItem(c.Request.Context(), c.Param("id"), update))
}

// Delete removes a catalog product.
func (h *StockHandler) Delete(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.DeleteItem(c.Request.Context(), c.Param("id")))
}

type adjustBody struct {
	Direction models.AdjustmentDirection `json:"direction" binding:"required,oneof=add deduct"`
	Quantity  int                        `json:"quantity" binding:"required,gt=0"`
	Reason    string                     `json:"reason"`
	Note      string                     `json:"note"`
}

// Adjust applies a single manual stock adjustment to one item.
func (h *StockHandler) Adjust(c *gin.Context) {
	var body adjustBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("invalid adjustment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.coordinator.AdjustStock(c.Request.Context(), models.AdjustmentRequest{
		StockItemID: c.Param("id"),
		Direction:   body.Direction,
		Quantity:    body.Quantity,
		Reason:      body.Reason,
		Note:        body.Note,
	})
	c.JSON(http.StatusOK, result)
}

type bulkAdjustBody struct {
	Items     []models.BulkAdjustmentItem `json:"items" binding:"required,min=1,dive"`
	Direction models.AdjustmentDirection  `json:"direction" binding:"required,oneof=add deduct"`
	Reason    string                      `json:"reason"`
	Note      string                      `json:"note"`
}

// BulkAdjust applies one adjustment per item, reporting a per-item manifest.
func (h *StockHandler) BulkAdjust(c *gin.Context) {
	var body bulkAdjustBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("invalid bulk adjustment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.coordinator.BulkAdjustStock(c.Request.Context(), body.Items, body.Direction, body.Reason, body.Note)
	c.JSON(http.StatusOK, result)
}
