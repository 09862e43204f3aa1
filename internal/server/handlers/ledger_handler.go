package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/internal/service/ledger"
	"github.com/mamour/pharmastock/internal/service/mutation"
	"github.com/mamour/pharmastock/internal/service/report"
	"github.com/mamour/pharmastock/pkg/clients/backend"
)

// LedgerHandler serves the transaction history, sale/purchase recording, and
// the supplier and report pass-throughs.
type LedgerHandler struct {
	ledger      *ledger.Store
	coordinator *mutation.Coordinator
	reportSvc   *report.Service
	api         backend.API
	logger      *zap.Logger
}

// NewLedgerHandler constructs the ledger HTTP handler adapter.
func NewLedgerHandler(ledgerStore *ledger.Store, coordinator *mutation.Coordinator, reportSvc *report.Service, api backend.API, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{
		ledger:      ledgerStore,
		coordinator: coordinator,
		reportSvc:   reportSvc,
		api:         api,
		logger:      logger,
	}
}

// Transactions returns the ledger snapshot, newest first.
func (h *LedgerHandler) Transactions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"transactions": h.ledger.Snapshot()})
}

// RefreshTransactions forces a ledger refetch.
func (h *LedgerHandler) RefreshTransactions(c *gin.Context) {
	h.ledger.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"transactions": h.ledger.Snapshot()})
}

type saleBody struct {
	Lines          []models.CartLine   `json:"lines" binding:"required,min=1,dive"`
	Metadata       models.SaleMetadata `json:"metadata"`
	ExistingSaleID string              `json:"existing_sale_id"`
}

// RecordSale creates a sale, or amends one when existing_sale_id is supplied.
func (h *LedgerHandler) RecordSale(c *gin.Context) {
	var body saleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.coordinator.RecordSale(c.Request.Context(), body.Lines, body.Metadata, body.ExistingSaleID)
	c.JSON(http.StatusOK, result)
}

type purchaseBody struct {
	Supplier string                 `json:"supplier"`
	Total    float64                `json:"total"`
	Items    []backend.PurchaseItem `json:"items" binding:"required,min=1"`
}

// RecordPurchase creates a purchase.
func (h *LedgerHandler) RecordPurchase(c *gin.Context) {
	var body purchaseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("invalid purchase payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.coordinator.RecordPurchase(c.Request.Context(), body.Items, body.Supplier, body.Total)
	c.JSON(http.StatusOK, result)
}

// DeleteSale removes one sale record.
func (h *LedgerHandler) DeleteSale(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.DeleteSale(c.Request.Context(), c.Param("id")))
}

// ClearSales removes all sale records.
func (h *LedgerHandler) ClearSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.ClearAllSales(c.Request.Context()))
}

// Suppliers lists the remote suppliers.
func (h *LedgerHandler) Suppliers(c *gin.Context) {
	suppliers, err := h.api.FetchSuppliers(c.Request.Context())
	if err != nil {
		h.logger.Error("failed fetching suppliers", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to fetch suppliers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

// CreateSupplier creates a remote supplier.
func (h *LedgerHandler) CreateSupplier(c *gin.Context) {
	var payload backend.SupplierPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid supplier payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	supplier, err := h.api.CreateSupplier(c.Request.Context(), payload)
	if err != nil {
		h.logger.Error("failed creating supplier", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to create supplier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// DailyReport builds the daily stock report on demand.
func (h *LedgerHandler) DailyReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportSvc.BuildDailyReport())
}
