package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/internal/service/catalog"
	"github.com/mamour/pharmastock/internal/service/ledger"
	"github.com/mamour/pharmastock/pkg/clients/backend"
)

// genericFailureMessage replaces transport failures and empty server
// messages; real server rejection messages are passed through verbatim.
const genericFailureMessage = "Stock operation failed. Please try again."

const bulkFailureMessage = "Some adjustments failed"

// Coordinator is the single writer of the session state. It validates
// preconditions against the current snapshots, calls the remote backend, and
// reconciles the catalog and ledger afterwards. Public operations always
// resolve to a MutationResult; no error crosses this boundary.
type Coordinator struct {
	api     backend.API
	catalog *catalog.Store
	ledger  *ledger.Store
	logger  *zap.Logger
	newRef  func() string
}

// NewCoordinator wires a stock mutation coordinator.
func NewCoordinator(api backend.API, catalogStore *catalog.Store, ledgerStore *ledger.Store, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		api:     api,
		catalog: catalogStore,
		ledger:  ledgerStore,
		logger:  logger,
		newRef:  newInvoiceRef,
	}
}

func newInvoiceRef() string {
	return fmt.Sprintf("INV-%s", strings.ToUpper(uuid.NewString()[:8]))
}

// failure maps an error onto the shared taxonomy: remote rejections carry the
// server's message through, transport failures get the generic substitute.
func (c *Coordinator) failure(op string, err error) models.MutationResult {
	message := genericFailureMessage

	var remote *backend.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		message = remote.Message
	}

	c.logger.Warn("mutation failed", zap.String("operation", op), zap.Error(err))
	return models.MutationResult{Success: false, Message: message}
}

func (c *Coordinator) refusal(op, message string) models.MutationResult {
	c.logger.Warn("mutation refused", zap.String("operation", op), zap.String("reason", message))
	return models.MutationResult{Success: false, Message: message}
}

// refreshCatalog and refreshBoth reconcile local state after a successful
// remote mutation. Refresh failures leave a stale but consistent snapshot, so
// they are logged and do not fail the mutation that already happened.
func (c *Coordinator) refreshCatalog(ctx context.Context) {
	if err := c.catalog.Refresh(ctx); err != nil {
		c.logger.Warn("post-mutation catalog refresh failed", zap.Error(err))
	}
}

func (c *Coordinator) refreshBoth(ctx context.Context) {
	c.refreshCatalog(ctx)
	c.ledger.Refresh(ctx)
}

// RecordSale resolves each cart line against the current catalog snapshot and
// creates (or, when existingSaleID is set, amends) a sale remotely. Reference
// mismatches fail fast before any network call. The caller supplies the
// computed totals; the coordinator does not recompute tax or discount.
func (c *Coordinator) RecordSale(ctx context.Context, lines []models.CartLine, meta models.SaleMetadata, existingSaleID string) models.MutationResult {
	if len(lines) == 0 {
		return c.refusal("record_sale", "Cart is empty")
	}

	items := make([]backend.SaleItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return c.refusal("record_sale", fmt.Sprintf("Invalid quantity for item %s", line.StockItemID))
		}

		item, ok := c.catalog.Find(line.StockItemID)
		if !ok {
			return c.refusal("record_sale", fmt.Sprintf("Cart references unknown stock item %s", line.StockItemID))
		}
		if line.Quantity > item.Stock {
			return c.refusal("record_sale", fmt.Sprintf("Insufficient stock for %s", item.Name))
		}

		items = append(items, backend.SaleItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	payload := backend.SalePayload{
		Customer:    meta.Customer,
		PaymentMode: meta.PaymentMode,
		SubTotal:    meta.SubTotal,
		Tax:         meta.Tax,
		Discount:    meta.Discount,
		Total:       meta.Total,
		Items:       items,
	}

	var sale *backend.Sale
	var err error
	if existingSaleID != "" {
		// An amend keeps the sale's invoice number; only new sales mint one.
		sale, err = c.api.UpdateSale(ctx, existingSaleID, payload)
	} else {
		payload.InvoiceNo = c.newRef()
		sale, err = c.api.CreateSale(ctx, payload)
	}
	if err != nil {
		return c.failure("record_sale", err)
	}

	c.refreshBoth(ctx)

	result := models.MutationResult{Success: true, Message: "Sale recorded"}
	if sale != nil {
		result.SaleID = sale.ID
	}
	return result
}

// RecordPurchase creates a purchase remotely and refreshes both stores.
func (c *Coordinator) RecordPurchase(ctx context.Context, items []backend.PurchaseItem, supplier string, total float64) models.MutationResult {
	if len(items) == 0 {
		return c.refusal("record_purchase", "Purchase has no items")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return c.refusal("record_purchase", fmt.Sprintf("Invalid quantity for item %s", item.Name))
		}
	}

	payload := backend.PurchasePayload{
		InvoiceNo: c.newRef(),
		Supplier:  supplier,
		Total:     total,
		Items:     items,
	}

	if _, err := c.api.CreatePurchase(ctx, payload); err != nil {
		return c.failure("record_purchase", err)
	}

	c.refreshBoth(ctx)
	return models.MutationResult{Success: true, Message: "Purchase recorded"}
}

// AdjustStock issues one manual adjustment. On success the server's returned
// log entry is normalized and inserted at the ledger head directly, avoiding
// a full refetch, while the catalog still refreshes since a quantity changed.
func (c *Coordinator) AdjustStock(ctx context.Context, req models.AdjustmentRequest) models.MutationResult {
	if req.Quantity <= 0 {
		return c.refusal("adjust_stock", "Quantity must be positive")
	}

	item, ok := c.catalog.Find(req.StockItemID)
	if !ok {
		return c.refusal("adjust_stock", fmt.Sprintf("Unknown stock item %s", req.StockItemID))
	}
	if req.Direction == models.AdjustmentDeduct && req.Quantity > item.Stock {
		return c.refusal("adjust_stock", fmt.Sprintf("Cannot deduct %d from %s: only %d in stock", req.Quantity, item.Name, item.Stock))
	}

	adjustment := backend.StockAdjustment{
		Type:     adjustmentType(req.Direction),
		Quantity: req.Quantity,
		Reason:   req.Reason,
		Note:     req.Note,
	}

	log, err := c.api.AdjustStock(ctx, req.StockItemID, adjustment)
	if err != nil {
		return c.failure("adjust_stock", err)
	}

	if log != nil {
		c.ledger.InsertHead(ledger.NormalizeInventoryLog(*log))
	} else {
		// No log came back; fall back to a full refetch so the ledger
		// still picks up the adjustment.
		c.ledger.Refresh(ctx)
	}
	c.refreshCatalog(ctx)

	return models.MutationResult{Success: true, Message: "Stock adjusted"}
}

func adjustmentType(direction models.AdjustmentDirection) string {
	if direction == models.AdjustmentAdd {
		return string(models.DirectionIn)
	}
	return string(models.DirectionOut)
}

// BulkAdjustStock issues one remote adjustment per item concurrently. Each
// call is an independent remote side effect with no server-side transaction
// around the set, so the operation is not atomic: on a mixed outcome the
// aggregate result is failure and the per-item manifest reports which calls
// actually went through. Both stores refresh afterwards either way, so the
// local view converges on what the remote state really is.
func (c *Coordinator) BulkAdjustStock(ctx context.Context, items []models.BulkAdjustmentItem, direction models.AdjustmentDirection, reason, note string) models.MutationResult {
	if len(items) == 0 {
		return c.refusal("bulk_adjust", "No items to adjust")
	}

	for _, bulkItem := range items {
		if bulkItem.Quantity <= 0 {
			return c.refusal("bulk_adjust", fmt.Sprintf("Invalid quantity for item %s", bulkItem.StockItemID))
		}
		item, ok := c.catalog.Find(bulkItem.StockItemID)
		if !ok {
			return c.refusal("bulk_adjust", fmt.Sprintf("Unknown stock item %s", bulkItem.StockItemID))
		}
		if direction == models.AdjustmentDeduct && bulkItem.Quantity > item.Stock {
			return c.refusal("bulk_adjust", fmt.Sprintf("Insufficient stock for %s", item.Name))
		}
	}

	operationID := uuid.NewString()
	outcomes := make([]models.AdjustmentOutcome, len(items))

	var wg sync.WaitGroup
	for i, bulkItem := range items {
		wg.Add(1)
		go func(slot int, target models.BulkAdjustmentItem) {
			defer wg.Done()

			adjustment := backend.StockAdjustment{
				Type:     adjustmentType(direction),
				Quantity: target.Quantity,
				Reason:   reason,
				Note:     note,
			}

			outcome := models.AdjustmentOutcome{StockItemID: target.StockItemID, Success: true}
			if _, err := c.api.AdjustStock(ctx, target.StockItemID, adjustment); err != nil {
				outcome.Success = false
				outcome.Message = remoteMessage(err)
				c.logger.Warn("bulk adjustment item failed",
					zap.String("operation_id", operationID),
					zap.String("stock_item_id", target.StockItemID),
					zap.Error(err))
			}
			outcomes[slot] = outcome
		}(i, bulkItem)
	}
	wg.Wait()

	c.refreshBoth(ctx)

	for _, outcome := range outcomes {
		if !outcome.Success {
			return models.MutationResult{Success: false, Message: bulkFailureMessage, Outcomes: outcomes}
		}
	}

	c.logger.Info("bulk adjustment completed",
		zap.String("operation_id", operationID),
		zap.Int("items", len(items)))
	return models.MutationResult{Success: true, Message: "Stock adjusted", Outcomes: outcomes}
}

func remoteMessage(err error) string {
	var remote *backend.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return genericFailureMessage
}

// UpdateItem passes a product update through and refreshes the catalog.
func (c *Coordinator) UpdateItem(ctx context.Context, id string, update backend.ProductUpdate) models.MutationResult {
	if err := c.api.UpdateProduct(ctx, id, update); err != nil {
		return c.failure("update_item", err)
	}
	c.refreshCatalog(ctx)
	return models.MutationResult{Success: true, Message: "Item updated"}
}

// DeleteItem removes a catalog product and refreshes the catalog.
func (c *Coordinator) DeleteItem(ctx context.Context, id string) models.MutationResult {
	if err := c.api.DeleteProduct(ctx, id); err != nil {
		return c.failure("delete_item", err)
	}
	c.refreshCatalog(ctx)
	return models.MutationResult{Success: true, Message: "Item deleted"}
}

// DeleteSale removes one sale. Compensating stock restoration is the
// backend's responsibility; both stores refresh to pick it up.
func (c *Coordinator) DeleteSale(ctx context.Context, id string) models.MutationResult {
	if err := c.api.DeleteSale(ctx, id); err != nil {
		return c.failure("delete_sale", err)
	}
	c.refreshBoth(ctx)
	return models.MutationResult{Success: true, Message: "Sale deleted"}
}

// ClearAllSales removes every sale record remotely.
func (c *Coordinator) ClearAllSales(ctx context.Context) models.MutationResult {
	if err := c.api.DeleteAllSales(ctx); err != nil {
		return c.failure("clear_sales", err)
	}
	c.refreshBoth(ctx)
	return models.MutationResult{Success: true, Message: "All sales cleared"}
}
