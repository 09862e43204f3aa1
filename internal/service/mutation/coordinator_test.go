package mutation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/internal/service/catalog"
	"github.com/mamour/pharmastock/internal/service/ledger"
	"github.com/mamour/pharmastock/pkg/clients/backend"
)

type fakeAPI struct {
	backend.API

	mu    sync.Mutex
	calls map[string]int

	products []backend.Product

	createSaleErr     error
	createdSale       *backend.Sale
	createSalePayload backend.SalePayload
	updateSaleErr     error
	updateSalePayload backend.SalePayload

	adjustErrFor map[string]error
	adjustLog    *backend.InventoryLog

	deleteProductErr error
	deleteSaleErr    error
}

func newFakeAPI(products ...backend.Product) *fakeAPI {
	return &fakeAPI{
		calls:       make(map[string]int),
		products:    products,
		createdSale: &backend.Sale{ID: "sale-1"},
	}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeAPI) FetchProducts(ctx context.Context) ([]backend.Product, error) {
	f.record("FetchProducts")
	return f.products, nil
}

func (f *fakeAPI) FetchSales(ctx context.Context, page, limit int) ([]backend.Sale, error) {
	f.record("FetchSales")
	return nil, nil
}

func (f *fakeAPI) FetchInventoryLogs(ctx context.Context, page, limit int) ([]backend.InventoryLog, error) {
	f.record("FetchInventoryLogs")
	return nil, nil
}

func (f *fakeAPI) FetchPurchases(ctx context.Context, page, limit int) ([]backend.Purchase, error) {
	f.record("FetchPurchases")
	return nil, nil
}

func (f *fakeAPI) FetchSaleReturns(ctx context.Context, page, limit int) ([]backend.SaleReturn, error) {
	f.record("FetchSaleReturns")
	return nil, nil
}

func (f *fakeAPI) FetchPurchaseReturns(ctx context.Context, page, limit int) ([]backend.PurchaseReturn, error) {
	f.record("FetchPurchaseReturns")
	return nil, nil
}

func (f *fakeAPI) CreateSale(ctx context.Context, payload backend.SalePayload) (*backend.Sale, error) {
	f.record("CreateSale")
	f.mu.Lock()
	f.createSalePayload = payload
	f.mu.Unlock()
	if f.createSaleErr != nil {
		return nil, f.createSaleErr
	}
	return f.createdSale, nil
}

func (f *fakeAPI) UpdateSale(ctx context.Context, id string, payload backend.SalePayload) (*backend.Sale, error) {
	f.record("UpdateSale")
	f.mu.Lock()
	f.updateSalePayload = payload
	f.mu.Unlock()
	if f.updateSaleErr != nil {
		return nil, f.updateSaleErr
	}
	return &backend.Sale{ID: id}, nil
}

func (f *fakeAPI) CreatePurchase(ctx context.Context, payload backend.PurchasePayload) (*backend.Purchase, error) {
	f.record("CreatePurchase")
	return &backend.Purchase{ID: "purchase-1"}, nil
}

func (f *fakeAPI) AdjustStock(ctx context.Context, productID string, adj backend.StockAdjustment) (*backend.InventoryLog, error) {
	f.record("AdjustStock")
	if err, ok := f.adjustErrFor[productID]; ok {
		return nil, err
	}
	if f.adjustLog != nil {
		return f.adjustLog, nil
	}
	return &backend.InventoryLog{ID: "log-" + productID, ProductID: productID, Type: adj.Type, Quantity: adj.Quantity, CreatedAt: time.Now()}, nil
}

func (f *fakeAPI) UpdateProduct(ctx context.Context, id string, update backend.ProductUpdate) error {
	f.record("UpdateProduct")
	return nil
}

func (f *fakeAPI) DeleteProduct(ctx context.Context, id string) error {
	f.record("DeleteProduct")
	return f.deleteProductErr
}

func (f *fakeAPI) DeleteSale(ctx context.Context, id string) error {
	f.record("DeleteSale")
	return f.deleteSaleErr
}

func (f *fakeAPI) DeleteAllSales(ctx context.Context) error {
	f.record("DeleteAllSales")
	return nil
}

func newTestCoordinator(t *testing.T, api *fakeAPI) (*Coordinator, *catalog.Store, *ledger.Store) {
	t.Helper()

	catalogStore := catalog.NewStore(api, nil)
	require.NoError(t, catalogStore.Refresh(context.Background()))
	// The warm-up refresh is setup noise; reset counters so assertions only
	// see calls made by the operation under test.
	api.mu.Lock()
	api.calls = make(map[string]int)
	api.mu.Unlock()

	ledgerStore := ledger.NewStore(api, 500, nil)
	coordinator := NewCoordinator(api, catalogStore, ledgerStore, nil)
	return coordinator, catalogStore, ledgerStore
}

func TestRecordSaleReferenceMismatchIssuesNoNetworkCalls(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Name: "Paracetamol", Stock: 10})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.RecordSale(context.Background(), []models.CartLine{
		{StockItemID: "p1", Quantity: 1, UnitPrice: 2},
		{StockItemID: "ghost", Quantity: 1, UnitPrice: 3},
	}, models.SaleMetadata{}, "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "ghost")
	assert.Equal(t, 0, api.totalCalls())
}

func TestRecordSaleRejectsOversell(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Name: "Paracetamol", Stock: 2})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.RecordSale(context.Background(), []models.CartLine{
		{StockItemID: "p1", Quantity: 5, UnitPrice: 2},
	}, models.SaleMetadata{}, "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Paracetamol")
	assert.Equal(t, 0, api.totalCalls())
}

func TestRecordSaleSuccessRefreshesCatalogAndLedger(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Name: "Paracetamol", Stock: 10})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.RecordSale(context.Background(), []models.CartLine{
		{StockItemID: "p1", Quantity: 2, UnitPrice: 2.5},
	}, models.SaleMetadata{SubTotal: 5, Total: 5}, "")

	assert.True(t, result.Success)
	assert.Equal(t, "sale-1", result.SaleID)
	assert.Equal(t, 1, api.count("CreateSale"))
	assert.Equal(t, 1, api.count("FetchProducts"))
	assert.Equal(t, 1, api.count("FetchSales"))
	assert.True(t, strings.HasPrefix(api.createSalePayload.InvoiceNo, "INV-"))
}

func TestRecordSaleWithExistingIDAmendsInvoice(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Name: "Paracetamol", Stock: 10})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.RecordSale(context.Background(), []models.CartLine{
		{StockItemID: "p1", Quantity: 1, UnitPrice: 2.5},
	}, models.SaleMetadata{}, "sale-42")

	assert.True(t, result.Success)
	assert.Equal(t, "sale-42", result.SaleID)
	assert.Equal(t, 1, api.count("UpdateSale"))
	assert.Equal(t, 0, api.count("CreateSale"))
	// The amend must not mint a new invoice number for the existing sale.
	assert.Empty(t, api.updateSalePayload.InvoiceNo)
}

func TestRecordSaleRemoteRejectionPassesMessageThrough(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Name: "Paracetamol", Stock: 10})
	api.createSaleErr = &backend.RemoteError{StatusCode: 409, Message: "Invoice number already used"}
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.RecordSale(context.Background(), []models.CartLine{
		{StockItemID: "p1", Quantity: 1, UnitPrice: 2},
	}, models.SaleMetadata{}, "")

	assert.False(t, result.Success)
	assert.Equal(t, "Invoice number already used", result.Message)
}

func TestRecordSaleTransportFailureGetsGenericMessage(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Name: "Paracetamol", Stock: 10})
	api.createSaleErr = errors.New("dial tcp: connection refused")
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.RecordSale(context.Background(), []models.CartLine{
		{StockItemID: "p1", Quantity: 1, UnitPrice: 2},
	}, models.SaleMetadata{}, "")

	assert.False(t, result.Success)
	assert.Equal(t, genericFailureMessage, result.Message)
}

func TestAdjustStockOptimisticLedgerInsert(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Name: "Paracetamol", Stock: 10})
	api.adjustLog = &backend.InventoryLog{ID: "log-9", ProductID: "p1", Type: "OUT", Quantity: 3, Reason: "Damaged", CreatedAt: time.Now()}
	coordinator, _, ledgerStore := newTestCoordinator(t, api)

	result := coordinator.AdjustStock(context.Background(), models.AdjustmentRequest{
		StockItemID: "p1",
		Direction:   models.AdjustmentDeduct,
		Quantity:    3,
		Reason:      "Damaged",
	})

	assert.True(t, result.Success)
	entries := ledgerStore.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "log-9", entries[0].ID)
	assert.Equal(t, models.SourceAdjustment, entries[0].Source)

	// Single-entry insert instead of a ledger refetch, but the catalog still
	// refreshes since a quantity changed.
	assert.Equal(t, 0, api.count("FetchSales"))
	assert.Equal(t, 1, api.count("FetchProducts"))
}

func TestAdjustStockRefusesDeductBeyondStock(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Name: "Paracetamol", Stock: 2})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.AdjustStock(context.Background(), models.AdjustmentRequest{
		StockItemID: "p1",
		Direction:   models.AdjustmentDeduct,
		Quantity:    5,
	})

	assert.False(t, result.Success)
	assert.Equal(t, 0, api.count("AdjustStock"))
}

func TestBulkAdjustStockPartialFailure(t *testing.T) {
	api := newFakeAPI(
		backend.Product{ID: "p1", Stock: 10},
		backend.Product{ID: "p2", Stock: 10},
		backend.Product{ID: "p3", Stock: 10},
	)
	api.adjustErrFor = map[string]error{"p2": &backend.RemoteError{StatusCode: 422, Message: "batch locked"}}
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.BulkAdjustStock(context.Background(), []models.BulkAdjustmentItem{
		{StockItemID: "p1", Quantity: 1},
		{StockItemID: "p2", Quantity: 1},
		{StockItemID: "p3", Quantity: 1},
	}, models.AdjustmentDeduct, "Expiry disposal", "")

	assert.False(t, result.Success)
	assert.Equal(t, "Some adjustments failed", result.Message)
	assert.Equal(t, 3, api.count("AdjustStock"))

	require.Len(t, result.Outcomes, 3)
	byID := map[string]models.AdjustmentOutcome{}
	for _, outcome := range result.Outcomes {
		byID[outcome.StockItemID] = outcome
	}
	assert.True(t, byID["p1"].Success)
	assert.False(t, byID["p2"].Success)
	assert.Equal(t, "batch locked", byID["p2"].Message)
	assert.True(t, byID["p3"].Success)
}

func TestBulkAdjustStockAllSuccess(t *testing.T) {
	api := newFakeAPI(
		backend.Product{ID: "p1", Stock: 10},
		backend.Product{ID: "p2", Stock: 10},
	)
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.BulkAdjustStock(context.Background(), []models.BulkAdjustmentItem{
		{StockItemID: "p1", Quantity: 2},
		{StockItemID: "p2", Quantity: 4},
	}, models.AdjustmentAdd, "Stock count", "")

	assert.True(t, result.Success)
	assert.Equal(t, 2, api.count("AdjustStock"))
	assert.Equal(t, 1, api.count("FetchProducts"))
	assert.Equal(t, 1, api.count("FetchSales"))
}

func TestBulkAdjustStockUnknownItemFailsFast(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Stock: 10})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.BulkAdjustStock(context.Background(), []models.BulkAdjustmentItem{
		{StockItemID: "p1", Quantity: 1},
		{StockItemID: "ghost", Quantity: 1},
	}, models.AdjustmentAdd, "", "")

	assert.False(t, result.Success)
	assert.Equal(t, 0, api.count("AdjustStock"))
}

func TestDeleteItemRefreshesCatalogOnly(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Stock: 10})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.DeleteItem(context.Background(), "p1")

	assert.True(t, result.Success)
	assert.Equal(t, 1, api.count("DeleteProduct"))
	assert.Equal(t, 1, api.count("FetchProducts"))
	assert.Equal(t, 0, api.count("FetchSales"))
}

func TestDeleteSaleRefreshesBoth(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Stock: 10})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.DeleteSale(context.Background(), "sale-1")

	assert.True(t, result.Success)
	assert.Equal(t, 1, api.count("DeleteSale"))
	assert.Equal(t, 1, api.count("FetchProducts"))
	assert.Equal(t, 1, api.count("FetchSales"))
}

func TestRecordPurchaseSuccess(t *testing.T) {
	api := newFakeAPI(backend.Product{ID: "p1", Stock: 10})
	coordinator, _, _ := newTestCoordinator(t, api)

	result := coordinator.RecordPurchase(context.Background(), []backend.PurchaseItem{
		{ProductID: "p1", Name: "Paracetamol", PurchasePrice: 1.5, Quantity: 100},
	}, "ACME Pharma", 150)

	assert.True(t, result.Success)
	assert.Equal(t, 1, api.count("CreatePurchase"))
	assert.Equal(t, 1, api.count("FetchProducts"))
}
