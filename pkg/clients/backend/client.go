package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamour/pharmastock/internal/config"
)

// RemoteError indicates the backend was reachable but rejected the call
// (HTTP error status or success=false). Message is the server's own text.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend rejected request: code=%d, message=%s", e.StatusCode, e.Message)
}

// API exposes the remote pharmacy backend operations used by the application.
type API interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, id string, update ProductUpdate) error
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, productID string, adj StockAdjustment) (*InventoryLog, error)

	FetchSales(ctx context.Context, page, limit int) ([]Sale, error)
	CreateSale(ctx context.Context, payload SalePayload) (*Sale, error)
	UpdateSale(ctx context.Context, id string, payload SalePayload) (*Sale, error)
	DeleteSale(ctx context.Context, id string) error
	DeleteAllSales(ctx context.Context) error

	FetchPurchases(ctx context.Context, page, limit int) ([]Purchase, error)
	CreatePurchase(ctx context.Context, payload PurchasePayload) (*Purchase, error)

	FetchSaleReturns(ctx context.Context, page, limit int) ([]SaleReturn, error)
	FetchPurchaseReturns(ctx context.Context, page, limit int) ([]PurchaseReturn, error)

	FetchSuppliers(ctx context.Context) ([]Supplier, error)
	CreateSupplier(ctx context.Context, payload SupplierPayload) (*Supplier, error)

	FetchInventoryLogs(ctx context.Context, page, limit int) ([]InventoryLog, error)
}

// APIClient is a resty-backed implementation of API.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a backend API client using the provided configuration values.
func NewClient(cfg config.BackendConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	if cfg.APIKey != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &APIClient{httpClient: restyClient}
}

// execute runs one request and maps the response onto the shared failure
// taxonomy: transport errors come back wrapped, HTTP errors and success=false
// come back as *RemoteError.
func (c *APIClient) execute(ctx context.Context, method, path string, body any, query map[string]string, result statusCarrier) error {
	// The envelope shape is the same for success and error bodies, so both
	// resty targets point at the same struct.
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(result)

	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest || !result.ok() {
		return &RemoteError{StatusCode: resp.StatusCode(), Message: result.statusMessage()}
	}

	return nil
}

func pageQuery(page, limit int) map[string]string {
	return map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
}

func (c *APIClient) FetchProducts(ctx context.Context) ([]Product, error) {
	result := new(productsResponse)
	if err := c.execute(ctx, http.MethodGet, "/api/products", nil, nil, result); err != nil {
		return nil, err
	}
	return result.Products, nil
}

func (c *APIClient) FetchProduct(ctx context.Context, id string) (*Product, error) {
	result := new(productResponse)
	if err := c.execute(ctx, http.MethodGet, fmt.Sprintf("/api/products/%s", id), nil, nil, result); err != nil {
		return nil, err
	}
	return result.Product, nil
}

func (c *APIClient) UpdateProduct(ctx context.Context, id string, update ProductUpdate) error {
	result := new(productResponse)
	return c.execute(ctx, http.MethodPut, fmt.Sprintf("/api/products/%s", id), update, nil, result)
}

func (c *APIClient) DeleteProduct(ctx context.Context, id string) error {
	result := new(productResponse)
	return c.execute(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%s", id), nil, nil, result)
}

func (c *APIClient) AdjustStock(ctx context.Context, productID string, adj StockAdjustment) (*InventoryLog, error) {
	result := new(adjustResponse)
	if err := c.execute(ctx, http.MethodPost, fmt.Sprintf("/api/products/%s/adjust", productID), adj, nil, result); err != nil {
		return nil, err
	}
	return result.Log, nil
}

func (c *APIClient) FetchSales(ctx context.Context, page, limit int) ([]Sale, error) {
	result := new(salesResponse)
	if err := c.execute(ctx, http.MethodGet, "/api/sales", nil, pageQuery(page, limit), result); err != nil {
		return nil, err
	}
	return result.Sales, nil
}

func (c *APIClient) CreateSale(ctx context.Context, payload SalePayload) (*Sale, error) {
	result := new(saleResponse)
	if err := c.execute(ctx, http.MethodPost, "/api/sales", payload, nil, result); err != nil {
		return nil, err
	}
	return result.Sale, nil
}

func (c *APIClient) UpdateSale(ctx context.Context, id string, payload SalePayload) (*Sale, error) {
	result := new(saleResponse)
	if err := c.execute(ctx, http.MethodPut, fmt.Sprintf("/api/sales/%s", id), payload, nil, result); err != nil {
		return nil, err
	}
	return result.Sale, nil
}

func (c *APIClient) DeleteSale(ctx context.Context, id string) error {
	result := new(saleResponse)
	return c.execute(ctx, http.MethodDelete, fmt.Sprintf("/api/sales/%s", id), nil, nil, result)
}

func (c *APIClient) DeleteAllSales(ctx context.Context) error {
	result := new(salesResponse)
	return c.execute(ctx, http.MethodDelete, "/api/sales", nil, nil, result)
}

func (c *APIClient) FetchPurchases(ctx context.Context, page, limit int) ([]Purchase, error) {
	result := new(purchasesResponse)
	if err := c.execute(ctx, http.MethodGet, "/api/purchases", nil, pageQuery(page, limit), result); err != nil {
		return nil, err
	}
	return result.Purchases, nil
}

func (c *APIClient) CreatePurchase(ctx context.Context, payload PurchasePayload) (*Purchase, error) {
	result := new(purchaseResponse)
	if err := c.execute(ctx, http.MethodPost, "/api/purchases", payload, nil, result); err != nil {
		return nil, err
	}
	return result.Purchase, nil
}

func (c *APIClient) FetchSaleReturns(ctx context.Context, page, limit int) ([]SaleReturn, error) {
	result := new(saleReturnsResponse)
	if err := c.execute(ctx, http.MethodGet, "/api/returns/sales", nil, pageQuery(page, limit), result); err != nil {
		return nil, err
	}
	return result.Returns, nil
}

func (c *APIClient) FetchPurchaseReturns(ctx context.Context, page, limit int) ([]PurchaseReturn, error) {
	result := new(purchaseReturnsResponse)
	if err := c.execute(ctx, http.MethodGet, "/api/returns/purchases", nil, pageQuery(page, limit), result); err != nil {
		return nil, err
	}
	return result.Returns, nil
}

func (c *APIClient) FetchSuppliers(ctx context.Context) ([]Supplier, error) {
	result := new(suppliersResponse)
	if err := c.execute(ctx, http.MethodGet, "/api/suppliers", nil, nil, result); err != nil {
		return nil, err
	}
	return result.Suppliers, nil
}

func (c *APIClient) CreateSupplier(ctx context.Context, payload SupplierPayload) (*Supplier, error) {
	result := new(supplierResponse)
	if err := c.execute(ctx, http.MethodPost, "/api/suppliers", payload, nil, result); err != nil {
		return nil, err
	}
	return result.Supplier, nil
}

func (c *APIClient) FetchInventoryLogs(ctx context.Context, page, limit int) ([]InventoryLog, error) {
	result := new(inventoryLogsResponse)
	if err := c.execute(ctx, http.MethodGet, "/api/inventory/logs", nil, pageQuery(page, limit), result); err != nil {
		return nil, err
	}
	return result.Logs, nil
}
