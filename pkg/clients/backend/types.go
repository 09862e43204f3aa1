package backend

import "time"

// Product is the raw catalog record as served by the remote backend.
type Product struct {
	ID            string  `json:"_id"`
	Name          string  `json:"name"`
	Stock         int     `json:"stock"`
	Price         float64 `json:"price"`
	PurchasePrice float64 `json:"purchasePrice"`
	Category      string  `json:"category"`
	Batch         string  `json:"batchNo"`
	SKU           string  `json:"sku"`
	ExpiryDate    string  `json:"expiryDate"`
	ReorderLevel  *int    `json:"reorderLevel"`
	Brand         string  `json:"brand"`
	Unit          string  `json:"unit"`
	Active        *bool   `json:"isActive"`
	TaxRate       float64 `json:"taxRate"`
}

// ProductUpdate carries the editable product fields for an update call.
type ProductUpdate struct {
	Name         string  `json:"name,omitempty"`
	Price        float64 `json:"price,omitempty"`
	Category     string  `json:"category,omitempty"`
	Batch        string  `json:"batchNo,omitempty"`
	ExpiryDate   string  `json:"expiryDate,omitempty"`
	ReorderLevel *int    `json:"reorderLevel,omitempty"`
	Active       *bool   `json:"isActive,omitempty"`
}

// ProductRef is the joined product reference embedded in sale items.
type ProductRef struct {
	Name  string `json:"name"`
	Batch string `json:"batchNo"`
	SKU   string `json:"sku"`
}

// SaleItem is one line of a remote sale record.
type SaleItem struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     float64     `json:"price"`
	Quantity  int         `json:"quantity"`
	Product   *ProductRef `json:"product"`
}

// Sale is the raw sale record.
type Sale struct {
	ID          string     `json:"_id"`
	InvoiceNo   string     `json:"invoiceNo"`
	Customer    string     `json:"customer"`
	PaymentMode string     `json:"paymentMode"`
	SubTotal    float64    `json:"subTotal"`
	Tax         float64    `json:"tax"`
	Discount    float64    `json:"discount"`
	Total       float64    `json:"total"`
	Items       []SaleItem `json:"items"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// SalePayload is the create/update body for a sale. InvoiceNo is omitted on
// updates so an amend never rewrites the invoice number the sale already has.
type SalePayload struct {
	InvoiceNo   string     `json:"invoiceNo,omitempty"`
	Customer    string     `json:"customer,omitempty"`
	PaymentMode string     `json:"paymentMode,omitempty"`
	SubTotal    float64    `json:"subTotal"`
	Tax         float64    `json:"tax"`
	Discount    float64    `json:"discount"`
	Total       float64    `json:"total"`
	Items       []SaleItem `json:"items"`
}

// PurchaseItem is one line of a remote purchase record.
type PurchaseItem struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	PurchasePrice float64 `json:"purchasePrice"`
	Quantity      int     `json:"quantity"`
	Batch         string  `json:"batchNo"`
	SKU           string  `json:"sku"`
}

// Purchase is the raw purchase record.
type Purchase struct {
	ID        string         `json:"_id"`
	InvoiceNo string         `json:"invoiceNo"`
	Supplier  string         `json:"supplier"`
	Total     float64        `json:"total"`
	Items     []PurchaseItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PurchasePayload is the create body for a purchase.
type PurchasePayload struct {
	InvoiceNo string         `json:"invoiceNo"`
	Supplier  string         `json:"supplier,omitempty"`
	Total     float64        `json:"total"`
	Items     []PurchaseItem `json:"items"`
}

// ReturnItem is one line of a sale-return record.
type ReturnItem struct {
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	ReturnedQuantity int     `json:"returnedQuantity"`
	Batch            string  `json:"batchNo"`
	SKU              string  `json:"sku"`
}

// SaleReturn is the raw sale-return record.
type SaleReturn struct {
	ID        string       `json:"_id"`
	InvoiceNo string       `json:"invoiceNo"`
	Total     float64      `json:"total"`
	Items     []ReturnItem `json:"items"`
	CreatedAt time.Time    `json:"createdAt"`
}

// PurchaseReturnItem is one line of a purchase-return record. Older backend
// versions populate quantity instead of returnQuantity.
type PurchaseReturnItem struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	ReturnQuantity *int    `json:"returnQuantity"`
	Quantity       int     `json:"quantity"`
	Batch          string  `json:"batchNo"`
	SKU            string  `json:"sku"`
}

// PurchaseReturn is the raw purchase-return record.
type PurchaseReturn struct {
	ID        string               `json:"_id"`
	InvoiceNo string               `json:"invoiceNo"`
	Total     float64              `json:"total"`
	Items     []PurchaseReturnItem `json:"items"`
	CreatedAt time.Time            `json:"createdAt"`
}

// StockAdjustment is the body of a manual stock adjustment call.
type StockAdjustment struct {
	Type     string `json:"type"` // "IN" or "OUT"
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
	Note     string `json:"note,omitempty"`
}

// InventoryLog is the raw manual-adjustment log entry.
type InventoryLog struct {
	ID          string    `json:"_id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Type        string    `json:"type"` // "IN" or "OUT"
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	Note        string    `json:"note"`
	Batch       string    `json:"batchNo"`
	SKU         string    `json:"sku"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Supplier is the raw supplier record.
type Supplier struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// SupplierPayload is the create body for a supplier.
type SupplierPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// status is the shared portion of every backend response envelope.
type status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s status) ok() bool { return s.Success }

func (s status) statusMessage() string { return s.Message }

// statusCarrier is implemented by every response envelope via embedded status.
type statusCarrier interface {
	ok() bool
	statusMessage() string
}

type productsResponse struct {
	status
	Products []Product `json:"products"`
}

type productResponse struct {
	status
	Product *Product `json:"product"`
}

type salesResponse struct {
	status
	Sales []Sale `json:"sales"`
}

type saleResponse struct {
	status
	Sale *Sale `json:"sale"`
}

type purchasesResponse struct {
	status
	Purchases []Purchase `json:"purchases"`
}

type purchaseResponse struct {
	status
	Purchase *Purchase `json:"purchase"`
}

type saleReturnsResponse struct {
	status
	Returns []SaleReturn `json:"returns"`
}

type purchaseReturnsResponse struct {
	status
	Returns []PurchaseReturn `json:"returns"`
}

type suppliersResponse struct {
	status
	Suppliers []Supplier `json:"suppliers"`
}

type supplierResponse struct {
	status
	Supplier *Supplier `json:"supplier"`
}

type inventoryLogsResponse struct {
	status
	Logs []InventoryLog `json:"logs"`
}

type adjustResponse struct {
	status
	Log *InventoryLog `json:"log"`
}
