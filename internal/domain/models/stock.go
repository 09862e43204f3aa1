package models

// DefaultReorderLevel is applied when the remote catalog record carries no threshold.
const DefaultReorderLevel = 10

// StockItem is the normalized in-memory representation of one catalog product.
// Instances are produced by the catalog projector and replaced wholesale on
// refresh; consumers must treat them as read-only.
type StockItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Stock         int     `json:"stock"`
	Price         float64 `json:"price"`
	PurchasePrice float64 `json:"purchase_price"`
	Category      string  `json:"category"`
	Batch         string  `json:"batch"`
	SKU           string  `json:"sku"`
	Expiry        string  `json:"expiry,omitempty"` // ISO date (2006-01-02), empty when unknown
	ReorderLevel  int     `json:"reorder_level"`
	Brand         string  `json:"brand"`
	Unit          string  `json:"unit"`
	Active        bool    `json:"active"`
	TaxRate       float64 `json:"tax_rate"`
}

// IsOutOfStock reports whether the item has no sellable units left.
func (s StockItem) IsOutOfStock() bool {
	return s.Stock == 0
}

// IsLowStock reports whether the item is at or below its reorder level while
// still in stock. Out-of-stock items are counted separately.
func (s StockItem) IsLowStock() bool {
	return s.Stock > 0 && s.Stock <= s.ReorderLevel
}

// DerivedStats carries the aggregate figures recomputed over the catalog on
// every refresh.
type DerivedStats struct {
	TotalProducts   int     `json:"total_products"`
	TotalStockValue float64 `json:"total_stock_value"`
	TotalStockUnits int     `json:"total_stock_units"`
	LowStockItems   int     `json:"low_stock_items"`
	OutOfStockItems int     `json:"out_of_stock_items"`
}
