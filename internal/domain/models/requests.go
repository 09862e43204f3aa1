package models

// AdjustmentDirection selects whether a manual stock adjustment adds or
// removes units.
type AdjustmentDirection string

const (
	AdjustmentAdd    AdjustmentDirection = "add"
	AdjustmentDeduct AdjustmentDirection = "deduct"
)

// CartLine is one UI-session cart row referencing a catalog item. It only
// lives long enough to build a mutation payload.
type CartLine struct {
	StockItemID string  `json:"stock_item_id" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price"`
}

// SaleMetadata carries the caller-computed totals for a sale. The coordinator
// forwards these as-is; it does not recompute tax or discount.
type SaleMetadata struct {
	SubTotal    float64 `json:"sub_total"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
	PaymentMode string  `json:"payment_mode"`
	Customer    string  `json:"customer"`
}

// AdjustmentRequest describes a single-item manual stock adjustment.
type AdjustmentRequest struct {
	StockItemID string              `json:"stock_item_id" binding:"required"`
	Direction   AdjustmentDirection `json:"direction" binding:"required,oneof=add deduct"`
	Quantity    int                 `json:"quantity" binding:"required,gt=0"`
	Reason      string              `json:"reason"`
	Note        string              `json:"note"`
}

// BulkAdjustmentItem is one row of a multi-item adjustment.
type BulkAdjustmentItem struct {
	StockItemID string `json:"stock_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// AdjustmentOutcome reports how one item of a bulk adjustment fared remotely.
type AdjustmentOutcome struct {
	StockItemID string `json:"stock_item_id"`
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
}

// MutationResult is the uniform outcome of every mutation operation. Failures
// of any kind resolve to Success=false with a message; no error crosses the
// coordinator's public boundary.
type MutationResult struct {
	Success  bool                `json:"success"`
	Message  string              `json:"message,omitempty"`
	SaleID   string              `json:"sale_id,omitempty"`
	Outcomes []AdjustmentOutcome `json:"outcomes,omitempty"`
}
