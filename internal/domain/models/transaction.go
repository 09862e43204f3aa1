package models

import "time"

// TransactionSource enumerates the five remote record kinds merged into the ledger.
type TransactionSource string

const (
	SourceSale           TransactionSource = "SALE"
	SourceAdjustment     TransactionSource = "ADJUSTMENT"
	SourcePurchase       TransactionSource = "PURCHASE"
	SourceSaleReturn     TransactionSource = "SALE_RETURN"
	SourcePurchaseReturn TransactionSource = "PURCHASE_RETURN"
)

// TransactionDirection indicates whether stock entered or left the pharmacy.
type TransactionDirection string

const (
	DirectionIn  TransactionDirection = "IN"
	DirectionOut TransactionDirection = "OUT"
)

// CanonicalDirection returns the fixed polarity of a source, and false for
// ADJUSTMENT whose direction is carried by the log entry itself.
func (s TransactionSource) CanonicalDirection() (TransactionDirection, bool) {
	switch s {
	case SourceSale, SourcePurchaseReturn:
		return DirectionOut, true
	case SourcePurchase, SourceSaleReturn:
		return DirectionIn, true
	default:
		return "", false
	}
}

// TransactionLine is one item row within a ledger entry.
type TransactionLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Batch     string  `json:"batch"`
	SKU       string  `json:"sku"`
}

// Transaction is one entry of the unified stock ledger. Entries are rebuilt
// from the remote sources on every refresh and are not persisted locally.
type Transaction struct {
	ID          string               `json:"id"`
	Source      TransactionSource    `json:"source"`
	Direction   TransactionDirection `json:"direction"`
	Reason      string               `json:"reason"`
	Reference   string               `json:"reference,omitempty"` // invoice number of the originating record
	Note        string               `json:"note,omitempty"`
	PaymentMode string               `json:"payment_mode,omitempty"`
	Timestamp   time.Time            `json:"timestamp"`
	Quantity    int                  `json:"quantity"`
	Lines       []TransactionLine    `json:"lines"`
	Amount      float64              `json:"amount,omitempty"`
}
