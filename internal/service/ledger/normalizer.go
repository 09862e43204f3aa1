package ledger

import (
	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/pkg/clients/backend"
)

// Sentinels substituted for missing optional fields. Normalization is total:
// partial remote data degrades to these values and never fails.
const (
	fallbackLabel  = "N/A"
	reasonSale     = "Sale"
	reasonPurchase = "Purchase"
	reasonSaleRet  = "Sale Return"
	reasonPurchRet = "Purchase Return"
	reasonManual   = "Manual Adjustment"
)

func orFallback(value string) string {
	if value == "" {
		return fallbackLabel
	}
	return value
}

// NormalizeSale converts a raw sale into a ledger entry. Sales always move
// stock out.
func NormalizeSale(s backend.Sale) models.Transaction {
	lines := make([]models.TransactionLine, 0, len(s.Items))
	total := 0

	for _, item := range s.Items {
		name := item.Name
		batch := ""
		sku := ""
		if item.Product != nil {
			if name == "" {
				name = item.Product.Name
			}
			batch = item.Product.Batch
			sku = item.Product.SKU
		}

		lines = append(lines, models.TransactionLine{
			Name:      orFallback(name),
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Batch:     orFallback(batch),
			SKU:       orFallback(sku),
		})
		total += item.Quantity
	}

	return models.Transaction{
		ID:          s.ID,
		Source:      models.SourceSale,
		Direction:   models.DirectionOut,
		Reason:      reasonSale,
		Reference:   s.InvoiceNo,
		PaymentMode: s.PaymentMode,
		Timestamp:   s.CreatedAt,
		Quantity:    total,
		Lines:       lines,
		Amount:      s.Total,
	}
}

// NormalizeInventoryLog converts a manual adjustment log entry. The log
// carries its own direction; anything other than "IN" is treated as OUT.
func NormalizeInventoryLog(l backend.InventoryLog) models.Transaction {
	direction := models.DirectionOut
	if l.Type == string(models.DirectionIn) {
		direction = models.DirectionIn
	}

	reason := l.Reason
	if reason == "" {
		reason = reasonManual
	}

	line := models.TransactionLine{
		Name:     orFallback(l.ProductName),
		Quantity: l.Quantity,
		Batch:    orFallback(l.Batch),
		SKU:      orFallback(l.SKU),
	}

	return models.Transaction{
		ID:        l.ID,
		Source:    models.SourceAdjustment,
		Direction: direction,
		Reason:    reason,
		Note:      l.Note,
		Timestamp: l.CreatedAt,
		Quantity:  l.Quantity,
		Lines:     []models.TransactionLine{line},
	}
}

// NormalizePurchase converts a raw purchase into a ledger entry. Purchases
// always move stock in; line prices are the purchase cost, not the sale price.
func NormalizePurchase(p backend.Purchase) models.Transaction {
	lines := make([]models.TransactionLine, 0, len(p.Items))
	total := 0

	for _, item := range p.Items {
		lines = append(lines, models.TransactionLine{
			Name:      orFallback(item.Name),
			Quantity:  item.Quantity,
			UnitPrice: item.PurchasePrice,
			Batch:     orFallback(item.Batch),
			SKU:       orFallback(item.SKU),
		})
		total += item.Quantity
	}

	return models.Transaction{
		ID:        p.ID,
		Source:    models.SourcePurchase,
		Direction: models.DirectionIn,
		Reason:    reasonPurchase,
		Reference: p.InvoiceNo,
		Timestamp: p.CreatedAt,
		Quantity:  total,
		Lines:     lines,
		Amount:    p.Total,
	}
}

// NormalizeSaleReturn converts a raw sale return. Returned goods move back in.
func NormalizeSaleReturn(r backend.SaleReturn) models.Transaction {
	lines := make([]models.TransactionLine, 0, len(r.Items))
	total := 0

	for _, item := range r.Items {
		lines = append(lines, models.TransactionLine{
			Name:      orFallback(item.Name),
			Quantity:  item.ReturnedQuantity,
			UnitPrice: item.Price,
			Batch:     orFallback(item.Batch),
			SKU:       orFallback(item.SKU),
		})
		total += item.ReturnedQuantity
	}

	return models.Transaction{
		ID:        r.ID,
		Source:    models.SourceSaleReturn,
		Direction: models.DirectionIn,
		Reason:    reasonSaleRet,
		Reference: r.InvoiceNo,
		Timestamp: r.CreatedAt,
		Quantity:  total,
		Lines:     lines,
		Amount:    r.Total,
	}
}

// NormalizePurchaseReturn converts a raw purchase return. Goods sent back to
// the supplier move out. Older backend records populate quantity instead of
// returnQuantity, so the former is the fallback.
func NormalizePurchaseReturn(r backend.PurchaseReturn) models.Transaction {
	lines := make([]models.TransactionLine, 0, len(r.Items))
	total := 0

	for _, item := range r.Items {
		quantity := item.Quantity
		if item.ReturnQuantity != nil {
			quantity = *item.ReturnQuantity
		}

		lines = append(lines, models.TransactionLine{
			Name:      orFallback(item.Name),
			Quantity:  quantity,
			UnitPrice: item.Price,
			Batch:     orFallback(item.Batch),
			SKU:       orFallback(item.SKU),
		})
		total += quantity
	}

	return models.Transaction{
		ID:        r.ID,
		Source:    models.SourcePurchaseReturn,
		Direction: models.DirectionOut,
		Reason:    reasonPurchRet,
		Reference: r.InvoiceNo,
		Timestamp: r.CreatedAt,
		Quantity:  total,
		Lines:     lines,
		Amount:    r.Total,
	}
}
