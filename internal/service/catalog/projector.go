package catalog

import (
	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/pkg/clients/backend"
)

// Project converts the raw remote product collection into the internal
// StockItem shape. Pure and synchronous; missing upstream fields degrade to
// defaults instead of failing.
func Project(products []backend.Product) []models.StockItem {
	items := make([]models.StockItem, 0, len(products))
	for _, p := range products {
		items = append(items, projectOne(p))
	}
	return items
}

func projectOne(p backend.Product) models.StockItem {
	stock := p.Stock
	if stock < 0 {
		// The backend should never serve negative stock; clamp rather than
		// propagate a broken value to every consumer.
		stock = 0
	}

	reorder := models.DefaultReorderLevel
	if p.ReorderLevel != nil && *p.ReorderLevel > 0 {
		reorder = *p.ReorderLevel
	}

	active := true
	if p.Active != nil {
		active = *p.Active
	}

	return models.StockItem{
		ID:            p.ID,
		Name:          p.Name,
		Stock:         stock,
		Price:         p.Price,
		PurchasePrice: p.PurchasePrice,
		Category:      p.Category,
		Batch:         p.Batch,
		SKU:           p.SKU,
		Expiry:        p.ExpiryDate,
		ReorderLevel:  reorder,
		Brand:         p.Brand,
		Unit:          p.Unit,
		Active:        active,
		TaxRate:       p.TaxRate,
	}
}
