package catalog

import "github.com/mamour/pharmastock/internal/domain/models"

// ComputeStats derives the aggregate catalog figures. It is recomputed from
// scratch on every catalog change; there is no incremental patching, so the
// figures can never drift from the snapshot they describe.
func ComputeStats(items []models.StockItem) models.DerivedStats {
	stats := models.DerivedStats{TotalProducts: len(items)}

	for _, item := range items {
		stats.TotalStockUnits += item.Stock
		stats.TotalStockValue += float64(item.Stock) * item.Price

		switch {
		case item.IsOutOfStock():
			stats.OutOfStockItems++
		case item.IsLowStock():
			stats.LowStockItems++
		}
	}

	return stats
}
