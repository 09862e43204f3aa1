package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamour/pharmastock/internal/domain/models"
)

func TestComputeStatsEmptyInput(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, models.DerivedStats{}, stats)
}

func TestComputeStatsAggregates(t *testing.T) {
	// One healthy item, one out of stock, and two low (including the
	// reorder-level boundary).
	items := []models.StockItem{
		{ID: "1", Stock: 10, Price: 2, ReorderLevel: 5},
		{ID: "2", Stock: 3, Price: 4, ReorderLevel: 5},
		{ID: "3", Stock: 0, Price: 10, ReorderLevel: 5},
		{ID: "4", Stock: 5, Price: 1, ReorderLevel: 5},
	}

	stats := ComputeStats(items)

	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, 18, stats.TotalStockUnits)
	assert.InDelta(t, 10*2.0+3*4.0+5*1.0, stats.TotalStockValue, 1e-9)
	assert.Equal(t, 2, stats.LowStockItems)
	assert.Equal(t, 1, stats.OutOfStockItems)
}

func TestComputeStatsLowPlusOutNeverExceedsTotal(t *testing.T) {
	cases := [][]models.StockItem{
		nil,
		{{ID: "1", Stock: 0, ReorderLevel: 10}},
		{{ID: "1", Stock: 1, ReorderLevel: 10}, {ID: "2", Stock: 0, ReorderLevel: 1}},
		{{ID: "1", Stock: 100, ReorderLevel: 10}, {ID: "2", Stock: 2, ReorderLevel: 2}, {ID: "3", Stock: 0}},
	}

	for _, items := range cases {
		stats := ComputeStats(items)
		assert.LessOrEqual(t, stats.LowStockItems+stats.OutOfStockItems, stats.TotalProducts)
	}
}
