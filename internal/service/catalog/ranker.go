package catalog

import (
	"sort"
	"strconv"
	"time"

	"github.com/mamour/pharmastock/internal/domain/models"
)

const expiryLayout = "2006-01-02"

// RankForDispensing orders a stock snapshot for consumption or disposal:
// earliest expiry first (FEFO), items without an expiry date last, and the
// item identifier as receipt-order tie-break (FIFO). The identifier proxy
// assumes the backend assigns IDs monotonically by receipt time; it is an
// approximation, not a guarantee.
func RankForDispensing(items []models.StockItem) []models.StockItem {
	ranked := make([]models.StockItem, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		ei, okI := parseExpiry(ranked[i].Expiry)
		ej, okJ := parseExpiry(ranked[j].Expiry)

		switch {
		case okI && !okJ:
			return true
		case !okI && okJ:
			return false
		case okI && okJ && !ei.Equal(ej):
			return ei.Before(ej)
		}

		return idBefore(ranked[i].ID, ranked[j].ID)
	})

	return ranked
}

func parseExpiry(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	// Accept full timestamps from the backend by truncating to the date part.
	if len(value) > len(expiryLayout) {
		value = value[:len(expiryLayout)]
	}
	parsed, err := time.Parse(expiryLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// idBefore compares identifiers numerically when both parse as integers and
// lexicographically otherwise.
func idBefore(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
