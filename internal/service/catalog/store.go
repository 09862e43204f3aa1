package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/pkg/clients/backend"
)

// Store owns the long-lived StockItem collection for a session. Refresh is
// the only mutator; every read hands out copies so consumers can never
// corrupt the snapshot. All network work happens outside the lock and the
// slice is swapped wholesale, so an overlapping refresh is last-writer-wins.
type Store struct {
	api    backend.API
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	items []models.StockItem
	byID  map[string]models.StockItem
}

// NewStore wires a catalog store instance.
func NewStore(api backend.API, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:    api,
		logger: logger,
		now:    time.Now,
		byID:   make(map[string]models.StockItem),
	}
}

// Refresh re-fetches the remote catalog and replaces the snapshot.
func (s *Store) Refresh(ctx context.Context) error {
	products, err := s.api.FetchProducts(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	items := Project(products)
	byID := make(map[string]models.StockItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	s.mu.Lock()
	s.items = items
	s.byID = byID
	s.mu.Unlock()

	s.logger.Debug("catalog refreshed", zap.Int("items", len(items)))
	return nil
}

// Snapshot returns a copy of the current catalog.
func (s *Store) Snapshot() []models.StockItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.StockItem, len(s.items))
	copy(items, s.items)
	return items
}

// Find looks up one item in the current snapshot.
func (s *Store) Find(id string) (models.StockItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.byID[id]
	return item, ok
}

// Stats recomputes the derived figures over the current snapshot.
func (s *Store) Stats() models.DerivedStats {
	return ComputeStats(s.Snapshot())
}

// LowStock returns in-stock items at or below their reorder level.
func (s *Store) LowStock() []models.StockItem {
	var low []models.StockItem
	for _, item := range s.Snapshot() {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low
}

// OutOfStock returns items with zero stock.
func (s *Store) OutOfStock() []models.StockItem {
	var out []models.StockItem
	for _, item := range s.Snapshot() {
		if item.IsOutOfStock() {
			out = append(out, item)
		}
	}
	return out
}

// ExpiringWithin returns items whose expiry date falls within the given
// number of days (already-expired stock included), ranked in disposal order.
// Items without an expiry date are never flagged.
func (s *Store) ExpiringWithin(days int) []models.StockItem {
	horizon := s.now().AddDate(0, 0, days)

	var expiring []models.StockItem
	for _, item := range s.Snapshot() {
		expiry, ok := parseExpiry(item.Expiry)
		if !ok {
			continue
		}
		if !expiry.After(horizon) {
			expiring = append(expiring, item)
		}
	}

	return RankForDispensing(expiring)
}

// Filter narrows a snapshot by free-text search (name, SKU, batch) and an
// exact category. Empty arguments match everything.
func Filter(items []models.StockItem, search, category string) []models.StockItem {
	search = strings.ToLower(strings.TrimSpace(search))

	var filtered []models.StockItem
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.SKU), search) &&
			!strings.Contains(strings.ToLower(item.Batch), search) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
