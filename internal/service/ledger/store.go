package ledger

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/domain/models"
	"github.com/mamour/pharmastock/pkg/clients/backend"
)

// Store owns the unified transaction ledger for a session. Refresh replaces
// the in-memory ledger entirely; it is never a merge against prior state.
type Store struct {
	api        backend.API
	fetchLimit int
	logger     *zap.Logger

	mu      sync.RWMutex
	entries []models.Transaction
}

// NewStore wires a ledger store instance. fetchLimit bounds the page size
// requested from each remote source.
func NewStore(api backend.API, fetchLimit int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{api: api, fetchLimit: fetchLimit, logger: logger}
}

// Refresh fetches the five transaction sources concurrently, normalizes each
// batch, and sorts the merged result reverse-chronologically. A failing
// source contributes zero entries while the others still populate the ledger;
// the ledger is a read-side view and must degrade gracefully, so per-source
// failures are logged rather than surfaced.
func (s *Store) Refresh(ctx context.Context) {
	// Fixed slots keep a deterministic source order for the stable sort,
	// regardless of which fetch finishes first.
	batches := make([][]models.Transaction, 5)

	var wg sync.WaitGroup
	run := func(slot int, source string, fetch func() ([]models.Transaction, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := fetch()
			if err != nil {
				s.logger.Warn("ledger source fetch failed", zap.String("source", source), zap.Error(err))
				return
			}
			batches[slot] = entries
		}()
	}

	run(0, "sales", func() ([]models.Transaction, error) {
		sales, err := s.api.FetchSales(ctx, 1, s.fetchLimit)
		if err != nil {
			return nil, err
		}
		entries := make([]models.Transaction, 0, len(sales))
		for _, sale := range sales {
			entries = append(entries, NormalizeSale(sale))
		}
		return entries, nil
	})

	run(1, "inventory_logs", func() ([]models.Transaction, error) {
		logs, err := s.api.FetchInventoryLogs(ctx, 1, s.fetchLimit)
		if err != nil {
			return nil, err
		}
		entries := make([]models.Transaction, 0, len(logs))
		for _, log := range logs {
			entries = append(entries, NormalizeInventoryLog(log))
		}
		return entries, nil
	})

	run(2, "purchases", func() ([]models.Transaction, error) {
		purchases, err := s.api.FetchPurchases(ctx, 1, s.fetchLimit)
		if err != nil {
			return nil, err
		}
		entries := make([]models.Transaction, 0, len(purchases))
		for _, purchase := range purchases {
			entries = append(entries, NormalizePurchase(purchase))
		}
		return entries, nil
	})

	run(3, "sale_returns", func() ([]models.Transaction, error) {
		returns, err := s.api.FetchSaleReturns(ctx, 1, s.fetchLimit)
		if err != nil {
			return nil, err
		}
		entries := make([]models.Transaction, 0, len(returns))
		for _, ret := range returns {
			entries = append(entries, NormalizeSaleReturn(ret))
		}
		return entries, nil
	})

	run(4, "purchase_returns", func() ([]models.Transaction, error) {
		returns, err := s.api.FetchPurchaseReturns(ctx, 1, s.fetchLimit)
		if err != nil {
			return nil, err
		}
		entries := make([]models.Transaction, 0, len(returns))
		for _, ret := range returns {
			entries = append(entries, NormalizePurchaseReturn(ret))
		}
		return entries, nil
	})

	wg.Wait()

	var merged []models.Transaction
	for _, batch := range batches {
		merged = append(merged, batch...)
	}

	// Stable: entries with identical timestamps keep source-fetch order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})

	s.mu.Lock()
	s.entries = merged
	s.mu.Unlock()

	s.logger.Debug("ledger refreshed", zap.Int("entries", len(merged)))
}

// InsertHead prepends one entry without a refetch. Used for the optimistic
// single-entry path after a successful manual adjustment; every other
// mutation pays for a full refresh instead, a deliberate variance in
// consistency guarantees between the two paths.
func (s *Store) InsertHead(tx models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.Transaction, 0, len(s.entries)+1)
	entries = append(entries, tx)
	entries = append(entries, s.entries...)
	s.entries = entries
}

// Snapshot returns a copy of the current ledger, newest first.
func (s *Store) Snapshot() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.Transaction, len(s.entries))
	copy(entries, s.entries)
	return entries
}
