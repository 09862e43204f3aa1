package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamour/pharmastock/pkg/clients/backend"
)

// fakeAPI embeds the interface so only the methods a test exercises need
// implementations; anything else panics loudly.
type fakeAPI struct {
	backend.API
	products []backend.Product
	fetchErr error
}

func (f *fakeAPI) FetchProducts(ctx context.Context) ([]backend.Product, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.products, nil
}

func TestStoreRefreshReplacesSnapshot(t *testing.T) {
	api := &fakeAPI{products: []backend.Product{
		{ID: "p1", Name: "Ibuprofen", Stock: 7},
		{ID: "p2", Name: "Cetirizine", Stock: 0},
	}}
	store := NewStore(api, nil)

	require.NoError(t, store.Refresh(context.Background()))
	require.Len(t, store.Snapshot(), 2)

	item, ok := store.Find("p1")
	require.True(t, ok)
	assert.Equal(t, "Ibuprofen", item.Name)

	api.products = []backend.Product{{ID: "p3", Name: "Loratadine", Stock: 3}}
	require.NoError(t, store.Refresh(context.Background()))

	// Replacement, not a merge.
	require.Len(t, store.Snapshot(), 1)
	_, ok = store.Find("p1")
	assert.False(t, ok)
}

func TestStoreRefreshFailureKeepsPriorSnapshot(t *testing.T) {
	api := &fakeAPI{products: []backend.Product{{ID: "p1", Stock: 5}}}
	store := NewStore(api, nil)
	require.NoError(t, store.Refresh(context.Background()))

	api.fetchErr = errors.New("connection refused")
	require.Error(t, store.Refresh(context.Background()))

	assert.Len(t, store.Snapshot(), 1)
}

func TestStoreLowAndOutOfStockViews(t *testing.T) {
	api := &fakeAPI{products: []backend.Product{
		{ID: "p1", Stock: 50},
		{ID: "p2", Stock: 4},
		{ID: "p3", Stock: 0},
	}}
	store := NewStore(api, nil)
	require.NoError(t, store.Refresh(context.Background()))

	low := store.LowStock()
	require.Len(t, low, 1)
	assert.Equal(t, "p2", low[0].ID)

	out := store.OutOfStock()
	require.Len(t, out, 1)
	assert.Equal(t, "p3", out[0].ID)
}

func TestStoreExpiringWithin(t *testing.T) {
	api := &fakeAPI{products: []backend.Product{
		{ID: "p1", Stock: 5, ExpiryDate: "2025-03-10"}, // inside horizon
		{ID: "p2", Stock: 5, ExpiryDate: "2025-01-02"}, // already expired
		{ID: "p3", Stock: 5, ExpiryDate: "2026-01-01"}, // beyond horizon
		{ID: "p4", Stock: 5},                           // no expiry, never flagged
	}}
	store := NewStore(api, nil)
	store.now = func() time.Time {
		return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	require.NoError(t, store.Refresh(context.Background()))

	expiring := store.ExpiringWithin(30)

	require.Len(t, expiring, 2)
	// Disposal order: soonest expiry first.
	assert.Equal(t, "p2", expiring[0].ID)
	assert.Equal(t, "p1", expiring[1].ID)
}

func TestFilter(t *testing.T) {
	api := &fakeAPI{products: []backend.Product{
		{ID: "p1", Name: "Paracetamol 500mg", Category: "Analgesic", SKU: "PARA-500"},
		{ID: "p2", Name: "Amoxicillin", Category: "Antibiotic"},
	}}
	store := NewStore(api, nil)
	require.NoError(t, store.Refresh(context.Background()))

	byName := Filter(store.Snapshot(), "paracetamol", "")
	require.Len(t, byName, 1)
	assert.Equal(t, "p1", byName[0].ID)

	bySKU := Filter(store.Snapshot(), "para-500", "")
	require.Len(t, bySKU, 1)

	byCategory := Filter(store.Snapshot(), "", "Antibiotic")
	require.Len(t, byCategory, 1)
	assert.Equal(t, "p2", byCategory[0].ID)

	assert.Len(t, Filter(store.Snapshot(), "", ""), 2)
}
