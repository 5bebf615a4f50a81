package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"listing-browser/internal/domain"
	"listing-browser/internal/infrastructure/catalogsource"
	"listing-browser/internal/infrastructure/metrics"
	"listing-browser/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMetrics struct {
	repository *metrics.RepositoryMetrics
	service    *metrics.ServiceMetrics
	storage    *metrics.StorageMetrics
}

func newTestMetrics() testMetrics {
	reg := metrics.NewRegistry()
	return testMetrics{
		repository: metrics.NewRepositoryMetrics(reg),
		service:    metrics.NewServiceMetrics(reg),
		storage:    metrics.NewStorageMetrics(reg),
	}
}

func newTestCatalog(t *testing.T, seed []*domain.Listing) CatalogService {
	t.Helper()
	m := newTestMetrics()
	return NewCatalogService(repository.NewMemoryListingRepository(seed, m.repository), NoDelay, m.service)
}

func embeddedSeed(t *testing.T) []*domain.Listing {
	t.Helper()
	seed, err := catalogsource.NewEmbeddedSource().Load(context.Background())
	require.NoError(t, err)
	return seed
}

func ptr[T any](v T) *T { return &v }

func TestCatalogService_GetByIDMatchesEveryListing(t *testing.T) {
	ctx := context.Background()
	seed := embeddedSeed(t)
	catalog := newTestCatalog(t, seed)

	for _, l := range seed {
		got, err := catalog.GetByID(ctx, strconv.FormatInt(l.ID, 10))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
}

func TestCatalogService_GetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, embeddedSeed(t))

	for _, id := range []string{"0", "9999", "-1", "abc", "", "3.5"} {
		_, err := catalog.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrListingNotFound, "id %q", id)
	}
}

func TestCatalogService_SearchWithoutFiltersReturnsCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, embeddedSeed(t))

	all, err := catalog.GetAll(ctx)
	require.NoError(t, err)

	found, err := catalog.Search(ctx, domain.SearchFilters{})
	require.NoError(t, err)
	assert.Len(t, found, len(all))

	emptyTypes, err := catalog.Search(ctx, domain.SearchFilters{PropertyTypes: []string{}})
	require.NoError(t, err)
	assert.Equal(t, found, emptyTypes)
}

func TestCatalogService_SearchPriceBoundsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, embeddedSeed(t))

	narrow, err := catalog.Search(ctx, domain.SearchFilters{PriceMin: ptr(1000000.0), PriceMax: ptr(1500000.0)})
	require.NoError(t, err)
	require.NotEmpty(t, narrow)
	for _, l := range narrow {
		assert.GreaterOrEqual(t, l.Price, 1000000.0)
		assert.LessOrEqual(t, l.Price, 1500000.0)
	}

	wide, err := catalog.Search(ctx, domain.SearchFilters{PriceMin: ptr(500000.0), PriceMax: ptr(2000000.0)})
	require.NoError(t, err)

	wideIDs := make(map[int64]bool, len(wide))
	for _, l := range wide {
		wideIDs[l.ID] = true
	}
	for _, l := range narrow {
		assert.True(t, wideIDs[l.ID], "listing %d dropped by a wider bound", l.ID)
	}
}

func TestCatalogService_SearchByZip(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, []*domain.Listing{
		{ID: 1, Address: "1 MAIN ST", City: "SAN FRANCISCO", Zip: "94102"},
		{ID: 2, Address: "2 Elm St", City: "Oakland", Zip: "94611"},
	})

	found, err := catalog.Search(ctx, domain.SearchFilters{Location: "94102"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ID)
}

func TestCatalogService_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, []*domain.Listing{{ID: 42, Title: "Existing"}, {ID: 7}})

	created, err := catalog.Create(ctx, &domain.Listing{ID: 1, Title: "X", Price: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(43), created.ID)
	assert.WithinDuration(t, time.Now(), created.ListingDate, time.Minute)

	updated, err := catalog.Update(ctx, "43", domain.ListingPatch{Title: ptr("Y")})
	require.NoError(t, err)
	assert.Equal(t, int64(43), updated.ID)
	assert.Equal(t, "Y", updated.Title)
	assert.Equal(t, 100.0, updated.Price)

	removed, err := catalog.Delete(ctx, "43")
	require.NoError(t, err)
	assert.Equal(t, int64(43), removed.ID)

	_, err = catalog.GetByID(ctx, "43")
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = catalog.Update(ctx, "43", domain.ListingPatch{})
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = catalog.Delete(ctx, "not-a-number")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestCatalogService_PermissiveUpdate(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t, []*domain.Listing{{ID: 1, Price: 100}})

	updated, err := catalog.Update(ctx, "1", domain.ListingPatch{Price: ptr(-5.0), Bedrooms: ptr(-1.0)})
	require.NoError(t, err)
	assert.Equal(t, -5.0, updated.Price)
	assert.Equal(t, -1.0, updated.Bedrooms)
}

type recordingLatency struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordingLatency) Wait(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func TestCatalogService_WaitsOnEveryOperation(t *testing.T) {
	ctx := context.Background()
	m := newTestMetrics()
	latency := &recordingLatency{}
	catalog := NewCatalogService(repository.NewMemoryListingRepository(nil, m.repository), latency, m.service)

	_, _ = catalog.GetAll(ctx)
	_, _ = catalog.Search(ctx, domain.SearchFilters{})
	_, _ = catalog.Create(ctx, &domain.Listing{})
	_, _ = catalog.GetByID(ctx, "1")
	_, _ = catalog.Update(ctx, "1", domain.ListingPatch{})
	_, _ = catalog.Delete(ctx, "1")

	assert.Equal(t, []string{"GetAll", "Search", "Create", "GetByID", "Update", "Delete"}, latency.ops)
}
