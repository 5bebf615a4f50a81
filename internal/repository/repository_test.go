package repository

import (
	"context"
	"testing"
	"time"

	"listing-browser/internal/domain"
	"listing-browser/internal/infrastructure/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedListings() []*domain.Listing {
	return []*domain.Listing{
		{ID: 3, Title: "Condo", City: "San Francisco", Zip: "94102", Price: 500000, Type: "Condo", Images: []string{"3.jpg"}},
		{ID: 42, Title: "House", City: "Oakland", Zip: "94611", Price: 900000, Type: "House", Images: []string{"42.jpg"}},
		{ID: 7, Title: "Flat", City: "Berkeley", Zip: "94704", Price: 650000, Type: "Apartment", Images: []string{"7.jpg"}},
	}
}

func newTestListingRepository(seed []*domain.Listing) *memoryListingRepository {
	repo := NewMemoryListingRepository(seed, metrics.NewRepositoryMetrics(metrics.NewRegistry()))
	return repo.(*memoryListingRepository)
}

func TestMemoryListingRepository_Snapshots(t *testing.T) {
	ctx := context.Background()
	seed := seedListings()
	repo := newTestListingRepository(seed)

	seed[0].Title = "mutated seed"

	got, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Condo", got.Title)

	got.Title = "mutated result"
	got.Images[0] = "other.jpg"

	again, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Condo", again.Title)
	assert.Equal(t, []string{"3.jpg"}, again.Images)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	all[1].Price = 1

	stored, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 900000.0, stored.Price)
}

func TestMemoryListingRepository_GetByIDNotFound(t *testing.T) {
	repo := newTestListingRepository(seedListings())

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListingRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := newTestListingRepository(seedListings())

	all, err := repo.Search(ctx, domain.SearchFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	houses, err := repo.Search(ctx, domain.SearchFilters{PropertyTypes: []string{"House"}})
	require.NoError(t, err)
	require.Len(t, houses, 1)
	assert.Equal(t, int64(42), houses[0].ID)

	none, err := repo.Search(ctx, domain.SearchFilters{Location: "seattle"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryListingRepository_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestListingRepository(seedListings())
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	created, err := repo.Create(ctx, &domain.Listing{ID: 1000, Title: "X", Price: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(43), created.ID)
	assert.Equal(t, now, created.ListingDate)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	title := "Y"
	updated, err := repo.Update(ctx, 43, domain.ListingPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, int64(43), updated.ID)
	assert.Equal(t, "Y", updated.Title)
	assert.Equal(t, 100.0, updated.Price)

	_, err = repo.Update(ctx, 44, domain.ListingPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := repo.Delete(ctx, 43)
	require.NoError(t, err)
	assert.Equal(t, "Y", removed.Title)

	_, err = repo.GetByID(ctx, 43)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Delete(ctx, 43)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListingRepository_CreateOnEmptyCatalog(t *testing.T) {
	repo := newTestListingRepository(nil)

	created, err := repo.Create(context.Background(), &domain.Listing{Title: "First"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}
