package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"listing-browser/internal/domain"
	"listing-browser/internal/infrastructure/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrNotFound = errors.New("listing not found")

// ListingRepository owns the catalog. Every returned listing is a snapshot:
// mutating it never changes the stored record.
type ListingRepository interface {
	GetAll(ctx context.Context) ([]*domain.Listing, error)
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	Search(ctx context.Context, filters domain.SearchFilters) ([]*domain.Listing, error)
	Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)
	Update(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error)
	Delete(ctx context.Context, id int64) (*domain.Listing, error)
	Count(ctx context.Context) (int, error)
}

type memoryListingRepository struct {
	mu       sync.RWMutex
	listings []*domain.Listing
	now      func() time.Time
	metrics  *metrics.RepositoryMetrics
	tracer   trace.Tracer
}

// NewMemoryListingRepository copies seed into a fresh in-memory catalog.
// Mutations stay in memory and are not written back to the seed's origin.
func NewMemoryListingRepository(seed []*domain.Listing, metrics *metrics.RepositoryMetrics) ListingRepository {
	listings := make([]*domain.Listing, 0, len(seed))
	for _, l := range seed {
		listings = append(listings, l.Clone())
	}
	return &memoryListingRepository{
		listings: listings,
		now:      time.Now,
		metrics:  metrics,
		tracer:   otel.Tracer("listing-browser/repository"),
	}
}

func (r *memoryListingRepository) observe(query string, status *string) func() {
	startTime := time.Now()
	return func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.QueryCount.WithLabelValues(query, *status).Inc()
		r.metrics.QueryDuration.WithLabelValues(query, *status).Observe(duration)
	}
}

func (r *memoryListingRepository) GetAll(ctx context.Context) ([]*domain.Listing, error) {
	_, span := r.tracer.Start(ctx, "Repository GetAll")
	defer span.End()

	status := "success"
	defer r.observe("GetAll", &status)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		result = append(result, l.Clone())
	}

	span.SetAttributes(attribute.Int("listings.count", len(result)))
	return result, nil
}

func (r *memoryListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	_, span := r.tracer.Start(ctx, "Repository GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("listing.id", id))

	status := "success"
	defer r.observe("GetByID", &status)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx == -1 {
		status = "not_found"
		return nil, ErrNotFound
	}
	return r.listings[idx].Clone(), nil
}

func (r *memoryListingRepository) Search(ctx context.Context, filters domain.SearchFilters) ([]*domain.Listing, error) {
	_, span := r.tracer.Start(ctx, "Repository Search")
	defer span.End()

	status := "success"
	defer r.observe("Search", &status)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Listing, 0)
	for _, l := range r.listings {
		if filters.Matches(l) {
			result = append(result, l.Clone())
		}
	}

	span.SetAttributes(
		attribute.String("filters.location", filters.Location),
		attribute.StringSlice("filters.property_types", filters.PropertyTypes),
		attribute.Int("listings.matched", len(result)),
	)
	return result, nil
}

func (r *memoryListingRepository) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	_, span := r.tracer.Start(ctx, "Repository Create")
	defer span.End()

	status := "success"
	defer r.observe("Create", &status)()

	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for _, l := range r.listings {
		if l.ID > maxID {
			maxID = l.ID
		}
	}

	stored := &domain.Listing{}
	if listing != nil {
		stored = listing.Clone()
	}
	stored.ID = maxID + 1
	stored.ListingDate = r.now().UTC()
	r.listings = append(r.listings, stored)

	span.SetAttributes(
		attribute.Int64("listing.id", stored.ID),
		attribute.String("listing.title", stored.Title),
		attribute.Float64("listing.price", stored.Price),
	)
	return stored.Clone(), nil
}

func (r *memoryListingRepository) Update(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	_, span := r.tracer.Start(ctx, "Repository Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("listing.id", id))

	status := "success"
	defer r.observe("Update", &status)()

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx == -1 {
		status = "not_found"
		return nil, ErrNotFound
	}

	updated := r.listings[idx].Clone()
	patch.Apply(updated)
	updated.ID = id
	r.listings[idx] = updated

	return updated.Clone(), nil
}

func (r *memoryListingRepository) Delete(ctx context.Context, id int64) (*domain.Listing, error) {
	_, span := r.tracer.Start(ctx, "Repository Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("listing.id", id))

	status := "success"
	defer r.observe("Delete", &status)()

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx == -1 {
		status = "not_found"
		return nil, ErrNotFound
	}

	removed := r.listings[idx]
	r.listings = append(r.listings[:idx], r.listings[idx+1:]...)

	return removed, nil
}

func (r *memoryListingRepository) Count(ctx context.Context) (int, error) {
	_, span := r.tracer.Start(ctx, "Repository Count")
	defer span.End()

	status := "success"
	defer r.observe("Count", &status)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.listings), nil
}

// indexOf must be called with r.mu held.
func (r *memoryListingRepository) indexOf(id int64) int {
	for i, l := range r.listings {
		if l.ID == id {
			return i
		}
	}
	return -1
}
