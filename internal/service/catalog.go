package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"listing-browser/internal/domain"
	"listing-browser/internal/infrastructure/metrics"
	"listing-browser/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrListingNotFound = errors.New("listing not found")

// CatalogService answers lookups and searches over the listing catalog.
// Identifiers are accepted in text form; one that does not parse as an
// integer matches no listing.
type CatalogService interface {
	GetAll(ctx context.Context) ([]*domain.Listing, error)
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	Search(ctx context.Context, filters domain.SearchFilters) ([]*domain.Listing, error)
	Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)
	Update(ctx context.Context, id string, patch domain.ListingPatch) (*domain.Listing, error)
	Delete(ctx context.Context, id string) (*domain.Listing, error)
}

type catalogService struct {
	repository repository.ListingRepository
	latency    Latency
	metrics    *metrics.ServiceMetrics
	tracer     trace.Tracer
}

func NewCatalogService(repository repository.ListingRepository, latency Latency, metrics *metrics.ServiceMetrics) CatalogService {
	if latency == nil {
		latency = NoDelay
	}
	return &catalogService{
		repository: repository,
		latency:    latency,
		metrics:    metrics,
		tracer:     otel.Tracer("listing-browser/service"),
	}
}

// ParseListingID converts the text form of a listing identifier.
func ParseListingID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *catalogService) begin(ctx context.Context, method string) (context.Context, trace.Span, *string, func()) {
	ctx, span := s.tracer.Start(ctx, method)
	s.latency.Wait(method)

	startTime := time.Now()
	status := "success"

	return ctx, span, &status, func() {
		duration := time.Since(startTime).Seconds()
		s.metrics.MethodCount.WithLabelValues(method, status).Inc()
		s.metrics.MethodDuration.WithLabelValues(method, status).Observe(duration)
		span.End()
	}
}

// notFound maps repository misses onto ErrListingNotFound and records any
// other failure on the span.
func notFound(err error, status *string, span trace.Span) error {
	if errors.Is(err, repository.ErrNotFound) {
		*status = "not_found"
		return ErrListingNotFound
	}
	*status = "error"
	span.RecordError(err)
	return err
}

func (s *catalogService) GetAll(ctx context.Context) ([]*domain.Listing, error) {
	ctx, span, status, end := s.begin(ctx, "GetAll")
	defer end()

	listings, err := s.repository.GetAll(ctx)
	if err != nil {
		*status = "error"
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("listings.count", len(listings)))
	return listings, nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, span, status, end := s.begin(ctx, "GetByID")
	defer end()

	span.SetAttributes(attribute.String("listing.id", id))

	listingID, ok := ParseListingID(id)
	if !ok {
		*status = "not_found"
		return nil, ErrListingNotFound
	}

	listing, err := s.repository.GetByID(ctx, listingID)
	if err != nil {
		return nil, notFound(err, status, span)
	}
	return listing, nil
}

func (s *catalogService) Search(ctx context.Context, filters domain.SearchFilters) ([]*domain.Listing, error) {
	ctx, span, status, end := s.begin(ctx, "Search")
	defer end()

	listings, err := s.repository.Search(ctx, filters)
	if err != nil {
		*status = "error"
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("search.location", filters.Location),
		attribute.Int("search.matched", len(listings)),
	)
	return listings, nil
}

func (s *catalogService) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	ctx, span, status, end := s.begin(ctx, "Create")
	defer end()

	created, err := s.repository.Create(ctx, listing)
	if err != nil {
		*status = "error"
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("listing.id", created.ID),
		attribute.String("listing.title", created.Title),
		attribute.Float64("listing.price", created.Price),
	)
	return created, nil
}

func (s *catalogService) Update(ctx context.Context, id string, patch domain.ListingPatch) (*domain.Listing, error) {
	ctx, span, status, end := s.begin(ctx, "Update")
	defer end()

	span.SetAttributes(attribute.String("listing.id", id))

	listingID, ok := ParseListingID(id)
	if !ok {
		*status = "not_found"
		return nil, ErrListingNotFound
	}

	updated, err := s.repository.Update(ctx, listingID, patch)
	if err != nil {
		return nil, notFound(err, status, span)
	}

	span.SetAttributes(
		attribute.String("listing.title", updated.Title),
		attribute.Float64("listing.price", updated.Price),
	)
	return updated, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, span, status, end := s.begin(ctx, "Delete")
	defer end()

	span.SetAttributes(attribute.String("listing.id", id))

	listingID, ok := ParseListingID(id)
	if !ok {
		*status = "not_found"
		return nil, ErrListingNotFound
	}

	removed, err := s.repository.Delete(ctx, listingID)
	if err != nil {
		return nil, notFound(err, status, span)
	}
	return removed, nil
}
