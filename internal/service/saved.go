package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"listing-browser/internal/domain"
	"listing-browser/internal/infrastructure/metrics"
	"listing-browser/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SavedService tracks the bookmarked listing ids of the current user.
// None of its operations fail: persistence problems degrade to "nothing
// was saved" on the next load instead of surfacing to the caller.
type SavedService interface {
	// ToggleSave adds an entry for listingID, or removes the existing one.
	// It reports whether the listing is saved afterwards.
	ToggleSave(ctx context.Context, listingID string) (domain.SavedEntry, bool)
	IsSaved(ctx context.Context, listingID string) bool
	GetSavedEntry(ctx context.Context, listingID string) (domain.SavedEntry, bool)
	// List returns the entries in the order they were saved.
	List(ctx context.Context) []domain.SavedEntry
	Clear(ctx context.Context)
}

type savedService struct {
	mu         sync.Mutex
	entries    []domain.SavedEntry
	repository repository.SavedRepository
	now        func() time.Time
	metrics    *metrics.ServiceMetrics
	tracer     trace.Tracer
}

// NewSavedService loads the persisted set once; later changes are written
// through on every mutation.
func NewSavedService(ctx context.Context, repository repository.SavedRepository, metrics *metrics.ServiceMetrics) SavedService {
	return &savedService{
		entries:    canonicalEntries(repository.Load(ctx)),
		repository: repository,
		now:        time.Now,
		metrics:    metrics,
		tracer:     otel.Tracer("listing-browser/service"),
	}
}

func (s *savedService) begin(ctx context.Context, method string) (context.Context, trace.Span, *string, func()) {
	ctx, span := s.tracer.Start(ctx, method)

	startTime := time.Now()
	status := "success"

	return ctx, span, &status, func() {
		duration := time.Since(startTime).Seconds()
		s.metrics.MethodCount.WithLabelValues(method, status).Inc()
		s.metrics.MethodDuration.WithLabelValues(method, status).Observe(duration)
		span.End()
	}
}

// canonicalListingID maps every text form of a listing id ("5", "05", " 5")
// onto one key. Text that is not an integer is kept as is.
func canonicalListingID(listingID string) string {
	if id, ok := ParseListingID(listingID); ok {
		return strconv.FormatInt(id, 10)
	}
	return strings.TrimSpace(listingID)
}

func canonicalEntries(entries []domain.SavedEntry) []domain.SavedEntry {
	seen := make(map[string]struct{}, len(entries))
	result := make([]domain.SavedEntry, 0, len(entries))
	for _, e := range entries {
		e.ListingID = canonicalListingID(e.ListingID)
		if _, ok := seen[e.ListingID]; ok {
			continue
		}
		seen[e.ListingID] = struct{}{}
		result = append(result, e)
	}
	return result
}

// indexOf must be called with s.mu held.
func (s *savedService) indexOf(listingID string) int {
	for i, e := range s.entries {
		if e.ListingID == listingID {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held. A failed write is recorded on the
// span and otherwise ignored.
func (s *savedService) persist(ctx context.Context, status *string, span trace.Span) {
	snapshot := make([]domain.SavedEntry, len(s.entries))
	copy(snapshot, s.entries)

	if err := s.repository.Save(ctx, snapshot); err != nil {
		*status = "persist_failed"
		span.RecordError(err)
	}
}

func (s *savedService) ToggleSave(ctx context.Context, listingID string) (domain.SavedEntry, bool) {
	ctx, span, status, end := s.begin(ctx, "ToggleSave")
	defer end()

	listingID = canonicalListingID(listingID)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry domain.SavedEntry
		saved bool
	)
	if idx := s.indexOf(listingID); idx != -1 {
		entry = s.entries[idx]
		s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	} else {
		entry = domain.SavedEntry{ListingID: listingID, SavedDate: s.now().UTC()}
		s.entries = append(s.entries, entry)
		saved = true
	}

	span.SetAttributes(
		attribute.String("saved.listing_id", listingID),
		attribute.Bool("saved.saved", saved),
	)

	s.persist(ctx, status, span)
	return entry, saved
}

func (s *savedService) IsSaved(ctx context.Context, listingID string) bool {
	_, ok := s.GetSavedEntry(ctx, listingID)
	return ok
}

func (s *savedService) GetSavedEntry(ctx context.Context, listingID string) (domain.SavedEntry, bool) {
	_, span, status, end := s.begin(ctx, "GetSavedEntry")
	defer end()

	listingID = canonicalListingID(listingID)
	span.SetAttributes(attribute.String("saved.listing_id", listingID))

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(listingID)
	if idx == -1 {
		*status = "not_found"
		return domain.SavedEntry{}, false
	}
	return s.entries[idx], true
}

func (s *savedService) List(ctx context.Context) []domain.SavedEntry {
	_, span, _, end := s.begin(ctx, "ListSaved")
	defer end()

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.SavedEntry, len(s.entries))
	copy(result, s.entries)

	span.SetAttributes(attribute.Int("saved.count", len(result)))
	return result
}

func (s *savedService) Clear(ctx context.Context) {
	ctx, span, status, end := s.begin(ctx, "ClearSaved")
	defer end()

	s.mu.Lock()
	defer s.mu.Unlock()

	span.SetAttributes(attribute.Int("saved.cleared", len(s.entries)))

	s.entries = []domain.SavedEntry{}
	s.persist(ctx, status, span)
}
