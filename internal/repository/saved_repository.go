package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"listing-browser/internal/domain"
	"listing-browser/internal/infrastructure/metrics"
	"listing-browser/internal/infrastructure/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultSavedKey = "savedProperties"

// SavedRepository persists the whole saved set as one JSON array under a
// single key.
type SavedRepository interface {
	// Load never fails: a missing or unreadable payload yields an empty set.
	// An unreadable payload is removed from the store.
	Load(ctx context.Context) []domain.SavedEntry
	Save(ctx context.Context, entries []domain.SavedEntry) error
}

type kvSavedRepository struct {
	store   storage.KeyValueStore
	key     string
	metrics *metrics.StorageMetrics
	tracer  trace.Tracer
}

func NewSavedRepository(store storage.KeyValueStore, key string, metrics *metrics.StorageMetrics) SavedRepository {
	if key == "" {
		key = DefaultSavedKey
	}
	return &kvSavedRepository{
		store:   store,
		key:     key,
		metrics: metrics,
		tracer:  otel.Tracer("listing-browser/repository"),
	}
}

func (r *kvSavedRepository) observe(operation string, status *string) func() {
	startTime := time.Now()
	return func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.OperationCount.WithLabelValues(operation, *status).Inc()
		r.metrics.OperationDuration.WithLabelValues(operation, *status).Observe(duration)
	}
}

func (r *kvSavedRepository) Load(ctx context.Context) []domain.SavedEntry {
	ctx, span := r.tracer.Start(ctx, "Repository LoadSaved")
	defer span.End()

	span.SetAttributes(attribute.String("storage.key", r.key))

	status := "success"
	defer r.observe("load", &status)()

	payload, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		status = "empty"
		return []domain.SavedEntry{}
	}
	if err != nil {
		status = "error"
		span.RecordError(err)
		return []domain.SavedEntry{}
	}

	entries, err := decodeSavedEntries(payload)
	if err != nil {
		status = "corrupt"
		span.RecordError(err)
		if err := r.store.Delete(ctx, r.key); err != nil {
			span.RecordError(err)
		}
		return []domain.SavedEntry{}
	}

	span.SetAttributes(attribute.Int("saved.count", len(entries)))
	return entries
}

func (r *kvSavedRepository) Save(ctx context.Context, entries []domain.SavedEntry) error {
	ctx, span := r.tracer.Start(ctx, "Repository SaveSaved")
	defer span.End()

	span.SetAttributes(
		attribute.String("storage.key", r.key),
		attribute.Int("saved.count", len(entries)),
	)

	status := "success"
	defer r.observe("save", &status)()

	if entries == nil {
		entries = []domain.SavedEntry{}
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		status = "error"
		span.RecordError(err)
		return fmt.Errorf("failed to encode saved entries: %w", err)
	}

	if err := r.store.Set(ctx, r.key, string(payload)); err != nil {
		status = "error"
		span.RecordError(err)
		return fmt.Errorf("failed to persist saved entries: %w", err)
	}
	return nil
}

// decodeSavedEntries rejects payloads that are not an array of entries and
// drops duplicate ids, keeping the first occurrence.
func decodeSavedEntries(payload string) ([]domain.SavedEntry, error) {
	var entries []domain.SavedEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	result := make([]domain.SavedEntry, 0, len(entries))
	for _, e := range entries {
		if e.ListingID == "" {
			continue
		}
		if _, ok := seen[e.ListingID]; ok {
			continue
		}
		seen[e.ListingID] = struct{}{}
		result = append(result, e)
	}
	return result, nil
}
