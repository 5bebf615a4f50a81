package service

import (
	"context"
	"sort"

	"listing-browser/internal/domain"

	"github.com/sourcegraph/conc/iter"
)

// ListingLookup is the slice of CatalogService that ResolveSaved needs.
type ListingLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
}

// ResolveSaved looks up every saved entry concurrently and returns the
// listings that still exist, most recently saved first. A failed lookup
// drops that entry and never fails the batch.
func ResolveSaved(ctx context.Context, lookup ListingLookup, entries []domain.SavedEntry) []*domain.Listing {
	type resolved struct {
		listing *domain.Listing
		entry   domain.SavedEntry
	}

	results := iter.Map(entries, func(e *domain.SavedEntry) resolved {
		listing, err := lookup.GetByID(ctx, e.ListingID)
		if err != nil {
			return resolved{}
		}
		return resolved{listing: listing, entry: *e}
	})

	found := make([]resolved, 0, len(results))
	for _, r := range results {
		if r.listing != nil {
			found = append(found, r)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].entry.SavedDate.After(found[j].entry.SavedDate)
	})

	listings := make([]*domain.Listing, len(found))
	for i, r := range found {
		listings[i] = r.listing
	}
	return listings
}
