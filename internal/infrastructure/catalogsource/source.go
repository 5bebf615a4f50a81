// Package catalogsource loads the listing catalog once at startup. Sources are
// read-only origins: nothing is ever written back to them.
package catalogsource

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"listing-browser/internal/domain"

	"github.com/spf13/afero"
)

//go:embed seed/listings.json
var seedListings []byte

type Source interface {
	Load(ctx context.Context) ([]*domain.Listing, error)
}

type embeddedSource struct{}

// NewEmbeddedSource serves the mock dataset compiled into the binary.
func NewEmbeddedSource() Source {
	return embeddedSource{}
}

func (embeddedSource) Load(_ context.Context) ([]*domain.Listing, error) {
	return decodeListings(bytes.NewReader(seedListings))
}

type fileSource struct {
	fs   afero.Fs
	path string
}

func NewFileSource(fs afero.Fs, path string) Source {
	return &fileSource{fs: fs, path: path}
}

func (s *fileSource) Load(_ context.Context) ([]*domain.Listing, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", s.path, err)
	}
	defer f.Close()

	listings, err := decodeListings(f)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", s.path, err)
	}
	return listings, nil
}

func decodeListings(r io.Reader) ([]*domain.Listing, error) {
	var listings []*domain.Listing
	if err := json.NewDecoder(r).Decode(&listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	if err := checkUniqueIDs(listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func checkUniqueIDs(listings []*domain.Listing) error {
	seen := make(map[int64]struct{}, len(listings))
	for _, l := range listings {
		if l == nil {
			return fmt.Errorf("catalog contains a null listing")
		}
		if _, ok := seen[l.ID]; ok {
			return fmt.Errorf("duplicate listing id %d", l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}
