package catalogsource

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSource_Load(t *testing.T) {
	listings, err := NewEmbeddedSource().Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, listings)

	for _, l := range listings {
		assert.Positive(t, l.ID)
		assert.NotEmpty(t, l.Images, "listing %d", l.ID)
		assert.Positive(t, l.Sqft, "listing %d", l.ID)
		assert.False(t, l.ListingDate.IsZero(), "listing %d", l.ID)
	}
}

func TestFileSource_Load(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/listings.json", []byte(`[
		{"id": 42, "title": "Loft", "zip": "94107", "price": 700000, "bathrooms": 1.5,
		 "sqft": 900, "type": "Condo", "images": ["a.jpg"], "features": [],
		 "yearBuilt": 2001, "listingDate": "2024-03-01T10:00:00Z"}
	]`), 0o644))

	listings, err := NewFileSource(fs, "/data/listings.json").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)

	assert.Equal(t, int64(42), listings[0].ID)
	assert.Equal(t, 1.5, listings[0].Bathrooms)
	assert.Equal(t, []string{"a.jpg"}, listings[0].Images)
}

func TestFileSource_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "broken.json", []byte(`{not json`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "dupes.json", []byte(`[{"id": 1}, {"id": 1}]`), 0o644))

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileSource(fs, "missing.json").Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := NewFileSource(fs, "broken.json").Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := NewFileSource(fs, "dupes.json").Load(context.Background())
		assert.ErrorContains(t, err, "duplicate listing id 1")
	})
}
