package service

import (
	"testing"
	"time"

	"listing-browser/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceMarkers(t *testing.T) {
	listings := make([]*domain.Listing, 6)
	for i := range listings {
		listings[i] = &domain.Listing{ID: int64(i + 1), Price: 850000}
	}

	markers := PlaceMarkers(listings)
	require.Len(t, markers, 6)

	assert.Equal(t, 20, markers[0].Left)
	assert.Equal(t, 20, markers[0].Top)
	assert.Equal(t, 80, markers[3].Left)
	assert.Equal(t, 20, markers[3].Top)
	assert.Equal(t, 20, markers[4].Left)
	assert.Equal(t, 45, markers[4].Top)
	assert.Equal(t, int64(5), markers[4].ListingID)
	assert.Equal(t, "$850K", markers[4].PriceLabel)
}

func TestCompactPrice(t *testing.T) {
	tests := map[float64]string{
		0:       "$0",
		950:     "$950",
		485000:  "$485K",
		1150000: "$1M",
		2450000: "$2M",
		999:     "$999",
		999.6:   "$1K",
		999500:  "$1M",
		999999:  "$1M",
		999499:  "$999K",
	}
	for price, want := range tests {
		assert.Equal(t, want, CompactPrice(price), "price %v", price)
	}
}

func TestLatencyStrategies(t *testing.T) {
	assert.Equal(t, NoDelay, FixedDelay(0))

	start := time.Now()
	FixedDelay(5 * time.Millisecond).Wait("GetAll")
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)

	delays := map[string]time.Duration{"Search": 5 * time.Millisecond}
	latency := PerOperationDelay(delays)
	delays["Search"] = time.Hour

	start = time.Now()
	latency.Wait("Search")
	latency.Wait("Unknown")
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
	assert.Less(t, elapsed, time.Minute)
}
