package service

import (
	"fmt"
	"math"
	"strings"

	"listing-browser/internal/domain"

	"github.com/dustin/go-humanize"
)

const (
	markerColumns      = 4
	markerOrigin       = 20
	markerColumnStride = 20
	markerRowStride    = 25
)

// PlaceMarkers lays listings out on a simulated map: a four column grid in
// result order. Positions carry no geographic meaning.
func PlaceMarkers(listings []*domain.Listing) []domain.MapMarker {
	markers := make([]domain.MapMarker, 0, len(listings))
	for i, l := range listings {
		markers = append(markers, domain.MapMarker{
			ListingID:  l.ID,
			Left:       markerOrigin + (i%markerColumns)*markerColumnStride,
			Top:        markerOrigin + (i/markerColumns)*markerRowStride,
			PriceLabel: CompactPrice(l.Price),
			Title:      l.Title,
			Price:      l.Price,
		})
	}
	return markers
}

// CompactPrice renders a whole-dollar short label: 850000 -> "$850K",
// 1150000 -> "$1M", 999999 -> "$1M".
func CompactPrice(price float64) string {
	value, prefix := humanize.ComputeSI(math.Round(price))
	value = math.Round(value)

	// 999.6K rounds to 1000K, which belongs to the next unit.
	if math.Abs(value) >= 1000 {
		if scaled, _, err := humanize.ParseSI(humanize.Ftoa(value) + prefix); err == nil {
			value, prefix = humanize.ComputeSI(scaled)
			value = math.Round(value)
		}
	}

	return fmt.Sprintf("$%s%s", humanize.Ftoa(value), strings.ToUpper(prefix))
}
