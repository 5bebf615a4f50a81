package domain

import (
	"slices"
	"strings"
	"time"
)

type Listing struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zip         string    `json:"zip"`
	Price       float64   `json:"price"`
	Bedrooms    float64   `json:"bedrooms"`
	Bathrooms   float64   `json:"bathrooms"`
	Sqft        int       `json:"sqft"`
	Type        string    `json:"type"`
	Images      []string  `json:"images"`
	Features    []string  `json:"features"`
	Description string    `json:"description"`
	YearBuilt   int       `json:"yearBuilt"`
	ListingDate time.Time `json:"listingDate"`
}

// Clone returns a deep copy so callers never share slices with the catalog.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	c := *l
	c.Images = slices.Clone(l.Images)
	c.Features = slices.Clone(l.Features)
	return &c
}

// ListingPatch carries a partial update. Nil fields are left untouched.
// It has no ID field, so an update can never reassign an identifier.
type ListingPatch struct {
	Title       *string    `json:"title,omitempty"`
	Address     *string    `json:"address,omitempty"`
	City        *string    `json:"city,omitempty"`
	State       *string    `json:"state,omitempty"`
	Zip         *string    `json:"zip,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Bedrooms    *float64   `json:"bedrooms,omitempty"`
	Bathrooms   *float64   `json:"bathrooms,omitempty"`
	Sqft        *int       `json:"sqft,omitempty"`
	Type        *string    `json:"type,omitempty"`
	Images      []string   `json:"images,omitempty"`
	Features    []string   `json:"features,omitempty"`
	Description *string    `json:"description,omitempty"`
	YearBuilt   *int       `json:"yearBuilt,omitempty"`
	ListingDate *time.Time `json:"listingDate,omitempty"`
}

// Apply merges the patch onto l in place.
func (p ListingPatch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.State != nil {
		l.State = *p.State
	}
	if p.Zip != nil {
		l.Zip = *p.Zip
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.Sqft != nil {
		l.Sqft = *p.Sqft
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Images != nil {
		l.Images = slices.Clone(p.Images)
	}
	if p.Features != nil {
		l.Features = slices.Clone(p.Features)
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.YearBuilt != nil {
		l.YearBuilt = *p.YearBuilt
	}
	if p.ListingDate != nil {
		l.ListingDate = *p.ListingDate
	}
}

// SearchFilters are combined with logical AND. A nil bound is unconstrained.
type SearchFilters struct {
	Location      string   `json:"location,omitempty"`
	PriceMin      *float64 `json:"priceMin,omitempty"`
	PriceMax      *float64 `json:"priceMax,omitempty"`
	BedroomsMin   *float64 `json:"bedroomsMin,omitempty"`
	BathroomsMin  *float64 `json:"bathroomsMin,omitempty"`
	SqftMin       *float64 `json:"sqftMin,omitempty"`
	PropertyTypes []string `json:"propertyTypes,omitempty"`
}

func (f SearchFilters) Matches(l *Listing) bool {
	if f.Location != "" {
		term := strings.ToLower(f.Location)
		if !strings.Contains(strings.ToLower(l.City), term) &&
			!strings.Contains(strings.ToLower(l.Address), term) &&
			!strings.Contains(strings.ToLower(l.Zip), term) {
			return false
		}
	}
	if f.PriceMin != nil && l.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && l.Price > *f.PriceMax {
		return false
	}
	if f.BedroomsMin != nil && l.Bedrooms < *f.BedroomsMin {
		return false
	}
	if f.BathroomsMin != nil && l.Bathrooms < *f.BathroomsMin {
		return false
	}
	if f.SqftMin != nil && float64(l.Sqft) < *f.SqftMin {
		return false
	}
	if len(f.PropertyTypes) > 0 && !containsString(f.PropertyTypes, l.Type) {
		return false
	}
	return true
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

type SavedEntry struct {
	ListingID string    `json:"listingId"`
	SavedDate time.Time `json:"savedDate"`
}

// MapMarker is a simulated map pin. Left and Top are percentages of the map area.
type MapMarker struct {
	ListingID  int64   `json:"listingId"`
	Left       int     `json:"left"`
	Top        int     `json:"top"`
	PriceLabel string  `json:"priceLabel"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
}
