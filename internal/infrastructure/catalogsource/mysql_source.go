package catalogsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"listing-browser/internal/domain"
)

// images and features are stored as JSON array columns.
const selectListingsQuery = `
	SELECT id, title, address, city, state, zip, price, bedrooms, bathrooms,
	       sqft, type, images, features, description, year_built, listing_date
	FROM listings
	ORDER BY id`

type mysqlSource struct {
	db *sql.DB
}

func NewMySQLSource(db *sql.DB) Source {
	return &mysqlSource{db: db}
}

func (s *mysqlSource) Load(ctx context.Context) ([]*domain.Listing, error) {
	rows, err := s.db.QueryContext(ctx, selectListingsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve listings: %w", err)
	}
	defer rows.Close()

	var listings []*domain.Listing
	for rows.Next() {
		var (
			l        domain.Listing
			images   []byte
			features []byte
		)
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Address, &l.City, &l.State, &l.Zip,
			&l.Price, &l.Bedrooms, &l.Bathrooms, &l.Sqft, &l.Type,
			&images, &features, &l.Description, &l.YearBuilt, &l.ListingDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		if err := unmarshalStrings(images, &l.Images); err != nil {
			return nil, fmt.Errorf("listing %d images: %w", l.ID, err)
		}
		if err := unmarshalStrings(features, &l.Features); err != nil {
			return nil, fmt.Errorf("listing %d features: %w", l.ID, err)
		}
		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return listings, checkUniqueIDs(listings)
}

func unmarshalStrings(data []byte, dst *[]string) error {
	if len(data) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(data, dst)
}
