package handler

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"listing-browser/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Message: err.Error()}}
	}

	var out []ValidationError
	for _, fe := range validationErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		})
	}
	return out
}

type savedIDRequest struct {
	ListingID string `validate:"required,number"`
}

// parseSearchFilters reads filters from the query string. Numeric values that
// do not parse are treated as absent. propertyTypes accepts repeated keys and
// comma separated lists.
func parseSearchFilters(q url.Values) domain.SearchFilters {
	filters := domain.SearchFilters{
		Location:     locationParam(q),
		PriceMin:     floatParam(q, "priceMin"),
		PriceMax:     floatParam(q, "priceMax"),
		BedroomsMin:  floatParam(q, "bedroomsMin"),
		BathroomsMin: floatParam(q, "bathroomsMin"),
		SqftMin:      floatParam(q, "sqftMin"),
	}

	for _, raw := range q["propertyTypes"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filters.PropertyTypes = append(filters.PropertyTypes, t)
			}
		}
	}

	return filters
}

func floatParam(q url.Values, key string) *float64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

func locationParam(q url.Values) string {
	return strings.TrimSpace(q.Get("location"))
}
