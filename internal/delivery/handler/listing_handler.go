package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"listing-browser/internal/domain"
	"listing-browser/internal/infrastructure/metrics"
	"listing-browser/internal/service"
	"listing-browser/pkg/logger"
	"listing-browser/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ListingHandler struct {
	service service.CatalogService
	logger  *logger.Loggers
	metrics *metrics.HandlerMetrics
	tracer  trace.Tracer
}

func NewListingHandler(service service.CatalogService, logger *logger.Loggers, metrics *metrics.HandlerMetrics) *ListingHandler {
	return &ListingHandler{
		service: service,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("listing-browser/handler"),
	}
}

// respondError writes the HTTP error for a catalog failure and returns the
// metric status.
func (h *ListingHandler) respondError(w http.ResponseWriter, span trace.Span, err error, action string) string {
	span.RecordError(err)
	if errors.Is(err, service.ErrListingNotFound) {
		utils.RespondWithErrorJSON(w, http.StatusNotFound, "listing not found")
		return "not_found"
	}
	h.logger.ErrorLogger.Error("failed to "+action, utils.Err(err))
	utils.RespondWithErrorJSON(w, http.StatusInternalServerError, "internal server error")
	return "error"
}

func (h *ListingHandler) GetAllListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetAllListings")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "GET", "/listings", &status)()

	listings, err := h.service.GetAll(ctx)
	if err != nil {
		status = h.respondError(w, span, err, "retrieve listings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SearchListings")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "GET", "/listings/search", &status)()

	filters := parseSearchFilters(r.URL.Query())
	span.SetAttributes(
		attribute.String("search.location", filters.Location),
		attribute.StringSlice("search.property_types", filters.PropertyTypes),
	)

	listings, err := h.service.Search(ctx, filters)
	if err != nil {
		status = h.respondError(w, span, err, "search listings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listings)
}

// GetMapMarkers backs the map page: a location-only search laid out on the
// simulated grid.
func (h *ListingHandler) GetMapMarkers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetMapMarkers")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "GET", "/listings/map", &status)()

	filters := domain.SearchFilters{Location: locationParam(r.URL.Query())}

	listings, err := h.service.Search(ctx, filters)
	if err != nil {
		status = h.respondError(w, span, err, "load map markers")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, service.PlaceMarkers(listings))
}

func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetListingByID")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "GET", "/listings/{id}", &status)()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing.id", id))

	listing, err := h.service.GetByID(ctx, id)
	if err != nil {
		status = h.respondError(w, span, err, "get listing by ID")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateListing")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "POST", "/listings", &status)()

	var req domain.Listing
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = "error"
		span.RecordError(err)
		utils.RespondWithErrorJSON(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.service.Create(ctx, &req)
	if err != nil {
		status = h.respondError(w, span, err, "create listing")
		return
	}

	h.logger.DebugLogger.Debug("listing created", "id", created.ID, "title", created.Title)
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateListing")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "PATCH", "/listings/{id}", &status)()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing.id", id))

	var patch domain.ListingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		status = "error"
		span.RecordError(err)
		utils.RespondWithErrorJSON(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := h.service.Update(ctx, id, patch)
	if err != nil {
		status = h.respondError(w, span, err, "update listing")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteListing")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "DELETE", "/listings/{id}", &status)()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("listing.id", id))

	removed, err := h.service.Delete(ctx, id)
	if err != nil {
		status = h.respondError(w, span, err, "delete listing")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, removed)
}
