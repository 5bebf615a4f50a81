package handler

import (
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

// SavedHandler serves the saved-listings page. It is where the saved set and
// the catalog meet; neither service knows about the other.
type SavedHandler struct {
	saved   service.SavedService
	catalog service.CatalogService
	logger  *logger.Loggers
	metrics *metrics.HandlerMetrics
	tracer  trace.Tracer
}

type toggleResponse struct {
	Saved bool               `json:"saved"`
	Entry *domain.SavedEntry `json:"entry,omitempty"`
}

func NewSavedHandler(saved service.SavedService, catalog service.CatalogService, logger *logger.Loggers, metrics *metrics.HandlerMetrics) *SavedHandler {
	return &SavedHandler{
		saved:   saved,
		catalog: catalog,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("listing-browser/handler"),
	}
}

func (h *SavedHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListSaved")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "GET", "/saved", &status)()

	utils.RespondWithJSON(w, http.StatusOK, h.saved.List(ctx))
}

func (h *SavedHandler) ListSavedListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListSavedListings")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "GET", "/saved/listings", &status)()

	entries := h.saved.List(ctx)
	listings := service.ResolveSaved(ctx, h.catalog, entries)

	span.SetAttributes(
		attribute.Int("saved.entries", len(entries)),
		attribute.Int("saved.resolved", len(listings)),
	)
	if dropped := len(entries) - len(listings); dropped > 0 {
		h.logger.DebugLogger.Debug("saved listings no longer in catalog", "dropped", dropped)
	}

	utils.RespondWithJSON(w, http.StatusOK, listings)
}

func (h *SavedHandler) GetSavedEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetSavedEntry")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "GET", "/saved/{id}", &status)()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("saved.listing_id", id))

	entry, ok := h.saved.GetSavedEntry(ctx, id)
	if !ok {
		status = "not_found"
		utils.RespondWithErrorJSON(w, http.StatusNotFound, "listing is not saved")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, entry)
}

func (h *SavedHandler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ToggleSave")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "POST", "/saved/{id}/toggle", &status)()

	req := savedIDRequest{ListingID: chi.URLParam(r, "id")}
	if errs := validateStruct(req); errs != nil {
		status = "error"
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid listing id",
			"details": errs,
		})
		return
	}

	entry, saved := h.saved.ToggleSave(ctx, req.ListingID)
	span.SetAttributes(
		attribute.String("saved.listing_id", req.ListingID),
		attribute.Bool("saved.saved", saved),
	)
	h.logger.DebugLogger.Debug("saved listing toggled", "listing_id", req.ListingID, "saved", saved)

	resp := toggleResponse{Saved: saved}
	if saved {
		resp.Entry = &entry
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *SavedHandler) ClearSaved(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ClearSaved")
	defer span.End()

	status := "success"
	defer observe(h.metrics, "DELETE", "/saved", &status)()

	h.saved.Clear(ctx)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "saved listings cleared"})
}
