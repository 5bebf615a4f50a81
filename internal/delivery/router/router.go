package router

import (
	"listing-browser/internal/delivery/handler"
	"listing-browser/internal/infrastructure/metrics"
	"listing-browser/internal/service"
	"listing-browser/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupMiddleware(r *chi.Mux, allowedOrigins []string) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
}

func SetupListingRoutes(listingRouter *chi.Mux, catalogService service.CatalogService, loggers *logger.Loggers, metrics *metrics.HandlerMetrics) {
	listingHandler := handler.NewListingHandler(catalogService, loggers, metrics)

	listingRouter.Get("/listings", listingHandler.GetAllListings)
	listingRouter.Get("/listings/search", listingHandler.SearchListings)
	listingRouter.Get("/listings/map", listingHandler.GetMapMarkers)
	listingRouter.Get("/listings/{id}", listingHandler.GetListingByID)
	listingRouter.Post("/listings", listingHandler.CreateListing)
	listingRouter.Patch("/listings/{id}", listingHandler.UpdateListing)
	listingRouter.Delete("/listings/{id}", listingHandler.DeleteListing)
}

func SetupSavedRoutes(savedRouter *chi.Mux, savedService service.SavedService, catalogService service.CatalogService, loggers *logger.Loggers, metrics *metrics.HandlerMetrics) {
	savedHandler := handler.NewSavedHandler(savedService, catalogService, loggers, metrics)

	savedRouter.Get("/saved", savedHandler.ListSaved)
	savedRouter.Delete("/saved", savedHandler.ClearSaved)
	savedRouter.Get("/saved/listings", savedHandler.ListSavedListings)
	savedRouter.Get("/saved/{id}", savedHandler.GetSavedEntry)
	savedRouter.Post("/saved/{id}/toggle", savedHandler.ToggleSave)
}
