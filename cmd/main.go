package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listing-browser/internal/config"
	"listing-browser/internal/delivery/handler"
	"listing-browser/internal/delivery/router"
	"listing-browser/internal/domain"
	"listing-browser/internal/infrastructure/catalogsource"
	"listing-browser/internal/infrastructure/metrics"
	"listing-browser/internal/infrastructure/storage"
	"listing-browser/internal/repository"
	"listing-browser/internal/service"
	"listing-browser/pkg/database"
	"listing-browser/pkg/logger"
	"listing-browser/pkg/utils"

	"github.com/go-chi/chi/v5"
	redisClient "github.com/go-redis/redis/v8"
	"github.com/spf13/afero"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func main() {
	cfg := config.MustLoadConfig()

	loggers, err := logger.SetupLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	loggers.InfoLogger.Info("Logger initialized")

	tracerProvider := setupTracer(cfg, loggers)
	defer shutdownTracer(tracerProvider, loggers)

	registry := metrics.DefaultRegistry()
	handlerMetrics := metrics.NewHandlerMetrics(registry)
	serviceMetrics := metrics.NewServiceMetrics(registry)
	repositoryMetrics := metrics.NewRepositoryMetrics(registry)
	storageMetrics := metrics.NewStorageMetrics(registry)
	loggers.InfoLogger.Info("Prometheus metrics initialized")

	seed := loadCatalog(cfg, loggers)

	store, cleanupStore := setupSavedStore(cfg, loggers)
	defer cleanupStore()

	listingRepo := repository.NewMemoryListingRepository(seed, repositoryMetrics)
	catalogService := service.NewCatalogService(listingRepo, latencyStrategy(cfg.Catalog), serviceMetrics)

	savedRepo := repository.NewSavedRepository(store, cfg.Saved.Key, storageMetrics)
	savedService := service.NewSavedService(context.Background(), savedRepo, serviceMetrics)

	listingCount, err := listingRepo.Count(context.Background())
	if err != nil {
		loggers.ErrorLogger.Error("Failed to count listings", utils.Err(err))
		os.Exit(1)
	}
	loggers.InfoLogger.Info("Service and repository layers initialized",
		"listings", listingCount,
		"saved", len(savedService.List(context.Background())),
	)

	r := chi.NewRouter()
	router.SetupMiddleware(r, cfg.HTTP.CORSOrigins)
	router.SetupListingRoutes(r, catalogService, loggers, handlerMetrics)
	router.SetupSavedRoutes(r, savedService, catalogService, loggers, handlerMetrics)
	loggers.InfoLogger.Info("Router and routes initialized")

	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", handlerMetrics.HTTPHandler())

	server := startServer(cfg, r, loggers)

	waitForShutdown(server, loggers)
}

func loadCatalog(cfg *config.Config, loggers *logger.Loggers) []*domain.Listing {
	var source catalogsource.Source

	switch cfg.Catalog.Source {
	case "file":
		source = catalogsource.NewFileSource(afero.NewOsFs(), cfg.Catalog.SeedPath)
	case "mysql":
		db, err := database.NewDatabase(cfg.Database.DSN())
		if err != nil {
			loggers.ErrorLogger.Error("Failed to connect to database", utils.Err(err))
			os.Exit(1)
		}
		loggers.InfoLogger.Info("Connected to database")
		defer func() {
			if err := db.Close(); err != nil {
				loggers.ErrorLogger.Error("Failed to close database connection", utils.Err(err))
			}
		}()
		source = catalogsource.NewMySQLSource(db)
	default:
		source = catalogsource.NewEmbeddedSource()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	listings, err := source.Load(ctx)
	if err != nil {
		loggers.ErrorLogger.Error("Failed to load catalog", "source", cfg.Catalog.Source, utils.Err(err))
		os.Exit(1)
	}
	loggers.InfoLogger.Info("Catalog loaded", "source", cfg.Catalog.Source, "listings", len(listings))

	return listings
}

func setupSavedStore(cfg *config.Config, loggers *logger.Loggers) (storage.KeyValueStore, func()) {
	switch cfg.Saved.Backend {
	case "redis":
		rdb := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			loggers.ErrorLogger.Error("Failed to connect to Redis", utils.Err(err))
			os.Exit(1)
		}
		loggers.InfoLogger.Info("Connected to Redis")

		cleanup := func() {
			if err := rdb.Close(); err != nil {
				loggers.ErrorLogger.Error("Failed to close Redis client", utils.Err(err))
			}
		}
		return storage.NewRedisStore(rdb, cfg.Redis.Prefix), cleanup

	case "file":
		store, err := storage.NewFileStore(afero.NewOsFs(), cfg.Saved.Path)
		if err != nil {
			loggers.ErrorLogger.Error("Failed to open saved listings directory", utils.Err(err))
			os.Exit(1)
		}
		loggers.InfoLogger.Info("Saved listings stored on disk", "path", cfg.Saved.Path)
		return store, func() {}

	default:
		loggers.InfoLogger.Info("Saved listings kept in memory only")
		return storage.NewMemoryStore(), func() {}
	}
}

func latencyStrategy(cfg config.CatalogConfig) service.Latency {
	switch cfg.LatencyMode {
	case "fixed":
		return service.FixedDelay(cfg.Latency)
	case "simulated":
		return service.PerOperationDelay(service.DefaultOperationDelays)
	default:
		return service.NoDelay
	}
}

func setupTracer(cfg *config.Config, loggers *logger.Loggers) *sdktrace.TracerProvider {
	if !cfg.Tracing.Enabled {
		loggers.InfoLogger.Info("OpenTelemetry tracing disabled")
		return nil
	}

	tracerProvider, err := metrics.InitTracer(
		context.Background(),
		cfg.Tracing.ServiceName,
		cfg.Tracing.Environment,
		cfg.Tracing.Version,
		cfg.Tracing.Endpoint,
	)
	if err != nil {
		loggers.ErrorLogger.Error("Failed to initialize tracer", utils.Err(err))
		os.Exit(1)
	}
	loggers.InfoLogger.Info("OpenTelemetry Tracer initialized", "endpoint", cfg.Tracing.Endpoint)
	return tracerProvider
}

func shutdownTracer(tp *sdktrace.TracerProvider, loggers *logger.Loggers) {
	if tp == nil {
		return
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		loggers.ErrorLogger.Error("Failed to shut down tracer provider", utils.Err(err))
	}
}

func startServer(cfg *config.Config, handler http.Handler, loggers *logger.Loggers) *http.Server {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
	}

	go func() {
		loggers.InfoLogger.Info("Starting server", "port", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggers.ErrorLogger.Error("Failed to start server", utils.Err(err))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(server *http.Server, loggers *logger.Loggers) {
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	<-shutdownCh
	loggers.InfoLogger.Info("Shutdown signal received, shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		loggers.ErrorLogger.Error("Server forced to shutdown", utils.Err(err))
	} else {
		loggers.InfoLogger.Info("Server shutdown gracefully")
	}
}
