package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"landedcost/internal/allocation"
	"landedcost/internal/catalog"
	"landedcost/internal/columns"
	"landedcost/internal/config"
	apierrors "landedcost/internal/errors"
	"landedcost/internal/infrastructure"
	"landedcost/internal/ingestion"
	customMiddleware "landedcost/internal/middleware"
	"landedcost/internal/services"
	handlers "landedcost/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	OTelProviders *infrastructure.OTelProviders
	Services      *ServiceContainer

	systemMetrics metric.Registration
	logCloser     io.Closer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Ingestion  *services.IngestionService
	Allocation *services.AllocationService
	Catalog    *services.CatalogService
	Health     *services.HealthService
	Metrics    *infrastructure.BusinessMetrics
}

// NewApplication wires the service from cfg. A nil cfg is loaded from the
// environment. stdout receives console logs.
func NewApplication(cfg *config.Config, stdout io.Writer) (*Application, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging, stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	svc, err := NewServices(cfg, logger, providers)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	systemMetrics, err := infrastructure.RegisterSystemMetrics(providers.Meter, time.Now())
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to register system metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Services:      svc,
		systemMetrics: systemMetrics,
		logCloser:     closer,
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// NewServices builds the domain services. It is shared by the server and
// the command line tool.
func NewServices(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) (*ServiceContainer, error) {
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	mapper := columns.NewMapper(columns.Options{
		Patterns:          cfg.Ingestion.ColumnPatterns,
		FallbackOverwrite: cfg.Ingestion.FallbackOverwrite,
	}, logger)

	pipeline := ingestion.NewPipeline(ingestion.OptionsFromConfig(cfg.Ingestion), mapper, logger,
		ingestion.WithTracer(providers.Tracer),
		ingestion.WithMetrics(metrics),
	)

	engine := allocation.NewEngine(allocation.Options{MaxProducts: cfg.Allocation.MaxProducts}, logger)

	return &ServiceContainer{
		Ingestion: services.NewIngestionService(pipeline, cfg.Ingestion.TempDir, logger),
		Allocation: services.NewAllocationService(engine, cfg.Ingestion.Currency, logger,
			services.WithAllocationMetrics(metrics),
			services.WithAllocationTracer(providers.Tracer),
		),
		Catalog: services.NewCatalogService(cat, logger),
		Health:  services.NewHealthService(config.AppVersion, cat, logger),
		Metrics: metrics,
	}, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Level == "debug")

	// Order: RequestID, RealIP, OTel, Logger, Recoverer, then policy
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Services.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			errorHandler,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r, errorHandler)

	r.Method(http.MethodGet, "/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	validator := customMiddleware.NewRequestValidator(a.Logger)

	uploadHandler := handlers.NewUploadHandler(a.Services.Ingestion, a.Config.Ingestion.MaxFileSize, errorHandler, a.Logger)
	allocationHandler := handlers.NewAllocationHandler(a.Services.Allocation, validator, errorHandler, a.Logger)
	catalogHandler := handlers.NewCatalogHandler(a.Services.Catalog, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Services.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/suggestions/{type}", catalogHandler.Suggestions)
		r.Get("/search-products", catalogHandler.SearchProducts)

		r.Post("/upload", uploadHandler.Upload)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.ContentTypeValidator(errorHandler, "application/json"))
			r.Post("/manual-entry", allocationHandler.ManualEntry)
			r.Post("/calculate-costs", allocationHandler.CalculateCosts)
		})
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until SIGINT, SIGTERM or ctx cancellation, then shuts down
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening", slog.String("address", ln.Addr().String()))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(gctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if a.systemMetrics != nil {
		if err := a.systemMetrics.Unregister(); err != nil {
			errs = append(errs, fmt.Errorf("unregister system metrics: %w", err))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")

	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log output: %w", err))
		}
	}

	return errors.Join(errs...)
}
