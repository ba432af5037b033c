package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"krxtrend/internal/config"
	"krxtrend/internal/dataprocessing"
	apierrors "krxtrend/internal/errors"
	"krxtrend/internal/files"
	"krxtrend/internal/infrastructure"
	customMiddleware "krxtrend/internal/middleware"
	"krxtrend/internal/services"
	handlers "krxtrend/internal/transport/http"
)

const AppName = "KRX Trend Dashboard"

// Application is the main application container: configuration, the
// loaded trend table behind its service, and the HTTP server.
type Application struct {
	Config       *config.Config
	Logger       *slog.Logger
	Router       *chi.Mux
	Server       *http.Server
	TrendService *services.TrendService
}

// NewApplication loads configuration, initializes logging, loads the
// newest trend workbook from the data directory, and wires the HTTP
// stack. A missing or unreadable workbook is a startup failure.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", handlers.Version),
		slog.String("data_dir", cfg.GetDataDir()))

	svc, err := loadTrendService(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &Application{
		Config:       cfg,
		Logger:       logger,
		TrendService: svc,
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// loadTrendService discovers the newest workbook and parses it into the
// immutable table the whole server reads from.
func loadTrendService(cfg *config.Config, logger *slog.Logger) (*services.TrendService, error) {
	discovery := files.NewDiscovery(cfg.GetDataDir())
	file, err := discovery.LatestTrendFile(".")
	if err != nil {
		return nil, fmt.Errorf("failed to locate trend workbook: %w", err)
	}

	logger.Info("loading trend workbook",
		slog.String("file", file.Name),
		slog.Time("stamp", file.Stamp),
		slog.Int64("size", file.Size))

	table, err := dataprocessing.ParseFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Name, err)
	}

	return services.NewTrendService(table, file.Name, logger)
}

// setupRouter builds the chi router with the full middleware chain.
func (app *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	logger := app.Logger
	cfg := app.Config

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(logger))
	r.Use(customMiddleware.Recoverer(logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	if cfg.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: cfg.Security.AllowedOrigins,
			Logger:         logger,
		}))
	}

	if cfg.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			cfg.Security.RateLimit.RPS,
			cfg.Security.RateLimit.Burst,
			logger,
		)
		r.Use(limiter.Handler)
	}

	r.Use(customMiddleware.Metrics)

	errorHandler := apierrors.NewErrorHandler(logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	trendHandler := handlers.NewTrendHandler(app.TrendService, logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(app.TrendService, logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/trend", trendHandler.Routes())
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.GetVersion)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled
// or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info("server listening", slog.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info("shutting down server")

		timeout := app.Config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	infrastructure.CloseLogFile()
	return err
}
