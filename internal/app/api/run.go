package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	bookstoreserver "github.com/Apurer/it-literature-shop/go"
	catalogobs "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/it-literature-shop/internal/domains/catalog/application"
	catalogports "github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
	orderobs "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/it-literature-shop/internal/domains/orders/application"
	orderports "github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
	userobs "github.com/Apurer/it-literature-shop/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/it-literature-shop/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/it-literature-shop/internal/domains/users/adapters/security"
	userapp "github.com/Apurer/it-literature-shop/internal/domains/users/application"
	userports "github.com/Apurer/it-literature-shop/internal/domains/users/ports"
	platformobservability "github.com/Apurer/it-literature-shop/internal/platform/observability"
)

const serviceName = "it-literature-shop-api"

// Run boots the bookstore HTTP API with observability, storage, and workflows wired.
// It returns once ctx is cancelled or SIGINT/SIGTERM arrives and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, telemetryOptions(serviceName, cfg.TelemetryConfig))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer flushTelemetry(instruments, shutdown)
	logger := instruments.Logger

	db, closeDB, err := OpenDatabase(ctx, cfg.DatabaseConfig, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	userService, err := newUserService(db, cfg, instruments)
	if err != nil {
		return err
	}
	catalogService := newCatalogService(db, instruments)
	orderService := newOrderService(db, instruments)

	var orderWorkflows orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := DialTemporal(cfg.TemporalConfig, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := bookstoreserver.ApiHandleFunctions{
		AuthAPI:        bookstoreserver.NewAuthAPI(userService),
		GenreAPI:       bookstoreserver.NewGenreAPI(catalogService),
		BookAPI:        bookstoreserver.NewBookAPI(catalogService),
		TransactionAPI: bookstoreserver.NewTransactionAPI(orderService, orderWorkflows),
		HealthAPI:      bookstoreserver.NewHealthAPI(pinger(db)),
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName), bookstoreserver.RequestLogger(logger))
	router := bookstoreserver.NewRouterWithGinEngine(engine, handlers)

	return serve(ctx, router, cfg, logger)
}

func serve(ctx context.Context, handler http.Handler, cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("bookstore API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down bookstore API", slog.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("bookstore API exited", slog.String("error", err.Error()))
		return err
	}
	logger.Info("bookstore API stopped")
	return nil
}

func newUserService(db *gorm.DB, cfg Config, instruments *platformobservability.Instruments) (userports.Service, error) {
	issuer, err := security.NewJWTIssuer(security.JWTConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("configure tokens: %w", err)
	}
	core := userapp.NewService(userpostgres.NewRepository(db), security.NewBcryptHasher(cfg.BcryptCost), issuer)
	return userobs.New(
		core,
		userobs.WithLogger(instruments.Logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	), nil
}

func newCatalogService(db *gorm.DB, instruments *platformobservability.Instruments) catalogports.Service {
	core := catalogapp.NewService(catalogpostgres.NewGenreRepository(db), catalogpostgres.NewBookRepository(db))
	return catalogobs.New(
		core,
		catalogobs.WithLogger(instruments.Logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
}

func newOrderService(db *gorm.DB, instruments *platformobservability.Instruments) orderports.Service {
	core := orderapp.NewService(orderpostgres.NewStore(db))
	return orderobs.New(
		core,
		orderobs.WithLogger(instruments.Logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
}

func telemetryOptions(service string, cfg TelemetryConfig) platformobservability.Options {
	return platformobservability.Options{
		ServiceName:  service,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	}
}

func flushTelemetry(instruments *platformobservability.Instruments, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		instruments.EffectiveLogger().Error("failed to shutdown observability", slog.String("error", err.Error()))
	}
}
