// Package app wires together all dependencies and runs the wishlist service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/andreinadaban/wishlist-service/pkg/health"
	"github.com/andreinadaban/wishlist-service/pkg/httpclient"
	pkgkafka "github.com/andreinadaban/wishlist-service/pkg/kafka"
	"github.com/andreinadaban/wishlist-service/pkg/tracing"

	"github.com/andreinadaban/wishlist-service/internal/catalog"
	"github.com/andreinadaban/wishlist-service/internal/config"
	"github.com/andreinadaban/wishlist-service/internal/event"
	handler "github.com/andreinadaban/wishlist-service/internal/handler/http"
	"github.com/andreinadaban/wishlist-service/internal/identity"
	"github.com/andreinadaban/wishlist-service/internal/repository"
	memorystore "github.com/andreinadaban/wishlist-service/internal/repository/memory"
	postgresstore "github.com/andreinadaban/wishlist-service/internal/repository/postgres"
	redisstore "github.com/andreinadaban/wishlist-service/internal/repository/redis"
	"github.com/andreinadaban/wishlist-service/internal/service"
)

// App holds the running service and its closeable dependencies.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	pool            *pgxpool.Pool
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "wishlist-service",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TraceSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracingShutdown = tracingShutdown

	healthHandler := health.NewHandler()

	store, err := a.newStore(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	publisher := a.newPublisher(healthHandler)

	// Product catalog client with retry and a circuit breaker.
	catalogClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	productCatalog := catalog.NewHTTPCatalog(catalogClient, cfg.CatalogBaseURL, logger)

	wishlistService := service.NewWishlistService(store, productCatalog, publisher, logger, cfg.StoreTimeout())

	jwtManager := identity.NewJWTManager(cfg.JWTSecret, 15*time.Minute)
	resolver := identity.NewResolver(jwtManager, cfg.GuestCookieName, cfg.GuestTTL(), cfg.SecureCookies, logger)

	router := handler.NewRouter(wishlistService, resolver, cfg.GuestCookieName, healthHandler, logger, cfg.PprofCIDRs)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// newStore initializes the configured storage backend and registers its
// readiness check.
func (a *App) newStore(ctx context.Context, healthHandler *health.Handler) (repository.Store, error) {
	switch a.cfg.StorageBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPass,
			DB:       a.cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.logger.Info("connected to Redis",
			slog.String("addr", a.cfg.RedisAddr),
			slog.Int("db", a.cfg.RedisDB),
		)

		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		return redisstore.NewStore(rdb, a.cfg.GuestTTL(), a.logger), nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, a.cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		a.logger.Info("connected to Postgres")

		healthHandler.Register("postgres", pool.Ping)
		return postgresstore.NewStore(pool, a.logger), nil

	case config.BackendMemory:
		a.logger.Warn("using in-memory storage, wishlists will not survive a restart")
		return memorystore.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q", a.cfg.StorageBackend)
	}
}

// newPublisher initializes the Kafka producer when enabled, falling back to a
// no-op publisher otherwise.
func (a *App) newPublisher(healthHandler *health.Handler) service.EventPublisher {
	if !a.cfg.KafkaEnabled {
		a.logger.Info("kafka disabled, wishlist events will not be published")
		return service.NopPublisher{}
	}

	kafkaCfg := pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers)
	a.producer = pkgkafka.NewProducer(kafkaCfg, a.logger)
	a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))

	healthHandler.Register("kafka", a.producer.Ping)
	return event.NewProducer(a.producer, a.logger)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
