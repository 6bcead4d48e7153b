// Package app wires together all dependencies and runs the cart edge service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/agrios/cartedge/internal/checkout"
	"github.com/agrios/cartedge/internal/config"
	"github.com/agrios/cartedge/internal/event"
	handler "github.com/agrios/cartedge/internal/handler/http"
	"github.com/agrios/cartedge/internal/identity"
	"github.com/agrios/cartedge/internal/mirror"
	mirrorredis "github.com/agrios/cartedge/internal/mirror/redis"
	"github.com/agrios/cartedge/internal/orders"
	syncengine "github.com/agrios/cartedge/internal/sync"
	"github.com/agrios/cartedge/internal/upstream"
	"github.com/agrios/cartedge/pkg/database"
	"github.com/agrios/cartedge/pkg/health"
	"github.com/agrios/cartedge/pkg/httpclient"
	pkgkafka "github.com/agrios/cartedge/pkg/kafka"
	"github.com/agrios/cartedge/pkg/tracing"
)

// App holds the running service and its closeable dependencies.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server

	shutdownTracer func(context.Context) error
}

// NewApp creates the application, initializing all dependencies. Redis,
// Postgres, and Kafka are each optional; the service degrades to an in-memory
// mirror, no order history, and no events respectively.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "cartedge",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     1.0,
		Enabled:        cfg.OTLPEndpoint != "",
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	healthHandler := health.NewHandler()

	// Cart mirror.
	var (
		store mirror.Store
		rdb   *redis.Client
	)
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

		store = mirrorredis.NewStore(rdb, cfg.CartMirrorTTL)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	} else {
		logger.Info("redis not configured, using in-memory cart mirror")
		store = mirror.NewMemoryStore()
	}

	// Upstream platform API client behind a circuit breaker.
	baseClient := httpclient.New(httpclient.DefaultConfig())
	cbClient := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("upstream-api"),
		logger,
	)
	upstreamClient := upstream.NewClient(cfg.UpstreamBaseURL, cbClient, logger)

	// Kafka producer.
	var (
		producer  *pkgkafka.Producer
		publisher *event.Producer
	)
	if cfg.KafkaEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(producer)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

		healthHandler.Register("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	} else {
		logger.Info("kafka not configured, event publishing disabled")
	}

	// Order archive.
	var (
		pool    *pgxpool.Pool
		archive *orders.Archive
	)
	if cfg.PostgresEnabled() {
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = cfg.PostgresHost
		pgCfg.Port = cfg.PostgresPort
		pgCfg.User = cfg.PostgresUser
		pgCfg.Password = cfg.PostgresPass
		pgCfg.DBName = cfg.PostgresDB

		pool, err = database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to Postgres", slog.String("host", cfg.PostgresHost))

		archive = orders.NewArchive(pool)
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
	} else {
		logger.Info("postgres not configured, order history disabled")
	}

	// Core services.
	notifier := syncengine.NewLogNotifier(logger)
	var enginePublisher syncengine.Publisher
	var checkoutPublisher checkout.Publisher
	if publisher != nil {
		enginePublisher = publisher
		checkoutPublisher = publisher
	}
	engine := syncengine.NewEngine(store, upstreamClient, notifier, enginePublisher, logger)

	var checkoutArchive checkout.Archive
	if archive != nil {
		checkoutArchive = archive
	}
	simulator := checkout.NewSimulator(
		checkout.Config{PaymentDelay: cfg.PaymentDelay, ResetDelay: cfg.ResetDelay},
		engine,
		checkoutArchive,
		checkoutPublisher,
		notifier,
		logger,
	)

	router := handler.NewRouter(handler.RouterDeps{
		Engine:    engine,
		Simulator: simulator,
		Upstream:  upstreamClient,
		Archive:   archive,
		Verifier:  identity.NewVerifier(cfg.JWTSecret),
		Health:    healthHandler,
		Logger:    logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		shutdownTracer: shutdownTracer,
	}, nil
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

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
