// Package app wires together all dependencies and runs the service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/espengetz/brandprotocol/internal/assets"
	"github.com/espengetz/brandprotocol/internal/config"
	"github.com/espengetz/brandprotocol/internal/event"
	"github.com/espengetz/brandprotocol/internal/extract"
	handler "github.com/espengetz/brandprotocol/internal/handler/http"
	"github.com/espengetz/brandprotocol/internal/knowledge"
	"github.com/espengetz/brandprotocol/internal/repository/postgres"
	"github.com/espengetz/brandprotocol/internal/service"
	"github.com/espengetz/brandprotocol/internal/storage"
	"github.com/espengetz/brandprotocol/internal/storage/memory"
	"github.com/espengetz/brandprotocol/internal/webpage"
	"github.com/espengetz/brandprotocol/migrations"
	"github.com/espengetz/brandprotocol/pkg/database"
	"github.com/espengetz/brandprotocol/pkg/health"
	"github.com/espengetz/brandprotocol/pkg/httpclient"
	pkgkafka "github.com/espengetz/brandprotocol/pkg/kafka"
	"github.com/espengetz/brandprotocol/pkg/tracing"
)

// App holds the long-lived components of the service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redis           *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	tracingCfg := tracing.Config{
		ServiceName:    "brandprotocol",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	}
	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis (knowledge cache).
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("host", cfg.RedisHost))
	cache := knowledge.NewCache(redisClient, cfg.CacheTTL, logger)

	// Kafka producer; events are disabled without brokers.
	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher = event.NoopPublisher{}
	)
	if cfg.EventsEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewKafkaPublisher(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Warn("kafka brokers not configured, event publishing disabled")
	}

	// Object storage; without a MinIO endpoint assets live in memory.
	var store storage.Storage
	if cfg.MinioEndpoint != "" {
		store, err = storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.MinioBucket,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.AssetBaseURL,
		})
		if err != nil {
			redisClient.Close()
			pool.Close()
			return nil, fmt.Errorf("connect to object storage: %w", err)
		}
		logger.Info("connected to object storage",
			slog.String("endpoint", cfg.MinioEndpoint),
			slog.String("bucket", cfg.MinioBucket),
		)
	} else {
		baseURL := cfg.AssetBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", cfg.HTTPPort)
		}
		store = memory.New(baseURL)
		logger.Warn("object storage not configured, using in-memory store")
	}

	// Gemini-backed extraction.
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, extraction requests will fail")
	}
	generator, err := extract.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	extractor := extract.NewExtractor(generator, logger)

	// Build the dependency graph.
	brandRepo := postgres.NewBrandRepository(pool)
	sourceRepo := postgres.NewSourceRepository(pool)
	assetRepo := postgres.NewAssetRepository(pool)

	fetcher := webpage.NewFetcher(cfg.FetchTimeout, cfg.MaxPageSize)
	converter := webpage.NewConverter()
	discoverer := assets.NewDiscoverer()

	downloadClient := httpclient.New(httpclient.DefaultConfig())
	downloader := httpclient.NewCircuitBreakerClient(
		downloadClient,
		httpclient.DefaultCircuitBreakerConfig("asset-download"),
		logger,
	)
	pipeline := service.NewAssetPipeline(assetRepo, store, downloader, publisher, logger)

	services := &handler.Services{
		Brands:    service.NewBrandService(brandRepo, sourceRepo, assetRepo, store, cache, publisher, logger),
		Sources:   service.NewSourceService(brandRepo, sourceRepo, assetRepo, store, fetcher, converter, extractor, discoverer, pipeline, cache, publisher, logger),
		Knowledge: service.NewKnowledgeService(brandRepo, sourceRepo, cache, logger),
		Assets:    service.NewAssetService(assetRepo, logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	router := handler.NewRouter(services, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redis:           redisClient,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
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

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
