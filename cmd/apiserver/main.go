// The apiserver binary runs the AgreemShield HTTP API: document upload and
// analysis, the chat assistant, benchmarking, comparison, and compliance
// checks, backed by PostgreSQL, Redis, and MinIO.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agreemshield/agreemshield/internal/application/analysis"
	"github.com/agreemshield/agreemshield/internal/application/benchmark"
	"github.com/agreemshield/agreemshield/internal/application/chat"
	"github.com/agreemshield/agreemshield/internal/application/comparison"
	"github.com/agreemshield/agreemshield/internal/application/compliance"
	"github.com/agreemshield/agreemshield/internal/config"
	"github.com/agreemshield/agreemshield/internal/infrastructure/database/postgres"
	"github.com/agreemshield/agreemshield/internal/infrastructure/database/postgres/repositories"
	"github.com/agreemshield/agreemshield/internal/infrastructure/database/redis"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/prometheus"
	"github.com/agreemshield/agreemshield/internal/infrastructure/storage/minio"
	"github.com/agreemshield/agreemshield/internal/interfaces/http/handlers"
	"github.com/agreemshield/agreemshield/internal/interfaces/http/middleware"
	"github.com/agreemshield/agreemshield/internal/pipeline/clause"
	"github.com/agreemshield/agreemshield/internal/pipeline/extract"
	"github.com/agreemshield/agreemshield/internal/pipeline/future"
	"github.com/agreemshield/agreemshield/internal/pipeline/recommend"
	"github.com/agreemshield/agreemshield/internal/pipeline/risk"

	httpserver "github.com/agreemshield/agreemshield/internal/interfaces/http"
)

const defaultConfigPath = "configs/config.yaml"

// version is injected via ldflags at build time.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", logging.Err(err))
	}
}

func run(cfg *config.Config, log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting agreemshield API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode),
	)

	// ── PostgreSQL ─────────────────────────────────────────────────────────

	pgCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	if cfg.Database.MigrationPath != "" {
		if err := postgres.RunMigrations(postgres.BuildDSN(pgCfg), "file://"+cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		log.Info("database migrations applied", logging.String("path", cfg.Database.MigrationPath))
	}

	pg, err := postgres.NewConnection(ctx, pgCfg, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	// ── Redis ──────────────────────────────────────────────────────────────

	redisClient, err := redis.NewClient(&redis.RedisConfig{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer redisClient.Close() //nolint:errcheck

	cache := redis.NewRedisCache(redisClient, log,
		redis.WithPrefix(cfg.Redis.KeyPrefix+":"),
		redis.WithDefaultTTL(cfg.Redis.DefaultTTL),
	)
	contextCache := redis.NewContextCache(cache, cfg.Redis.DefaultTTL, log)

	// ── MinIO ──────────────────────────────────────────────────────────────

	minioClient, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:      cfg.MinIO.Endpoint,
		AccessKey:     cfg.MinIO.AccessKey,
		SecretKey:     cfg.MinIO.SecretKey,
		Bucket:        cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		PresignExpiry: cfg.MinIO.PresignExpiry,
	}, log)
	if err != nil {
		return err
	}
	defer minioClient.Close()

	docStore := minio.NewDocumentStore(minioClient, log)

	// ── Metrics ────────────────────────────────────────────────────────────

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "agreemshield",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return err
	}
	appMetrics := prometheus.NewAppMetrics(collector)
	analysisRecorder := prometheus.NewAnalysisRecorder(appMetrics)

	// ── Pipeline and application services ──────────────────────────────────

	analysisService := analysis.NewService(analysis.Config{
		Extractor: extract.New(extract.Config{
			MaxFileSizeBytes:   cfg.Pipeline.MaxUploadSize,
			MinDirectTextChars: cfg.Pipeline.MinDirectTextChars,
			OCREnabled:         cfg.Pipeline.OCREnabled,
			OCRBinary:          cfg.Pipeline.OCRBinary,
			OCRTimeout:         cfg.Pipeline.OCRTimeout,
		}, log),
		Segmenter:   clause.NewSegmenter(log),
		Classifier:  risk.NewClassifier(cfg.Pipeline.ModelDir, log),
		Predictor:   future.NewPredictor(log),
		Recommender: recommend.NewEngine(log),
		Repo:        repositories.NewAnalysisRepository(pg.Pool(), log),
		Store:       docStore,
		Metrics:     analysisRecorder,
		Logger:      log,
	})

	chatService := chat.NewService(analysisService, contextCache, log)
	benchmarkService := benchmark.NewService(analysisService, log)
	comparisonService := comparison.NewService(analysisService, log)
	complianceService := compliance.NewService(analysisService, log)

	// ── HTTP surface ───────────────────────────────────────────────────────

	rateLimiter := middleware.NewClientRateLimiter(
		cfg.Server.RateLimitRPS,
		cfg.Server.RateLimitBurst,
		5*time.Minute,
	)
	defer rateLimiter.Stop()

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	rateLimitCfg.RequestsPerSecond = cfg.Server.RateLimitRPS
	rateLimitCfg.Burst = cfg.Server.RateLimitBurst

	corsCfg := middleware.DefaultCORSConfig()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		AnalysisHandler: handlers.NewAnalysisHandler(analysisService, cfg.Server.MaxBodySize, log),
		ChatHandler:     handlers.NewChatHandler(chatService),
		AdvisoryHandler: handlers.NewAdvisoryHandler(benchmarkService, comparisonService, complianceService),
		HealthHandler: handlers.NewHealthHandler(version,
			&postgresHealthAdapter{conn: pg},
			&redisHealthAdapter{client: redisClient},
			&minioHealthAdapter{client: minioClient},
		),
		CORS:             &corsCfg,
		RateLimiter:      rateLimiter,
		RateLimit:        rateLimitCfg,
		Logger:           log,
		MetricsCollector: collector,
		AppMetrics:       appMetrics,
	})

	srv := httpserver.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logging.String("addr", srv.Addr()))
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// loadConfig reads the config file when present and falls back to
// environment variables and defaults otherwise.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
