// The apiserver binary runs the report analytics HTTP API: report intake,
// clustering, anomaly detection and text analysis backed by postgres, redis
// and kafka.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uwazilabs/haki-analytics/internal/application/analysis"
	"github.com/uwazilabs/haki-analytics/internal/config"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/database/postgres"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/database/postgres/repositories"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/database/redis"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/messaging/kafka"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/uwazilabs/haki-analytics/internal/interfaces/http"
	"github.com/uwazilabs/haki-analytics/internal/interfaces/http/handlers"
)

const startupTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to the configuration file (env-only when empty)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logging.SetDefault(logger)
	logger.Info("starting haki-analytics apiserver",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode),
	)

	if configPath != "" {
		config.Watch(configPath, func(updated *config.Config) {
			logger.Warn("configuration file changed on disk; restart to apply",
				logging.String("path", configPath),
				logging.String("log_level", updated.Log.Level),
			)
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	dbURL := postgres.DSN(cfg.Database)
	if err := postgres.RunMigrations(dbURL, cfg.Database.MigrationPath); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	db, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cacheOpts := []redis.CacheOption{redis.WithDefaultTTL(cfg.Redis.DefaultTTL)}
	if cfg.Redis.KeyPrefix != "" {
		cacheOpts = append(cacheOpts, redis.WithPrefix(cfg.Redis.KeyPrefix))
	}
	cache := redis.NewCache(redisClient, logger, cacheOpts...)

	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "haki",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to build metrics collector: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	repo := repositories.NewReportRepository(db.Pool(), logger)
	svc := analysis.NewService(repo, cfg.Analytics,
		analysis.WithCache(cache),
		analysis.WithPublisher(producer),
		analysis.WithMetrics(metrics),
		analysis.WithLogger(logger.Named("analysis")),
	)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Mode:    cfg.Server.Mode,
		Service: svc,
		Repo:    repo,
		Probes: map[string]handlers.Probe{
			"postgres": db.Ping,
			"redis":    cache.Ping,
		},
		Metrics:        metrics,
		MetricsHandler: collector.Handler(),
		Logger:         logger,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("apiserver stopped")
	return nil
}
