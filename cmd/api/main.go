package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"reviewapi/docs"
	"reviewapi/internal/cache"
	"reviewapi/internal/config"
	"reviewapi/internal/database"
	"reviewapi/internal/database/migration"
	handlers "reviewapi/internal/http/handler"
	"reviewapi/internal/http/middleware"
	"reviewapi/internal/logger"
	"reviewapi/internal/otel"
	"reviewapi/internal/repository/postgres"
	"reviewapi/internal/service"
	"reviewapi/internal/storage"
)

// @title       Place Reviews API
// @version     1.0
// @description Reviews of places, written by users.
// @BasePath    /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reviewapi: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Env, cfg.Log)
	zerolog.DefaultContextLogger = &log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []service.Option{}

	if cfg.Redis.Addr != "" {
		metrics, err := cache.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("cache metrics: %w", err)
		}
		rc, err := cache.NewRedis(ctx, cfg.Redis, metrics)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rc.Close()
		opts = append(opts, service.WithCache(rc))
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL()).Msg("review cache enabled")
	}

	if cfg.MinIO.Endpoint != "" {
		// S3-compatible archive for deleted reviews
		archive, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		opts = append(opts, service.WithArchive(archive))
		log.Info().Str("bucket", cfg.MinIO.Bucket).Msg("review archive enabled")
	}

	// Initialize repositories and services
	reviewSvc := service.NewReviewService(
		postgres.NewReviewPostgres(db),
		postgres.NewPlacePostgres(db),
		postgres.NewUserPostgres(db),
		opts...,
	)

	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())
	app.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, reviewSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("http server listening")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
	})

	err = g.Wait()

	tctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if terr := shutdownTracing(tctx); terr != nil {
		log.Warn().Err(terr).Msg("tracer shutdown failed")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
