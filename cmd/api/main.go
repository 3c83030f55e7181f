package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fileapi/internal/config"
	"fileapi/internal/database"
	"fileapi/internal/database/migration"
	handlers "fileapi/internal/http/handler"
	"fileapi/internal/http/middleware"
	fileotel "fileapi/internal/otel"
	"fileapi/internal/repository/postgres"
	"fileapi/internal/service"
	"fileapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.Local

	// Tracing first, so DB and HTTP instrumentation pick up the provider
	shutdownTracing, err := fileotel.Init(context.Background(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(context.Background(), db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Categorized local file store with thumbnail generation
	categories := storage.NewCategorySet(cfg.Store.Categories)
	thumbs := storage.NewThumbnailGenerator(cfg.Store.ThumbnailSize)
	store, err := storage.NewLocalStore(cfg.Store, categories, thumbs)
	if err != nil {
		log.Fatalf("failed to initialize file store: %v", err)
	}

	policy := storage.NewUploadPolicy(cfg.Store.MaxUploadBytes, storage.DefaultAllowedTypes())
	fileSvc := service.NewFileService(store, policy)

	recRepo := postgres.NewRecordPostgres(db)
	recSvc := service.NewRecordService(recRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Leave headroom over the per-file limit for multipart framing
		BodyLimit: int(cfg.Store.MaxUploadBytes) + 1<<20,
	})

	// Prometheus registry with process and Go runtime collectors
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	// Register global middleware
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, fileSvc, recSvc, cfg.Store.RootDir)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
