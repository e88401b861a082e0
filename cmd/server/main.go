package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/database"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/logging"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/routes"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	stdout := logging.Setup()

	cfg := config.Load()

	var (
		users  store.Store[models.UserRecord]
		tweets store.Store[models.TweetRecord]
		pinger = map[string]store.Pinger{}
		db     *gorm.DB
		pgLog  *logging.PGHandler
	)
	cleanupDone := make(chan struct{})

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required for the postgres driver")
			os.Exit(1)
		}

		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}

		// PostgreSQL log handler (ERROR+ async batch)
		pgLog = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLog)))
		logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

		u := store.NewGormStore[models.UserRecord](db, services.UsersSchema)
		t := store.NewGormStore[models.TweetRecord](db, services.TweetsSchema)
		users, tweets = u, t
		pinger["users"], pinger["tweets"] = u, t

	case config.DriverJSON:
		u, err := store.NewDocumentStore[models.UserRecord](cfg.UsersFile, services.UsersSchema)
		if err != nil {
			slog.Error("users store init failed", "path", cfg.UsersFile, "error", err)
			os.Exit(1)
		}
		t, err := store.NewDocumentStore[models.TweetRecord](cfg.TweetsFile, services.TweetsSchema)
		if err != nil {
			slog.Error("tweets store init failed", "path", cfg.TweetsFile, "error", err)
			os.Exit(1)
		}
		users, tweets = u, t
		pinger["users"], pinger["tweets"] = u, t
		slog.Info("json document stores ready", "users", u.Path(), "tweets", t.Path())

	default:
		slog.Error("unknown STORE_DRIVER", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	// Services
	userService := services.NewUserService(users)
	tweetService := services.NewTweetService(tweets)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	tweetHandler := handlers.NewTweetHandler(tweetService)
	healthHandler := handlers.NewHealthHandler(cfg.StoreDriver, pinger)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "twitter-api",
		BodyLimit:    cfg.BodyLimitBytes,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, userHandler, tweetHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "driver", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLog != nil {
		pgLog.Stop()
	}
	sentry.Flush(2 * time.Second)

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
