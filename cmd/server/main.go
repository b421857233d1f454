package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"supacoach/coach-api/internal/api"
	"supacoach/coach-api/internal/app"
	"supacoach/coach-api/internal/config"
	"supacoach/coach-api/internal/database"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/mailer"
	"supacoach/coach-api/internal/metrics"
	"supacoach/coach-api/internal/migrations"
	"supacoach/coach-api/internal/ratelimit"
	"supacoach/coach-api/internal/repository"
	"supacoach/coach-api/internal/repository/mongo"
	"supacoach/coach-api/internal/service"
	"supacoach/coach-api/internal/storage"
	"supacoach/coach-api/internal/validation"
)

// @title SupaCoach API
// @version 1.0
// @description Coaches manage clients, invitations, workout plans and progress.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "coach-api",
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
		Output:      os.Stdout,
	})
	validation.Install()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.New(ctx, cfg.Database, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	if cfg.Database.AutoMigrate {
		if err := migrate(ctx, cfg.Database, db); err != nil {
			return err
		}
		logg.Info(ctx, "database.migrated")
	}

	// --- Rate limiting ---
	var (
		limitStore ratelimit.Store = ratelimit.NewMemoryStore()
		redisPing  database.Pinger
	)
	if cfg.Redis.Enabled {
		redisStore, redisErr := ratelimit.NewRedisStore(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return fmt.Errorf("connect redis: %w", redisErr)
		}
		defer func() { err = multierr.Append(err, redisStore.Close()) }()
		limitStore, redisPing = redisStore, redisStore
	}

	// --- Messages ---
	var messageRepo repository.MessageRepository
	if cfg.Messages.Backend == "mongo" {
		mongoClient, mongoErr := mongo.Connect(ctx, cfg.Mongo.URI)
		if mongoErr != nil {
			return fmt.Errorf("connect mongo: %w", mongoErr)
		}
		defer func() { err = multierr.Append(err, mongo.Disconnect(mongoClient)) }()

		mongoDB := mongoClient.Database(cfg.Mongo.Name)
		if err := mongo.EnsureMessageIndexes(ctx, mongoDB); err != nil {
			return fmt.Errorf("ensure message indexes: %w", err)
		}
		messageRepo = mongo.NewMessageRepository(mongoDB)
	}

	// --- Mail and storage ---
	mail, err := mailer.New(ctx, cfg.Mail, logg)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}
	renderer, err := mailer.NewRenderer()
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}

	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, logg)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
	} else {
		logg.Warn(ctx, "storage.disabled")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	}

	services := app.NewServices(app.Deps{
		DB:       db,
		Messages: messageRepo,
		Sender:   mailer.NewInvitationSender(mail, renderer),
		Storage:  fileStorage,
		Metrics:  m,
		Logger:   logg,
		JWT:      cfg.JWT,
		Invitation: service.InvitationOptions{
			AppOrigin: cfg.Server.AppOrigin,
			TTL:       cfg.Invitation.TTL,
		},
	})

	// --- HTTP ---
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	api.SetupRoutes(router, services, api.RouterOptions{
		Logger:      logg,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		Database:    db,
		Redis:       redisPing,
		LimitStore:  limitStore,
		LoginLimit:  ratelimit.NewPolicy("auth_login", cfg.RateLimit.Window, cfg.RateLimit.LoginLimit),
		AcceptLimit: ratelimit.NewPolicy("invitation_accept", cfg.RateLimit.Window, cfg.RateLimit.InvitationLimit),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "address", cfg.Server.Address), "server.listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "server.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logg.Info(context.Background(), "server.stopped")
	return nil
}

// migrate builds the schema: goose migrations on postgres, AutoMigrate on
// sqlite where the SQL files do not apply.
func migrate(ctx context.Context, cfg config.DatabaseConfig, db *database.Client) error {
	if cfg.Driver == "sqlite" {
		if err := db.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}
	if err := migrations.Up(ctx, db.SQL()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
