package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/loantrack/internal/adapter/gateway"
	httpAdapter "github.com/iho/loantrack/internal/adapter/http"
	"github.com/iho/loantrack/internal/adapter/http/handler"
	"github.com/iho/loantrack/internal/adapter/http/middleware"
	mongoRepo "github.com/iho/loantrack/internal/adapter/repository/mongo"
	postgresRepo "github.com/iho/loantrack/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/loantrack/internal/adapter/repository/redis"
	"github.com/iho/loantrack/internal/infrastructure/auth"
	"github.com/iho/loantrack/internal/infrastructure/config"
	"github.com/iho/loantrack/internal/infrastructure/logger"
	"github.com/iho/loantrack/internal/infrastructure/logging"
	"github.com/iho/loantrack/internal/infrastructure/metrics"
	"github.com/iho/loantrack/internal/infrastructure/mongo"
	"github.com/iho/loantrack/internal/infrastructure/notifier"
	"github.com/iho/loantrack/internal/infrastructure/postgres"
	"github.com/iho/loantrack/internal/infrastructure/redis"
	"github.com/iho/loantrack/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Switch to the configured logger once config is available
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Connect to PostgreSQL (users)
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// Connect to MongoDB (loans)
	mongoClient, err := mongo.Connect(ctx, cfg.MongoURL, cfg.MongoTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to disconnect mongodb client")
		}
	}()
	log.Info().Msg("connected to mongodb")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	loanRepo := mongoRepo.NewLoanRepository(mongoClient.Database(cfg.MongoDatabase))
	if err := loanRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure loan indexes")
	}
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	dedupStore := redisRepo.NewDedupStore(redisClient)
	idGenerator := postgresRepo.NewULIDGenerator()

	// Metrics
	appMetrics := metrics.New()

	// Use cases
	clock := usecase.SystemClock{}
	loanUseCase := usecase.NewLoanUseCase(loanRepo, userRepo, idGenerator, clock, appMetrics)
	userUseCase := usecase.NewUserUseCase(userRepo, idGenerator, clock)

	// Auth
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Notification delivery
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	var notificationGateway usecase.NotificationGateway
	if cfg.SMTPHost != "" {
		notificationGateway = gateway.NewSMTPGateway(gateway.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		log.Info().Str("host", cfg.SMTPHost).Msg("using smtp notification gateway")
	} else {
		notificationGateway = gateway.NewLogGateway(slogger.Logger)
		log.Info().Msg("SMTP_HOST not set, notifications will be logged")
	}

	scheduler, err := notifier.NewScheduler(notifier.Config{
		LoanRepo:     loanRepo,
		UserRepo:     userRepo,
		Dedup:        dedupStore,
		Gateway:      notificationGateway,
		Clock:        clock,
		Logger:       slogger.Logger,
		Metrics:      appMetrics,
		Interval:     cfg.SchedulerInterval,
		ReminderDays: cfg.ReminderDays,
		SendTimeout:  cfg.NotifySendTimeout,
		DedupTTL:     cfg.NotifyDedupTTL,
		PoolSize:     cfg.NotifyPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create notification scheduler")
	}

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go func() {
		if err := scheduler.Start(schedulerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("notification scheduler stopped")
		}
	}()
	log.Info().Dur("interval", cfg.SchedulerInterval).Msg("notification scheduler started")

	// Handlers
	authHandler := handler.NewAuthHandler(userUseCase, jwtManager, appMetrics)
	userHandler := handler.NewUserHandler(userUseCase)
	loanHandler := handler.NewLoanHandler(loanUseCase, clock)
	healthHandler := handler.NewHealthHandler(pool, mongoClient, redisClient)
	notificationHandler := handler.NewNotificationHandler(scheduler)

	// Router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		LoanHandler:         loanHandler,
		HealthHandler:       healthHandler,
		NotificationHandler: notificationHandler,
		JWTManager:          jwtManager,
		IdempotencyStore:    idempotencyStore,
		IdempotencyTTL:      cfg.IdempotencyTTL,
		RateLimiter:         middleware.NewRateLimiter(50, 100),
		RequestLogger:       middleware.NewLoggingMiddleware(log.Logger),
	})

	// HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("server stopped")
}
