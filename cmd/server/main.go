package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forum_api/internal/config"
	"forum_api/internal/handler"
	"forum_api/internal/logging"
	"forum_api/internal/ratelimit"
	"forum_api/internal/repository"
	"forum_api/internal/service"
	"forum_api/internal/storage"
	"forum_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file
	dotEnvErr := config.LoadDotEnv()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)
	if dotEnvErr != nil {
		logger.Info("no .env file loaded, relying on environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbPool.Close()

	if cfg.DB.BootstrapSchema {
		if err := config.EnsureSchema(ctx, dbPool); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
		logger.Info("database schema ensured")
	}

	// --- Rate Limiter & Attachment Storage ---
	limiterStore, err := newLimiterStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer limiterStore.Close()
	loginLimiter := ratelimit.New(limiterStore, cfg.RateLimitMax, cfg.RateLimitWindow)

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	questionRepo := repository.NewQuestionRepository(dbPool)
	answerRepo := repository.NewAnswerRepository(dbPool)
	reactionRepo := repository.NewReactionRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, logger)
	profileService := service.NewProfileService(userRepo)
	questionService := service.NewQuestionService(questionRepo, answerRepo, files, logger)
	answerService := service.NewAnswerService(answerRepo, questionRepo, files, logger)
	reactionService := service.NewReactionService(reactionRepo)

	// --- Setup Gin Router ---
	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.RouterDeps{
		Users:          handler.NewUserHandler(authService, profileService, logger),
		Questions:      handler.NewQuestionHandler(questionService, logger),
		Answers:        handler.NewAnswerHandler(answerService, reactionService, logger),
		JWT:            jwtUtil,
		LoginLimiter:   loginLimiter,
		Logger:         logger,
		TrustedProxies: cfg.TrustedProxies,
		Health:         dbPool.Ping,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort,
			"rate_limit_backend", cfg.RateLimitBackend, "storage_backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// --- Graceful Shutdown ---
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

type closableStore interface {
	ratelimit.Store
	io.Closer
}

func newLimiterStore(ctx context.Context, cfg *config.Config) (closableStore, error) {
	if cfg.RateLimitBackend != config.BackendRedis {
		return ratelimit.NewMemoryStore(cfg.RateLimitWindow), nil
	}

	opts := &redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return ratelimit.NewRedisStore(client), nil
}

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	if cfg.StorageBackend == config.BackendS3 {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set up s3 storage: %w", err)
		}
		return store, nil
	}

	store, err := storage.NewLocalStore(cfg.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", cfg.UploadsDir, err)
	}
	return store, nil
}
