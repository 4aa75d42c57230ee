package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/mailroom-backend/internal/config"
	"github.com/stemsi/mailroom-backend/internal/database"
	"github.com/stemsi/mailroom-backend/internal/handler"
	"github.com/stemsi/mailroom-backend/internal/logger"
	"github.com/stemsi/mailroom-backend/internal/mailer"
	"github.com/stemsi/mailroom-backend/internal/middleware"
	"github.com/stemsi/mailroom-backend/internal/repository"
	"github.com/stemsi/mailroom-backend/internal/router"
	"github.com/stemsi/mailroom-backend/internal/service"
	"github.com/stemsi/mailroom-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Mailroom Backend")

	if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
		log.Warn().Str("host", cfg.SMTP.Host).Msg("SMTP credentials not set, broadcasts will fail")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	emailLogRepo := repository.NewEmailLogRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	transport := mailer.NewSMTPTransport(cfg.SMTP, log)

	authService := service.NewAuthService(cfg, userRepo, log)
	classService := service.NewClassService(classRepo, rdb, cfg.ClassCacheTTL, log)
	broadcastService := service.NewBroadcastService(userRepo, emailLogRepo, classService, transport, cfg.MaxPageSize, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Class:  handler.NewClassHandler(classService),
		Email:  handler.NewEmailHandler(broadcastService, cfg.MaxUploadBytes),
		Health: handler.NewHealthHandler(pool, redisPinger(rdb), log),
	}

	rateLimiter := middleware.NewRateLimiter(rdb, cfg.AuthRateLimit, time.Minute, log)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, rateLimiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Sends in flight get up to 30s to finish their SMTP exchange and audit write.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

func redisPinger(rdb *redis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
