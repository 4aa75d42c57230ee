package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stemsi/mailroom-backend/internal/config"
	"github.com/stemsi/mailroom-backend/internal/handler"
	"github.com/stemsi/mailroom-backend/internal/middleware"
	"github.com/stemsi/mailroom-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth   *handler.AuthHandler
	Class  *handler.ClassHandler
	Email  *handler.EmailHandler
	Health *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// rateLimiter may be nil to disable auth rate limiting.
func SetupRouter(
	verifier middleware.TokenVerifier,
	handlers *Handlers,
	rateLimiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper:   middleware.SkipPaths("/metrics"),
	}))

	// ─── Operational ───────────────────────────────────────────────────
	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	requireAuth := middleware.RequireAuth(verifier)

	// ─── 1. Auth ───────────────────────────────────────────────────────
	auth := api.Group("/auth")
	auth.Use(middleware.NoStore())
	{
		limited := auth.Group("")
		if rateLimiter != nil {
			limited.Use(rateLimiter.Middleware())
		}
		limited.POST("/register", handlers.Auth.Register)
		limited.POST("/login", handlers.Auth.Login)

		auth.GET("/me", requireAuth, handlers.Auth.Me)
	}

	// ─── 2. Classes (any authenticated role) ───────────────────────────
	classes := api.Group("/classes")
	classes.Use(requireAuth)
	{
		classes.GET("/", handlers.Class.ListClasses)
		classes.POST("/", handlers.Class.CreateClass)
		classes.PUT("/:id", handlers.Class.UpdateClass)
		classes.DELETE("/:id", handlers.Class.DeleteClass)
	}

	// ─── 3. Email ──────────────────────────────────────────────────────
	email := api.Group("/email")
	email.Use(requireAuth)
	{
		email.POST("/send", handlers.Email.Send)
		email.GET("/logs", handlers.Email.Logs)
		email.GET("/recipients", handlers.Email.Recipients)
	}

	return router
}
