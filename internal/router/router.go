package router

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/handler"
	"github.com/stemsi/gdeval-backend/internal/middleware"
	"github.com/stemsi/gdeval-backend/internal/response"
	"github.com/stemsi/gdeval-backend/internal/service"
)

// rubricMaxAge is how long clients may cache the public rubric.
const rubricMaxAge = 24 * time.Hour

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Session    *handler.GDSessionHandler
	Evaluation *handler.EvaluationHandler
	Results    *handler.ResultsHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router, such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Exports are already compressed (xlsx) or downloaded as files.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return strings.HasPrefix(c.Request.URL.Path, "/api/v1/exports")
		},
	}))

	router.GET("/health", handlers.System.Health)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(middleware.CacheControl(rubricMaxAge))
	{
		publicAPI.GET("/rubric", handlers.System.Rubric)
	}

	authLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimit, time.Minute)
	requireAuth := []gin.HandlerFunc{
		middleware.RequireJWT(authService),
		middleware.CheckTokenSession(authService),
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		// Authenticated profile routes
		me := auth.Group("", requireAuth...)
		me.POST("/logout", handlers.Auth.Logout)
		me.GET("/me", handlers.Auth.Me)
		me.PUT("/me", handlers.Auth.UpdateMe)
	}

	// ─── 2. Session Group (JWT) ────────────────────────────────────────
	sessions := router.Group("/api/v1/sessions")
	sessions.Use(requireAuth...)
	{
		sessions.GET("", handlers.Session.List)
		sessions.POST("", middleware.RequireInstructor(), handlers.Session.Create)
		sessions.GET("/:id", handlers.Session.Get)

		sessions.GET("/:id/evaluations", handlers.Evaluation.List)
		sessions.PUT("/:id/evaluations/:student_id", handlers.Evaluation.Submit)
		sessions.GET("/:id/scores/:student_id", middleware.RequireInstructor(), handlers.Evaluation.Scores)

		sessions.GET("/:id/results", middleware.RequireInstructor(), handlers.Results.SessionResults)
		sessions.GET("/:id/my-result", middleware.RequireStudent(), handlers.Results.MyResult)
	}

	// ─── 3. Instructor Reports (JWT + Instructor) ──────────────────────
	reports := router.Group("/api/v1")
	reports.Use(requireAuth...)
	reports.Use(middleware.RequireInstructor())
	{
		reports.GET("/analytics/students", handlers.Results.StudentAnalytics)
		reports.POST("/exports", handlers.Results.Export)
	}

	// ─── 4. WebSocket Group (Query Token + Instructor) ─────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireWSAuth(authService),
		middleware.CheckTokenSession(authService),
		middleware.RequireInstructor(),
	)
	{
		ws.GET("/sessions/:id/results", handlers.WS.SessionResultsStream)
	}

	return router
}
