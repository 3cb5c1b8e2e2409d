package routes

import (
	"net/http"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/handlers"
	"github.com/ArowuTest/luckydraw-backend/internal/middleware"
	"github.com/ArowuTest/luckydraw-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Dependencies are the components the router dispatches to
type Dependencies struct {
	DrawHandler  *handlers.DrawHandler
	PoolHandler  *handlers.PoolHandler
	AuthHandler  *handlers.AuthHandler
	EventHandler *handlers.EventHandler
	Tokens       *jwt.TokenService
	Events       http.Handler // websocket endpoint
	Metrics      http.Handler // nil disables /metrics
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		if deps.Events != nil {
			public.GET("/events", gin.WrapH(deps.Events))
		}

		awards := public.Group("/awards")
		{
			awards.GET("", deps.DrawHandler.ListAwards)
			awards.GET("/:id", deps.DrawHandler.GetAward)
			awards.GET("/:id/winners", deps.DrawHandler.GetWinners)
		}

		pool := public.Group("/pool")
		{
			pool.GET("", deps.PoolHandler.GetPool)
			pool.GET("/template", deps.PoolHandler.DownloadTemplate)
		}

		results := public.Group("/results")
		{
			results.GET("", deps.DrawHandler.GetResults)
			results.GET("/export", deps.DrawHandler.ExportResults)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		// Award and round routes
		awards := protected.Group("/awards")
		{
			awards.POST("", deps.DrawHandler.CreateAward)
			awards.POST("/adhoc", deps.DrawHandler.CreateAdHocAward)
			awards.POST("/:id/rounds/begin", deps.DrawHandler.BeginRound)
			awards.POST("/:id/rounds/commit", deps.DrawHandler.CommitRound)
			awards.POST("/:id/rounds/abort", deps.DrawHandler.AbortRound)
			awards.POST("/:id/draw", deps.DrawHandler.DrawRound)
		}

		// Pool routes
		pool := protected.Group("/pool")
		{
			pool.POST("", deps.PoolHandler.LoadIdentifiers)
			pool.POST("/import", deps.PoolHandler.ImportPool)
		}

		protected.POST("/draw/reset", deps.DrawHandler.ResetDraw)
		protected.GET("/archive/winners", deps.DrawHandler.GetArchivedWinners)
		protected.GET("/archive/events", deps.EventHandler.GetEvents)
	}

	return router
}
