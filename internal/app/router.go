package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"feedai/internal/handler"
	"feedai/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler        *handler.UserHandler
	DonationHandler    *handler.DonationHandler
	MatchHandler       *handler.MatchHandler
	RecipientHandler   *handler.RecipientHandler
	LeaderboardHandler *handler.LeaderboardHandler
	RedisClient        *redis.Client
	NewRelicApp        *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		// Donation routes.
		donations := v1.Group("/donations")
		{
			donations.POST("", deps.DonationHandler.Submit)
			donations.GET("/my", deps.DonationHandler.ListMine)
			donations.GET("/available", deps.DonationHandler.ListAvailable)
			donations.PATCH("/:id", deps.DonationHandler.UpdateStatus)
		}

		// Match routes.
		matches := v1.Group("/matches")
		{
			matches.POST("/request", deps.MatchHandler.Request)
			matches.GET("", deps.MatchHandler.List)
			matches.PATCH("/:id", deps.MatchHandler.UpdateStatus)
		}

		// Recipient profile routes.
		recipients := v1.Group("/recipients")
		{
			recipients.GET("/:id/profile", deps.RecipientHandler.GetProfile)
			recipients.PATCH("/:id/profile", deps.RecipientHandler.UpdateProfile)
		}

		// Leaderboard routes.
		leaderboard := v1.Group("/leaderboard")
		{
			leaderboard.GET("", deps.LeaderboardHandler.Get)
			leaderboard.GET("/rank/:donor_id", deps.LeaderboardHandler.GetRank)
		}
	}

	return router
}
