package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/chefshare/backend/internal/api"
	"github.com/chefshare/backend/internal/middleware"
)

// New assembles the gin engine: CORS, request logging, panic recovery
// and all API routes. redisClient may be nil, which disables rate
// limiting.
func New(handlers *api.API, redisClient *redis.Client, environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	var registerLimiter, publishLimiter *middleware.RateLimiter
	if redisClient != nil {
		registerLimiter = middleware.NewRegisterRateLimiter(redisClient)
		publishLimiter = middleware.NewPublishRateLimiter(redisClient)
	}
	handlers.RegisterRoutes(r, registerLimiter, publishLimiter)

	return r
}
