package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chefshare/backend/internal/apperror"
	"github.com/chefshare/backend/internal/middleware"
	"github.com/chefshare/backend/internal/service"
)

// API wires the HTTP handlers to the service layer.
type API struct {
	auth    *service.AuthService
	recipes *service.RecipeService
	uploads *service.UploadService
}

func New(auth *service.AuthService, recipes *service.RecipeService, uploads *service.UploadService) *API {
	return &API{auth: auth, recipes: recipes, uploads: uploads}
}

// RegisterRoutes mounts all endpoints on the router. The rate limiters
// may be nil, in which case the corresponding routes are unthrottled.
func (a *API) RegisterRoutes(r *gin.Engine, registerLimiter, publishLimiter *middleware.RateLimiter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	chef := r.Group("/api/chef")
	{
		chef.POST("/register", registerLimiter.ByClientIP(), a.Register)
		chef.POST("/login", a.Login)

		authed := chef.Group("")
		authed.Use(middleware.AuthMiddleware(a.auth))
		{
			authed.POST("/uploadProfilePicture", a.UploadProfilePicture)
			authed.PATCH("/bio", a.UpdateBio)
		}
	}

	recipe := r.Group("/api/recipe")
	{
		recipe.GET("/recipe", a.ListRecipes)

		authed := recipe.Group("")
		authed.Use(middleware.AuthMiddleware(a.auth))
		{
			authed.POST("", publishLimiter.ByChef(), a.PublishRecipe)
			authed.POST("/:id/comments", a.AddComment)
			authed.DELETE("/:id/comments/:commentId", a.DeleteComment)
		}
	}
}

// respondError writes the error envelope for an error from the service
// layer. Known error kinds map to their status; anything else is a 500
// with the detail echoed alongside a generic message.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := appErr.Status()
		if status < http.StatusInternalServerError {
			c.JSON(status, gin.H{"message": appErr.Message})
			return
		}
		log.Error().Err(appErr).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(status, gin.H{
			"message": "Internal server error",
			"error":   appErr.Message,
		})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}
