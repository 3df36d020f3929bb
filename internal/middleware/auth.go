package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chefshare/backend/internal/models"
)

// TokenClaims represents the identity carried by a verified session token.
type TokenClaims struct {
	ChefID uuid.UUID
}

// Identity is the minimal acting identity attached to the request context.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
}

const identityKey = "chef"

// Authenticator validates session tokens and resolves chef records.
type Authenticator interface {
	ValidateToken(token string) (*TokenClaims, error)
	GetChefByID(ctx context.Context, id uuid.UUID) (*models.Chef, error)
}

// AuthMiddleware creates a middleware that validates bearer tokens and
// resolves the acting chef for downstream handlers.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if authHeader == "" || len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusForbidden, gin.H{"message": "Token is missing or not provided"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "Chef is not authorized"})
			c.Abort()
			return
		}

		chef, err := auth.GetChefByID(c.Request.Context(), claims.ChefID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Chef not found"})
			c.Abort()
			return
		}

		c.Set(identityKey, Identity{
			ID:    chef.ID,
			Name:  chef.Name,
			Email: chef.Email,
		})
		c.Next()
	}
}

// CurrentChef returns the identity attached by AuthMiddleware.
func CurrentChef(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
