package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chefshare/backend/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// chefView is the account shape returned by the auth endpoints.
type chefView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

func toChefView(chef *models.Chef) chefView {
	return chefView{
		ID:             chef.ID.String(),
		Name:           chef.Name,
		Email:          chef.Email,
		ProfilePicture: chef.ProfilePicture,
		Bio:            chef.Bio,
	}
}

// Register handles POST /api/chef/register.
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	chef, err := a.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Chef registered successfully",
		"chef":    toChefView(chef),
	})
}

// Login handles POST /api/chef/login.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token, chef, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"chef":    toChefView(chef),
	})
}
