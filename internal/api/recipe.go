package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chefshare/backend/internal/middleware"
	"github.com/chefshare/backend/internal/models"
	"github.com/chefshare/backend/internal/service"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// PublishRecipe handles POST /api/recipe. The request is multipart: the
// recipe fields come as form values (list fields JSON-encoded) and the
// image under the "image" field. All fields are validated before the
// image leaves the server.
func (a *API) PublishRecipe(c *gin.Context) {
	identity, ok := middleware.CurrentChef(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Chef is not authorized"})
		return
	}

	draft, err := a.recipes.ParseInput(service.PublishInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Ingredients: c.PostForm("ingredients"),
		Steps:       c.PostForm("steps"),
		PrepTime:    c.PostForm("prepTime"),
		CookTime:    c.PostForm("cookTime"),
		Servings:    c.PostForm("servings"),
		Category:    c.PostForm("category"),
		Tags:        c.PostFormArray("tags"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	in, closeFile, err := uploadInputFromHeader(header)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFile()

	var recipe *models.Recipe
	_, err = a.uploads.UploadAndLink(c.Request.Context(), in, service.UploadTarget{
		Folder: "image",
		Link: func(ctx context.Context, ref service.BlobRef) error {
			var linkErr error
			recipe, linkErr = a.recipes.Create(ctx, identity.ID, draft, ref)
			return linkErr
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe added successfully",
		"recipe":  recipe,
	})
}

// ListRecipes handles GET /api/recipe/recipe with optional search, date,
// chef and category filters plus pagination.
func (a *API) ListRecipes(c *gin.Context) {
	page, err := positiveIntQuery(c, "page", defaultPage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "page must be a positive integer"})
		return
	}
	limit, err := positiveIntQuery(c, "limit", defaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a positive integer"})
		return
	}

	result, err := a.recipes.List(c.Request.Context(), service.ListParams{
		Search:    c.Query("search"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		ChefName:  c.Query("chef"),
		Category:  c.Query("category"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       result.Items,
		"total":      result.Total,
		"page":       result.Page,
		"totalPages": result.TotalPages,
	})
}

func positiveIntQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

type addCommentRequest struct {
	Comment string `json:"comment"`
}

// AddComment handles POST /api/recipe/:id/comments.
func (a *API) AddComment(c *gin.Context) {
	identity, ok := middleware.CurrentChef(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Chef is not authorized"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	comment, err := a.recipes.AddComment(c.Request.Context(), recipeID, identity.ID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// DeleteComment handles DELETE /api/recipe/:id/comments/:commentId.
func (a *API) DeleteComment(c *gin.Context) {
	identity, ok := middleware.CurrentChef(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Chef is not authorized"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return
	}
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment id"})
		return
	}

	if err := a.recipes.DeleteComment(c.Request.Context(), recipeID, commentID, identity.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
