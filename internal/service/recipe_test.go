package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chefshare/backend/internal/apperror"
	"github.com/chefshare/backend/internal/models"
	"github.com/chefshare/backend/internal/testhelpers"
)

func seedChef(t *testing.T, db *gorm.DB, name, email string) *models.Chef {
	t.Helper()
	chef := &models.Chef{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(chef).Error)
	return chef
}

func seedRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, title, category string, createdAt time.Time) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Title:       title,
		Description: "A " + title + " everyone loves",
		Ingredients: models.JSONBStringArray{"salt"},
		Steps:       models.JSONBStringArray{"cook"},
		Category:    category,
		Image:       "https://blobs.test/recipes/x.jpg",
		ImageKey:    "recipes/x.jpg",
		AuthorID:    authorID,
		IsPublic:    true,
		Comments:    models.CommentList{},
	}
	require.NoError(t, db.Create(recipe).Error)
	if !createdAt.IsZero() {
		require.NoError(t, db.Model(recipe).Update("created_at", createdAt).Error)
		recipe.CreatedAt = createdAt
	}
	return recipe
}

func TestParseInput(t *testing.T) {
	svc := NewRecipeService(nil)

	t.Run("valid", func(t *testing.T) {
		draft, err := svc.ParseInput(PublishInput{
			Title:       " Carbonara ",
			Description: "Roman classic",
			Ingredients: `["eggs", "guanciale", "pecorino"]`,
			Steps:       `["whisk", "fry", "toss"]`,
			PrepTime:    "10",
			CookTime:    "15",
			Servings:    "4",
			Category:    "Pasta",
			Tags:        []string{`["italian", "quick"]`},
		})
		require.NoError(t, err)
		assert.Equal(t, "Carbonara", draft.Title)
		assert.Equal(t, []string{"eggs", "guanciale", "pecorino"}, draft.Ingredients)
		assert.Equal(t, []string{"whisk", "fry", "toss"}, draft.Steps)
		require.NotNil(t, draft.PrepTime)
		assert.Equal(t, 10, *draft.PrepTime)
		assert.Equal(t, "Pasta", draft.Category)
		assert.Equal(t, []string{"italian", "quick"}, draft.Tags)
	})

	t.Run("tags as repeated values", func(t *testing.T) {
		draft, err := svc.ParseInput(PublishInput{
			Title:       "Toast",
			Description: "Bread, but better",
			Ingredients: `["bread"]`,
			Steps:       `["toast"]`,
			Tags:        []string{"breakfast", "easy"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"breakfast", "easy"}, draft.Tags)
	})

	t.Run("optional fields absent", func(t *testing.T) {
		draft, err := svc.ParseInput(PublishInput{
			Title:       "Toast",
			Description: "Bread, but better",
			Ingredients: `["bread"]`,
			Steps:       `["toast"]`,
		})
		require.NoError(t, err)
		assert.Nil(t, draft.PrepTime)
		assert.Nil(t, draft.CookTime)
		assert.Nil(t, draft.Servings)
		assert.Empty(t, draft.Category)
		assert.Empty(t, draft.Tags)
	})

	invalid := []struct {
		name  string
		in    PublishInput
		field string
	}{
		{"missing title", PublishInput{Description: "d", Ingredients: `["a"]`, Steps: `["b"]`}, "title"},
		{"missing description", PublishInput{Title: "t", Ingredients: `["a"]`, Steps: `["b"]`}, "description"},
		{"ingredients not JSON", PublishInput{Title: "t", Description: "d", Ingredients: "eggs, flour", Steps: `["b"]`}, "ingredients"},
		{"ingredients empty array", PublishInput{Title: "t", Description: "d", Ingredients: `[]`, Steps: `["b"]`}, "ingredients"},
		{"ingredients blank entry", PublishInput{Title: "t", Description: "d", Ingredients: `["a", "  "]`, Steps: `["b"]`}, "ingredients"},
		{"steps missing", PublishInput{Title: "t", Description: "d", Ingredients: `["a"]`}, "steps"},
		{"negative prep time", PublishInput{Title: "t", Description: "d", Ingredients: `["a"]`, Steps: `["b"]`, PrepTime: "-5"}, "prepTime"},
		{"non-numeric servings", PublishInput{Title: "t", Description: "d", Ingredients: `["a"]`, Steps: `["b"]`, Servings: "four"}, "servings"},
		{"blank category", PublishInput{Title: "t", Description: "d", Ingredients: `["a"]`, Steps: `["b"]`, Category: "   "}, "category"},
		{"blank tag", PublishInput{Title: "t", Description: "d", Ingredients: `["a"]`, Steps: `["b"]`, Tags: []string{"ok", " "}}, "tags"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseInput(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestCreatePersistsDraft(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db)
	chef := seedChef(t, db, "Julia", "julia@example.com")

	prep := 10
	draft := &RecipeDraft{
		Title:       "Carbonara",
		Description: "Roman classic",
		Ingredients: []string{"eggs", "guanciale"},
		Steps:       []string{"whisk", "toss"},
		PrepTime:    &prep,
		Category:    "Pasta",
		Tags:        []string{"italian"},
	}
	recipe, err := svc.Create(context.Background(), chef.ID, draft, BlobRef{
		URL: "https://blobs.test/recipes/carbonara.jpg",
		Key: "recipes/carbonara.jpg",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.True(t, recipe.IsPublic)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Equal(t, models.JSONBStringArray{"eggs", "guanciale"}, stored.Ingredients)
	assert.Equal(t, "recipes/carbonara.jpg", stored.ImageKey)
	assert.Equal(t, chef.ID, stored.AuthorID)
}

func TestListPagination(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db)
	chef := seedChef(t, db, "Julia", "julia@example.com")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedRecipe(t, db, chef.ID, fmt.Sprintf("Dish %02d", i), "Dinner", base.Add(time.Duration(i)*time.Hour))
	}

	res, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Items, 10)
	assert.Equal(t, "Dish 24", res.Items[0].Title, "newest first")

	res, err = svc.List(context.Background(), ListParams{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Items, 5)

	res, err = svc.List(context.Background(), ListParams{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 3, res.TotalPages)

	// The same query over unchanged data returns identical output.
	again, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	first, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestListRejectsBadPaging(t *testing.T) {
	svc := NewRecipeService(testhelpers.SetupTestDatabase(t))

	_, err := svc.List(context.Background(), ListParams{Page: 0, Limit: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = svc.List(context.Background(), ListParams{Page: 1, Limit: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db)
	chef := seedChef(t, db, "Julia", "julia@example.com")

	seedRecipe(t, db, chef.ID, "Pasta Primavera", "Dinner", time.Time{})
	seedRecipe(t, db, chef.ID, "Green Salad", "Lunch", time.Time{})
	fish := seedRecipe(t, db, chef.ID, "Baked Fish", "Dinner", time.Time{})
	require.NoError(t, db.Model(fish).Update("description", "Serve with PASTA on the side").Error)

	res, err := svc.List(context.Background(), ListParams{Search: "pasta", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total, "matches title and description")

	titles := []string{res.Items[0].Title, res.Items[1].Title}
	assert.Contains(t, titles, "Pasta Primavera")
	assert.Contains(t, titles, "Baked Fish")
}

func TestListDateRange(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db)
	chef := seedChef(t, db, "Julia", "julia@example.com")

	seedRecipe(t, db, chef.ID, "January Stew", "Dinner", time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	seedRecipe(t, db, chef.ID, "February Pie", "Dessert", time.Date(2026, 2, 10, 23, 30, 0, 0, time.UTC))
	seedRecipe(t, db, chef.ID, "March Roast", "Dinner", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	res, err := svc.List(context.Background(), ListParams{
		StartDate: "2026-02-01",
		EndDate:   "2026-02-10",
		Page:      1,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "February Pie", res.Items[0].Title, "end date is inclusive through end of day")

	_, err = svc.List(context.Background(), ListParams{StartDate: "02/01/2026", Page: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestListByChefName(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db)
	julia := seedChef(t, db, "Julia", "julia@example.com")
	marco := seedChef(t, db, "Marco", "marco@example.com")

	seedRecipe(t, db, julia.ID, "Quiche", "Brunch", time.Time{})
	seedRecipe(t, db, marco.ID, "Risotto", "Dinner", time.Time{})

	res, err := svc.List(context.Background(), ListParams{ChefName: "mar", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Risotto", res.Items[0].Title)
	assert.Equal(t, "Marco", res.Items[0].Author.Name)

	_, err = svc.List(context.Background(), ListParams{ChefName: "nonexistent", Page: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestListByCategory(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db)
	chef := seedChef(t, db, "Julia", "julia@example.com")

	seedRecipe(t, db, chef.ID, "Quiche", "Brunch", time.Time{})
	seedRecipe(t, db, chef.ID, "Tiramisu", "Dessert", time.Time{})

	res, err := svc.List(context.Background(), ListParams{Category: "Dessert", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Tiramisu", res.Items[0].Title)

	// Unknown category is an empty result, not an error.
	res, err = svc.List(context.Background(), ListParams{Category: "Midnight Snack", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)
}

func TestAddComment(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db)
	chef := seedChef(t, db, "Julia", "julia@example.com")
	recipe := seedRecipe(t, db, chef.ID, "Quiche", "Brunch", time.Time{})

	comment, err := svc.AddComment(context.Background(), recipe.ID, chef.ID, "  Lovely crust!  ")
	require.NoError(t, err)
	assert.Equal(t, "Lovely crust!", comment.Comment)
	assert.Equal(t, chef.ID, comment.CommenterID)

	stored, err := svc.GetByID(context.Background(), recipe.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, comment.ID, stored.Comments[0].ID)

	_, err = svc.AddComment(context.Background(), recipe.ID, chef.ID, "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = svc.AddComment(context.Background(), uuid.New(), chef.ID, "Hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestDeleteComment(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db)
	owner := seedChef(t, db, "Julia", "julia@example.com")
	other := seedChef(t, db, "Marco", "marco@example.com")
	recipe := seedRecipe(t, db, owner.ID, "Quiche", "Brunch", time.Time{})

	comment, err := svc.AddComment(context.Background(), recipe.ID, owner.ID, "Mine")
	require.NoError(t, err)

	err = svc.DeleteComment(context.Background(), recipe.ID, comment.ID, other.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrAuth))

	require.NoError(t, svc.DeleteComment(context.Background(), recipe.ID, comment.ID, owner.ID))

	stored, err := svc.GetByID(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Comments)

	err = svc.DeleteComment(context.Background(), recipe.ID, comment.ID, owner.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
