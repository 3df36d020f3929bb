package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chefshare/backend/internal/apperror"
	"github.com/chefshare/backend/internal/models"
)

const dateLayout = "2006-01-02"

// RecipeService owns the recipe catalog: publishing, querying and
// comment management.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// PublishInput carries the raw form fields of a publish request.
// Ingredients and steps arrive as JSON-encoded arrays; the numeric
// fields arrive as strings and may be empty.
type PublishInput struct {
	Title       string
	Description string
	Ingredients string
	Steps       string
	PrepTime    string
	CookTime    string
	Servings    string
	Category    string
	Tags        []string
}

// RecipeDraft is a fully validated publish request, ready to persist.
type RecipeDraft struct {
	Title       string
	Description string
	Ingredients []string
	Steps       []string
	PrepTime    *int
	CookTime    *int
	Servings    *int
	Category    string
	Tags        []string
}

// ParseInput validates the raw form fields and decodes the serialized
// array fields. It performs no writes; publishing only proceeds once
// every field has been accepted.
func (s *RecipeService) ParseInput(in PublishInput) (*RecipeDraft, error) {
	draft := &RecipeDraft{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
	if draft.Title == "" {
		return nil, apperror.Validation("title", "Title is required")
	}
	if draft.Description == "" {
		return nil, apperror.Validation("description", "Description is required")
	}

	var err error
	if draft.Ingredients, err = decodeStringArray("ingredients", "Ingredients", in.Ingredients); err != nil {
		return nil, err
	}
	if draft.Steps, err = decodeStringArray("steps", "Steps", in.Steps); err != nil {
		return nil, err
	}
	if draft.PrepTime, err = decodeOptionalInt("prepTime", in.PrepTime); err != nil {
		return nil, err
	}
	if draft.CookTime, err = decodeOptionalInt("cookTime", in.CookTime); err != nil {
		return nil, err
	}
	if draft.Servings, err = decodeOptionalInt("servings", in.Servings); err != nil {
		return nil, err
	}

	draft.Category = strings.TrimSpace(in.Category)
	if in.Category != "" && draft.Category == "" {
		return nil, apperror.Validation("category", "Category must not be blank")
	}

	if draft.Tags, err = decodeTags(in.Tags); err != nil {
		return nil, err
	}
	return draft, nil
}

// decodeStringArray parses a required, JSON-encoded array of non-empty
// strings, as the publish form serializes list fields.
func decodeStringArray(field, label, raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperror.Validation(field, fmt.Sprintf("%s is required", label))
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, apperror.Validation(field, fmt.Sprintf("%s must be a JSON array of strings", label))
	}
	if len(items) == 0 {
		return nil, apperror.Validation(field, fmt.Sprintf("%s must be a non-empty array", label))
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, apperror.Validation(field, fmt.Sprintf("%s must not contain empty entries", label))
		}
		out = append(out, item)
	}
	return out, nil
}

func decodeOptionalInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, apperror.Validation(field, fmt.Sprintf("%s must be a non-negative integer", field))
	}
	return &n, nil
}

// decodeTags accepts tags either as repeated form values or as a single
// JSON-encoded array.
func decodeTags(raw []string) ([]string, error) {
	if len(raw) == 1 {
		trimmed := strings.TrimSpace(raw[0])
		if strings.HasPrefix(trimmed, "[") {
			var items []string
			if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
				return nil, apperror.Validation("tags", "Tags must be a JSON array of strings")
			}
			raw = items
		}
	}
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return nil, apperror.Validation("tags", "Tags must not contain empty entries")
		}
		out = append(out, tag)
	}
	return out, nil
}

// Create persists a validated draft as a recipe owned by the author,
// pointing at the already-uploaded image.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, draft *RecipeDraft, image BlobRef) (*models.Recipe, error) {
	recipe := models.Recipe{
		Title:       draft.Title,
		Description: draft.Description,
		Ingredients: models.JSONBStringArray(draft.Ingredients),
		Steps:       models.JSONBStringArray(draft.Steps),
		PrepTime:    draft.PrepTime,
		CookTime:    draft.CookTime,
		Servings:    draft.Servings,
		Category:    draft.Category,
		Tags:        models.JSONBStringArray(draft.Tags),
		Image:       image.URL,
		ImageKey:    image.Key,
		AuthorID:    authorID,
		IsPublic:    true,
		Comments:    models.CommentList{},
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, apperror.Storage("create recipe", err)
	}
	return &recipe, nil
}

// ListParams are the catalog query filters. Zero values mean "not set";
// Page and Limit must both be at least 1.
type ListParams struct {
	Search    string
	StartDate string
	EndDate   string
	ChefName  string
	Category  string
	Page      int
	Limit     int
}

// RecipeAuthor is the author view embedded in catalog results.
type RecipeAuthor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeItem is one catalog entry with its author resolved.
type RecipeItem struct {
	*models.Recipe
	Author RecipeAuthor `json:"author"`
}

// ListResult is one page of catalog results.
type ListResult struct {
	Items      []RecipeItem `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
}

// List queries the catalog with the given filters, newest first.
// Search matches title or description case-insensitively; the date
// bounds are inclusive whole days; chef filters by author name and
// fails with not-found when no chef matches.
func (s *RecipeService) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Page < 1 {
		return nil, apperror.Validation("page", "page must be a positive integer")
	}
	if params.Limit < 1 {
		return nil, apperror.Validation("limit", "limit must be a positive integer")
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if search := strings.TrimSpace(params.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if params.StartDate != "" {
		start, err := time.Parse(dateLayout, params.StartDate)
		if err != nil {
			return nil, apperror.Validation("startDate", "Invalid startDate. Use YYYY-MM-DD")
		}
		query = query.Where("created_at >= ?", start)
	}
	if params.EndDate != "" {
		end, err := time.Parse(dateLayout, params.EndDate)
		if err != nil {
			return nil, apperror.Validation("endDate", "Invalid endDate. Use YYYY-MM-DD")
		}
		// Inclusive: the whole end day is in range.
		query = query.Where("created_at < ?", end.Add(24*time.Hour))
	}

	if chef := strings.TrimSpace(params.ChefName); chef != "" {
		var chefIDs []uuid.UUID
		like := "%" + strings.ToLower(chef) + "%"
		err := s.db.WithContext(ctx).
			Model(&models.Chef{}).
			Where("LOWER(name) LIKE ?", like).
			Pluck("id", &chefIDs).Error
		if err != nil {
			return nil, apperror.Storage("look up chefs", err)
		}
		if len(chefIDs) == 0 {
			return nil, apperror.NotFound("No chef found with that name")
		}
		query = query.Where("author_id IN ?", chefIDs)
	}

	if category := strings.TrimSpace(params.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Storage("count recipes", err)
	}

	var recipes []models.Recipe
	err := query.
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Preload("Author").
		Find(&recipes).Error
	if err != nil {
		return nil, apperror.Storage("list recipes", err)
	}

	items := make([]RecipeItem, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		author := RecipeAuthor{ID: r.AuthorID}
		if r.Author != nil {
			author.Name = r.Author.Name
		}
		items = append(items, RecipeItem{Recipe: r, Author: author})
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		TotalPages: int(math.Ceil(float64(total) / float64(params.Limit))),
	}, nil
}

// GetByID loads a single recipe with its author.
func (s *RecipeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Recipe not found")
	}
	if err != nil {
		return nil, apperror.Storage("look up recipe", err)
	}
	return &recipe, nil
}

// AddComment appends a comment to the recipe's embedded comment list.
func (s *RecipeService) AddComment(ctx context.Context, recipeID, chefID uuid.UUID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Validation("comment", "Comment is required")
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Where("id = ?", recipeID).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Recipe not found")
	}
	if err != nil {
		return nil, apperror.Storage("look up recipe", err)
	}

	comment := models.Comment{
		ID:          uuid.New(),
		CommenterID: chefID,
		Comment:     text,
		CreatedAt:   time.Now().UTC(),
	}
	recipe.Comments = append(recipe.Comments, comment)
	if err := s.db.WithContext(ctx).Model(&recipe).Update("comments", recipe.Comments).Error; err != nil {
		return nil, apperror.Storage("save comment", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment; only its author may delete it.
func (s *RecipeService) DeleteComment(ctx context.Context, recipeID, commentID, chefID uuid.UUID) error {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Where("id = ?", recipeID).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Recipe not found")
	}
	if err != nil {
		return apperror.Storage("look up recipe", err)
	}

	idx := -1
	for i, c := range recipe.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperror.NotFound("Comment not found")
	}
	if recipe.Comments[idx].CommenterID != chefID {
		return apperror.Auth("You can only delete your own comments")
	}

	recipe.Comments = append(recipe.Comments[:idx], recipe.Comments[idx+1:]...)
	if err := s.db.WithContext(ctx).Model(&recipe).Update("comments", recipe.Comments).Error; err != nil {
		return apperror.Storage("delete comment", err)
	}
	return nil
}
