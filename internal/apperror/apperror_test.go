package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	assert.True(t, errors.Is(Validation("title", "title is required"), ErrValidation))
	assert.True(t, errors.Is(Conflict("chef already exists"), ErrConflict))
	assert.True(t, errors.Is(Auth("token is missing"), ErrAuth))
	assert.True(t, errors.Is(NotFound("chef not found"), ErrNotFound))
	assert.True(t, errors.Is(Storage("upload image", errors.New("timeout")), ErrStorage))
	assert.False(t, errors.Is(NotFound("chef not found"), ErrValidation))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", Validation("page", "page must be >= 1"), http.StatusBadRequest},
		{"conflict", Conflict("chef already exists"), http.StatusConflict},
		{"credentials", InvalidCredentials(), http.StatusUnauthorized},
		{"auth", Auth("chef is not authorized"), http.StatusForbidden},
		{"not found", NotFound("recipe not found"), http.StatusNotFound},
		{"storage", Storage("delete image", errors.New("refused")), http.StatusInternalServerError},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
}

func TestValidationField(t *testing.T) {
	err := Validation("ingredients", "ingredients must be a non-empty array")
	assert.Equal(t, "ingredients", err.Field)
	assert.Equal(t, "ingredients must be a non-empty array", err.Error())
}
