package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefshare/backend/internal/api"
	"github.com/chefshare/backend/internal/service"
	"github.com/chefshare/backend/internal/testhelpers"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "https://blobs.test/" + key, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// TestRecipeLifecycle runs the whole flow against a containerized
// PostgreSQL database: register, login, publish a recipe with an image,
// then find it through the catalog query.
func TestRecipeLifecycle(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	gin.SetMode(gin.TestMode)

	store := &memoryStore{objects: make(map[string][]byte)}
	handlers := api.New(
		service.NewAuthService(db, "integration-secret"),
		service.NewRecipeService(db),
		service.NewUploadService(store),
	)
	r := gin.New()
	handlers.RegisterRoutes(r, nil, nil)

	// Register.
	w := postJSON(t, r, "/api/chef/register", "", map[string]string{
		"name":     "Julia",
		"email":    "julia@example.com",
		"password": "Sup3r$ecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Login.
	w = postJSON(t, r, "/api/chef/login", "", map[string]string{
		"email":    "julia@example.com",
		"password": "Sup3r$ecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)

	// Publish a recipe with its image.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":       "Carbonara",
		"description": "Roman classic",
		"ingredients": `["eggs", "guanciale", "pecorino"]`,
		"steps":       `["whisk", "fry", "toss"]`,
		"category":    "Pasta",
		"tags":        `["italian"]`,
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, "image", "carbonara.jpg"))
	h.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/recipe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, store.objects, 1)

	// Query the catalog by category.
	req = httptest.NewRequest(http.MethodGet, "/api/recipe/recipe?category=Pasta&search=carbo", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var listResp struct {
		Data []struct {
			Title  string `json:"title"`
			Author struct {
				Name string `json:"name"`
			} `json:"author"`
		} `json:"data"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Total)
	assert.Equal(t, 1, listResp.TotalPages)
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, "Carbonara", listResp.Data[0].Title)
	assert.Equal(t, "Julia", listResp.Data[0].Author.Name)
}

func postJSON(t *testing.T, r *gin.Engine, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
