package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *Service, func()) {
	gin.SetMode(gin.TestMode)

	service, repo, cleanup := setupTestService(t)
	_ = repo

	router := gin.New()
	authed := router.Group("/", RequireUser(service))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": CurrentUser(c).Email})
	})
	authed.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router, service, cleanup
}

func TestRequireUser_NoHeader(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Contains(t, w.Body.String(), "detail")
}

func TestRequireUser_MalformedHeader(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_ValidToken(t *testing.T) {
	router, service, cleanup := setupTestRouter(t)
	defer cleanup()

	_, err := service.Register("student@example.com", "Jane Doe", "password123")
	require.NoError(t, err)
	token, _, err := service.Authenticate("student@example.com", "password123")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student@example.com")
}

func TestRequireAdmin_RegularUser(t *testing.T) {
	router, service, cleanup := setupTestRouter(t)
	defer cleanup()

	_, err := service.Register("student@example.com", "Jane Doe", "password123")
	require.NoError(t, err)
	token, _, err := service.Authenticate("student@example.com", "password123")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AdminUser(t *testing.T) {
	router, service, cleanup := setupTestRouter(t)
	defer cleanup()

	user, err := service.Register("admin@example.com", "Site Admin", "password123")
	require.NoError(t, err)
	_, err = service.users.Update(user.ID, map[string]any{"is_admin": true})
	require.NoError(t, err)

	token, _, err := service.Authenticate("admin@example.com", "password123")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
