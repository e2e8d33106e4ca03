package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/auth"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/internal/repository"
)

type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if r.user != nil && r.user.Email == email {
		copied := *r.user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func setupRouter(t *testing.T, user *model.User) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	mw := NewAuthMiddleware(&stubUserRepo{user: user}, tokens)

	router := gin.New()
	protected := router.Group("/api", mw.RequireAuth())
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	protected.GET("/admin", mw.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router, tokens
}

func activeUser(role model.Role) *model.User {
	return &model.User{
		ID:       uuid.New(),
		Email:    "user@example.edu",
		Name:     "Test User",
		Role:     role,
		IsActive: true,
	}
}

func doRequest(router *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthMissingToken(t *testing.T) {
	router, _ := setupRouter(t, activeUser(model.RoleStudent))

	rec := doRequest(router, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authorization required")
}

func TestRequireAuthGarbageToken(t *testing.T) {
	router, _ := setupRouter(t, activeUser(model.RoleStudent))

	rec := doRequest(router, "/api/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not validate credentials")
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	user := activeUser(model.RoleStudent)
	router, tokens := setupRouter(t, user)

	refresh, _, err := tokens.IssueRefresh(user.Email)
	require.NoError(t, err)

	rec := doRequest(router, "/api/me", refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not validate credentials")
}

func TestRequireAuthUnknownSubject(t *testing.T) {
	router, tokens := setupRouter(t, activeUser(model.RoleStudent))

	access, _, err := tokens.IssueAccess("gone@example.edu")
	require.NoError(t, err)

	rec := doRequest(router, "/api/me", access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInactiveUser(t *testing.T) {
	user := activeUser(model.RoleStudent)
	user.IsActive = false
	router, tokens := setupRouter(t, user)

	access, _, err := tokens.IssueAccess(user.Email)
	require.NoError(t, err)

	rec := doRequest(router, "/api/me", access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "inactive user")
}

func TestRequireAuthValidToken(t *testing.T) {
	user := activeUser(model.RoleStudent)
	router, tokens := setupRouter(t, user)

	access, _, err := tokens.IssueAccess(user.Email)
	require.NoError(t, err)

	rec := doRequest(router, "/api/me", access)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthQueryParamFallback(t *testing.T) {
	user := activeUser(model.RoleStudent)
	router, tokens := setupRouter(t, user)

	access, _, err := tokens.IssueAccess(user.Email)
	require.NoError(t, err)

	rec := doRequest(router, "/api/me?token="+access, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminRejectsStudent(t *testing.T) {
	user := activeUser(model.RoleStudent)
	router, tokens := setupRouter(t, user)

	access, _, err := tokens.IssueAccess(user.Email)
	require.NoError(t, err)

	rec := doRequest(router, "/api/admin", access)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin access required")
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	user := activeUser(model.RoleAdmin)
	router, tokens := setupRouter(t, user)

	access, _, err := tokens.IssueAccess(user.Email)
	require.NoError(t, err)

	rec := doRequest(router, "/api/admin", access)
	assert.Equal(t, http.StatusOK, rec.Code)
}
