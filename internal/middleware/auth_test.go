package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mathlearn_backend/internal/config"
	"mathlearn_backend/internal/model"
	"mathlearn_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "middleware-test-secret",
			ExpireTime: time.Hour,
		},
	}
}

func tokenFor(t *testing.T, cfg *config.Config, role model.UserRole) string {
	t.Helper()
	user := &model.User{
		BaseModel: model.BaseModel{ID: 7},
		Email:     "user@mathlearn.dev",
		Role:      role,
	}
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	assert.NoError(t, err)
	return token
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.GET("/secure", AuthMiddleware(config.NewProvider(cfg)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_AcceptsBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	var gotUserID uint
	router := gin.New()
	router.GET("/secure", AuthMiddleware(config.NewProvider(cfg)), func(c *gin.Context) {
		gotUserID = util.GetUserFromContext(c).UserID
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Student))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), gotUserID)
}

func TestAuthMiddleware_RejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.GET("/secure", AuthMiddleware(config.NewProvider(cfg)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_UsesRotatedSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	settings := config.NewProvider(cfg)

	router := gin.New()
	router.GET("/secure", AuthMiddleware(settings), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	oldToken := tokenFor(t, cfg, model.Student)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+oldToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// After a reload swaps in a new secret, tokens signed with the old one
	// stop validating and newly issued tokens work.
	rotated := &config.Config{
		JWT: config.JWTConfig{Secret: "rotated-middleware-secret", ExpireTime: time.Hour},
	}
	settings.Swap(rotated)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+oldToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, rotated, model.Student))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTryAuthMiddleware_AllowsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.GET("/open", TryAuthMiddleware(config.NewProvider(cfg)), func(c *gin.Context) {
		assert.Nil(t, util.GetUserFromContext(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleMiddleware_BlocksStudentFromAdminRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.GET("/admin", AuthMiddleware(config.NewProvider(cfg)), RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Student))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleMiddleware_AdminPasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	router := gin.New()
	router.GET("/admin", AuthMiddleware(config.NewProvider(cfg)), RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Admin))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
