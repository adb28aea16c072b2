package middleware

import (
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, cfg *config.Config, role model.UserRole) string {
	t.Helper()
	user := &model.User{Email: "ana@example.com", Role: role}
	user.ID = "u1"
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	return token
}

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		userID := ""
		if claims := util.GetUserFromContext(c); claims != nil {
			userID = claims.UserID
		}
		c.String(http.StatusOK, userID)
	}
	r.GET("/try", TryAuthMiddleware(cfg), whoami)
	r.GET("/admin", AuthMiddleware(cfg), RoleMiddleware(model.RoleAdmin), whoami)
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTryAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret"}}
	r := newAuthRouter(cfg)

	w := get(r, "/try", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = get(r, "/try", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = get(r, "/try", testToken(t, cfg, model.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestAdminRouteGuard(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret"}}
	r := newAuthRouter(cfg)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", testToken(t, cfg, model.RoleUser)).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", testToken(t, cfg, model.RoleAdmin)).Code)
}
