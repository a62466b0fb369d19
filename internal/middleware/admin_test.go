package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damoang/eventhub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func roleRouter(role string, id uint64, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(ctxRole, role)
			c.Set(ctxUserID, id)
		}
		c.Next()
	})
	r.Use(guard)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"admin", jwt.RoleAdmin, http.StatusOK},
		{"member", jwt.RolePartner, http.StatusForbidden},
		{"anonymous", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			w := serve(t, roleRouter(tt.role, 1, RequireAdmin()), req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireMember(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, serve(t, roleRouter(jwt.RoleRepresentative, 3, RequireMember()), req).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, roleRouter(jwt.RoleAdmin, 3, RequireMember()), req).Code)
}

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := jwt.NewManager("secret", 60, 120)
	r := gin.New()
	r.Use(I18n(), JWTAuth(manager))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "role": GetRole(c), "name": GetUserName(c)})
	})

	token, err := manager.GenerateAccessToken("42", "Aiko", jwt.RolePartner)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"role":"partner","name":"Aiko"}`, w.Body.String())

	refresh, err := manager.GenerateRefreshToken("42", "Aiko", jwt.RolePartner)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, serve(t, r, req).Code)

	req.Header.Del("Authorization")
	req.Header.Set("Accept-Language", "en")
	w = serve(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}
