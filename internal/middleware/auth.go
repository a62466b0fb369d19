package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/pkg/i18n"
	"github.com/damoang/eventhub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth
const (
	ctxUserID   = "userID"
	ctxUserName = "userName"
	ctxRole     = "role"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// websocket clients cannot set headers
			if token := c.Query("token"); token != "" && isUpgrade(c) {
				authHeader = "Bearer " + token
			}
		}
		if authHeader == "" {
			unauthorized(c, "error.unauthorized", nil)
			return
		}

		// 2. Parse Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "auth.token_invalid", nil)
			return
		}

		// 3. Verify token
		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				unauthorized(c, "auth.token_expired", err)
			} else {
				unauthorized(c, "auth.token_invalid", err)
			}
			return
		}
		id, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil {
			unauthorized(c, "auth.token_invalid", err)
			return
		}

		// 4. Store user info in context
		c.Set(ctxUserID, id)
		c.Set(ctxUserName, claims.Name)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

func isUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

func unauthorized(c *gin.Context, key string, err error) {
	common.ErrorResponse(c, http.StatusUnauthorized, i18n.Default().T(common.LocaleFrom(c), key), err)
}

// GetUserID extracts user ID from context; 0 when unauthenticated
func GetUserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}

// GetUserName extracts the display name from context
func GetUserName(c *gin.Context) string {
	return c.GetString(ctxUserName)
}

// GetRole extracts the role from context
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}
