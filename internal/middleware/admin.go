package middleware

import (
	"net/http"

	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/pkg/i18n"
	"github.com/damoang/eventhub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// RequireAdmin allows staff tokens only
func RequireAdmin() gin.HandlerFunc {
	return requireRole(jwt.RoleAdmin)
}

// RequireMember allows member tokens (representative or partner)
func RequireMember() gin.HandlerFunc {
	return requireRole(jwt.RoleRepresentative, jwt.RolePartner)
}

func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, r := range roles {
			if role == r && GetUserID(c) != 0 {
				c.Next()
				return
			}
		}
		common.ErrorResponse(c, http.StatusForbidden, i18n.Default().T(common.LocaleFrom(c), "error.forbidden"), nil)
	}
}
