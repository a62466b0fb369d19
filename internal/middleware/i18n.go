package middleware

import (
	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// I18n middleware detects the client's preferred language from Accept-Language header
// and stores it in the gin context for error messages.
func I18n() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
		c.Set(common.LocaleKey, locale)
		c.Header("Content-Language", string(locale))
		c.Next()
	}
}
