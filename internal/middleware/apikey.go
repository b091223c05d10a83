package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the header the mobile app sends its static key in.
const APIKeyHeader = "apikey"

// APIKey rejects requests without the app's key. An empty key disables the check.
func APIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure(models.ErrUnauthorized, "Invalid API key"))
			return
		}
		c.Next()
	}
}
