package middlewares

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/ffbaudit_backend/appctx"
	"github.com/mmdatafocus/ffbaudit_backend/utils"
)

// RequireAuth guards the run-triggering endpoints with a bearer token.
// Set AUTH_DISABLED=1 to run the service open (local use only).
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(os.Getenv("AUTH_DISABLED")) == "1" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := utils.JwtValidate(raw)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if claims, ok := token.Claims.(*utils.JwtCustomClaim); ok {
			ctx := appctx.Set(c.Request.Context(), appctx.ContextKeyUserId, claims.ID)
			ctx = appctx.Set(ctx, appctx.ContextKeyToken, raw)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
