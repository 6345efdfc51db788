package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shopapi/auth"
	"shopapi/database"
	"shopapi/utils"
)

// AuthMiddleware validates the bearer token and stores the claims in the
// gin context under "userId", "email" and "isAdmin".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.RespondError(c, http.StatusUnauthorized, utils.KindAuth, "Token required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			utils.RespondError(c, http.StatusUnauthorized, utils.KindAuth, "Invalid token format")
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if database.IsTokenBlacklisted(ctx, tokenString) {
			utils.RespondError(c, http.StatusUnauthorized, utils.KindAuth, "Token has been revoked")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, utils.KindAuth, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("isAdmin", claims.IsAdmin)
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("isAdmin")
		if !exists || isAdmin != true {
			utils.RespondError(c, http.StatusForbidden, utils.KindForbidden, "Access denied: admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
