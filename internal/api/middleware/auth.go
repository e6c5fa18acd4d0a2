package middleware

import (
	"net/http"
	"strings"

	"firetrack-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

var jwtUtil *jwt.JWTUtil

func init() {
	jwtUtil = jwt.NewJWTUtil()
}

// AuthMiddleware validates the bearer token and stores the actor identity on
// the context. Role enforcement happens in the service layer so disallowed
// operations fail with an authorization error instead of a silent no-op.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("display_name", claims.DisplayName)
		c.Set("role", claims.Role)
		c.Next()
	}
}
