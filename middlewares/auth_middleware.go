package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smunch/smunch-backend/utils"
)

func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondAppError(c, utils.NewUnauthorized("Authorization header missing"))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondAppError(c, utils.NewUnauthorized("Invalid token format"))
			return
		}

		if len(secret) == 0 {
			utils.RespondAppError(c, utils.NewUnauthorized("Invalid or expired token"))
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil || claims == nil {
			utils.RespondAppError(c, utils.NewUnauthorized("Invalid or expired token"))
			return
		}

		if claims.UserID == 0 {
			utils.RespondAppError(c, utils.NewUnauthorized("Invalid user ID in token"))
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondAppError(c, utils.NewUnauthorized("unauthorized"))
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		utils.RespondAppError(c, utils.NewForbidden("insufficient permissions"))
	}
}
