package middleware

import (
	"errors"
	"strings"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// JWTAuth JWT authentication middleware. Resolves the (caller, role)
// pair before any core logic runs; failure is Unauthenticated.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header (query token fallback for WebSocket)
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		// 2. Verify token
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		// 3. Store caller identity in context
		c.Set("authUser", &domain.AuthUser{
			UserID: claims.UserID,
			Name:   claims.Name,
			Role:   claims.Role,
		})

		c.Next()
	}
}

// RequireAdmin rejects non-admin callers. Must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil || !user.IsAdmin() {
			common.ErrorResponse(c, 403, "Admin role required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAuthUser extracts the caller identity from context
func GetAuthUser(c *gin.Context) *domain.AuthUser {
	v, exists := c.Get("authUser")
	if !exists {
		return nil
	}
	if user, ok := v.(*domain.AuthUser); ok {
		return user
	}
	return nil
}
