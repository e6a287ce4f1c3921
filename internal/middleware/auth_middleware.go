package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/swiftbus/booking-backend/pkg/jwt"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the authenticated user's information
type UserContext struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// AuthMiddleware creates a middleware that validates JWT bearer tokens
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, ok := resolveBearer(c, jwtService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   true,
				"message": "A valid bearer token is required",
			})
			c.Abort()
			return
		}

		c.Set(UserContextKey, userCtx)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a bearer token when one is present but
// lets anonymous requests through. Used on the booking creation route so
// guests can book without an account.
func OptionalAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if userCtx, ok := resolveBearer(c, jwtService); ok {
				c.Set(UserContextKey, userCtx)
			}
		}
		c.Next()
	}
}

func resolveBearer(c *gin.Context, jwtService *jwt.Service) (UserContext, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return UserContext{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return UserContext{}, false
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return UserContext{}, false
	}

	claims, err := jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return UserContext{}, false
	}

	return UserContext{UserID: claims.UserID, Email: claims.Email}, true
}

// GetUserContext retrieves the authenticated user from the Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}
	userCtx, ok := value.(UserContext)
	return userCtx, ok
}
