package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"checkout-service/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	UserContextKey        = "userID"
	PermissionsContextKey = "permissions"
)

// AuthMiddleware resolves the caller. Behind the gateway the user arrives as
// an X-User-ID header (with X-User-Permissions alongside); for direct calls
// the signed `token` cookie the storefront sets is accepted instead.
func AuthMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		perms := models.ParsePermissions(c.GetHeader("X-User-Permissions"))

		if userID == "" {
			cookieID, cookiePerms, err := userFromCookie(c, jwtSecret)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			userID = cookieID
			perms = cookiePerms
		}

		uid, err := uuid.Parse(userID)
		if err != nil || uid == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(UserContextKey, uid)
		c.Set(PermissionsContextKey, perms)
		c.Next()
	}
}

func userFromCookie(c *gin.Context, jwtSecret []byte) (string, models.Permissions, error) {
	if len(jwtSecret) == 0 {
		return "", nil, errors.New("JWT secret not configured")
	}

	tokenStr, err := c.Cookie("token")
	if err != nil || tokenStr == "" {
		return "", nil, errors.New("no token cookie")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", nil, errors.New("invalid token claims")
	}

	userID, _ := claims["userId"].(string)
	if strings.TrimSpace(userID) == "" {
		return "", nil, errors.New("token missing userId claim")
	}

	var perms models.Permissions
	if raw, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range raw {
			if s, ok := p.(string); ok {
				perms = append(perms, models.Permission(strings.ToUpper(s)))
			}
		}
	}
	return userID, perms, nil
}

// GetUserID returns the resolved user id for the current request.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(uuid.UUID); ok && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, errors.New("user ID not found in context")
}

// GetPermissions returns the caller's capability set; empty if none resolved.
func GetPermissions(c *gin.Context) models.Permissions {
	if val, ok := c.Get(PermissionsContextKey); ok {
		if perms, ok := val.(models.Permissions); ok {
			return perms
		}
	}
	return nil
}
