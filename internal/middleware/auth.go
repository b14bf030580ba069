package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"poll-quiz-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// Claims mirrors the token issued by the auth service.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and stores the caller's identity in
// the request context. Token issuance lives in the auth service.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		role := claims.Role
		if role == "" {
			role = models.RoleStudent
		}
		c.Set(identityKey, models.Identity{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  role,
		})
		c.Next()
	}
}

// RequireRole gates a route group on the caller's role. Admins pass
// every gate.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := Identity(c)
		if identity.Role != role && identity.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Identity returns the authenticated caller set by Auth.
func Identity(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Identity{}
}

// SetIdentity injects an identity directly; handler tests use it in
// place of Auth.
func SetIdentity(c *gin.Context, id models.Identity) {
	c.Set(identityKey, id)
}
