package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/civicgrid/grievance-api/internal/model"
	"github.com/civicgrid/grievance-api/pkg/auth"
	"github.com/civicgrid/grievance-api/pkg/httputil"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextUserEmail = "userEmail"
)

type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the bearer token and sets the caller identity in
// the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextUserRole)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "missing identity")
			return
		}

		callerRole, ok := role.(model.Role)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "invalid identity")
			return
		}

		for _, allowed := range roles {
			if callerRole == allowed {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, "insufficient role")
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, httputil.Response{
		Success: false,
		Error:   &httputil.Error{Code: status, Message: message},
	})
}
