package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fisiomanager/clinic-api/internal/model"
	"github.com/fisiomanager/clinic-api/pkg/auth"
	"github.com/fisiomanager/clinic-api/pkg/tokenstore"
)

const (
	ContextClaims = "claims"
	ContextToken  = "access_token"
)

type AuthMiddleware struct {
	jwtSvc auth.JWTService
	tokens tokenstore.Store
}

func NewAuthMiddleware(jwtSvc auth.JWTService, tokens tokenstore.Store) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc, tokens: tokens}
}

// Authenticate validates the bearer token, rejects revoked tokens and sets
// the principal in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "missing authorization header",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid authorization format",
			})
			return
		}
		token := parts[1]

		claims, err := m.jwtSvc.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid token",
			})
			return
		}

		revoked, err := m.tokens.IsRevoked(c.Request.Context(), token)
		if err != nil || revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid token",
			})
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextToken, token)
		c.Next()
	}
}

// Claims extracts the authenticated principal set by Authenticate.
func Claims(c *gin.Context) (*model.TokenClaims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*model.TokenClaims)
	return claims, ok
}

// RequireAdmin rejects non-admin principals.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok || claims.Role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "admin role required",
			})
			return
		}
		c.Next()
	}
}
