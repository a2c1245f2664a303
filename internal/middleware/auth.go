package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medadmin/hospital-api/internal/handler"
	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/service/auth"
)

const (
	// AuthCookie carries the access token for browser clients. API clients
	// may send a Bearer header instead; the cookie wins when both are set.
	AuthCookie = "Authentication"

	ContextClaims = "claims"
	ContextUser   = "user"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the access token and sets the claims and the full
// user record in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing credentials"))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		user, err := m.authService.GetUser(c.Request.Context(), claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("account no longer exists"))
			c.Abort()
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireRole gates a route group to one role. Runs after Authenticate.
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFromContext(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing credentials"))
			c.Abort()
			return
		}

		if user.Role != role {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// UserFromContext returns the authenticated user, or nil on public routes.
func UserFromContext(c *gin.Context) *model.User {
	if v, exists := c.Get(ContextUser); exists {
		return v.(*model.User)
	}
	return nil
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
