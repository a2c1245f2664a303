package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medadmin/hospital-api/internal/handler"
	"github.com/medadmin/hospital-api/internal/middleware"
	"github.com/medadmin/hospital-api/internal/model"
	"github.com/medadmin/hospital-api/internal/service/auth"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes wires the unauthenticated surface. Registration is
// role-tagged per route; the emitted event decides which profile consumer
// reacts.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register-user", h.registerWithRole(model.RoleUser))
		auth.POST("/register-admin", h.registerWithRole(model.RoleAdmin))
		auth.POST("/register-user-patient", h.registerWithRole(model.RolePatient))
		auth.POST("/register-user-medic", h.registerWithRole(model.RoleMedic))
		auth.POST("/login", h.Login)
		auth.GET("/patient/oauth", h.OAuthRedirect)
		auth.GET("/patient/callback", h.OAuthCallback)
	}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/logout", h.Logout)
	}
}

func (h *Handler) registerWithRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}

		user, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, role)
		if err != nil {
			handler.Error(c, err)
			return
		}

		c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.setSessionCookie(c, tokens)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.AuthCookie)
	if token == "" {
		if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("no session token"))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		handler.Error(c, err)
		return
	}

	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}

// OAuthRedirect sends the browser to the external identity provider.
func (h *Handler) OAuthRedirect(c *gin.Context) {
	url, err := h.svc.OAuthRedirectURL(uuid.New().String())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// OAuthCallback finishes the provider round-trip and opens a session.
func (h *Handler) OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("missing authorization code"))
		return
	}

	tokens, err := h.svc.LoginWithOAuth(c.Request.Context(), code)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.setSessionCookie(c, tokens)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) setSessionCookie(c *gin.Context, tokens *model.TokenResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, tokens.AccessToken, int(tokens.ExpiresIn), "/", "", false, true)
}
