package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/authz"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/metrics"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/models"
)

// AccountService is what the users endpoints need from the auth service.
type AccountService interface {
	middleware.Authenticator
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*dto.TokenResponse, error)
	UpdateProfile(ctx context.Context, p *authz.Principal, req dto.UpdateUserRequest) (*models.User, error)
	DeleteAccount(ctx context.Context, p *authz.Principal) error
}

type AuthHandler struct {
	authService AccountService
}

func NewAuthHandler(authService AccountService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts the users endpoints. Paths keep their trailing slash.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register/", h.Register)
	rg.POST("/login/", h.Login)

	me := rg.Group("/me", middleware.RequireAuth(h.authService))
	me.GET("/", h.Me)
	me.PATCH("/", h.UpdateMe)
	me.DELETE("/", h.DeleteMe)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("user", "create").Inc()
	c.JSON(http.StatusCreated, dto.UserFromModel(*user))
}

// Login takes OAuth2 password-flow form fields and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		middleware.Abort(c, bindError(err))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			metrics.AuthFailuresTotal.WithLabelValues("bad_login").Inc()
		}
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if err := authz.Authenticated(p); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(*p.User))
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.authService.UpdateProfile(ctx, middleware.PrincipalFrom(c), req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("user", "update").Inc()
	c.JSON(http.StatusOK, dto.UserFromModel(*user))
}

func (h *AuthHandler) DeleteMe(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.authService.DeleteAccount(ctx, middleware.PrincipalFrom(c)); err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("user", "delete").Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
