// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/app/models/dto"
	"github.com/yigit/interviewportal/internal/app/views"
	"github.com/yigit/interviewportal/internal/middleware"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/session"
)

// Login page messages
const (
	MsgLoginMissingFields = "Please enter both email and password."
	MsgLoginUnexpected    = "Unexpected server response. Please try again."
	MsgLoginNetwork       = "Network error while signing in."
	MsgLoginNoRole        = "Unable to resolve session role"
)

// AuthAPI is the part of the recruitment API the login page needs
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (models.SessionUser, error)
	UsersByRole(ctx context.Context, role models.Role) ([]string, error)
}

// AuthController handles login and logout
type AuthController struct {
	api      AuthAPI
	sessions *session.Manager
	gate     *middleware.SessionMiddleware
	logger   zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(api AuthAPI, sessions *session.Manager, gate *middleware.SessionMiddleware, logger zerolog.Logger) *AuthController {
	return &AuthController{
		api:      api,
		sessions: sessions,
		gate:     gate,
		logger:   logger,
	}
}

// loginTab returns the selected role tab, admin by default
func loginTab(raw string) models.Role {
	if role := session.ResolveRole(raw); role.Authenticated() {
		return role
	}
	return models.RoleAdmin
}

func (c *AuthController) renderLogin(ctx *gin.Context, status int, tab models.Role, email, errMsg string) {
	suggestions, err := c.api.UsersByRole(ctx.Request.Context(), tab)
	if err != nil {
		c.logger.Warn().Err(err).Str("role", string(tab)).Msg("Could not load login email suggestions")
		suggestions = nil
	}

	ctx.HTML(status, views.LoginPage, gin.H{
		"Title":       "Login",
		"Role":        string(tab),
		"Email":       email,
		"Suggestions": suggestions,
		"Notice":      ctx.Query("notice"),
		"Error":       errMsg,
	})
}

// ShowLogin renders the login page. Signed-in users go straight to the dashboard.
func (c *AuthController) ShowLogin(ctx *gin.Context) {
	if _, ok := c.gate.Resolve(ctx); ok {
		ctx.Redirect(http.StatusFound, middleware.DashboardPath)
		return
	}
	c.renderLogin(ctx, http.StatusOK, loginTab(ctx.Query("role")), "", ctx.Query("error"))
}

// Login checks the credentials with the API and starts a session
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	bindErr := ctx.ShouldBind(&req)
	tab := loginTab(req.Role)
	email := strings.TrimSpace(req.Email)

	if bindErr != nil || email == "" {
		message := middleware.BindingMessage(bindErr, map[string]string{
			"Email":    MsgLoginMissingFields,
			"Password": MsgLoginMissingFields,
		}, MsgLoginMissingFields)
		c.renderLogin(ctx, http.StatusBadRequest, tab, email, message)
		return
	}

	user, err := c.api.Login(ctx.Request.Context(), email, req.Password)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", email).Msg("Login failed")
		switch {
		case errors.Is(err, apperrors.ErrUnexpectedResponse):
			c.renderLogin(ctx, http.StatusBadGateway, tab, email, MsgLoginUnexpected)
		case errors.Is(err, apperrors.ErrAPIUnavailable):
			c.renderLogin(ctx, http.StatusBadGateway, tab, email, MsgLoginNetwork)
		default:
			c.renderLogin(ctx, http.StatusUnauthorized, tab, email, middleware.UserMessage(err, MsgLoginUnexpected))
		}
		return
	}

	token, err := c.sessions.Issue(user)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", email).Str("role", string(user.Role)).Msg("Session refused")
		c.renderLogin(ctx, http.StatusForbidden, tab, email, middleware.UserMessage(err, MsgLoginNoRole))
		return
	}

	c.gate.SetCookie(ctx, token)
	ctx.Redirect(http.StatusFound, middleware.DashboardPath)
}

// Logout revokes the session for every tab and returns to the login page
func (c *AuthController) Logout(ctx *gin.Context) {
	if token := c.gate.Token(ctx); token != "" {
		if err := c.sessions.Revoke(ctx.Request.Context(), token); err != nil {
			c.logger.Error().Err(err).Msg("Failed to revoke session")
		}
	}
	c.gate.ClearCookie(ctx)
	ctx.Redirect(http.StatusFound, middleware.LoginPath)
}
