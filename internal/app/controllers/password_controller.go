package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/app/models/dto"
	"github.com/yigit/interviewportal/internal/app/services"
	"github.com/yigit/interviewportal/internal/app/views"
	"github.com/yigit/interviewportal/internal/middleware"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/helpers"
)

// ResetCookieName carries the reset ticket id between the reset pages
const ResetCookieName = "portal_reset"

// Reset flow paths
const (
	ForgotPasswordPath = "/forgot-password"
	VerifyPath         = "/verify"
	ResetPasswordPath  = "/reset-password"
)

// PasswordController handles forgot-password, code verification and reset
type PasswordController struct {
	resets       *services.PasswordResetService
	cookieSecure bool
	logger       zerolog.Logger
}

// NewPasswordController creates a new PasswordController
func NewPasswordController(resets *services.PasswordResetService, cookieSecure bool, logger zerolog.Logger) *PasswordController {
	return &PasswordController{
		resets:       resets,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

func (c *PasswordController) setTicket(ctx *gin.Context, ticket models.ResetTicket) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(ResetCookieName, ticket.ID, int(c.resets.CodeTTL().Seconds()), "/", "", c.cookieSecure, true)
}

func (c *PasswordController) clearTicket(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(ResetCookieName, "", -1, "/", "", c.cookieSecure, true)
}

func ticketID(ctx *gin.Context) string {
	id, err := ctx.Cookie(ResetCookieName)
	if err != nil {
		return ""
	}
	return id
}

// restart sends the user back to the start of the flow
func (c *PasswordController) restart(ctx *gin.Context) {
	c.clearTicket(ctx)
	ctx.Redirect(http.StatusFound, ForgotPasswordPath+"?error="+url.QueryEscape(services.MsgResetSessionAbsent))
}

// ShowForgot renders the forgot-password page
func (c *PasswordController) ShowForgot(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, views.ForgotPasswordPage, gin.H{
		"Title": "Forgot password",
		"Error": ctx.Query("error"),
	})
}

// Forgot checks the email and opens a reset ticket
func (c *PasswordController) Forgot(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	_ = ctx.ShouldBind(&req)

	ticket, err := c.resets.Begin(ctx.Request.Context(), req.Email)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			status = http.StatusNotFound
		}
		ctx.HTML(status, views.ForgotPasswordPage, gin.H{
			"Title": "Forgot password",
			"Email": req.Email,
			"Error": middleware.UserMessage(err, services.MsgEmailCheckNetwork),
		})
		return
	}

	c.setTicket(ctx, ticket)
	ctx.Redirect(http.StatusFound, VerifyPath)
}

func (c *PasswordController) renderVerify(ctx *gin.Context, status int, ticket models.ResetTicket, notice, errMsg string) {
	ctx.HTML(status, views.VerifyPage, gin.H{
		"Title":       "Verify email",
		"MaskedEmail": services.MaskEmail(ticket.Email),
		"CodeSent":    ticket.CodeHash != "",
		"Verified":    ticket.Verified,
		"ValidFor":    helpers.FormatDuration(c.resets.CodeTTL()),
		"Notice":      notice,
		"Error":       errMsg,
	})
}

// ShowVerify renders the verification page for the current ticket
func (c *PasswordController) ShowVerify(ctx *gin.Context) {
	ticket, err := c.resets.Ticket(ctx.Request.Context(), ticketID(ctx))
	if err != nil {
		c.restart(ctx)
		return
	}
	c.renderVerify(ctx, http.StatusOK, ticket, ctx.Query("notice"), ctx.Query("error"))
}

// Verify handles the send, resend and verify buttons
func (c *PasswordController) Verify(ctx *gin.Context) {
	id := ticketID(ctx)
	ticket, err := c.resets.Ticket(ctx.Request.Context(), id)
	if err != nil {
		c.restart(ctx)
		return
	}

	var req dto.VerifyCodeRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.renderVerify(ctx, http.StatusBadRequest, ticket, "", "Unknown action")
		return
	}

	switch req.Action {
	case dto.VerifyActionSend, dto.VerifyActionResend:
		err = c.resets.SendCode(ctx.Request.Context(), id)
		if err == nil {
			ctx.Redirect(http.StatusFound, VerifyPath+"?notice="+url.QueryEscape("Verification code sent to "+services.MaskEmail(ticket.Email)))
			return
		}
	case dto.VerifyActionVerify:
		err = c.resets.Verify(ctx.Request.Context(), id, req.Code)
		if err == nil {
			ctx.Redirect(http.StatusFound, ResetPasswordPath)
			return
		}
	}

	if errors.Is(err, apperrors.ErrResetTicketAbsent) {
		c.restart(ctx)
		return
	}
	// a failed send may already have stored a new code
	if fresh, findErr := c.resets.Ticket(ctx.Request.Context(), id); findErr == nil {
		ticket = fresh
	}
	c.renderVerify(ctx, http.StatusBadRequest, ticket, "", middleware.UserMessage(err, services.MsgCodeSendFailed))
}

// ShowReset renders the new-password page once the code is verified
func (c *PasswordController) ShowReset(ctx *gin.Context) {
	ticket, err := c.resets.Ticket(ctx.Request.Context(), ticketID(ctx))
	if err != nil {
		c.restart(ctx)
		return
	}
	if !ticket.Verified {
		ctx.Redirect(http.StatusFound, VerifyPath)
		return
	}
	ctx.HTML(http.StatusOK, views.ResetPasswordPage, gin.H{"Title": "Reset password"})
}

// Reset updates the password and returns to the login page
func (c *PasswordController) Reset(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	_ = ctx.ShouldBind(&req)

	err := c.resets.Reset(ctx.Request.Context(), ticketID(ctx), req.Password, req.ConfirmPassword)
	switch {
	case err == nil:
		c.clearTicket(ctx)
		ctx.Redirect(http.StatusFound, "/?notice="+url.QueryEscape(services.MsgPasswordUpdated))
	case errors.Is(err, apperrors.ErrResetTicketAbsent):
		c.restart(ctx)
	case errors.Is(err, apperrors.ErrResetNotVerified):
		ctx.Redirect(http.StatusFound, VerifyPath)
	case errors.Is(err, apperrors.ErrResetCodeExpired):
		ctx.Redirect(http.StatusFound, VerifyPath+"?error="+url.QueryEscape(err.Error()))
	default:
		c.logger.Warn().Err(err).Msg("Password reset failed")
		ctx.HTML(http.StatusBadRequest, views.ResetPasswordPage, gin.H{
			"Title": "Reset password",
			"Error": middleware.UserMessage(err, services.MsgPasswordNetwork),
		})
	}
}
