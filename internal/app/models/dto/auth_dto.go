package dto

import "github.com/yigit/interviewportal/internal/app/models"

// LoginRequest is the login form. Missing fields are reported with one message.
type LoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
	Role     string `form:"role" binding:"omitempty,oneof=admin interviewer"`
}

// ForgotPasswordRequest is the forgot-password form
type ForgotPasswordRequest struct {
	Email string `form:"email"`
}

// Verification page actions
const (
	VerifyActionSend   = "send"
	VerifyActionResend = "resend"
	VerifyActionVerify = "verify"
)

// VerifyCodeRequest is posted by the verification page for each of its buttons
type VerifyCodeRequest struct {
	Action string `form:"action" binding:"required,oneof=send resend verify"`
	Code   string `form:"code"`
}

// ResetPasswordRequest is the new-password form
type ResetPasswordRequest struct {
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

// SessionResponse describes the signed-in user
type SessionResponse struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Label string      `json:"label"`
}

// NewSessionResponse builds a SessionResponse from the session user
func NewSessionResponse(user models.SessionUser) SessionResponse {
	return SessionResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		Label: user.Role.Label(),
	}
}
