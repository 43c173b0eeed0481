package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/apiclient"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/app/repositories"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/auth"
	"github.com/yigit/interviewportal/internal/pkg/email"
	"github.com/yigit/interviewportal/internal/pkg/validation"
)

// User-facing messages of the reset flow
const (
	MsgEmailRequired      = "This is a required field. Please enter your registered email address."
	MsgEmailInvalid       = "Invalid email address. Please enter a different email address."
	MsgEmailUnknown       = "This email does not exist in our database."
	MsgEmailCheckNetwork  = "Network error while checking email."
	MsgCodeRequired       = "Please enter the verification code"
	MsgCodeNotSent        = "Please send a verification code first."
	MsgCodeSendFailed     = "Failed to send verification code. Try again."
	MsgPasswordRequired   = "Please enter a new password"
	MsgPasswordTooShort   = "Password must be at least 6 characters long"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgPasswordNetwork    = "Network error while updating password. Please try again."
	MsgPasswordUpdated    = "Password updated successfully! Please login with your new password."
	MsgResetSessionAbsent = "Your reset session has expired. Please start again."
)

// MaxCodeAttempts is how many verification tries one sent code allows
const MaxCodeAttempts = 5

// AccountDirectory is the part of the recruitment API the reset flow needs
type AccountDirectory interface {
	CheckEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, email, newPassword string) error
}

// PasswordResetService drives forgot-password, code verification and the final reset
type PasswordResetService struct {
	accounts AccountDirectory
	tickets  repositories.ResetTicketRepository
	mailer   email.EmailService
	codeTTL  time.Duration
	logger   zerolog.Logger

	now      func() time.Time
	generate func() (string, error)
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(
	accounts AccountDirectory,
	tickets repositories.ResetTicketRepository,
	mailer email.EmailService,
	codeTTL time.Duration,
	logger zerolog.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		accounts: accounts,
		tickets:  tickets,
		mailer:   mailer,
		codeTTL:  codeTTL,
		logger:   logger,
		now:      time.Now,
		generate: email.GenerateResetCode,
	}
}

// CodeTTL is how long a sent code stays valid
func (s *PasswordResetService) CodeTTL() time.Duration {
	return s.codeTTL
}

// Begin checks that email belongs to an account and opens a reset ticket for it.
// No code is sent yet.
func (s *PasswordResetService) Begin(ctx context.Context, address string) (models.ResetTicket, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.ResetTicket{}, apperrors.NewCustomError(apperrors.ErrInvalidEmail, MsgEmailRequired).WithField("email")
	}
	if !validation.NewStringValidation(address).WithPattern(validation.CompiledPatterns.Email).Validate() {
		return models.ResetTicket{}, apperrors.NewCustomError(apperrors.ErrInvalidEmail, MsgEmailInvalid).WithField("email")
	}

	exists, err := s.accounts.CheckEmail(ctx, address)
	if err != nil {
		var apiErr *apiclient.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Detail != "":
			return models.ResetTicket{}, apperrors.NewCustomError(err, apiErr.Detail)
		case errors.As(err, &apiErr):
			return models.ResetTicket{}, apperrors.ErrEmailNotRegistered
		default:
			s.logger.Error().Err(err).Msg("Email check failed")
			return models.ResetTicket{}, apperrors.NewCustomError(err, MsgEmailCheckNetwork)
		}
	}
	if !exists {
		return models.ResetTicket{}, apperrors.NewResourceNotFoundError(MsgEmailUnknown)
	}

	now := s.now()
	ticket := models.ResetTicket{
		ID:        uuid.NewString(),
		Email:     address,
		ExpiresAt: now.Add(s.codeTTL),
		CreatedAt: now,
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return models.ResetTicket{}, fmt.Errorf("failed to open reset ticket: %w", err)
	}

	s.logger.Info().Str("ticketID", ticket.ID).Msg("Password reset started")
	return ticket, nil
}

// Ticket returns the reset ticket id refers to
func (s *PasswordResetService) Ticket(ctx context.Context, id string) (models.ResetTicket, error) {
	if id == "" {
		return models.ResetTicket{}, apperrors.ErrResetTicketAbsent
	}
	return s.tickets.FindByID(ctx, id)
}

// SendCode generates a fresh code for the ticket, stores its hash and mails it.
// Any earlier code and verification are discarded, so it also serves as resend.
func (s *PasswordResetService) SendCode(ctx context.Context, id string) error {
	ticket, err := s.Ticket(ctx, id)
	if err != nil {
		return err
	}

	code, err := s.generate()
	if err != nil {
		return apperrors.NewCustomError(err, MsgCodeSendFailed)
	}
	hash, err := auth.HashSecret(code)
	if err != nil {
		return apperrors.NewCustomError(err, MsgCodeSendFailed)
	}

	ticket.CodeHash = hash
	ticket.Verified = false
	ticket.Attempts = 0
	ticket.ExpiresAt = s.now().Add(s.codeTTL)
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return apperrors.NewCustomError(err, MsgCodeSendFailed)
	}

	if err := s.mailer.SendResetCode(ticket.Email, code, s.codeTTL); err != nil {
		s.logger.Error().Err(err).Str("ticketID", ticket.ID).Msg("Failed to send reset code")
		return apperrors.NewCustomError(err, MsgCodeSendFailed)
	}
	return nil
}

// Verify checks code against the ticket and marks it verified on a match.
// After MaxCodeAttempts tries the code is discarded and a new one must be sent.
func (s *PasswordResetService) Verify(ctx context.Context, id, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperrors.NewCustomError(apperrors.ErrBadRequest, MsgCodeRequired).WithField("code")
	}

	ticket, err := s.Ticket(ctx, id)
	if err != nil {
		return err
	}
	if ticket.Attempts >= MaxCodeAttempts {
		return apperrors.ErrResetCodeLocked
	}
	if ticket.CodeHash == "" {
		return apperrors.NewCustomError(apperrors.ErrResetNotVerified, MsgCodeNotSent)
	}
	if ticket.Expired(s.now()) {
		return apperrors.ErrResetCodeExpired
	}

	attempts, err := s.tickets.AddAttempt(ctx, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to count reset attempt: %w", err)
	}
	ticket.Attempts = attempts
	if attempts > MaxCodeAttempts {
		return apperrors.ErrResetCodeLocked
	}

	valid := validation.NewStringValidation(code).WithPattern(validation.CompiledPatterns.ResetCode).Validate()
	if !valid || !auth.CheckSecret(ticket.CodeHash, code) {
		if attempts < MaxCodeAttempts {
			return apperrors.ErrInvalidResetCode
		}
		ticket.CodeHash = ""
		if err := s.tickets.Save(ctx, ticket); err != nil {
			return fmt.Errorf("failed to discard reset code: %w", err)
		}
		s.logger.Warn().Str("ticketID", ticket.ID).Int("attempts", attempts).Msg("Reset code locked after failed attempts")
		return apperrors.ErrResetCodeLocked
	}

	ticket.Verified = true
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return fmt.Errorf("failed to mark reset ticket verified: %w", err)
	}
	return nil
}

// Reset sets the new password of a verified ticket and closes the ticket
func (s *PasswordResetService) Reset(ctx context.Context, id, password, confirm string) error {
	ticket, err := s.Ticket(ctx, id)
	if err != nil {
		return err
	}
	if !ticket.Verified {
		return apperrors.ErrResetNotVerified
	}
	if ticket.Expired(s.now()) {
		return apperrors.ErrResetCodeExpired
	}

	switch {
	case password == "":
		return apperrors.NewCustomError(apperrors.ErrInvalidPassword, MsgPasswordRequired).WithField("password")
	case !validation.NewStringValidation(password).WithMinLength(validation.PasswordMinLength).Validate():
		return apperrors.NewCustomError(apperrors.ErrInvalidPassword, MsgPasswordTooShort).WithField("password")
	case password != confirm:
		return apperrors.NewCustomError(apperrors.ErrInvalidPassword, MsgPasswordMismatch).WithField("confirmPassword")
	}

	if err := s.accounts.UpdatePassword(ctx, ticket.Email, password); err != nil {
		if errors.Is(err, apperrors.ErrAPIUnavailable) {
			s.logger.Error().Err(err).Msg("Password update failed")
			return apperrors.NewCustomError(err, MsgPasswordNetwork)
		}
		return err
	}

	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		s.logger.Warn().Err(err).Str("ticketID", ticket.ID).Msg("Failed to close reset ticket")
	}
	s.logger.Info().Str("ticketID", ticket.ID).Msg("Password reset completed")
	return nil
}

// PurgeExpired drops tickets whose code expired
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tickets.DeleteExpired(ctx, s.now())
}

// MaskEmail keeps the first character and the domain: john@x.com becomes j***@x.com
func MaskEmail(address string) string {
	at := strings.Index(address, "@")
	if at <= 0 {
		return address
	}
	stars := at - 1
	if stars < 1 {
		stars = 1
	}
	return address[:1] + strings.Repeat("*", stars) + address[at:]
}
