package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")
)

// Remote API errors
var (
	ErrAPIUnavailable     = errors.New("recruitment API unavailable")
	ErrAPIRejected        = errors.New("recruitment API rejected the request")
	ErrUnexpectedResponse = errors.New("unexpected API response")
	ErrCandidateNotFound  = NewResourceNotFoundError("candidate not found")
	ErrEmailNotRegistered = NewResourceNotFoundError("Email not found in system.")
)

// Password reset errors
var (
	ErrInvalidResetCode  = errors.New("Incorrect code. Try again.")
	ErrResetCodeExpired  = errors.New("Code expired. Please request a new one.")
	ErrResetNotVerified  = errors.New("reset code has not been verified")
	ErrResetTicketAbsent = NewResourceNotFoundError("password reset session not found")
	ErrResetCodeLocked   = errors.New("Too many incorrect attempts. Please request a new code.")
)

// Import errors
var (
	ErrImportFailed   = errors.New("Failed to import Candidates")
	ErrEmptyWorkbook  = errors.New("workbook has no sheets")
	ErrUploadTooLarge = errors.New("uploaded file is too large")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	// Field names the input the error is about, if any
	Field string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithField records which input the error is about
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}
