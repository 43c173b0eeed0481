package dto

import (
	"time"
)

// ErrorCode identifies the kind of failure in a JSON error body
type ErrorCode string

// Error codes returned by the JSON endpoints
const (
	ErrorCodeExpiredToken ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized ErrorCode = "AUTH_008"
	ErrorCodeForbidden    ErrorCode = "AUTH_009"

	ErrorCodeResourceNotFound ErrorCode = "RES_001"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
	ErrorCodeBadGateway           ErrorCode = "SRV_004"
)

// ErrorSeverity tells clients whether the failure is theirs to fix
type ErrorSeverity string

const (
	ErrorSeverityWarning ErrorSeverity = "WARNING"
	ErrorSeverityError   ErrorSeverity = "ERROR"
)

// ErrorDetail is the error part of a JSON error body
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"AUTH_008"`
	Message  string        `json:"message" example:"Authentication required"`
	Field    string        `json:"field,omitempty" example:"email"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
}

// ErrorResponse is the body of every JSON error
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates an error detail with ERROR severity
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField names the input that failed
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity overrides the severity
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// NewErrorResponse wraps detail in a response stamped with the current time
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
