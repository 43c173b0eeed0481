package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/interviewportal/internal/apiclient"
	"github.com/yigit/interviewportal/internal/app/models/dto"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
)

// HandleAPIError maps an error onto a JSON error response
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated),
		errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Session expired")))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))
	case apperrors.Is(err, apperrors.ErrBadRequest, apperrors.ErrValidationFailed, apperrors.ErrInvalidEmail, apperrors.ErrInvalidPassword):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, UserMessage(err, "Validation failed")).
			WithSeverity(dto.ErrorSeverityWarning)
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Field != "" {
			detail.WithField(custom.Field)
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
	case errors.Is(err, apperrors.ErrAPIUnavailable):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeBadGateway, "Recruitment API unavailable")))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, UserMessage(err, "Resource not found")).
				WithSeverity(dto.ErrorSeverityWarning)))
	case errors.Is(err, apperrors.ErrAPIRejected):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, UserMessage(err, "Recruitment API error"))))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

// UserMessage picks the text to show for err on a page: the server's own
// message, then an application message, then fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidResetCode),
		errors.Is(err, apperrors.ErrResetCodeExpired),
		errors.Is(err, apperrors.ErrResetCodeLocked):
		return err.Error()
	}
	return fallback
}
