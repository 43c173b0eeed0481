package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/interviewportal/internal/app/models/dto"
	"github.com/yigit/interviewportal/internal/middleware"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
)

// HealthController serves the JSON endpoints
type HealthController struct {
	apiBaseURL string
}

// NewHealthController creates a new HealthController
func NewHealthController(apiBaseURL string) *HealthController {
	return &HealthController{apiBaseURL: apiBaseURL}
}

// Health reports that the portal is up
func (h *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		API:       h.apiBaseURL,
		Timestamp: time.Now(),
	})
}

// Session returns the signed-in user
func (h *HealthController) Session(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSessionResponse(user))
}
