package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/interviewportal/internal/app/controllers"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/middleware"
)

// SetupRouter configures all portal routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	passwordController *controllers.PasswordController,
	dashboardController *controllers.DashboardController,
	candidateController *controllers.CandidateController,
	healthController *controllers.HealthController,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	router.GET("/health", healthController.Health)
	router.GET("/api/session", sessionMiddleware.APISessionRequired(), healthController.Session)

	// --- Public routes ---
	router.GET(middleware.LoginPath, authController.ShowLogin)
	router.POST(middleware.LoginPath, authController.Login)
	router.POST("/logout", authController.Logout)

	router.GET(controllers.ForgotPasswordPath, passwordController.ShowForgot)
	router.POST(controllers.ForgotPasswordPath, passwordController.Forgot)
	router.GET(controllers.VerifyPath, passwordController.ShowVerify)
	router.POST(controllers.VerifyPath, passwordController.Verify)
	router.GET(controllers.ResetPasswordPath, passwordController.ShowReset)
	router.POST(controllers.ResetPasswordPath, passwordController.Reset)

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(sessionMiddleware.SessionRequired())
	{
		authenticated.GET(middleware.DashboardPath, dashboardController.Show)
		authenticated.POST(middleware.DashboardPath+"/import", dashboardController.Import)

		candidates := authenticated.Group("/candidates")
		{
			// Intake is admin-only
			adminOnly := candidates.Group("")
			adminOnly.Use(sessionMiddleware.RoleRequired(models.RoleAdmin))
			{
				adminOnly.GET("/new", candidateController.New)
				adminOnly.POST("/new", candidateController.Create)
			}

			// Admins edit the profile, interviewers record feedback
			candidates.GET("/:id/edit", candidateController.Edit)
			candidates.POST("/:id/edit", candidateController.Update)
		}
	}
}
