package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/interviewportal/internal/apiclient"
	appControllers "github.com/yigit/interviewportal/internal/app/controllers"
	appMigrations "github.com/yigit/interviewportal/internal/app/migrations"
	appRepos "github.com/yigit/interviewportal/internal/app/repositories"
	appRoutes "github.com/yigit/interviewportal/internal/app/routes"
	appServices "github.com/yigit/interviewportal/internal/app/services"
	"github.com/yigit/interviewportal/internal/app/views"
	"github.com/yigit/interviewportal/internal/candidateform"
	"github.com/yigit/interviewportal/internal/config"
	"github.com/yigit/interviewportal/internal/dashboard"
	"github.com/yigit/interviewportal/internal/db"
	"github.com/yigit/interviewportal/internal/importer"
	appMiddleware "github.com/yigit/interviewportal/internal/middleware"
	pkgAuth "github.com/yigit/interviewportal/internal/pkg/auth"
	"github.com/yigit/interviewportal/internal/pkg/email"
	"github.com/yigit/interviewportal/internal/pkg/helpers"
	"github.com/yigit/interviewportal/internal/pkg/logger"
	"github.com/yigit/interviewportal/internal/session"
)

// DefaultConfigPath is where the portal looks for its YAML configuration
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	API                  *apiclient.Client
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Sessions             *session.Manager
	SessionMiddleware    *appMiddleware.SessionMiddleware
	FormEngine           *candidateform.Engine
	Importer             *importer.Importer
	Rows                 *dashboard.RowCache
	EmailService         email.EmailService
	PasswordResetService *appServices.PasswordResetService
	AuthController       *appControllers.AuthController
	PasswordController   *appControllers.PasswordController
	DashboardController  *appControllers.DashboardController
	CandidateController  *appControllers.CandidateController
	HealthController     *appControllers.HealthController
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Default()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and runs migrations when the postgres store is selected.
// It returns a nil pool for the memory store.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	if !cfg.UsesPostgres() {
		lgr.Info().Msg("Using in-memory session and reset stores")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool, lgr.With().Str("component", "migrator").Logger())
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// BuildDependencies wires the API client, stores, services and controllers.
// dbPool may be nil, in which case the memory stores are used.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.API = apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: helpers.ParseDuration(cfg.API.Timeout, 15*time.Second),
	}, lgr.With().Str("component", "apiclient").Logger())

	deps.Repos = appRepos.NewRepositories(dbPool)

	var revocations session.RevocationStore = session.NewMemoryStore()
	if dbPool != nil {
		revocations = session.NewPostgresStore(dbPool)
	}

	sessionTTL := helpers.ParseDuration(cfg.Session.TTL, 12*time.Hour)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		SessionTTL:  sessionTTL,
		TokenIssuer: cfg.Session.Issuer,
	})
	deps.Sessions = session.NewManager(deps.JWTService, revocations, lgr.With().Str("component", "session").Logger())
	deps.Sessions.Subscribe(func(event session.Event) {
		lgr.Info().
			Str("event", string(event.Kind)).
			Str("email", event.User.Email).
			Str("role", string(event.User.Role)).
			Str("sessionID", event.User.SessionID).
			Msg("Session event")
	})

	deps.SessionMiddleware = appMiddleware.NewSessionMiddleware(deps.Sessions, appMiddleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	})

	deps.FormEngine = candidateform.NewEngine(deps.API, cfg.Form.ClientNames, lgr.With().Str("component", "candidateform").Logger())
	deps.Importer = importer.New(deps.API, cfg.Import.MaxUploadBytes, lgr)
	deps.Rows = dashboard.NewRowCache(dashboard.MaxHandOffTTL)

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromAddress,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr.With().Str("component", "email").Logger())

	deps.PasswordResetService = appServices.NewPasswordResetService(
		deps.API,
		deps.Repos.ResetTicketRepository,
		deps.EmailService,
		helpers.ParseDuration(cfg.Session.ResetCodeTTL, 15*time.Minute),
		lgr.With().Str("component", "password_reset").Logger(),
	)

	deps.AuthController = appControllers.NewAuthController(deps.API, deps.Sessions, deps.SessionMiddleware, lgr)
	deps.PasswordController = appControllers.NewPasswordController(deps.PasswordResetService, cfg.Session.CookieSecure, lgr)
	deps.DashboardController = appControllers.NewDashboardController(
		deps.API,
		deps.Rows,
		deps.Importer,
		deps.API.BaseURL(),
		cfg.Import.MaxUploadBytes,
		lgr,
	)
	deps.CandidateController = appControllers.NewCandidateController(deps.FormEngine, deps.Rows, cfg.Import.MaxUploadBytes, lgr)
	deps.HealthController = appControllers.NewHealthController(deps.API.BaseURL())

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	router.MaxMultipartMemory = cfg.Import.MaxUploadBytes

	tmpl, err := views.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.PasswordController,
		deps.DashboardController,
		deps.CandidateController,
		deps.HealthController,
		deps.SessionMiddleware,
	)

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, views.ErrorPage, gin.H{
			"Title":   "Not found",
			"Heading": "Page not found",
		})
	})

	return router, nil
}
