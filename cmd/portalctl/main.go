package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/yigit/interviewportal/internal/apiclient"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/config"
	"github.com/yigit/interviewportal/internal/dashboard"
	"github.com/yigit/interviewportal/internal/importer"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/helpers"
	"github.com/yigit/interviewportal/internal/pkg/logger"
	"github.com/yigit/interviewportal/internal/session"
	"github.com/yigit/interviewportal/internal/tui"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	apiBaseURL  string
	apiTimeout  time.Duration
	sessionPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Configure(logger.Config{Level: logger.WarnLevel, Pretty: true, Output: os.Stderr})

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "portalctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portalctl",
		Short: "Interview portal command line tool",
		Long: `portalctl signs in to the recruitment API, bulk imports candidate spreadsheets
and browses the candidate dashboard from a terminal.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&apiBaseURL, "api", config.GetEnv("API_BASE_URL", "http://127.0.0.1:8000"), "Recruitment API base URL")
	cmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", 15*time.Second, "Timeout for each API request")
	cmd.PersistentFlags().StringVar(&sessionPath, "session", session.DefaultFilePath(), "File holding the signed-in user")
	cmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newImportCmd(),
		newDashboardCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newClient() *apiclient.Client {
	return apiclient.New(apiclient.Config{BaseURL: apiBaseURL, Timeout: apiTimeout}, logger.Component("apiclient"))
}

// requireSession loads the stored user, failing when nobody is signed in
func requireSession() (models.SessionUser, error) {
	user, role, err := session.NewFileStore(sessionPath).Load()
	if err != nil {
		return models.SessionUser{}, err
	}
	if !role.Authenticated() {
		return models.SessionUser{}, fmt.Errorf("%w: run portalctl login first", apperrors.ErrUnauthenticated)
	}
	return user, nil
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the user for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("PORTAL_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}

			user, err := newClient().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			user.Role = session.ResolveRole(string(user.Role))
			if !user.Role.Authenticated() {
				return errors.New("account has no portal role")
			}
			if err := session.NewFileStore(sessionPath).Save(user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (defaults to $PORTAL_PASSWORD)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.NewFileStore(sessionPath).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, user.Role)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var maxBytes int64
	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Bulk import candidates from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer file.Close()

			imp := importer.New(newClient(), maxBytes, logger.Default())
			count, err := imp.Import(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d rows)\n", importer.NoticeImported, count)
			return nil
		},
	}
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 10<<20, "Largest workbook accepted")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	var pageSize int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse candidates in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return err
			}
			if !helpers.IsAllowedPageSize(pageSize) {
				return fmt.Errorf("page size must be one of %v", helpers.AllowedPageSizes)
			}

			loader := dashboard.NewLoader(newClient(), logger.Default())
			model := tui.NewDashboard(cmd.Context(), loader, user, pageSize)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = program.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&pageSize, "size", "n", helpers.DefaultPageSize, "Rows per page (10, 20, 50 or 100)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the portalctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portalctl %s\n", version)
		},
	}
}
