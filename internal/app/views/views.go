// Package views holds the HTML templates of the portal, embedded into the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Page template names
const (
	LoginPage          = "login.html"
	ForgotPasswordPage = "forgot_password.html"
	VerifyPage         = "verify.html"
	ResetPasswordPage  = "reset_password.html"
	DashboardPage      = "dashboard.html"
	CandidateFormPage  = "candidate_form.html"
	ErrorPage          = "error.html"
)

// Templates parses every embedded page
func Templates() (*template.Template, error) {
	tmpl, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
