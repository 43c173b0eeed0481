package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
)

// Login authenticates against POST /auth/login.
// The returned role is the raw server value; callers normalize it.
func (c *Client) Login(ctx context.Context, email, password string) (models.SessionUser, error) {
	body, err := c.sendJSON(ctx, "Login failed", http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return models.SessionUser{}, err
	}

	if !gjson.ValidBytes(body) {
		return models.SessionUser{}, apperrors.ErrUnexpectedResponse
	}
	user := gjson.ParseBytes(body)
	if user.Get("email").String() == "" {
		return models.SessionUser{}, apperrors.ErrUnexpectedResponse
	}

	return models.SessionUser{
		ID:    user.Get("id").Int(),
		Email: user.Get("email").String(),
		Role:  models.Role(user.Get("role").String()),
	}, nil
}

// UsersByRole lists the emails registered under a role, for login suggestions
func (c *Client) UsersByRole(ctx context.Context, role models.Role) ([]string, error) {
	body, err := c.get(ctx, "Failed to load users", "/auth/users", url.Values{"role": {string(role)}})
	if err != nil {
		return nil, err
	}

	var emails []string
	for _, item := range gjson.ParseBytes(body).Array() {
		// Accept both ["a@x"] and [{"email": "a@x"}]
		if item.IsObject() {
			item = item.Get("email")
		}
		if email := item.String(); email != "" {
			emails = append(emails, email)
		}
	}
	return emails, nil
}

// CheckEmail reports whether an account exists for email
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	body, err := c.get(ctx, "Email check failed", "/auth/check-email", url.Values{"email": {email}})
	if err != nil {
		return false, err
	}
	return gjson.GetBytes(body, "exists").Bool(), nil
}

// UpdatePassword sets a new password for email
func (c *Client) UpdatePassword(ctx context.Context, email, newPassword string) error {
	_, err := c.sendJSON(ctx, "Failed to update password", http.MethodPut, "/auth/update-password", map[string]string{
		"email":        email,
		"new_password": newPassword,
	})
	return err
}
