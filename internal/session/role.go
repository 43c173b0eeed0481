// Package session resolves who is signed in and with which role.
package session

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/yigit/interviewportal/internal/app/models"
)

// ResolveRole normalizes a raw role value. Comparison is case-insensitive;
// anything other than admin or interviewer yields RoleNone.
func ResolveRole(raw string) models.Role {
	switch strings.ToLower(raw) {
	case string(models.RoleAdmin):
		return models.RoleAdmin
	case string(models.RoleInterviewer):
		return models.RoleInterviewer
	default:
		return models.RoleNone
	}
}

// ResolveBlob decodes a stored JSON user blob such as {"id":1,"email":"a@x","role":"admin"}.
// A missing, unparsable or role-less blob resolves to RoleNone.
func ResolveBlob(blob []byte) (models.SessionUser, models.Role) {
	if len(blob) == 0 || !gjson.ValidBytes(blob) {
		return models.SessionUser{}, models.RoleNone
	}
	parsed := gjson.ParseBytes(blob)
	if !parsed.IsObject() {
		return models.SessionUser{}, models.RoleNone
	}

	role := ResolveRole(parsed.Get("role").String())
	user := models.SessionUser{
		ID:    parsed.Get("id").Int(),
		Email: parsed.Get("email").String(),
		Role:  role,
	}
	return user, role
}
