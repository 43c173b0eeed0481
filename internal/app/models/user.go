package models

// SessionUser is the authenticated user carried by the session cookie
type SessionUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	SessionID string `json:"-"`
}
