package models

import "time"

// ResetTicket tracks one password-reset attempt between the forgot, verify and reset pages
type ResetTicket struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	Verified  bool      `json:"verified"`
	// Attempts counts verification tries against the current code
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the code of the ticket is no longer accepted at now
func (t ResetTicket) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
