package models

// Role is the resolved permission level of a session
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleInterviewer Role = "interviewer"
	RoleNone        Role = ""
)

// Authenticated reports whether the role grants access to the protected pages
func (r Role) Authenticated() bool {
	return r == RoleAdmin || r == RoleInterviewer
}

// Label is the display name used by the login tabs
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleInterviewer:
		return "Interviewer"
	default:
		return "Guest"
	}
}

// NoticePeriods lists the accepted notice period values in display order
var NoticePeriods = []string{"Immediate", "15 Days", "30 Days", "60 Days", "90 Days"}

// FeedbackValues lists the accepted interview outcomes
var FeedbackValues = []string{"Selected", "Rejected"}
