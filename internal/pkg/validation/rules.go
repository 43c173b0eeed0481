package validation

import (
	"regexp"
)

// Rule patterns and limits shared by the login and password reset pages
var (
	// EmailPattern is the same loose shape the login page accepts
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	// ResetCodePattern is a six digit verification code
	ResetCodePattern = `^\d{6}$`

	PasswordMinLength = 6
)

// CompiledPatterns holds the patterns compiled once at start-up
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	ResetCode *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	ResetCode: regexp.MustCompile(ResetCodePattern),
}

// StringValidation checks one required text input
type StringValidation struct {
	Value   string
	MinLen  int
	Pattern *regexp.Regexp
}

// NewStringValidation starts a check of value
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value}
}

// WithMinLength requires at least min bytes
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithPattern requires the whole value to match pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// Validate reports whether the value is present and passes every configured check
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return false
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	return v.Pattern == nil || v.Pattern.MatchString(v.Value)
}
