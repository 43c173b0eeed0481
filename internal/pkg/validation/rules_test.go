package validation

import "testing"

func TestEmailPattern(t *testing.T) {
	for _, ok := range []string{"a@b.co", "first.last+tag@corp.example.com"} {
		if !CompiledPatterns.Email.MatchString(ok) {
			t.Fatalf("%q rejected", ok)
		}
	}
	for _, bad := range []string{"", "a@b", "a b@c.com", "@b.com"} {
		if CompiledPatterns.Email.MatchString(bad) {
			t.Fatalf("%q accepted", bad)
		}
	}
}

func TestStringValidationMinLength(t *testing.T) {
	if NewStringValidation("12345").WithMinLength(PasswordMinLength).Validate() {
		t.Fatalf("short password accepted")
	}
	if !NewStringValidation("123456").WithMinLength(PasswordMinLength).Validate() {
		t.Fatalf("6 character password rejected")
	}
	if NewStringValidation("").Validate() {
		t.Fatalf("empty value accepted")
	}
}

func TestStringValidationPattern(t *testing.T) {
	code := func(s string) bool {
		return NewStringValidation(s).WithPattern(CompiledPatterns.ResetCode).Validate()
	}
	if !code("012345") {
		t.Fatalf("six digit code rejected")
	}
	for _, bad := range []string{"12345", "1234567", "12a456", " 123456"} {
		if code(bad) {
			t.Fatalf("%q accepted as a code", bad)
		}
	}
}
