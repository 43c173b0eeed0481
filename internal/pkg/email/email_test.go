package email

import (
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestGenerateResetCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[1-9]\d{5}$`)
	for i := 0; i < 50; i++ {
		code, err := GenerateResetCode()
		if err != nil {
			t.Fatalf("GenerateResetCode: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code %q is not six digits", code)
		}
	}
}

func TestSendResetCodeWithoutSMTPLogsOnly(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "smtp.example.com"}, zerolog.Nop())
	if err := svc.SendResetCode("a@x.com", "123456", 15*time.Minute); err != nil {
		t.Fatalf("SendResetCode: %v", err)
	}
}
