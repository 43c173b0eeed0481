package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// BindingMessage turns a gin binding error into a page message.
// messages maps struct field names to text; the first failing field with an entry wins.
func BindingMessage(err error, messages map[string]string, fallback string) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fallback
	}
	for _, fieldErr := range validationErrors {
		if message, ok := messages[fieldErr.Field()]; ok {
			return message
		}
	}
	return fallback
}
