package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// normalizeEmail trims and lower-cases an address and rejects anything the
// "email" tag would reject at binding time.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}
