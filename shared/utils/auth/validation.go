package utils

import (
	"errors"
	"net/mail"
	"strings"
)

// MinPasswordLength is the minimum accepted director password length.
const MinPasswordLength = 6

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("invalid email format")
	}

	return nil
}

// ValidatePassword enforces the minimum-length policy. Checked before any
// mutation so a weak password never partially applies.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}

func ValidateRequired(field, fieldName string) error {
	if strings.TrimSpace(field) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}
