package validation

import (
	"errors"
	"regexp"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("invalid email address")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrSymbolRequired   = errors.New("symbol is required")
	ErrSymbolTooLong    = errors.New("symbol must be at most 20 characters")
	ErrSymbolInvalid    = errors.New("symbol can only contain letters, numbers, dots, and hyphens")
)

var (
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	symbolRegex = regexp.MustCompile(`^[A-Za-z0-9.\-]+$`)
)

func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailRegex.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

func ValidateSignup(name, email, password string) error {
	if name == "" {
		return ErrNameRequired
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return ErrSymbolRequired
	}
	if len(symbol) > 20 {
		return ErrSymbolTooLong
	}
	if !symbolRegex.MatchString(symbol) {
		return ErrSymbolInvalid
	}
	return nil
}

var validationErrors = []error{
	ErrNameRequired,
	ErrEmailRequired,
	ErrEmailInvalid,
	ErrPasswordRequired,
	ErrPasswordTooShort,
	ErrSymbolRequired,
	ErrSymbolTooLong,
	ErrSymbolInvalid,
}

// IsValidationError reports whether err is one of this package's sentinel
// errors, so handlers can map it to a 400 without enumerating each one.
func IsValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
