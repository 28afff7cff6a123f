package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrPasswordTooWeak = errors.New("password does not meet requirements")
	ErrMissingField    = errors.New("required field missing")
)

// Validation constants
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
	MaxNotesLength    = 1024
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidateRegistration checks the role-specific required fields for a new
// user. Owners must bring a payment QR code; borrowers must identify the
// account the lender can verify payments against.
func ValidateRegistration(u *User) error {
	if u.Name == "" || u.Email == "" || u.Mobile == "" || u.GPayHandle == "" {
		return fmt.Errorf("%w: name, email, mobile and gpay handle are required", ErrMissingField)
	}

	if !u.Role.IsValid() {
		return fmt.Errorf("%w: role must be owner or borrower", ErrMissingField)
	}

	switch u.Role {
	case RoleOwner:
		if u.QRCode == "" {
			return fmt.Errorf("%w: qr code is required for owners", ErrMissingField)
		}
	case RoleBorrower:
		if u.Address == "" || u.BankName == "" || u.AccountHolderName == "" || u.Photo == "" {
			return fmt.Errorf("%w: address, bank name, account holder name and photo are required for borrowers", ErrMissingField)
		}
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
