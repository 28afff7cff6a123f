package domain

import (
	"errors"
	"time"
)

// User is a participant in the lending relationship.
type User struct {
	ID             string
	Name           string
	Email          string
	Mobile         string
	GPayHandle     string
	HashedPassword string
	Role           Role

	// Owner-specific: base64-encoded payment QR code shown to borrowers.
	QRCode string

	// Borrower-specific fields.
	Address           string
	BankName          string
	AccountHolderName string
	Photo             string

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role represents which side of a loan a user sits on.
type Role string

const (
	// RoleOwner lends money and may create loans and correct ledgers.
	RoleOwner Role = "owner"

	// RoleBorrower receives loans and may record payments on them.
	RoleBorrower Role = "borrower"
)

var validRoles = map[Role]bool{
	RoleOwner:    true,
	RoleBorrower: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanCreateLoans checks if the role may create loans.
func (r Role) CanCreateLoans() bool {
	return r == RoleOwner
}

// Authentication errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
