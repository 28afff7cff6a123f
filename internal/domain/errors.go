package domain

import "errors"

var (
	// Loan errors
	ErrInvalidTerms      = errors.New("invalid loan terms")
	ErrInvalidPayment    = errors.New("payment amount must be positive")
	ErrInvalidCorrection = errors.New("correction amount out of range")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrLoanNotCompleted  = errors.New("only completed loans can be deleted")
	ErrVersionConflict   = errors.New("loan was modified concurrently")

	// Authorization errors
	ErrNotAuthorized = errors.New("caller is not authorized for this loan")
)
