package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loantrack/internal/domain"
	"github.com/iho/loantrack/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	GPayHandle string `json:"gpay_handle"`
	Password   string `json:"password"`
	Role       string `json:"role"`

	// Owner-only.
	QRCode string `json:"qr_code,omitempty"`

	// Borrower-only.
	Address           string `json:"address,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	AccountHolderName string `json:"account_holder_name,omitempty"`
	Photo             string `json:"photo,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:              r.Name,
		Email:             r.Email,
		Mobile:            r.Mobile,
		GPayHandle:        r.GPayHandle,
		Password:          r.Password,
		Role:              domain.Role(r.Role),
		QRCode:            r.QRCode,
		Address:           r.Address,
		BankName:          r.BankName,
		AccountHolderName: r.AccountHolderName,
		Photo:             r.Photo,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a profile update. Absent fields are left
// unchanged; email, role and password cannot be changed here.
type UpdateProfileRequest struct {
	Name              *string `json:"name,omitempty"`
	Mobile            *string `json:"mobile,omitempty"`
	GPayHandle        *string `json:"gpay_handle,omitempty"`
	QRCode            *string `json:"qr_code,omitempty"`
	Address           *string `json:"address,omitempty"`
	BankName          *string `json:"bank_name,omitempty"`
	AccountHolderName *string `json:"account_holder_name,omitempty"`
	Photo             *string `json:"photo,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateProfileRequest) ToUseCaseInput(userID string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		ID:                userID,
		Name:              r.Name,
		Mobile:            r.Mobile,
		GPayHandle:        r.GPayHandle,
		QRCode:            r.QRCode,
		Address:           r.Address,
		BankName:          r.BankName,
		AccountHolderName: r.AccountHolderName,
		Photo:             r.Photo,
	}
}

// CreateLoanRequest represents a request to create a loan.
type CreateLoanRequest struct {
	BorrowerID     string          `json:"borrower_id"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	DurationMonths int             `json:"duration_months"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput(ownerID string) usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		OwnerID:        ownerID,
		BorrowerID:     r.BorrowerID,
		Principal:      r.Principal,
		InterestRate:   r.InterestRate,
		DurationMonths: r.DurationMonths,
	}
}

// RecordPaymentRequest represents a request to record a payment.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput(loanID, callerID string) usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		LoanID:        loanID,
		CallerID:      callerID,
		Amount:        r.Amount,
		Method:        domain.PaymentMethod(r.Method),
		TransactionID: r.TransactionID,
		Notes:         r.Notes,
	}
}

// CorrectionRequest represents an owner's manual ledger correction.
type CorrectionRequest struct {
	AmountPaid      *decimal.Decimal `json:"amount_paid,omitempty"`
	LastPaymentDate *time.Time       `json:"last_payment_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CorrectionRequest) ToUseCaseInput(loanID, callerID string) usecase.CorrectionInput {
	return usecase.CorrectionInput{
		LoanID:             loanID,
		CallerID:           callerID,
		NewAmountPaid:      r.AmountPaid,
		NewLastPaymentDate: r.LastPaymentDate,
	}
}
