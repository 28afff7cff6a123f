package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/loantrack/internal/domain"
)

// UserResponse represents a user in API responses. The password hash is
// never serialized.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Mobile     string      `json:"mobile"`
	GPayHandle string      `json:"gpay_handle"`
	Role       domain.Role `json:"role"`

	QRCode string `json:"qr_code,omitempty"`

	Address           string `json:"address,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	AccountHolderName string `json:"account_holder_name,omitempty"`
	Photo             string `json:"photo,omitempty"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Mobile:            u.Mobile,
		GPayHandle:        u.GPayHandle,
		Role:              u.Role,
		QRCode:            u.QRCode,
		Address:           u.Address,
		BankName:          u.BankName,
		AccountHolderName: u.AccountHolderName,
		Photo:             u.Photo,
		Active:            u.Active,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// AuthResponse represents a successful login or registration.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// PaymentRecordResponse represents one ledger entry in API responses.
type PaymentRecordResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// LoanResponse represents a loan in API responses. Overdue is derived from
// the next payment date at render time, never stored.
type LoanResponse struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	BorrowerID string `json:"borrower_id"`

	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	DurationMonths int             `json:"duration_months"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	MonthlyAmount  decimal.Decimal `json:"monthly_amount"`

	AmountPaid      decimal.Decimal         `json:"amount_paid"`
	BalanceAmount   decimal.Decimal         `json:"balance_amount"`
	Status          domain.LoanStatus       `json:"status"`
	Overdue         bool                    `json:"overdue"`
	StartDate       time.Time               `json:"start_date"`
	NextPaymentDate time.Time               `json:"next_payment_date"`
	LastPaymentDate *time.Time              `json:"last_payment_date,omitempty"`
	PaymentHistory  []PaymentRecordResponse `json:"payment_history"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan, asOf time.Time) *LoanResponse {
	history := make([]PaymentRecordResponse, len(l.PaymentHistory))
	for i, p := range l.PaymentHistory {
		history[i] = PaymentRecordResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			Date:          p.Date,
			Method:        string(p.Method),
			TransactionID: p.TransactionID,
			Notes:         p.Notes,
		}
	}

	return &LoanResponse{
		ID:              l.ID,
		OwnerID:         l.OwnerID,
		BorrowerID:      l.BorrowerID,
		Principal:       l.Principal,
		InterestRate:    l.InterestRate,
		DurationMonths:  l.DurationMonths,
		TotalAmount:     l.TotalAmount,
		MonthlyAmount:   l.MonthlyAmount,
		AmountPaid:      l.AmountPaid,
		BalanceAmount:   l.BalanceAmount,
		Status:          l.Status,
		Overdue:         l.IsOverdue(asOf),
		StartDate:       l.StartDate,
		NextPaymentDate: l.NextPaymentDate,
		LastPaymentDate: l.LastPaymentDate,
		PaymentHistory:  history,
		Version:         l.Version,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan, asOf time.Time) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l, asOf)
	}
	return result
}

// ListLoansResponse wraps a page of loans.
type ListLoansResponse struct {
	Loans []*LoanResponse `json:"loans"`
	Total int64           `json:"total"`
}

// ListUsersResponse wraps a page of users.
type ListUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Total int64           `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
