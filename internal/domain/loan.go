package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the persisted lifecycle state of a loan. Overdue is never
// stored; it is derived with IsOverdue at read time.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
)

// PaymentMethod describes how a payment was made.
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCash   PaymentMethod = "cash"
)

// PaymentRecord is one entry in a loan's payment history. Records are
// immutable once appended; insertion order is the order of recording.
type PaymentRecord struct {
	ID            string
	Amount        decimal.Decimal
	Date          time.Time
	Method        PaymentMethod
	TransactionID string
	Notes         string
}

// Loan is a peer-to-peer loan between an owner (lender) and a borrower.
// Terms are fixed at creation; the ledger fields mutate only through
// ApplyPayment and ApplyCorrection.
type Loan struct {
	ID         string
	OwnerID    string
	BorrowerID string

	// Terms, immutable after creation.
	Principal      decimal.Decimal
	InterestRate   decimal.Decimal
	DurationMonths int
	TotalAmount    decimal.Decimal
	MonthlyAmount  decimal.Decimal

	// Ledger state.
	AmountPaid      decimal.Decimal
	BalanceAmount   decimal.Decimal
	Status          LoanStatus
	StartDate       time.Time
	NextPaymentDate time.Time
	LastPaymentDate *time.Time
	PaymentHistory  []PaymentRecord

	// Version guards concurrent updates via compare-and-swap in the store.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLoan creates a loan with terms computed from principal, rate and
// duration. The first installment is due one month after start.
func NewLoan(id, ownerID, borrowerID string, principal, ratePercent decimal.Decimal, durationMonths int, startDate time.Time) (*Loan, error) {
	total, monthly, err := ComputeTerms(principal, ratePercent, durationMonths)
	if err != nil {
		return nil, err
	}

	return &Loan{
		ID:              id,
		OwnerID:         ownerID,
		BorrowerID:      borrowerID,
		Principal:       principal,
		InterestRate:    ratePercent,
		DurationMonths:  durationMonths,
		TotalAmount:     total,
		MonthlyAmount:   monthly,
		AmountPaid:      decimal.Zero,
		BalanceAmount:   total,
		Status:          LoanStatusActive,
		StartDate:       startDate,
		NextPaymentDate: AdvanceOneMonth(startDate),
		PaymentHistory:  []PaymentRecord{},
		Version:         0,
		CreatedAt:       startDate,
		UpdatedAt:       startDate,
	}, nil
}

// ApplyPayment appends a payment record and updates the ledger state.
// Balance reaching zero completes the loan and freezes NextPaymentDate;
// any other payment advances NextPaymentDate by one clamped month, whether
// or not the amount covers a full installment. That matches the monthly-
// cycle model this tracker uses: there is no partial-period proration.
func (l *Loan) ApplyPayment(record PaymentRecord) error {
	if record.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", ErrInvalidPayment, record.Amount)
	}

	l.PaymentHistory = append(l.PaymentHistory, record)
	l.AmountPaid = l.AmountPaid.Add(record.Amount)
	paidAt := record.Date
	l.LastPaymentDate = &paidAt

	wasActive := l.Status == LoanStatusActive
	l.recomputeBalance()

	if l.Status == LoanStatusActive && wasActive {
		l.NextPaymentDate = AdvanceOneMonth(l.NextPaymentDate)
	}

	l.UpdatedAt = record.Date
	return nil
}

// ApplyCorrection is the owner's administrative override of the ledger
// state. It replaces AmountPaid and recomputes balance and status exactly
// like a payment, but appends no history record and never moves
// NextPaymentDate.
func (l *Loan) ApplyCorrection(newAmountPaid *decimal.Decimal, newLastPaymentDate *time.Time, now time.Time) error {
	if newAmountPaid != nil {
		if newAmountPaid.IsNegative() || newAmountPaid.GreaterThan(l.TotalAmount) {
			return fmt.Errorf("%w: amount paid must be between 0 and %s", ErrInvalidCorrection, l.TotalAmount)
		}
		l.AmountPaid = *newAmountPaid
		l.recomputeBalance()
	}

	if newLastPaymentDate != nil {
		d := *newLastPaymentDate
		l.LastPaymentDate = &d
	}

	l.UpdatedAt = now
	return nil
}

func (l *Loan) recomputeBalance() {
	balance := l.TotalAmount.Sub(l.AmountPaid)
	if balance.LessThanOrEqual(decimal.Zero) {
		balance = decimal.Zero
	}

	l.BalanceAmount = balance
	if balance.IsZero() {
		l.Status = LoanStatusCompleted
	} else {
		l.Status = LoanStatusActive
	}
}

// IsOverdue reports whether the loan's next installment is past due as of
// the given instant. Derived, never persisted.
func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.Status == LoanStatusActive && asOf.After(l.NextPaymentDate)
}

// CanDelete reports whether the loan may be removed from the store.
func (l *Loan) CanDelete() bool {
	return l.Status == LoanStatusCompleted
}

// IsOwnedBy reports whether the given user is the loan's owner.
func (l *Loan) IsOwnedBy(userID string) bool {
	return l.OwnerID == userID
}

// IsParty reports whether the given user is the loan's owner or borrower.
func (l *Loan) IsParty(userID string) bool {
	return l.OwnerID == userID || l.BorrowerID == userID
}
