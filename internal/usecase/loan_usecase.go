package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/loantrack/internal/domain"
	"github.com/iho/loantrack/internal/infrastructure/metrics"
)

// LoanUseCase handles loan lifecycle business logic.
type LoanUseCase struct {
	loanRepo LoanRepository
	userRepo UserRepository
	idGen    IDGenerator
	clock    Clock
	metrics  *metrics.Metrics
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(loanRepo LoanRepository, userRepo UserRepository, idGen IDGenerator, clock Clock, metrics *metrics.Metrics) *LoanUseCase {
	return &LoanUseCase{
		loanRepo: loanRepo,
		userRepo: userRepo,
		idGen:    idGen,
		clock:    clock,
		metrics:  metrics,
	}
}

// CreateLoanInput represents input for creating a loan.
type CreateLoanInput struct {
	OwnerID        string
	BorrowerID     string
	Principal      decimal.Decimal
	InterestRate   decimal.Decimal
	DurationMonths int
}

// CreateLoan creates a loan with terms fixed at creation. Only owners may
// lend, and the counterparty must be an active borrower.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	owner, err := uc.userRepo.GetByID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != domain.RoleOwner {
		return nil, fmt.Errorf("%w: only owners can create loans", domain.ErrNotAuthorized)
	}

	borrower, err := uc.userRepo.GetByID(ctx, input.BorrowerID)
	if err != nil {
		return nil, err
	}
	if borrower.Role != domain.RoleBorrower || !borrower.Active {
		return nil, fmt.Errorf("%w: counterparty must be an active borrower", domain.ErrInvalidTerms)
	}

	loan, err := domain.NewLoan(
		uc.idGen.Generate(),
		input.OwnerID,
		input.BorrowerID,
		input.Principal,
		input.InterestRate,
		input.DurationMonths,
		uc.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansCreated.Inc()
	}

	return loan, nil
}

// GetLoan retrieves a loan, restricted to its two parties.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id, callerID string) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !loan.IsParty(callerID) {
		return nil, domain.ErrNotAuthorized
	}

	return loan, nil
}

// ListLoansInput represents input for listing a user's loans.
type ListLoansInput struct {
	CallerID string
	Role     domain.Role
	Limit    int
	Offset   int
}

// ListLoans lists loans where the caller is the lender or the borrower,
// depending on their role.
func (uc *LoanUseCase) ListLoans(ctx context.Context, input ListLoansInput) ([]*domain.Loan, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.Role == domain.RoleOwner {
		return uc.loanRepo.ListByOwner(ctx, input.CallerID, limit, offset)
	}

	return uc.loanRepo.ListByBorrower(ctx, input.CallerID, limit, offset)
}

// RecordPaymentInput represents input for recording a payment.
type RecordPaymentInput struct {
	LoanID        string
	CallerID      string
	Amount        decimal.Decimal
	Method        domain.PaymentMethod
	TransactionID string
	Notes         string
}

// RecordPayment appends a payment to the loan ledger. The mutation is
// all-or-nothing: it runs on a freshly loaded copy and is persisted as a
// single versioned write, retried on conflict so concurrent payments on
// the same loan serialize.
func (uc *LoanUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Loan, error) {
	method := input.Method
	if method == "" {
		method = domain.PaymentMethodOnline
	}

	loan, err := uc.updateLoan(ctx, input.LoanID, func(loan *domain.Loan) error {
		if !loan.IsParty(input.CallerID) {
			return domain.ErrNotAuthorized
		}

		return loan.ApplyPayment(domain.PaymentRecord{
			ID:            uc.idGen.Generate(),
			Amount:        input.Amount,
			Date:          uc.clock.Now(),
			Method:        method,
			TransactionID: input.TransactionID,
			Notes:         input.Notes,
		})
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.Inc()
		uc.metrics.PaymentAmount.Observe(input.Amount.InexactFloat64())
	}

	return loan, nil
}

// CorrectionInput represents an owner's manual ledger override.
type CorrectionInput struct {
	LoanID             string
	CallerID           string
	NewAmountPaid      *decimal.Decimal
	NewLastPaymentDate *time.Time
}

// ApplyCorrection replaces the paid amount and/or last payment date
// without touching payment history or the due-date cycle.
func (uc *LoanUseCase) ApplyCorrection(ctx context.Context, input CorrectionInput) (*domain.Loan, error) {
	loan, err := uc.updateLoan(ctx, input.LoanID, func(loan *domain.Loan) error {
		if !loan.IsOwnedBy(input.CallerID) {
			return domain.ErrNotAuthorized
		}

		return loan.ApplyCorrection(input.NewAmountPaid, input.NewLastPaymentDate, uc.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CorrectionsMade.Inc()
	}

	return loan, nil
}

// DeleteLoan removes a loan from the store. Only the loan's parties may
// delete, and only once the loan is fully paid off.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, id, callerID string) error {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !loan.IsParty(callerID) {
		return domain.ErrNotAuthorized
	}

	if !loan.CanDelete() {
		return domain.ErrLoanNotCompleted
	}

	if err := uc.loanRepo.Delete(ctx, id); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.LoansDeleted.Inc()
	}

	return nil
}

// updateLoan runs mutate on a fresh copy of the loan and persists it with
// an optimistic version check, backing off and reloading when a concurrent
// writer wins the race.
func (uc *LoanUseCase) updateLoan(ctx context.Context, id string, mutate func(*domain.Loan) error) (*domain.Loan, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = updateRetryInterval

	var updated *domain.Loan
	attempt := 0

	err := backoff.Retry(func() error {
		loan, err := uc.loanRepo.GetByID(ctx, id)
		if err != nil {
			return backoff.Permanent(err)
		}

		if err := mutate(loan); err != nil {
			return backoff.Permanent(err)
		}

		if err := uc.loanRepo.Update(ctx, loan); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				attempt++
				if attempt >= maxUpdateRetries {
					return backoff.Permanent(err)
				}
				return err
			}
			return backoff.Permanent(err)
		}

		updated = loan
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}

	return updated, nil
}
