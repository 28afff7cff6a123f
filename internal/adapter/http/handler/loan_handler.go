package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/loantrack/internal/adapter/http/dto"
	"github.com/iho/loantrack/internal/adapter/http/middleware"
	"github.com/iho/loantrack/internal/domain"
	"github.com/iho/loantrack/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id, callerID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, input usecase.ListLoansInput) ([]*domain.Loan, error)
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Loan, error)
	ApplyCorrection(ctx context.Context, input usecase.CorrectionInput) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id, callerID string) error
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC LoanService
	clock  usecase.Clock
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService, clock usecase.Clock) *LoanHandler {
	if clock == nil {
		clock = usecase.SystemClock{}
	}
	return &LoanHandler{loanUC: loanUC, clock: clock}
}

// Create creates a new loan with the caller as owner.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput(caller.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan, h.now()))
}

// Get retrieves a loan by ID, restricted to its parties.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id, caller.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan, h.now()))
}

// List lists the caller's loans, lent or borrowed depending on role.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	loans, err := h.loanUC.ListLoans(r.Context(), usecase.ListLoansInput{
		CallerID: caller.ID,
		Role:     caller.Role,
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLoansResponse{
		Loans: dto.LoansFromDomain(loans, h.now()),
		Total: int64(len(loans)),
	})
}

// RecordPayment appends a payment to the loan's ledger.
func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.RecordPayment(r.Context(), req.ToUseCaseInput(id, caller.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan, h.now()))
}

// Correct applies an owner's manual ledger correction.
func (h *LoanHandler) Correct(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	var req dto.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.ApplyCorrection(r.Context(), req.ToUseCaseInput(id, caller.ID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply correction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan, h.now()))
}

// Delete removes a completed loan.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.loanUC.DeleteLoan(r.Context(), id, caller.ID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete loan", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *LoanHandler) now() time.Time {
	return h.clock.Now()
}
