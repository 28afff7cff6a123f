package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/loantrack/internal/adapter/http/handler"
	apimiddleware "github.com/iho/loantrack/internal/adapter/http/middleware"
	"github.com/iho/loantrack/internal/domain"
	"github.com/iho/loantrack/internal/infrastructure/auth"
	"github.com/iho/loantrack/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_LoansRequireAuthentication(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestNewRouter_LoanCreationIsOwnerOnly(t *testing.T) {
	jwtManager := testJWTManager()
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
	}))

	body := `{"borrower_id":"borrower-1","principal":"1000","interest_rate":"10","duration_months":10}`

	borrowerToken := mintToken(t, jwtManager, "borrower-1", domain.RoleBorrower)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+borrowerToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected borrower to be forbidden, got %d", rec.Code)
	}

	ownerToken := mintToken(t, jwtManager, "owner-1", domain.RoleOwner)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/loans/", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected owner to create loan, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_ManualScanIsOwnerOnly(t *testing.T) {
	jwtManager := testJWTManager()
	scanner := &stubScanner{}
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
		cfg.NotificationHandler = handler.NewNotificationHandler(scanner)
	}))

	borrowerToken := mintToken(t, jwtManager, "borrower-1", domain.RoleBorrower)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/scan", nil)
	req.Header.Set("Authorization", "Bearer "+borrowerToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected borrower to be forbidden, got %d", rec.Code)
	}
	if scanner.scans != 0 {
		t.Fatalf("expected no scan for forbidden request, got %d", scanner.scans)
	}

	ownerToken := mintToken(t, jwtManager, "owner-1", domain.RoleOwner)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/notifications/scan", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected owner to trigger scan, got %d: %s", rec.Code, rec.Body.String())
	}
	if scanner.scans != 1 {
		t.Fatalf("expected exactly one scan, got %d", scanner.scans)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	jwtManager := testJWTManager()
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
		cfg.IdempotencyStore = store
	}))

	token := mintToken(t, jwtManager, "owner-1", domain.RoleOwner)
	body := `{"borrower_id":"borrower-1","principal":"1000","interest_rate":"10","duration_months":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/users/profile",
		"PUT /api/v1/users/profile",
		"GET /api/v1/users/by-role/{role}",
		"POST /api/v1/loans/",
		"GET /api/v1/loans/",
		"GET /api/v1/loans/{id}",
		"POST /api/v1/loans/{id}/payments",
		"PATCH /api/v1/loans/{id}",
		"DELETE /api/v1/loans/{id}",
		"POST /api/v1/notifications/scan",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Minute)
}

func mintToken(t *testing.T, m *auth.JWTManager, userID string, role domain.Role) string {
	t.Helper()

	token, err := m.Generate(&domain.User{ID: userID, Email: userID + "@example.com", Role: role})
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	return token
}

func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	cfg := RouterConfig{
		AuthHandler:         handler.NewAuthHandler(&stubUserService{}, testJWTManager(), nil),
		UserHandler:         handler.NewUserHandler(&stubUserService{}),
		LoanHandler:         handler.NewLoanHandler(&stubLoanService{}, usecase.SystemClock{}),
		HealthHandler:       &handler.HealthHandler{},
		NotificationHandler: handler.NewNotificationHandler(&stubScanner{}),
		JWTManager:          testJWTManager(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubLoanService struct{}

func (stubLoanService) CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
	return &domain.Loan{ID: "loan-1", OwnerID: input.OwnerID, BorrowerID: input.BorrowerID}, nil
}

func (stubLoanService) GetLoan(ctx context.Context, id, callerID string) (*domain.Loan, error) {
	return &domain.Loan{ID: id}, nil
}

func (stubLoanService) ListLoans(ctx context.Context, input usecase.ListLoansInput) ([]*domain.Loan, error) {
	return []*domain.Loan{}, nil
}

func (stubLoanService) RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Loan, error) {
	return &domain.Loan{ID: input.LoanID}, nil
}

func (stubLoanService) ApplyCorrection(ctx context.Context, input usecase.CorrectionInput) (*domain.Loan, error) {
	return &domain.Loan{ID: input.LoanID}, nil
}

func (stubLoanService) DeleteLoan(ctx context.Context, id, callerID string) error {
	return nil
}

type stubUserService struct{}

func (stubUserService) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: input.Email, Role: input.Role}, nil
}

func (stubUserService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: input.Email}, nil
}

func (stubUserService) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (stubUserService) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*domain.User, error) {
	return &domain.User{ID: input.ID}, nil
}

func (stubUserService) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.User, error) {
	return []*domain.User{}, nil
}

type stubScanner struct {
	scans int
}

func (s *stubScanner) Scan(ctx context.Context) error {
	s.scans++
	return nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
