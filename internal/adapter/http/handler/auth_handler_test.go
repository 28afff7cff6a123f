package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/loantrack/internal/domain"
	"github.com/iho/loantrack/internal/infrastructure/auth"
	"github.com/iho/loantrack/internal/infrastructure/metrics"
	"github.com/iho/loantrack/internal/usecase"
)

type fakeAuthService struct {
	authErr error
}

func (f *fakeAuthService) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: input.Email, Role: input.Role}, nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &domain.User{ID: "user-1", Email: input.Email, Role: domain.RoleOwner}, nil
}

func TestAuthHandlerLoginCountsAttempts(t *testing.T) {
	// Replace global default registry to allow test inspection.
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
	m := metrics.New()

	svc := &fakeAuthService{authErr: errors.New("bad credentials")}
	h := NewAuthHandler(svc, auth.NewJWTManager("test-secret", time.Minute), m)

	body := `{"email":"owner@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(m.AuthAttempts.WithLabelValues("failure")); got != 1 {
		t.Fatalf("expected 1 failed attempt, got %v", got)
	}
	if got := testutil.ToFloat64(m.AuthAttempts.WithLabelValues("success")); got != 0 {
		t.Fatalf("expected no successful attempts yet, got %v", got)
	}

	svc.authErr = nil
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(
		`{"email":"owner@example.com","password":"right"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := testutil.ToFloat64(m.AuthAttempts.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 successful attempt, got %v", got)
	}
}

func TestAuthHandlerLoginWithoutMetrics(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{}, auth.NewJWTManager("test-secret", time.Minute), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(
		`{"email":"owner@example.com","password":"right"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with nil metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"token"`) {
		t.Fatalf("expected token in response: %s", rec.Body.String())
	}
}
