package usecase

import (
	"context"
	"time"

	"github.com/iho/loantrack/internal/domain"
)

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	// Update persists the loan only if the stored version still matches
	// loan.Version, then bumps it. Returns domain.ErrVersionConflict when
	// another writer got there first.
	Update(ctx context.Context, loan *domain.Loan) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Loan, error)
	ListByBorrower(ctx context.Context, borrowerID string, limit, offset int) ([]*domain.Loan, error)
	// ListActiveDueBetween returns active loans whose NextPaymentDate falls
	// within [from, to]. The notification scan is built on this query.
	ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Loan, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.User, error)
}

// DedupStore records which notifications have been sent for a cycle.
type DedupStore interface {
	// Claim atomically marks the key as sent; the bool reports whether this
	// caller won the claim. Two overlapping scans can never both win.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees a claimed key so the next scan retries, used when the
	// gateway send behind the claim failed.
	Release(ctx context.Context, key string) error
}

// NotificationGateway delivers a rendered message to a recipient address.
// Content is opaque to the gateway.
type NotificationGateway interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current instant. Injected so scheduler and ledger
// logic can be driven by a simulated clock in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used outside tests.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
