package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/iho/loantrack/internal/domain"
	"github.com/iho/loantrack/internal/infrastructure/metrics"
	"github.com/iho/loantrack/internal/usecase"
)

// Scheduler periodically scans active loans and sends due-date
// notifications: a reminder to the borrower when an installment falls due
// within the coming week, and a notice to the owner on the due day itself.
// Each (loan, cycle, kind) triple is delivered at most once, enforced by an
// atomic claim in the dedup store taken before the send.
type Scheduler struct {
	loanRepo usecase.LoanRepository
	userRepo usecase.UserRepository
	dedup    usecase.DedupStore
	gateway  usecase.NotificationGateway
	clock    usecase.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
	pool     *ants.Pool

	interval     time.Duration
	reminderDays int
	sendTimeout  time.Duration
	dedupTTL     time.Duration
}

// Config for Scheduler.
type Config struct {
	LoanRepo usecase.LoanRepository
	UserRepo usecase.UserRepository
	Dedup    usecase.DedupStore
	Gateway  usecase.NotificationGateway
	Clock    usecase.Clock
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	Interval     time.Duration // Time between scans
	ReminderDays int           // Days ahead a borrower reminder covers
	SendTimeout  time.Duration // Per-notification delivery budget
	DedupTTL     time.Duration // Lifetime of delivery claims
	PoolSize     int           // Concurrent loan workers per scan
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Interval == 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.ReminderDays == 0 {
		cfg.ReminderDays = 7
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.DedupTTL == 0 {
		cfg.DedupTTL = 45 * 24 * time.Hour
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 8
	}
	if cfg.Clock == nil {
		cfg.Clock = usecase.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	return &Scheduler{
		loanRepo:     cfg.LoanRepo,
		userRepo:     cfg.UserRepo,
		dedup:        cfg.Dedup,
		gateway:      cfg.Gateway,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		pool:         pool,
		interval:     cfg.Interval,
		reminderDays: cfg.ReminderDays,
		sendTimeout:  cfg.SendTimeout,
		dedupTTL:     cfg.DedupTTL,
	}, nil
}

// Start begins the notification worker.
// It runs continuously until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("notification scheduler started",
		slog.Duration("interval", s.interval),
		slog.Int("reminder_days", s.reminderDays))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.pool.Release()

	// Scan immediately on start
	if err := s.Scan(ctx); err != nil {
		s.logger.Error("error scanning loans on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("notification scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := s.Scan(ctx); err != nil {
				s.logger.Error("error scanning loans", slog.String("error", err.Error()))
			}
		}
	}
}

// Scan runs one notification pass over every active loan whose next
// installment falls between today and the end of the reminder window. Loans
// are processed concurrently; one loan's failure never blocks the rest.
func (s *Scheduler) Scan(ctx context.Context) error {
	started := time.Now()
	now := s.clock.Now().UTC()

	from := utcDay(now)
	to := from.AddDate(0, 0, s.reminderDays+1)

	loans, err := s.loanRepo.ListActiveDueBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("listing due loans: %w", err)
	}

	if len(loans) == 0 {
		return nil
	}

	s.logger.Info("processing due loans", slog.Int("count", len(loans)))

	var wg sync.WaitGroup
	for _, loan := range loans {
		loan := loan
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			s.processLoan(ctx, loan, now)
		}); err != nil {
			wg.Done()
			s.logger.Error("failed to submit loan to worker pool",
				slog.String("loan_id", loan.ID),
				slog.String("error", err.Error()))
		}
	}
	wg.Wait()

	if s.metrics != nil {
		s.metrics.ScanDuration.Observe(time.Since(started).Seconds())
	}

	return nil
}

// processLoan decides which notifications this loan's current cycle calls
// for and delivers them.
func (s *Scheduler) processLoan(ctx context.Context, loan *domain.Loan, now time.Time) {
	days := daysUntil(now, loan.NextPaymentDate)

	remind := days >= 0 && days <= s.reminderDays
	notice := days == 0
	if !remind && !notice {
		return
	}

	owner, err := s.userRepo.GetByID(ctx, loan.OwnerID)
	if err != nil {
		s.logger.Error("failed to load loan owner",
			slog.String("loan_id", loan.ID),
			slog.String("owner_id", loan.OwnerID),
			slog.String("error", err.Error()))
		return
	}

	borrower, err := s.userRepo.GetByID(ctx, loan.BorrowerID)
	if err != nil {
		s.logger.Error("failed to load loan borrower",
			slog.String("loan_id", loan.ID),
			slog.String("borrower_id", loan.BorrowerID),
			slog.String("error", err.Error()))
		return
	}

	if remind {
		s.deliver(ctx, loan, borrowerReminder(loan, owner, borrower))
	}
	if notice {
		s.deliver(ctx, loan, ownerDueNotice(loan, owner, borrower))
	}
}

// deliver sends a single notification, claiming its dedup key first. A key
// that is already claimed means this cycle's message went out on an earlier
// scan. When the gateway fails the claim is released so the next scan can
// retry.
func (s *Scheduler) deliver(ctx context.Context, loan *domain.Loan, n domain.Notification) {
	key := domain.DedupKey(loan.ID, loan.NextPaymentDate, n.Kind)

	claimed, err := s.dedup.Claim(ctx, key, s.dedupTTL)
	if err != nil {
		s.logger.Error("failed to claim notification",
			slog.String("loan_id", loan.ID),
			slog.String("kind", string(n.Kind)),
			slog.String("error", err.Error()))
		return
	}
	if !claimed {
		s.logger.Debug("notification already sent this cycle",
			slog.String("loan_id", loan.ID),
			slog.String("kind", string(n.Kind)))
		if s.metrics != nil {
			s.metrics.NotificationsDeduped.WithLabelValues(string(n.Kind)).Inc()
		}
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.gateway.Send(sendCtx, n.Recipient, n.Subject, n.Body); err != nil {
		s.logger.Error("failed to send notification",
			slog.String("loan_id", loan.ID),
			slog.String("kind", string(n.Kind)),
			slog.String("error", err.Error()))
		if s.metrics != nil {
			s.metrics.NotificationsFailed.WithLabelValues(string(n.Kind)).Inc()
		}

		// The scan context may already be cancelled when the send failed
		// during shutdown. Release on a fresh context so the claim does not
		// outlive the failure and suppress the next scan's retry.
		relCtx, relCancel := context.WithTimeout(context.Background(), s.sendTimeout)
		defer relCancel()
		if relErr := s.dedup.Release(relCtx, key); relErr != nil {
			s.logger.Error("failed to release notification claim",
				slog.String("loan_id", loan.ID),
				slog.String("kind", string(n.Kind)),
				slog.String("error", relErr.Error()))
		}
		return
	}

	s.logger.Info("notification sent",
		slog.String("loan_id", loan.ID),
		slog.String("kind", string(n.Kind)),
		slog.String("recipient", n.Recipient))
	if s.metrics != nil {
		s.metrics.NotificationsSent.WithLabelValues(string(n.Kind)).Inc()
	}
}

// utcDay truncates an instant to its UTC calendar day.
func utcDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysUntil counts whole UTC calendar days from now until due. Zero means
// due today, negative means overdue.
func daysUntil(now, due time.Time) int {
	return int(utcDay(due).Sub(utcDay(now)).Hours() / 24)
}
