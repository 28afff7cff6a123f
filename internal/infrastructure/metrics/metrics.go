package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Loan metrics
	LoansCreated     prometheus.Counter
	LoansDeleted     prometheus.Counter
	PaymentsRecorded prometheus.Counter
	PaymentAmount    prometheus.Histogram
	CorrectionsMade  prometheus.Counter

	// Notification metrics
	NotificationsSent    *prometheus.CounterVec
	NotificationsFailed  *prometheus.CounterVec
	NotificationsDeduped *prometheus.CounterVec
	ScanDuration         prometheus.Histogram

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Loan metrics
		LoansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loantrack_loans_created_total",
			Help: "Total number of loans created",
		}),
		LoansDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loantrack_loans_deleted_total",
			Help: "Total number of loans deleted",
		}),
		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loantrack_payments_recorded_total",
			Help: "Total number of payments recorded",
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loantrack_payment_amount",
			Help:    "Recorded payment amounts",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		}),
		CorrectionsMade: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loantrack_corrections_total",
			Help: "Total number of manual ledger corrections",
		}),

		// Notification metrics
		NotificationsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loantrack_notifications_sent_total",
				Help: "Total notifications delivered by kind",
			},
			[]string{"kind"},
		),
		NotificationsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loantrack_notifications_failed_total",
				Help: "Total notification delivery failures by kind",
			},
			[]string{"kind"},
		),
		NotificationsDeduped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loantrack_notifications_deduped_total",
				Help: "Total notifications skipped because this cycle was already delivered",
			},
			[]string{"kind"},
		),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loantrack_notification_scan_duration_seconds",
			Help:    "Duration of notification scans",
			Buckets: prometheus.DefBuckets,
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loantrack_auth_attempts_total",
				Help: "Total authentication attempts by outcome",
			},
			[]string{"status"},
		),
	}
}
