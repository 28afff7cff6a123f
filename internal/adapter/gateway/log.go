package gateway

import (
	"context"
	"log/slog"
)

// LogGateway is a gateway that logs notifications instead of sending them.
// Useful for local development where no SMTP server is configured.
type LogGateway struct {
	logger *slog.Logger
}

// NewLogGateway creates a new LogGateway.
func NewLogGateway(logger *slog.Logger) *LogGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogGateway{logger: logger}
}

// Send logs the notification.
func (g *LogGateway) Send(ctx context.Context, recipient, subject, body string) error {
	g.logger.Info("NOTIFICATION SENT",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
		slog.String("body", body))

	return nil
}
