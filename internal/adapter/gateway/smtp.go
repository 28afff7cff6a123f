package gateway

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPGateway delivers notifications as plain-text email over SMTP.
type SMTPGateway struct {
	addr string
	from string
	auth smtp.Auth
}

// SMTPConfig for SMTPGateway.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPGateway creates a new SMTPGateway.
func NewSMTPGateway(cfg SMTPConfig) *SMTPGateway {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPGateway{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

// Send delivers one message. The context deadline is honored by running the
// SMTP exchange in a goroutine; smtp.SendMail itself has no context support.
func (g *SMTPGateway) Send(ctx context.Context, recipient, subject, body string) error {
	msg := buildMessage(g.from, recipient, subject, body)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(g.addr, g.auth, g.from, []string{recipient}, msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending mail to %s: %w", recipient, err)
		}
		return nil
	}
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
