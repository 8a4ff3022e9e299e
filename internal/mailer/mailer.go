// Package mailer delivers practice emails to guardians.
package mailer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrNotConfigured is returned by the production fallback sender when no
// sender address is configured.
var ErrNotConfigured = errors.New("email delivery is not configured")

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures the sender.
type Config struct {
	From       string
	FromName   string
	Region     string
	Production bool
}

// New returns an SES sender when a from address is configured. Without
// one it falls back to logging outside production and to a sender that
// always fails with ErrNotConfigured in production.
func New(ctx context.Context, cfg Config) (Sender, error) {
	if strings.TrimSpace(cfg.From) == "" {
		if cfg.Production {
			slog.Warn("email delivery not configured; summary emails will fail")
			return unconfiguredSender{}, nil
		}
		slog.Info("email delivery not configured; logging messages instead")
		return NewLogSender(slog.Default()), nil
	}
	return NewSESSender(ctx, cfg)
}

type unconfiguredSender struct{}

func (unconfiguredSender) Send(context.Context, Message) error { return ErrNotConfigured }

// LogSender logs messages instead of sending them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender writing to logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email simulated",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}
