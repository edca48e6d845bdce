// Package mailer sends account email, currently the verification link.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"pierres.shop/app/internal/config"
)

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string
	From     string

	To  []string
	Cc  []string
	Bcc []string

	Subject string

	TextBody string
	HTMLBody string

	Headers map[string]string
}

func (e Email) AllRecipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	out = append(out, e.To...)
	out = append(out, e.Cc...)
	out = append(out, e.Bcc...)
	return out
}

// Sender is the From identity of outgoing mail.
type Sender struct {
	Name    string
	Address string
}

// VerificationEmail is the message carrying a new account's verification link.
func VerificationEmail(from Sender, to, firstName, link string) Email {
	greeting := "Hi"
	if firstName != "" {
		greeting = "Hi " + firstName
	}
	return Email{
		FromName: from.Name,
		From:     from.Address,
		To:       []string{to},
		Subject:  "Verify your email for Pierre's",
		TextBody: fmt.Sprintf("%s,\n\nYou are super close to joining Pierre's! Open the link below to verify your email:\n\n%s\n\nThe link expires in 30 minutes.\n", greeting, link),
	}
}

// Log writes messages to a logger instead of sending them. It is the mailer
// when no SMTP host is configured.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Send(ctx context.Context, e Email) error {
	if _, err := buildMessage(e, "localhost"); err != nil {
		return err
	}
	l.Logger.LogAttrs(ctx, slog.LevelInfo, "mail_logged",
		slog.Any("to", e.To),
		slog.String("subject", e.Subject),
		slog.String("body", e.TextBody),
	)
	return nil
}

// FromConfig returns an SMTP mailer, or Log when no host is configured.
func FromConfig(cfg config.SMTP, logger *slog.Logger) Service {
	if cfg.Host == "" {
		return Log{Logger: logger}
	}
	return NewSMTPMailer(cfg)
}
