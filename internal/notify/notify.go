// Package notify tells a human that a scheduled run gave up.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("sigahorarios.internal.notify")

// Failure describes a run that exhausted its attempts.
type Failure struct {
	RunID    string
	Campus   string
	Period   string
	Attempts int
	At       time.Time
	Err      error
}

type Notifier interface {
	NotifyFailure(ctx context.Context, failure Failure) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) NotifyFailure(context.Context, Failure) error {
	return nil
}

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

func (c SmtpConfig) Configured() bool {
	return c.Server != "" && len(c.To) > 0
}

type sendFunc func(mail *email.Email, addr string, auth smtp.Auth) error

func send(mail *email.Email, addr string, auth smtp.Auth) error {
	return mail.Send(addr, auth)
}

// Email sends notifications through an SMTP server.
type Email struct {
	config SmtpConfig
	send   sendFunc
}

// New returns an Email notifier, or Nop when no SMTP server is configured.
func New(config SmtpConfig) Notifier {
	if !config.Configured() {
		return Nop{}
	}
	return Email{config: config, send: send}
}

// Compose builds the message sent for a failure.
func (e Email) Compose(failure Failure) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("SIGA Horarios <%s>", e.config.EmailAddress)
	mail.To = e.config.To
	mail.Subject = fmt.Sprintf("Actualización fallida: %s %s", failure.Campus, failure.Period)

	body := fmt.Sprintf(`The schedule update for %s %s failed after %d attempts.

Run: %s
Time: %s
Last error: %v`,
		failure.Campus,
		failure.Period,
		failure.Attempts,
		failure.RunID,
		failure.At.Format(time.RFC3339),
		failure.Err,
	)
	mail.Text = []byte(body)
	return mail
}

func (e Email) NotifyFailure(ctx context.Context, failure Failure) error {
	_, span := tracer.Start(ctx, "NotifyFailure")
	defer span.End()

	mail := e.Compose(failure)
	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	err := e.send(mail, addr, smtp.PlainAuth("", e.config.EmailAddress, e.config.Password, e.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = e.send(mail, addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
