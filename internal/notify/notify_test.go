package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/require"
)

var config = SmtpConfig{
	Server:       "smtp.example.cl",
	Port:         587,
	EmailAddress: "bot@example.cl",
	Password:     "secret",
	To:           []string{"admin@example.cl"},
}

var failure = Failure{
	RunID:    "4b0c4d1e",
	Campus:   "Casa Central",
	Period:   "2024-1",
	Attempts: 5,
	At:       time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC),
	Err:      errors.New("row 12: wait for detail window: timed out"),
}

func TestNewWithoutServer(t *testing.T) {
	require.Equal(t, Nop{}, New(SmtpConfig{}))
	require.Equal(t, Nop{}, New(SmtpConfig{Server: "smtp.example.cl"}))
	require.NoError(t, Nop{}.NotifyFailure(context.Background(), failure))
}

func TestCompose(t *testing.T) {
	mail := New(config).(Email).Compose(failure)
	require.Equal(t, "SIGA Horarios <bot@example.cl>", mail.From)
	require.Equal(t, []string{"admin@example.cl"}, mail.To)
	require.Contains(t, mail.Subject, "Casa Central 2024-1")
	require.Contains(t, string(mail.Text), "after 5 attempts")
	require.Contains(t, string(mail.Text), "row 12: wait for detail window")
	require.Contains(t, string(mail.Text), "4b0c4d1e")
}

func TestNotifyFallsBackWithoutAuth(t *testing.T) {
	auths := []smtp.Auth{}
	notifier := Email{config: config, send: func(mail *email.Email, addr string, auth smtp.Auth) error {
		require.Equal(t, "smtp.example.cl:587", addr)
		auths = append(auths, auth)
		if auth != nil {
			return errors.New("smtp: server doesn't support AUTH")
		}
		return nil
	}}

	require.NoError(t, notifier.NotifyFailure(context.Background(), failure))
	require.Len(t, auths, 2)
	require.NotNil(t, auths[0])
	require.Nil(t, auths[1])
}

func TestNotifyError(t *testing.T) {
	notifier := Email{config: config, send: func(*email.Email, string, smtp.Auth) error {
		return errors.New("connection refused")
	}}
	require.Error(t, notifier.NotifyFailure(context.Background(), failure))
}
