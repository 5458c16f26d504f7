// Package mailer delivers password reset mail. The core only knows the
// ports.Mailer interface; which sender is used is a deployment choice.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// SMTPConfig holds the settings for an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// SMTPMailer sends reset mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendPasswordReset mails the reset link. The token appears only inside the
// message body, never in logs.
func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, token string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Reset your password\r\n\r\n"+
			"A password reset was requested for your account.\r\n\r\n"+
			"Reset link: %s/reset-password?token=%s\r\n\r\n"+
			"The link expires in one hour. If you did not request this, ignore this message.\r\n",
		m.cfg.From, to, m.cfg.BaseURL, token,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogMailer is the development sender: it records that a mail would have
// been sent without recording the token itself.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, _ string) error {
	m.log.Info().Str("to", to).Msg("password reset mail (log-only sender)")
	return nil
}
