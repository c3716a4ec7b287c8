package services

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/smunch/smunch-backend/config"
	"github.com/smunch/smunch-backend/emails"
	"github.com/smunch/smunch-backend/utils"
)

// Mailer delivers a rendered email.
type Mailer interface {
	Send(ctx context.Context, to string, doc emails.Document) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("SMTP configuration missing")
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to string, doc emails.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.message(to, doc)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) message(to string, doc emails.Document) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", doc.Subject)
	msg.SetBody("text/html", doc.HTML)
	return msg
}

// LogMailer only logs. Used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to string, doc emails.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	utils.InfoLogger.Infof("SMTP disabled, not sending %q to %s (%d bytes)", doc.Subject, to, len(doc.HTML))
	return nil
}
