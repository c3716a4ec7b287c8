package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/smunch/smunch-backend/emails"
	"github.com/smunch/smunch-backend/models"
	"github.com/smunch/smunch-backend/utils"
)

type ReminderKind string

const (
	ReminderOneDayBefore ReminderKind = "one_day_before"
	ReminderFinalCall    ReminderKind = "final_call"
)

// Notifier renders an email template and hands it to the mailer.
type Notifier struct {
	renderer *emails.Renderer
	mailer   Mailer
}

func NewNotifier(renderer *emails.Renderer, mailer Mailer) *Notifier {
	return &Notifier{renderer: renderer, mailer: mailer}
}

func (n *Notifier) SendReceiptEmail(ctx context.Context, to string, order *models.Order) error {
	doc, err := n.renderer.Receipt(order)
	if err != nil {
		return err
	}
	return n.send(ctx, to, doc, logrus.Fields{"order_id": order.ID, "kind": "receipt"})
}

func (n *Notifier) SendReminder(ctx context.Context, to, name string, order *models.Order, kind ReminderKind) error {
	var (
		doc emails.Document
		err error
	)
	switch kind {
	case ReminderOneDayBefore:
		doc, err = n.renderer.ReminderOneDayBefore(order, name)
	case ReminderFinalCall:
		doc, err = n.renderer.ReminderFinalCall(order, name)
	default:
		return fmt.Errorf("unknown reminder kind %q", kind)
	}
	if err != nil {
		return err
	}
	return n.send(ctx, to, doc, logrus.Fields{"order_id": order.ID, "kind": kind})
}

func (n *Notifier) SendTestEmail(ctx context.Context, to string) error {
	doc, err := n.renderer.TestEmail()
	if err != nil {
		return err
	}
	return n.send(ctx, to, doc, logrus.Fields{"kind": "test"})
}

func (n *Notifier) SendVerificationEmail(ctx context.Context, to string, p emails.VerificationParams) error {
	doc, err := n.renderer.VerificationEmail(p)
	if err != nil {
		return err
	}
	return n.send(ctx, to, doc, logrus.Fields{"kind": "verification"})
}

func (n *Notifier) SendPasswordChangedEmail(ctx context.Context, to string, p emails.PasswordChangedParams) error {
	doc, err := n.renderer.PasswordChanged(p)
	if err != nil {
		return err
	}
	return n.send(ctx, to, doc, logrus.Fields{"kind": "password_changed"})
}

func (n *Notifier) SendResetPasswordEmail(ctx context.Context, to string, p emails.ResetPasswordParams) error {
	doc, err := n.renderer.ResetPassword(p)
	if err != nil {
		return err
	}
	return n.send(ctx, to, doc, logrus.Fields{"kind": "reset_password"})
}

func (n *Notifier) send(ctx context.Context, to string, doc emails.Document, fields logrus.Fields) error {
	if err := n.mailer.Send(ctx, to, doc); err != nil {
		utils.ErrorLogger.WithFields(fields).Errorf("Email to %s failed: %v", to, err)
		return err
	}
	utils.InfoLogger.WithFields(fields).Infof("Email sent to %s", to)
	return nil
}
