package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smunch/smunch-backend/models"
	"github.com/smunch/smunch-backend/utils"
)

const (
	finalCallLead   = 40 * time.Minute
	oneDayReminderH = 21
	// scanSlack keeps the SQL bound loose; dueReminder applies the exact cut.
	scanSlack = 24 * time.Hour
)

// ReminderScheduler periodically emails customers whose orders are still unpaid.
type ReminderScheduler struct {
	store    *OrderStore
	notifier *Notifier
	Interval time.Duration
	Location *time.Location
	StopChan chan struct{}
	now      func() time.Time
}

func NewReminderScheduler(store *OrderStore, notifier *Notifier, interval time.Duration) *ReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderScheduler{
		store:    store,
		notifier: notifier,
		Interval: interval,
		Location: utils.Singapore,
		StopChan: make(chan struct{}),
		now:      time.Now,
	}
}

func (s *ReminderScheduler) Start() {
	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
				if _, err := s.RunOnce(ctx); err != nil {
					utils.ErrorLogger.Errorf("Reminder run failed: %v", err)
				}
				cancel()
			case <-s.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Reminder scheduler started (every %s)", s.Interval)
}

func (s *ReminderScheduler) Stop() {
	close(s.StopChan)
}

// RunOnce sends every reminder that is due now and returns how many went out.
// A failed send is logged and retried on the next run.
func (s *ReminderScheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	orders, err := s.store.ListUnpaidOrders(ctx, now.Add(-scanSlack))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range orders {
		order := &orders[i]
		kind, due := dueReminder(order, now, s.Location)
		if !due {
			continue
		}

		fields := logrus.Fields{"order_id": order.ID, "kind": kind}
		if order.Customer == nil || order.Customer.Email == "" {
			utils.ErrorLogger.WithFields(fields).Warn("Skipping reminder, customer has no email")
			continue
		}

		if err := s.notifier.SendReminder(ctx, order.Customer.Email, order.Customer.Name, order, kind); err != nil {
			continue
		}
		if err := s.store.MarkReminderSent(ctx, order.ID, kind, now); err != nil {
			utils.ErrorLogger.WithFields(fields).Errorf("Reminder sent but not recorded: %v", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// dueReminder reports which reminder, if any, should go out for order at now.
// The final call wins over a one-day reminder that was never sent.
func dueReminder(order *models.Order, now time.Time, loc *time.Location) (ReminderKind, bool) {
	if order.Status != models.OrderStatusPendingPayment || !now.Before(order.DeliveryTime) {
		return "", false
	}
	if order.FinalCallSentAt != nil {
		return "", false
	}
	if !now.Before(order.DeliveryTime.Add(-finalCallLead)) {
		return ReminderFinalCall, true
	}
	if order.ReminderSentAt != nil {
		return "", false
	}

	d := order.DeliveryTime.In(loc)
	eveningBefore := time.Date(d.Year(), d.Month(), d.Day()-1, oneDayReminderH, 0, 0, 0, loc)
	if !now.Before(eveningBefore) {
		return ReminderOneDayBefore, true
	}
	return "", false
}
