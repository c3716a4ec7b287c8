package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smunch/smunch-backend/models"
	"github.com/smunch/smunch-backend/utils"
)

func TestDueReminder(t *testing.T) {
	// 21:30 in Singapore on 2 Jan.
	now := time.Date(2025, 1, 2, 13, 30, 0, 0, time.UTC)
	sent := now.Add(-time.Hour)
	tomorrowNoon := time.Date(2025, 1, 3, 4, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		order    models.Order
		wantKind ReminderKind
		wantDue  bool
	}{
		{"evening before delivery", models.Order{DeliveryTime: tomorrowNoon}, ReminderOneDayBefore, true},
		{"one-day already sent", models.Order{DeliveryTime: tomorrowNoon, ReminderSentAt: &sent}, "", false},
		{"too early for one-day", models.Order{DeliveryTime: now.Add(72 * time.Hour)}, "", false},
		{"inside final window", models.Order{DeliveryTime: now.Add(30 * time.Minute)}, ReminderFinalCall, true},
		{"final after one-day", models.Order{DeliveryTime: now.Add(40 * time.Minute), ReminderSentAt: &sent}, ReminderFinalCall, true},
		{"final already sent", models.Order{DeliveryTime: now.Add(30 * time.Minute), FinalCallSentAt: &sent}, "", false},
		{"delivery passed", models.Order{DeliveryTime: now.Add(-time.Minute)}, "", false},
		{"already paid", models.Order{DeliveryTime: now.Add(30 * time.Minute), Status: models.OrderStatusPaid}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := tt.order
			if order.Status == "" {
				order.Status = models.OrderStatusPendingPayment
			}
			kind, due := dueReminder(&order, now, utils.Singapore)
			assert.Equal(t, tt.wantDue, due)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestReminderSchedulerRunOnce(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 1, 2, 13, 30, 0, 0, time.UTC)

	users := []models.User{
		{ID: 1, Name: "Final", Email: "final@smu.edu.sg"},
		{ID: 2, Name: "Evening", Email: "evening@smu.edu.sg"},
		{ID: 3, Name: "NoMail"},
	}
	require.NoError(t, db.Create(&users).Error)

	orders := []models.Order{
		{ID: 1, CustomerID: 1, Status: models.OrderStatusPendingPayment, DeliveryTime: now.Add(30 * time.Minute)},
		{ID: 2, CustomerID: 2, Status: models.OrderStatusPendingPayment, DeliveryTime: time.Date(2025, 1, 3, 4, 0, 0, 0, time.UTC)},
		{ID: 3, CustomerID: 2, Status: models.OrderStatusPendingPayment, DeliveryTime: now.Add(72 * time.Hour)},
		{ID: 4, CustomerID: 1, Status: models.OrderStatusPaid, DeliveryTime: now.Add(30 * time.Minute)},
		{ID: 5, CustomerID: 3, Status: models.OrderStatusPendingPayment, DeliveryTime: now.Add(30 * time.Minute)},
	}
	require.NoError(t, db.Create(&orders).Error)

	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, "final@smu.edu.sg", mock.Anything).Return(nil).Once()
	mailer.On("Send", mock.Anything, "evening@smu.edu.sg", mock.Anything).Return(nil).Once()

	scheduler := NewReminderScheduler(NewOrderStore(db), newTestNotifier(mailer), time.Minute)
	scheduler.now = func() time.Time { return now }

	sent, err := scheduler.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	sent, err = scheduler.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent, "reminders go out once")
	mailer.AssertExpectations(t)

	var final models.Order
	require.NoError(t, db.First(&final, 1).Error)
	assert.NotNil(t, final.FinalCallSentAt)

	var evening models.Order
	require.NoError(t, db.First(&evening, 2).Error)
	assert.NotNil(t, evening.ReminderSentAt)
	assert.Nil(t, evening.FinalCallSentAt)
}

func TestReminderSchedulerRetriesFailedSend(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 1, 2, 13, 30, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.User{ID: 1, Email: "a@smu.edu.sg"}).Error)
	require.NoError(t, db.Create(&models.Order{ID: 1, CustomerID: 1, Status: models.OrderStatusPendingPayment, DeliveryTime: now.Add(10 * time.Minute)}).Error)

	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	scheduler := NewReminderScheduler(NewOrderStore(db), newTestNotifier(mailer), time.Minute)
	scheduler.now = func() time.Time { return now }

	sent, err := scheduler.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	sent, err = scheduler.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	mailer.AssertExpectations(t)
}
