package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smunch/smunch-backend/config"
	"github.com/smunch/smunch-backend/emails"
	"github.com/smunch/smunch-backend/models"
)

// setupTestDB opens a private in-memory sqlite database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	user := models.User{ID: 7, Name: "Rachel", Email: "rachel@smu.edu.sg"}
	require.NoError(t, db.Create(&user).Error)

	coffee := models.MenuItem{Name: "Coffee", PriceCents: 250}
	toast := models.MenuItem{Name: "Toast", PriceCents: 150}
	require.NoError(t, db.Create(&coffee).Error)
	require.NoError(t, db.Create(&toast).Error)

	order := models.Order{
		ID:               42,
		CustomerID:       user.ID,
		Status:           models.OrderStatusPendingPayment,
		TotalAmountCents: 550,
		DeliveryFeeCents: 100,
		DeliveryTime:     time.Date(2025, 1, 3, 4, 0, 0, 0, time.UTC),
		Building:         "SCIS",
		RoomType:         "SR",
		RoomNumber:       "2-2",
		Items: []models.OrderItem{
			{MenuItemID: coffee.ID, Quantity: 1, PriceCents: 250},
			{MenuItemID: toast.ID, Quantity: 2, PriceCents: 150},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to string, doc emails.Document) error {
	args := m.Called(ctx, to, doc)
	return args.Error(0)
}

func newTestNotifier(mailer Mailer) *Notifier {
	return NewNotifier(emails.NewRenderer(emails.Config{
		BannerURL:    "https://cdn.example.com/banner.png",
		ContactEmail: "ops@smunch.sg",
	}), mailer)
}
