package controllers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smunch/smunch-backend/config"
	"github.com/smunch/smunch-backend/controllers"
	"github.com/smunch/smunch-backend/middlewares"
	"github.com/smunch/smunch-backend/models"
	"github.com/smunch/smunch-backend/services"
)

type paymentFixture struct {
	orders   *mockOrders
	verifier *mockVerifier
	mailer   *mockMailer
	router   *gin.Engine
}

func setupPaymentRouter() *paymentFixture {
	gin.SetMode(gin.TestMode)
	f := &paymentFixture{
		orders:   &mockOrders{},
		verifier: &mockVerifier{},
		mailer:   &mockMailer{},
	}
	ctrl := controllers.NewPaymentController(
		f.orders,
		services.NewPaymentService(config.PayNowConfig{Number: "96773374", MerchantName: "SMUNCH", QRValidity: 10 * time.Minute}),
		f.verifier,
		f.mailer,
	)

	r := gin.New()
	r.Use(middlewares.ErrorHandler())
	r.POST("/api/payment/confirm/:orderId", ctrl.ConfirmPaymentAndSendReceipt)
	r.GET("/api/orders/:orderId/payment", ctrl.GetPaymentInstructions)
	f.router = r
	return f
}

func (f *paymentFixture) do(method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func testOrder() *models.Order {
	return &models.Order{
		ID:               42,
		CustomerID:       7,
		Status:           models.OrderStatusPendingPayment,
		TotalAmountCents: 550,
		DeliveryFeeCents: 100,
		DeliveryTime:     time.Date(2025, 1, 3, 4, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{Quantity: 1, PriceCents: 250, MenuItem: models.MenuItem{Name: "Coffee"}},
			{Quantity: 2, PriceCents: 150, MenuItem: models.MenuItem{Name: "Toast"}},
		},
	}
}

func withReference(ref string) interface{} {
	return mock.MatchedBy(func(o *models.Order) bool { return o.PaymentReference == ref })
}

func TestConfirmPaymentSendsReceipt(t *testing.T) {
	f := setupPaymentRouter()
	f.orders.On("GetFullOrderByID", mock.Anything, uint(42)).Return(testOrder(), nil)
	f.verifier.On("VerifyPayment", mock.Anything, withReference("SMUNCH42")).Return(true, nil)
	f.orders.On("GetUserByID", mock.Anything, uint(7), []string{"email"}).Return(&models.User{ID: 7, Email: "rachel@smu.edu.sg"}, nil)
	f.mailer.On("SendReceiptEmail", mock.Anything, "rachel@smu.edu.sg", withReference("SMUNCH42")).Return(nil).Once()

	w, body := f.do(http.MethodPost, "/api/payment/confirm/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Receipt email sent successfully", body["message"])
	f.mailer.AssertExpectations(t)
}

func TestConfirmPaymentNotVerified(t *testing.T) {
	f := setupPaymentRouter()
	f.orders.On("GetFullOrderByID", mock.Anything, uint(42)).Return(testOrder(), nil)
	f.verifier.On("VerifyPayment", mock.Anything, mock.Anything).Return(false, nil)

	w, body := f.do(http.MethodPost, "/api/payment/confirm/42")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, map[string]interface{}{
		"message":  "Payment not yet verified. Try again later.",
		"verified": false,
	}, body)
	f.orders.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything, mock.Anything)
	f.mailer.AssertNotCalled(t, "SendReceiptEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPaymentUserWithoutEmail(t *testing.T) {
	cases := map[string]struct {
		user *models.User
		err  error
	}{
		"empty email":  {user: &models.User{ID: 7}},
		"missing user": {err: fmt.Errorf("user 7: %w", services.ErrUserNotFound)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := setupPaymentRouter()
			f.orders.On("GetFullOrderByID", mock.Anything, uint(42)).Return(testOrder(), nil)
			f.verifier.On("VerifyPayment", mock.Anything, mock.Anything).Return(true, nil)
			f.orders.On("GetUserByID", mock.Anything, uint(7), []string{"email"}).Return(tc.user, tc.err)

			w, body := f.do(http.MethodPost, "/api/payment/confirm/42")
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, map[string]interface{}{"message": "User email not found", "code": "NOT_FOUND_USER"}, body)
			f.mailer.AssertNotCalled(t, "SendReceiptEmail", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestConfirmPaymentOrderNotFound(t *testing.T) {
	f := setupPaymentRouter()
	f.orders.On("GetFullOrderByID", mock.Anything, uint(9)).Return(nil, fmt.Errorf("order 9: %w", services.ErrOrderNotFound))

	w, body := f.do(http.MethodPost, "/api/payment/confirm/9")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND_ORDER", body["code"])
	assert.NotEmpty(t, body["message"])
	f.verifier.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything)
}

func TestConfirmPaymentInvalidOrderID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-1", "1.5"} {
		t.Run(id, func(t *testing.T) {
			f := setupPaymentRouter()
			w, body := f.do(http.MethodPost, "/api/payment/confirm/"+id)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_ORDER_ID", body["code"])
			f.orders.AssertNotCalled(t, "GetFullOrderByID", mock.Anything, mock.Anything)
		})
	}
}

func TestConfirmPaymentMailFailure(t *testing.T) {
	f := setupPaymentRouter()
	f.orders.On("GetFullOrderByID", mock.Anything, uint(42)).Return(testOrder(), nil)
	f.verifier.On("VerifyPayment", mock.Anything, mock.Anything).Return(true, nil)
	f.orders.On("GetUserByID", mock.Anything, uint(7), []string{"email"}).Return(&models.User{ID: 7, Email: "rachel@smu.edu.sg"}, nil)
	f.mailer.On("SendReceiptEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp: connection refused"))

	w, body := f.do(http.MethodPost, "/api/payment/confirm/42")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
}

func TestConfirmPaymentDataLayerFailure(t *testing.T) {
	f := setupPaymentRouter()
	f.orders.On("GetFullOrderByID", mock.Anything, uint(42)).Return(nil, errors.New("load order 42: connection reset"))

	w, _ := f.do(http.MethodPost, "/api/payment/confirm/42")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPaymentInstructions(t *testing.T) {
	f := setupPaymentRouter()
	f.orders.On("GetFullOrderByID", mock.Anything, uint(42)).Return(testOrder(), nil)

	before := time.Now()
	w, body := f.do(http.MethodGet, "/api/orders/42/payment")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "SMUNCH42", body["payment_reference"])
	assert.Equal(t, "96773374", body["paynow_number"])
	assert.True(t, strings.HasPrefix(body["qrCode"].(string), "data:image/png;base64,"))

	expiresAt, err := time.Parse(time.RFC3339, body["expires_at"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(10*time.Minute), expiresAt, 5*time.Second)
}

func TestGetPaymentInstructionsOrderNotFound(t *testing.T) {
	f := setupPaymentRouter()
	f.orders.On("GetFullOrderByID", mock.Anything, uint(5)).Return(nil, services.ErrOrderNotFound)

	w, body := f.do(http.MethodGet, "/api/orders/5/payment")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND_ORDER", body["code"])
}

func TestGetPaymentInstructionsZeroTotal(t *testing.T) {
	f := setupPaymentRouter()
	order := testOrder()
	order.TotalAmountCents = 0
	f.orders.On("GetFullOrderByID", mock.Anything, uint(42)).Return(order, nil)

	w, body := f.do(http.MethodGet, "/api/orders/42/payment")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SMUNCH42", body["payment_reference"])
	assert.True(t, strings.HasPrefix(body["qrCode"].(string), "data:image/png;base64,"))
}

func TestGetPaymentInstructionsNegativeTotal(t *testing.T) {
	f := setupPaymentRouter()
	order := testOrder()
	order.TotalAmountCents = -100
	f.orders.On("GetFullOrderByID", mock.Anything, uint(42)).Return(order, nil)

	w, body := f.do(http.MethodGet, "/api/orders/42/payment")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ORDER_NOT_PAYABLE", body["code"])
}

func TestInvalidOrderIDErrorShape(t *testing.T) {
	f := setupPaymentRouter()
	w, body := f.do(http.MethodGet, "/api/orders/abc/payment")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"message": "Invalid order ID", "code": "INVALID_ORDER_ID"}, body)
}
