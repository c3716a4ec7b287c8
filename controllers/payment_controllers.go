package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smunch/smunch-backend/models"
	"github.com/smunch/smunch-backend/services"
	"github.com/smunch/smunch-backend/utils"
)

// OrderReader is the slice of the order store the controllers need.
type OrderReader interface {
	GetFullOrderByID(ctx context.Context, id uint) (*models.Order, error)
	GetUserByID(ctx context.Context, id uint, fields ...string) (*models.User, error)
}

type PaymentProvider interface {
	GeneratePaymentReference(orderID uint) string
	GeneratePayNowQRCode(ctx context.Context, req services.PayNowRequest) (*services.PaymentInstructions, error)
}

type ReceiptSender interface {
	SendReceiptEmail(ctx context.Context, to string, order *models.Order) error
}

type PaymentController struct {
	Orders   OrderReader
	Payments PaymentProvider
	Verifier services.PaymentVerifier
	Receipts ReceiptSender
}

func NewPaymentController(orders OrderReader, payments PaymentProvider, verifier services.PaymentVerifier, receipts ReceiptSender) *PaymentController {
	return &PaymentController{
		Orders:   orders,
		Payments: payments,
		Verifier: verifier,
		Receipts: receipts,
	}
}

// ConfirmPaymentAndSendReceipt -> POST /api/payment/confirm/:orderId
func (pc *PaymentController) ConfirmPaymentAndSendReceipt(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	order, err := loadOrder(ctx, pc.Orders, orderID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	order.PaymentReference = pc.Payments.GeneratePaymentReference(order.ID)

	verified, err := pc.Verifier.VerifyPayment(ctx, order)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !verified {
		c.JSON(http.StatusAccepted, gin.H{
			"message":  "Payment not yet verified. Try again later.",
			"verified": false,
		})
		return
	}

	user, err := pc.Orders.GetUserByID(ctx, order.CustomerID, "email")
	if err != nil && !errors.Is(err, services.ErrUserNotFound) {
		_ = c.Error(err)
		return
	}
	if user == nil || user.Email == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "User email not found",
			"code":    utils.CodeNotFoundUser,
		})
		return
	}

	if err := pc.Receipts.SendReceiptEmail(ctx, user.Email, order); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Receipt email sent successfully"})
}

// GetPaymentInstructions -> GET /api/orders/:orderId/payment
func (pc *PaymentController) GetPaymentInstructions(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	order, err := loadOrder(ctx, pc.Orders, orderID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	instructions, err := pc.Payments.GeneratePayNowQRCode(ctx, services.PayNowRequest{
		Amount:     utils.FormatAmount(order.TotalAmountCents),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
	})
	if errors.Is(err, services.ErrInvalidAmount) {
		_ = c.Error(utils.NewUnprocessable(utils.CodeNotPayable, "Order total cannot be paid by PayNow", err))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qrCode":            instructions.QRCodeDataURL,
		"payment_reference": instructions.PaymentReference,
		"paynow_number":     instructions.PayNowNumber,
		"expires_at":        instructions.ExpiresAt.Format(time.RFC3339),
	})
}

// parseOrderID writes a 400 and returns false when :orderId is not a positive integer.
func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil || id == 0 {
		utils.RespondAppError(c, utils.NewBadRequest(utils.CodeInvalidOrderID, "Invalid order ID"))
		return 0, false
	}
	return uint(id), true
}

func loadOrder(ctx context.Context, orders OrderReader, id uint) (*models.Order, error) {
	order, err := orders.GetFullOrderByID(ctx, id)
	if errors.Is(err, services.ErrOrderNotFound) {
		return nil, utils.NewNotFound(utils.CodeNotFoundOrder, "Order not found", err)
	}
	return order, err
}
