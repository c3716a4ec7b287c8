package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"github.com/smunch/smunch-backend/config"
	"github.com/smunch/smunch-backend/utils"
)

const (
	referencePrefix = "SMUNCH"
	qrImageSize     = 512
	qrDataURLPrefix = "data:image/png;base64,"
)

// PayNowRequest identifies what a QR code is being generated for.
type PayNowRequest struct {
	// Amount is a two-decimal dollar string, e.g. "5.50".
	Amount     string
	OrderID    uint
	CustomerID uint
}

// PaymentInstructions is regenerated on every request and never stored.
type PaymentInstructions struct {
	QRCodeDataURL    string
	PaymentReference string
	PayNowNumber     string
	ExpiresAt        time.Time
}

// PaymentService issues payment references and PayNow QR codes.
type PaymentService struct {
	cfg config.PayNowConfig
	now func() time.Time
}

// NewPaymentService creates a PaymentService for the given PayNow account.
func NewPaymentService(cfg config.PayNowConfig) *PaymentService {
	if cfg.QRValidity <= 0 {
		cfg.QRValidity = config.DefaultQRValidity
	}
	return &PaymentService{cfg: cfg, now: time.Now}
}

// GeneratePaymentReference returns the reference customers put in the transfer.
func (s *PaymentService) GeneratePaymentReference(orderID uint) string {
	return fmt.Sprintf("%s%d", referencePrefix, orderID)
}

// GeneratePayNowQRCode builds a fresh SGQR PayNow code valid for the configured window.
func (s *PaymentService) GeneratePayNowQRCode(ctx context.Context, req PayNowRequest) (*PaymentInstructions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reference := s.GeneratePaymentReference(req.OrderID)
	expiresAt := s.now().Add(s.cfg.QRValidity)

	payload, err := BuildPayNowPayload(PayNowPayload{
		Mobile:       s.cfg.Number,
		Amount:       req.Amount,
		Reference:    reference,
		MerchantName: s.cfg.MerchantName,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("build paynow payload for order %d: %w", req.OrderID, err)
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr for order %d: %w", req.OrderID, err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":    req.OrderID,
		"customer_id": req.CustomerID,
		"amount":      req.Amount,
		"expires_at":  expiresAt.Format(time.RFC3339),
	}).Info("Generated PayNow QR code")

	return &PaymentInstructions{
		QRCodeDataURL:    qrDataURLPrefix + base64.StdEncoding.EncodeToString(png),
		PaymentReference: reference,
		PayNowNumber:     s.cfg.Number,
		ExpiresAt:        expiresAt,
	}, nil
}
