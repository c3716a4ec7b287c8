package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smunch/smunch-backend/emails"
	"github.com/smunch/smunch-backend/models"
	"github.com/smunch/smunch-backend/services"
	"github.com/smunch/smunch-backend/utils"
)

type TestEmailSender interface {
	SendTestEmail(ctx context.Context, to string) error
}

// EmailController lets admins preview templates and check mail delivery.
type EmailController struct {
	Renderer *emails.Renderer
	Orders   OrderReader
	Payments PaymentProvider
	Sender   TestEmailSender
	now      func() time.Time
}

func NewEmailController(renderer *emails.Renderer, orders OrderReader, payments PaymentProvider, sender TestEmailSender) *EmailController {
	return &EmailController{
		Renderer: renderer,
		Orders:   orders,
		Payments: payments,
		Sender:   sender,
		now:      time.Now,
	}
}

// kinds that render from an order.
var orderPreviews = map[string]func(*emails.Renderer, *models.Order, string) (emails.Document, error){
	"receipt": func(r *emails.Renderer, o *models.Order, _ string) (emails.Document, error) {
		return r.Receipt(o)
	},
	"reminder":   (*emails.Renderer).ReminderOneDayBefore,
	"final-call": (*emails.Renderer).ReminderFinalCall,
}

// PreviewEmail -> GET /api/admin/emails/preview/:kind?order_id=
func (ec *EmailController) PreviewEmail(c *gin.Context) {
	kind := c.Param("kind")

	var (
		doc emails.Document
		err error
	)
	if build, ok := orderPreviews[kind]; ok {
		order, name, loadErr := ec.previewOrder(c)
		if loadErr != nil {
			_ = c.Error(loadErr)
			return
		}
		doc, err = build(ec.Renderer, order, name)
	} else {
		switch kind {
		case "test":
			doc, err = ec.Renderer.TestEmail()
		case "verification":
			doc, err = ec.Renderer.VerificationEmail(emails.VerificationParams{
				Link:        "https://smunch.sg/verify?token=preview",
				AccountType: c.DefaultQuery("account_type", "User"),
				Name:        c.Query("name"),
			})
		case "password-changed":
			doc, err = ec.Renderer.PasswordChanged(emails.PasswordChangedParams{Name: c.Query("name"), ChangedAt: ec.now()})
		case "reset-password":
			doc, err = ec.Renderer.ResetPassword(emails.ResetPasswordParams{
				Link: "https://smunch.sg/reset-password?token=preview",
				Name: c.Query("name"),
			})
		default:
			_ = c.Error(utils.NewNotFound(utils.CodeNotFound, "Unknown email template", nil))
			return
		}
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("X-Email-Subject", doc.Subject)
	utils.RespondHTML(c, http.StatusOK, doc.HTML)
}

func (ec *EmailController) previewOrder(c *gin.Context) (*models.Order, string, error) {
	id, err := strconv.ParseUint(c.Query("order_id"), 10, 32)
	if err != nil || id == 0 {
		return nil, "", utils.NewBadRequest(utils.CodeInvalidOrderID, "order_id query parameter is required")
	}

	ctx := c.Request.Context()
	order, err := loadOrder(ctx, ec.Orders, uint(id))
	if err != nil {
		return nil, "", err
	}
	order.PaymentReference = ec.Payments.GeneratePaymentReference(order.ID)

	user, err := ec.Orders.GetUserByID(ctx, order.CustomerID, "name")
	if errors.Is(err, services.ErrUserNotFound) {
		return order, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return order, user.Name, nil
}

// SendTestEmail -> POST /api/admin/emails/test
func (ec *EmailController) SendTestEmail(c *gin.Context) {
	var body struct {
		To string `json:"to" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		_ = c.Error(utils.NewBadRequest(utils.CodeBadRequest, "A valid 'to' address is required"))
		return
	}

	if err := ec.Sender.SendTestEmail(c.Request.Context(), body.To); err != nil {
		_ = c.Error(err)
		return
	}

	utils.InfoLogger.Printf("Test email sent to %s", body.To)
	utils.RespondJSON(c, http.StatusOK, "Test email sent", nil)
}
