package emails

import (
	"html/template"
	"strings"
	"time"

	"github.com/smunch/smunch-backend/models"
	"github.com/smunch/smunch-backend/utils"
)

const (
	SubjectTest            = "SMUNCH Internal Email Test"
	SubjectVerification    = "Welcome to SMUNCH! Just one more step"
	SubjectReceipt         = "Your SMUNCH Order Has Been Confirmed! 🥪"
	SubjectReminder        = "⏳ Reminder: Complete Your SMUNCH Order"
	SubjectFinalCall       = "🚨 Final Call: Complete Payment for Your SMUNCH Order"
	SubjectPasswordChanged = "Your SMUNCH Password Was Changed 🔐"
	SubjectResetPassword   = "Reset Your SMUNCH Password 🔑"
)

var testTmpl = template.Must(template.New("test").Parse(`
<h2>🛠 Internal Email Test</h2>
<p>Hey Smunchie,</p>
<p>This email is solely for internal testing purposes.</p>
<p>If you're seeing this and you're not part of the dev team, please let us know immediately through the Telegram bot. Thanks!</p>
`))

var verificationTmpl = template.Must(template.New("verification").Parse(`
<h2>Welcome to SMUNCH 🎉</h2>
<p>Hey {{.Name}},</p>
<p>Thanks for signing up! Just one last step: <a href="{{.Link}}">click here</a> to verify your {{.AccountType}} account.</p>
<p>This link will expire in 1 hour for your security. If you didn't request this, feel free to ignore this email.</p>
`))

var receiptTmpl = template.Must(template.New("receipt").Parse(`
<h2 style="color: #333;">🎉 Your payment has been received!</h2>
<p>Hi there! We're excited to let you know that we've received your payment and your order has been confirmed.</p>

<p><strong>Order ID:</strong> {{.OrderID}}<br>
   <strong>Payment Reference:</strong> {{.PaymentReference}}<br>
   <strong>Delivery To:</strong> {{.Location}}<br>
   <strong>Scheduled For:</strong> {{.DeliveryTime}}</p>

<h3 style="border-bottom: 1px solid #ddd; padding-bottom: 5px;">Your Receipt</h3>
<table style="width: 100%; border-collapse: collapse;">
  {{range .Rows}}<tr><td>{{.Quantity}}x {{.Name}}</td><td style="text-align:right;">{{.Amount}}</td></tr>
  {{end}}<tr>
    <td>Delivery Fee</td><td style="text-align:right;">{{.DeliveryFee}}</td>
  </tr>
  <tr style="border-top:1px solid #ccc;">
    <td><strong>Total</strong></td><td style="text-align:right;"><strong>{{.Total}}</strong></td>
  </tr>
</table>

<p style="margin-top: 30px;">We'll deliver your food right to your classroom. 🍱</p>
`))

var reminderTmpl = template.Must(template.New("reminder").Parse(`
<h2>⏳ Just a reminder!</h2>
<p>Hey {{.Name}},</p>
<p>We noticed you started a SMUNCH order but haven't completed payment yet.</p>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Delivery:</strong> {{.Location}}<br>
   <strong>Scheduled For:</strong> {{.DeliveryTime}}</p>
<p>To make sure your order gets included in tomorrow's batch, please complete payment soon.</p>
`))

var finalCallTmpl = template.Must(template.New("final_call").Parse(`
<h2>🚨 Final Call: Last Chance to Pay</h2>
<p>Hey {{.Name}},</p>
<p>Your SMUNCH order is about to be finalized, but payment is still pending.</p>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Delivery:</strong> {{.Location}}<br>
   <strong>Scheduled For:</strong> {{.DeliveryTime}}</p>
<p>Please make payment immediately. If payment isn't received within the next 5 minutes,
   we won't be able to include your order in today's delivery batch.</p>
`))

var passwordChangedTmpl = template.Must(template.New("password_changed").Parse(`
<h2>Password Change Confirmation 🔐</h2>
<p>Hey {{.Name}},</p>
<p>This is a quick heads-up that your SMUNCH account password was changed on <strong>{{.ChangedAt}}</strong>.</p>
<p>If this was you, no action is needed.</p>
<p>If this wasn't you, please reach out to us immediately at <a href="mailto:{{.ContactEmail}}">{{.ContactEmail}}</a>.</p>
`))

var resetPasswordTmpl = template.Must(template.New("reset_password").Parse(`
<h2>Reset Your Password 🔑</h2>
<p>Hey {{.Name}},</p>
<p>We received a request to reset your SMUNCH password.</p>
<p><a href="{{.Link}}">Click here to reset your password</a>. This link will expire in 15 minutes.</p>
<p>If you didn't request this, you can safely ignore this email.</p>
`))

// TestEmail is the fixed internal delivery check.
func (r *Renderer) TestEmail() (Document, error) {
	return r.render(SubjectTest, testTmpl, nil)
}

type VerificationParams struct {
	Link string
	// AccountType is "User" or "Merchant".
	AccountType string
	Name        string
}

func (r *Renderer) VerificationEmail(p VerificationParams) (Document, error) {
	return r.render(SubjectVerification, verificationTmpl, struct {
		Name        string
		Link        string
		AccountType string
	}{nameOrDefault(p.Name), p.Link, strings.ToLower(p.AccountType)})
}

type receiptRow struct {
	Quantity int
	Name     string
	Amount   string
}

// Receipt expects order.PaymentReference to be attached already.
func (r *Renderer) Receipt(order *models.Order) (Document, error) {
	rows := make([]receiptRow, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.MenuItem.Name
		if name == "" {
			name = "Item"
		}
		rows = append(rows, receiptRow{
			Quantity: item.Quantity,
			Name:     name,
			Amount:   utils.FormatCurrency(item.LineTotalCents()),
		})
	}

	return r.render(SubjectReceipt, receiptTmpl, struct {
		OrderID          uint
		PaymentReference string
		Location         string
		DeliveryTime     string
		Rows             []receiptRow
		DeliveryFee      string
		Total            string
	}{
		OrderID:          order.ID,
		PaymentReference: order.PaymentReference,
		Location:         order.DeliveryLocation(),
		DeliveryTime:     r.formatTime(order.DeliveryTime),
		Rows:             rows,
		DeliveryFee:      utils.FormatCurrency(order.DeliveryFeeCents),
		Total:            utils.FormatCurrency(order.TotalAmountCents),
	})
}

type reminderData struct {
	Name         string
	OrderID      uint
	Location     string
	DeliveryTime string
}

func (r *Renderer) reminderData(order *models.Order, name string) reminderData {
	return reminderData{
		Name:         nameOrDefault(name),
		OrderID:      order.ID,
		Location:     order.DeliveryLocation(),
		DeliveryTime: r.formatTime(order.DeliveryTime),
	}
}

// ReminderOneDayBefore nudges an unpaid order the evening before delivery.
func (r *Renderer) ReminderOneDayBefore(order *models.Order, name string) (Document, error) {
	return r.render(SubjectReminder, reminderTmpl, r.reminderData(order, name))
}

// ReminderFinalCall is the last notice shortly before the batch closes.
func (r *Renderer) ReminderFinalCall(order *models.Order, name string) (Document, error) {
	return r.render(SubjectFinalCall, finalCallTmpl, r.reminderData(order, name))
}

type PasswordChangedParams struct {
	Name      string
	ChangedAt time.Time
}

func (r *Renderer) PasswordChanged(p PasswordChangedParams) (Document, error) {
	return r.render(SubjectPasswordChanged, passwordChangedTmpl, struct {
		Name         string
		ChangedAt    string
		ContactEmail string
	}{nameOrDefault(p.Name), r.formatTime(p.ChangedAt), r.cfg.ContactEmail})
}

type ResetPasswordParams struct {
	Link string
	Name string
}

func (r *Renderer) ResetPassword(p ResetPasswordParams) (Document, error) {
	return r.render(SubjectResetPassword, resetPasswordTmpl, struct {
		Name string
		Link string
	}{nameOrDefault(p.Name), p.Link})
}
