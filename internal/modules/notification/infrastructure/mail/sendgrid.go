package mail

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"

	"github.com/saransh1220/coursehub/internal/modules/notification/domain"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendPath = "/v3/mail/send"

type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Host overrides https://api.sendgrid.com
	Host string
}

// SendGridMailer sends purchase receipts. Without an API key it only logs.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGridMailer(cfg Config) *SendGridMailer {
	m := &SendGridMailer{from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail)}
	if cfg.APIKey == "" {
		return m
	}
	m.client = sendgrid.NewSendClient(cfg.APIKey)
	if cfg.Host != "" {
		m.client.BaseURL = cfg.Host + sendPath
	}
	return m
}

// Enabled reports whether an API key was configured
func (m *SendGridMailer) Enabled() bool {
	return m.client != nil
}

func (m *SendGridMailer) SendReceipt(ctx context.Context, r domain.PurchaseReceipt) error {
	if r.Email == "" {
		return nil
	}
	if !m.Enabled() {
		log.Printf("[SendGridMailer.SendReceipt] mail disabled, skipping receipt for order %s", r.OrderID)
		return nil
	}

	subject := fmt.Sprintf("Your receipt for %s", r.CourseTitle)
	to := sgmail.NewEmail(r.Name, r.Email)
	message := sgmail.NewSingleEmail(m.from, subject, to, plainReceipt(r), htmlReceipt(r))

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}

func formatAmount(r domain.PurchaseReceipt) string {
	return strconv.FormatFloat(r.Amount, 'f', 2, 64) + " " + r.Currency
}

func plainReceipt(r domain.PurchaseReceipt) string {
	return fmt.Sprintf("Hi %s,\n\nThanks for purchasing %s.\nAmount: %s\nOrder: %s\n\nYou can start watching right away.",
		r.Name, r.CourseTitle, formatAmount(r), r.OrderID)
}

func htmlReceipt(r domain.PurchaseReceipt) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Thanks for purchasing <strong>%s</strong>.</p>
<table>
<tr><td>Amount</td><td>%s</td></tr>
<tr><td>Order</td><td>%s</td></tr>
</table>
<p>You can start watching right away.</p>`,
		html.EscapeString(r.Name), html.EscapeString(r.CourseTitle), html.EscapeString(formatAmount(r)), html.EscapeString(r.OrderID))
}
