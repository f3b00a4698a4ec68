package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/models"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// Mailer sends transactional customer email over plain SMTP. All sends run
// inside background tasks, so a slow relay never blocks a request.
type Mailer struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, log: logger.New("mailer")}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return m.log.Error("Failed to send email to %s", err, to)
	}

	m.log.Success("Sent %q to %s", subject, to)
	return nil
}

// OrderConfirmationBody renders the confirmation email for a paid order.
func OrderConfirmationBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for your order!\n\n")
	fmt.Fprintf(&b, "Order number: %s\n\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %dx %s - $%.2f\n", item.Quantity, item.Title, item.TotalPrice)
	}
	fmt.Fprintf(&b, "\nSubtotal: $%.2f\n", order.Subtotal)
	fmt.Fprintf(&b, "Delivery fee: $%.2f\n", order.DeliveryFee)
	fmt.Fprintf(&b, "Tax: $%.2f\n", order.Tax)
	fmt.Fprintf(&b, "Total: $%.2f\n\n", order.Total)
	fmt.Fprintf(&b, "Delivering to: %s, %s, %s %s\n", order.Street, order.City, order.State, order.Zip)
	return b.String()
}

// StatusUpdateBody renders the short note sent on each lifecycle step.
func StatusUpdateBody(order *models.Order, status models.OrderStatus) string {
	lines := map[models.OrderStatus]string{
		models.StatusConfirmed: "Your order has been confirmed and is in the queue.",
		models.StatusPreparing: "The kitchen has started preparing your order.",
		models.StatusReady:     "Your order is ready and heading out.",
		models.StatusDelivered: "Your order has been delivered. Enjoy!",
		models.StatusCancelled: "Your order has been cancelled. If you were charged, a refund is on its way.",
	}
	line, ok := lines[status]
	if !ok {
		line = fmt.Sprintf("Your order is now %s.", status)
	}
	return fmt.Sprintf("Order %s\n\n%s\n", order.OrderNumber, line)
}
