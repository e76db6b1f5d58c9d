package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/starring-booking/internal/booking"
	"github.com/wolfman30/starring-booking/internal/submission"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

// Confirmer tells the customer their booking went through.
type Confirmer interface {
	Confirm(ctx context.Context, d booking.Draft, o submission.Outcome) error
}

// EmailConfirmer sends a confirmation email for successful bookings.
type EmailConfirmer struct {
	sender   EmailSender
	business string
	logger   *logging.Logger
}

func NewEmailConfirmer(sender EmailSender, business string, logger *logging.Logger) *EmailConfirmer {
	if logger == nil {
		logger = logging.Default()
	}
	if business == "" {
		business = "Starring"
	}
	return &EmailConfirmer{sender: sender, business: business, logger: logger}
}

// Confirm emails the customer. Outcomes other than success, and drafts without an email
// address, are skipped.
func (c *EmailConfirmer) Confirm(ctx context.Context, d booking.Draft, o submission.Outcome) error {
	if c == nil || c.sender == nil || !o.Succeeded() {
		return nil
	}
	to := strings.TrimSpace(d.Email)
	if to == "" {
		return nil
	}
	return c.sender.Send(ctx, EmailMessage{
		To:      to,
		ToName:  strings.TrimSpace(d.Name),
		Subject: fmt.Sprintf("Your %s shoot is booked", c.business),
		Body:    confirmationBody(c.business, d, o),
	})
}

func confirmationBody(business string, d booking.Draft, o submission.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", strings.TrimSpace(d.Name))
	fmt.Fprintf(&b, "Thanks for booking with %s. Here are your details:\n\n", business)
	fmt.Fprintf(&b, "Package: %s %s\n", d.DeviceType, d.EditType)
	fmt.Fprintf(&b, "Date: %s\n", d.Date)
	fmt.Fprintf(&b, "Time: %s\n", d.TimeSlot)
	if strings.TrimSpace(d.Idea) != "" {
		fmt.Fprintf(&b, "Your idea: %s\n", d.Idea)
	}
	if o.PaymentID != "" {
		fmt.Fprintf(&b, "Amount paid: %s\n", FormatMinor(o.AmountMinor))
		fmt.Fprintf(&b, "Payment reference: %s\n", o.PaymentID)
	}
	b.WriteString("\nWe'll be in touch soon.\n")
	return b.String()
}

// FormatMinor renders minor currency units as a rupee amount, e.g. 99900 -> "₹999.00".
func FormatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, amount/100, amount%100)
}
