package submission

import (
	"errors"

	"github.com/wolfman30/starring-booking/internal/booking"
)

// Status is the terminal state of one submission attempt.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Outcome describes how a submission attempt ended.
type Outcome struct {
	Status      Status
	Mode        Mode
	Err         error
	Message     string
	Category    string
	AmountMinor int64
	OrderID     string
	PaymentID   string
}

// Succeeded reports whether the booking was recorded.
func (o Outcome) Succeeded() bool { return o.Status == StatusSucceeded }

func succeeded(mode Mode, category string, amount int64, receipt Receipt) Outcome {
	return Outcome{
		Status:      StatusSucceeded,
		Mode:        mode,
		Message:     "Booking confirmed! We'll be in touch soon.",
		Category:    category,
		AmountMinor: amount,
		OrderID:     receipt.OrderID,
		PaymentID:   receipt.PaymentID,
	}
}

func failed(mode Mode, category string, amount int64, err error) Outcome {
	status := StatusFailed
	if errors.Is(err, booking.ErrCancelled) {
		status = StatusCancelled
	}
	return Outcome{
		Status:      status,
		Mode:        mode,
		Err:         err,
		Message:     booking.UserMessage(err),
		Category:    category,
		AmountMinor: amount,
	}
}
