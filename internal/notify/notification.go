package notify

import (
	"errors"

	"github.com/wolfman30/starring-booking/internal/booking"
	"github.com/wolfman30/starring-booking/internal/submission"
)

// Level is the style of a customer-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient, dismissible message for the customer.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// FromOutcome builds the notification for a submission attempt.
func FromOutcome(o submission.Outcome) Notification {
	switch o.Status {
	case submission.StatusSucceeded:
		return Notification{Level: LevelSuccess, Message: o.Message}
	case submission.StatusCancelled:
		return Notification{Level: LevelInfo, Message: o.Message}
	default:
		return Notification{Level: LevelError, Message: o.Message}
	}
}

// FromError builds an error notification, or an info one for cancellations.
func FromError(err error) Notification {
	if errors.Is(err, booking.ErrCancelled) {
		return Notification{Level: LevelInfo, Message: booking.UserMessage(err)}
	}
	return Notification{Level: LevelError, Message: booking.UserMessage(err)}
}
