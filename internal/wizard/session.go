package wizard

import (
	"errors"
	"time"

	"github.com/wolfman30/starring-booking/internal/booking"
	"github.com/wolfman30/starring-booking/internal/notify"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("wizard: session not found")
	// ErrSubmissionInProgress is returned while a submission for the session is running.
	ErrSubmissionInProgress = errors.New("wizard: submission in progress")
)

// Session is one customer's pass through the booking form.
type Session struct {
	ID               string               `json:"id"`
	Draft            booking.Draft        `json:"draft"`
	Step             booking.Step         `json:"step"`
	Processing       bool                 `json:"processing"`
	LastNotification *notify.Notification `json:"last_notification,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func (s *Session) wizard() booking.Wizard {
	return booking.Wizard{Draft: s.Draft, Step: s.Step}
}

func (s *Session) apply(w booking.Wizard) {
	s.Draft = w.Draft
	s.Step = w.Step
}

func (s *Session) setNotification(n notify.Notification) {
	s.LastNotification = &n
}
