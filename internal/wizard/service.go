package wizard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/starring-booking/internal/booking"
	"github.com/wolfman30/starring-booking/internal/notify"
	"github.com/wolfman30/starring-booking/internal/observability/metrics"
	"github.com/wolfman30/starring-booking/internal/submission"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

// Submitter runs one submission attempt for a finished draft.
type Submitter interface {
	Mode() submission.Mode
	Submit(ctx context.Context, reference string, draft booking.Draft) submission.Outcome
}

// Service owns the booking form state of every session.
type Service struct {
	store     Store
	submitter Submitter
	confirmer notify.Confirmer
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	now       func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(store Store, submitter Submitter, logger *logging.Logger) *Service {
	if store == nil {
		panic("wizard: store cannot be nil")
	}
	if submitter == nil {
		panic("wizard: submitter cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:     store,
		submitter: submitter,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*sessionLock),
	}
}

// WithConfirmer sends a confirmation after each successful booking.
func (s *Service) WithConfirmer(c notify.Confirmer) *Service {
	s.confirmer = c
	return s
}

// WithMetrics records step and session counters.
func (s *Service) WithMetrics(m *metrics.BookingMetrics) *Service {
	s.metrics = m
	return s
}

// Create starts a new session on the first step with an empty draft.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	now := s.now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Step:      booking.StepDetails,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.metrics.ObserveSessionCreated()
	s.logger.ForSession(sess.ID).Debug("booking session created")
	return sess, nil
}

// Get returns the session or ErrSessionNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// SetField replaces one draft field.
func (s *Service) SetField(ctx context.Context, id, name, value string) (*Session, error) {
	return s.SetFields(ctx, id, map[string]string{name: value})
}

// SetFields applies the values in field-name order, one Set per field. Nothing is saved
// when any field is unknown.
func (s *Service) SetFields(ctx context.Context, id string, values map[string]string) (*Session, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	return s.update(ctx, id, func(sess *Session) error {
		if sess.Processing {
			return ErrSubmissionInProgress
		}
		w := sess.wizard()
		for _, name := range names {
			next, err := w.SetField(name, values[name])
			if err != nil {
				return err
			}
			w = next
		}
		sess.apply(w)
		return nil
	})
}

// Advance runs the step gate. A refused advance is not an error: the decision carries the
// reason and the session gets an error notification.
func (s *Service) Advance(ctx context.Context, id string) (*Session, booking.Decision, error) {
	var dec booking.Decision
	sess, err := s.update(ctx, id, func(sess *Session) error {
		if sess.Processing {
			return ErrSubmissionInProgress
		}
		from := sess.Step
		w, d := sess.wizard().Advance()
		dec = d
		sess.apply(w)
		if d.Allowed {
			sess.LastNotification = nil
		} else {
			sess.setNotification(notify.FromError(d.Err))
		}
		s.metrics.ObserveStepAdvance(from.String(), d.Allowed)
		return nil
	})
	return sess, dec, err
}

// Submit dispatches the session's draft. It returns ErrSubmissionInProgress while another
// attempt for the same session is running. The processing flag is cleared on every exit.
func (s *Service) Submit(ctx context.Context, id string) (*Session, submission.Outcome, error) {
	var draft booking.Draft
	_, err := s.update(ctx, id, func(sess *Session) error {
		if sess.Processing {
			return ErrSubmissionInProgress
		}
		if sess.Step != booking.StepSchedule {
			return fmt.Errorf("%w: on step %s", booking.ErrIncompletePreviousStep, sess.Step)
		}
		sess.Processing = true
		sess.LastNotification = nil
		draft = sess.Draft
		return nil
	})
	if err != nil {
		return nil, submission.Outcome{}, err
	}

	logger := s.logger.ForSession(id).With("mode", s.submitter.Mode())
	finished := false
	settle := func(sess *Session) error {
		sess.Processing = false
		sess.setNotification(notify.FromError(fmt.Errorf("wizard: submission aborted")))
		return nil
	}
	defer func() {
		if finished {
			return
		}
		// Dispatch panicked or its outcome could not be stored; release the form before unwinding.
		if _, err := s.update(context.WithoutCancel(ctx), id, settle); err != nil {
			logger.Error("failed to release session after aborted submission", "error", err)
		}
	}()

	outcome := s.submitter.Submit(ctx, id, draft)

	settle = func(sess *Session) error {
		sess.Processing = false
		if outcome.Succeeded() {
			sess.apply(sess.wizard().Reset())
		}
		sess.setNotification(notify.FromOutcome(outcome))
		return nil
	}
	sess, err := s.update(context.WithoutCancel(ctx), id, settle)
	if err != nil {
		logger.Error("failed to store submission outcome", "error", err, "outcome", outcome.Status)
		return nil, outcome, err
	}
	finished = true

	if outcome.Succeeded() && s.confirmer != nil {
		if err := s.confirmer.Confirm(context.WithoutCancel(ctx), draft, outcome); err != nil {
			logger.Warn("booking confirmation not sent", "error", err)
		}
	}
	return sess, outcome, nil
}

// update loads, mutates and saves a session under its per-session lock.
func (s *Service) update(ctx context.Context, id string, mutate func(*Session) error) (*Session, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(sess); err != nil {
		return sess, err
	}
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) lock(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}
