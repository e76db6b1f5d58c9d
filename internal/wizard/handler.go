package wizard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/starring-booking/internal/booking"
	"github.com/wolfman30/starring-booking/internal/notify"
	"github.com/wolfman30/starring-booking/internal/submission"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

// Handler serves the booking form over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SessionView is the client-facing rendering of a session.
type SessionView struct {
	ID           string               `json:"id"`
	Step         booking.Step         `json:"step"`
	StepName     string               `json:"step_name"`
	Draft        booking.Draft        `json:"draft"`
	Processing   bool                 `json:"processing"`
	Notification *notify.Notification `json:"notification,omitempty"`
	TimeSlots    []string             `json:"time_slots"`
}

// SubmitResponse is returned by the submit endpoint.
type SubmitResponse struct {
	Status  submission.Status `json:"status"`
	Message string            `json:"message"`
	View    *SessionView      `json:"view,omitempty"`
}

// NewSessionView renders a session.
func NewSessionView(s *Session) *SessionView {
	if s == nil {
		return nil
	}
	return &SessionView{
		ID:           s.ID,
		Step:         s.Step,
		StepName:     s.Step.String(),
		Draft:        s.Draft,
		Processing:   s.Processing,
		Notification: s.LastNotification,
		TimeSlots:    booking.TimeSlots,
	}
}

// Create handles POST /bookings/sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create booking session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, NewSessionView(sess))
}

// Get handles GET /bookings/sessions/{sessionID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSessionView(sess))
}

// SetFields handles PATCH /bookings/sessions/{sessionID}/fields
func (h *Handler) SetFields(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.service.SetFields(r.Context(), chi.URLParam(r, "sessionID"), values)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSessionView(sess))
}

// Advance handles POST /bookings/sessions/{sessionID}/advance
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	sess, dec, err := h.service.Advance(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	if !dec.Allowed {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": dec.Reason,
			"step":  sess.Step,
		})
		return
	}
	writeJSON(w, http.StatusOK, NewSessionView(sess))
}

// Submit handles POST /bookings/sessions/{sessionID}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, outcome, err := h.service.Submit(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, submitStatus(outcome), SubmitResponse{
		Status:  outcome.Status,
		Message: outcome.Message,
		View:    NewSessionView(sess),
	})
}

func submitStatus(o submission.Outcome) int {
	switch {
	case o.Succeeded(), o.Status == submission.StatusCancelled:
		return http.StatusOK
	case errors.Is(o.Err, booking.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(o.Err, booking.ErrVerification):
		return http.StatusPaymentRequired
	case errors.Is(o.Err, booking.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, ErrSubmissionInProgress):
		writeError(w, http.StatusConflict, "submission in progress")
	case errors.Is(err, booking.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, booking.UserMessage(err))
	default:
		h.logger.Error("booking request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
