package payments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/starring-booking/pkg/logging"
)

// CheckoutHandler lets the browser fetch the pending widget options for its session and
// report what the widget did.
type CheckoutHandler struct {
	checkout *HostedCheckout
	logger   *logging.Logger
}

func NewCheckoutHandler(checkout *HostedCheckout, logger *logging.Logger) *CheckoutHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

// Routes is mounted under /bookings/sessions/{sessionID}/checkout.
func (h *CheckoutHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetOptions)
	r.Post("/complete", h.Complete)
	r.Post("/dismiss", h.Dismiss)
	r.Post("/fail", h.Fail)
	return r
}

func (h *CheckoutHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, ok := h.checkout.Pending(chi.URLParam(r, "sessionID"))
	if !ok {
		http.Error(w, "no pending checkout", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var payment PaymentResult
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	h.respond(w, h.checkout.Complete(chi.URLParam(r, "sessionID"), payment))
}

func (h *CheckoutHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.checkout.Dismiss(chi.URLParam(r, "sessionID")))
}

func (h *CheckoutHandler) Fail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Reason == "" {
		body.Reason = "payment failed"
	}
	h.respond(w, h.checkout.Fail(chi.URLParam(r, "sessionID"), body.Reason))
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrNoPendingCheckout):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Warn("checkout callback rejected", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
