package payments

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/starring-booking/internal/records"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

type gatewayOrderCreator interface {
	CreateOrder(ctx context.Context, amount int64, receipt string) (*Order, error)
	KeyID() string
}

// GatewayHandler serves the order-creation and verification endpoints the submission flow
// calls in gateway-checkout mode.
type GatewayHandler struct {
	orders    gatewayOrderCreator
	keySecret string
	recorder  records.Recorder
	logger    *logging.Logger
}

func NewGatewayHandler(orders gatewayOrderCreator, keySecret string, recorder records.Recorder, logger *logging.Logger) *GatewayHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &GatewayHandler{
		orders:    orders,
		keySecret: keySecret,
		recorder:  recorder,
		logger:    logger,
	}
}

func (h *GatewayHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/orders", h.CreateOrder)
	r.Post("/verify", h.Verify)
	return r
}

// CreateOrder handles POST /payments/orders.
func (h *GatewayHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, OrderResponse{OK: false, Error: "invalid payload"})
		return
	}
	if req.Amount <= 0 || req.Receipt == "" {
		writeJSON(w, http.StatusBadRequest, OrderResponse{OK: false, Error: "amount and receipt are required"})
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), req.Amount, req.Receipt)
	if err != nil {
		h.logger.Error("order creation failed", "error", err, "receipt", req.Receipt)
		writeJSON(w, http.StatusBadGateway, OrderResponse{OK: false, Error: "order creation failed"})
		return
	}

	writeJSON(w, http.StatusOK, OrderResponse{OK: true, Order: order, KeyID: h.orders.KeyID()})
}

// Verify handles POST /payments/verify. The row is recorded only after the signature checks out.
func (h *GatewayHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, VerifyResponse{OK: false, Error: "invalid payload"})
		return
	}
	if !VerifySignature(h.keySecret, req.PaymentResult) {
		h.logger.Warn("payment signature rejected", "order_id", req.OrderID, "payment_id", req.PaymentID)
		writeJSON(w, http.StatusBadRequest, VerifyResponse{OK: false, Error: "invalid signature"})
		return
	}

	if err := h.recorder.Record(r.Context(), req.Row); err != nil {
		h.logger.Error("verified payment not recorded", "error", err, "order_id", req.OrderID, "payment_id", req.PaymentID)
		writeJSON(w, http.StatusBadGateway, VerifyResponse{OK: false, Error: "booking not recorded"})
		return
	}

	h.logger.Info("payment verified and booking recorded", "order_id", req.OrderID, "payment_id", req.PaymentID, "category", req.Category)
	writeJSON(w, http.StatusOK, VerifyResponse{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
