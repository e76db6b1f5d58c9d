package payments

import (
	"errors"

	"github.com/wolfman30/starring-booking/internal/records"
)

var (
	// ErrOrderRejected is returned when the order endpoint answers without an order.
	ErrOrderRejected = errors.New("payments: order rejected")

	// ErrVerificationRejected is returned when the verification endpoint answers ok=false.
	ErrVerificationRejected = errors.New("payments: verification rejected")

	// ErrNoPendingCheckout is returned when a callback arrives for a checkout nobody is waiting on.
	ErrNoPendingCheckout = errors.New("payments: no pending checkout")
)

// OrderRequest asks the order endpoint for a gateway order.
type OrderRequest struct {
	Amount  int64  `json:"amount"`
	Receipt string `json:"receipt"`
}

// Order is the gateway order returned by the order endpoint.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// OrderResponse is the order endpoint's reply.
type OrderResponse struct {
	OK    bool   `json:"ok"`
	Order *Order `json:"order,omitempty"`
	KeyID string `json:"key_id,omitempty"`
	Error string `json:"error,omitempty"`
}

// PaymentResult carries the identifiers the checkout widget hands to its success handler.
type PaymentResult struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

// Complete reports whether all three identifiers are present.
func (p PaymentResult) Complete() bool {
	return p.PaymentID != "" && p.OrderID != "" && p.Signature != ""
}

// VerifyRequest is the flattened payment identifiers plus booking row sent for verification.
type VerifyRequest struct {
	PaymentResult
	records.Row
}

// VerifyResponse is the verification endpoint's reply.
type VerifyResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Prefill is the contact data shown pre-filled in the checkout widget.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Theme styles the checkout widget.
type Theme struct {
	Color string `json:"color,omitempty"`
}

// CheckoutOptions configures the hosted checkout widget.
type CheckoutOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`

	// Reference ties the checkout to the caller's booking session. Not sent to the gateway.
	Reference string `json:"-"`
}

// CheckoutStatus is how a checkout ended.
type CheckoutStatus string

const (
	CheckoutSucceeded CheckoutStatus = "succeeded"
	CheckoutCancelled CheckoutStatus = "cancelled"
	CheckoutFailed    CheckoutStatus = "failed"
)

// CheckoutResult is the single result of an opened checkout.
type CheckoutResult struct {
	Status  CheckoutStatus
	Payment PaymentResult
	Err     error
}
