package submission

import (
	"fmt"
	"strings"
)

// Mode selects how a finished draft is submitted. Exactly one mode is active per dispatcher.
type Mode string

const (
	// ModeDirectRecord waits a fixed processing delay and posts the row to the record endpoint.
	ModeDirectRecord Mode = "direct-record"
	// ModeGatewayCheckout creates an order, runs the checkout and verifies the payment.
	ModeGatewayCheckout Mode = "gateway-checkout"
	// ModeHiddenFrame posts the row as an opaque form submission.
	ModeHiddenFrame Mode = "hidden-frame"
)

// ParseMode maps a config string onto a Mode.
// Modes:
// - "direct-record" (or "direct", "mock"): record without payment
// - "gateway-checkout" (or "gateway", "razorpay", "checkout"): collect payment first
// - "hidden-frame" (or "iframe", "no-cors"): opaque form post
// - empty: direct-record
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "direct-record", "direct_record", "direct", "mock":
		return ModeDirectRecord, nil
	case "gateway-checkout", "gateway_checkout", "gateway", "razorpay", "checkout":
		return ModeGatewayCheckout, nil
	case "hidden-frame", "hidden_frame", "iframe", "no-cors":
		return ModeHiddenFrame, nil
	default:
		return "", fmt.Errorf("submission: unknown mode %q", value)
	}
}
