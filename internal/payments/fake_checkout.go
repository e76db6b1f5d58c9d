package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wolfman30/starring-booking/pkg/logging"
)

// FakeCheckout is a dev/demo checkout that completes immediately with a correctly signed
// payment, so the verification endpoint accepts it.
//
// This MUST be gated by configuration (ALLOW_FAKE_PAYMENTS) and should never be enabled in
// production.
type FakeCheckout struct {
	keySecret string
	logger    *logging.Logger
}

func NewFakeCheckout(keySecret string, logger *logging.Logger) *FakeCheckout {
	if logger == nil {
		logger = logging.Default()
	}
	return &FakeCheckout{keySecret: keySecret, logger: logger}
}

func (c *FakeCheckout) Open(ctx context.Context, opts CheckoutOptions) (CheckoutResult, error) {
	_ = ctx
	if opts.OrderID == "" {
		return CheckoutResult{Status: CheckoutFailed}, fmt.Errorf("payments: fake checkout requires an order id")
	}
	if c.keySecret == "" {
		return CheckoutResult{Status: CheckoutFailed}, fmt.Errorf("payments: fake checkout requires RAZORPAY_KEY_SECRET")
	}

	paymentID := "pay_fake_" + uuid.New().String()[:8]
	c.logger.Warn("fake checkout completed", "order_id", opts.OrderID, "payment_id", paymentID, "amount_minor", opts.Amount)
	return CheckoutResult{
		Status: CheckoutSucceeded,
		Payment: PaymentResult{
			PaymentID: paymentID,
			OrderID:   opts.OrderID,
			Signature: Sign(c.keySecret, opts.OrderID, paymentID),
		},
	}, nil
}
