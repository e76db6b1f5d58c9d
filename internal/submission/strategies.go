package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/starring-booking/internal/booking"
	"github.com/wolfman30/starring-booking/internal/payments"
	"github.com/wolfman30/starring-booking/internal/records"
)

// DefaultProcessingDelay is the pause direct-record mode takes before recording.
const DefaultProcessingDelay = 3 * time.Second

// SleepFunc waits for d or until ctx ends.
type SleepFunc func(ctx context.Context, d time.Duration) error

// DirectRecord records the row after a fixed processing delay, without taking payment.
type DirectRecord struct {
	recorder records.Recorder
	delay    time.Duration
	sleep    SleepFunc
}

// NewDirectRecord creates the direct-record strategy. A nil sleep uses a timer.
func NewDirectRecord(recorder records.Recorder, delay time.Duration, sleep SleepFunc) *DirectRecord {
	if sleep == nil {
		sleep = sleepContext
	}
	return &DirectRecord{recorder: recorder, delay: delay, sleep: sleep}
}

func (s *DirectRecord) Mode() Mode { return ModeDirectRecord }

func (s *DirectRecord) Dispatch(ctx context.Context, req Request) (Receipt, error) {
	if err := s.sleep(ctx, s.delay); err != nil {
		return Receipt{}, booking.NetworkError(err)
	}
	if err := s.recorder.Record(ctx, req.Row); err != nil {
		return Receipt{}, booking.NetworkError(err)
	}
	return Receipt{}, nil
}

// HiddenFrame posts the row through an opaque recorder, without delay or payment.
type HiddenFrame struct {
	recorder records.Recorder
}

func NewHiddenFrame(recorder records.Recorder) *HiddenFrame {
	return &HiddenFrame{recorder: recorder}
}

func (s *HiddenFrame) Mode() Mode { return ModeHiddenFrame }

func (s *HiddenFrame) Dispatch(ctx context.Context, req Request) (Receipt, error) {
	if err := s.recorder.Record(ctx, req.Row); err != nil {
		return Receipt{}, booking.NetworkError(err)
	}
	return Receipt{}, nil
}

// OrderCreator requests gateway orders.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req payments.OrderRequest) (*payments.OrderResponse, error)
}

// Checkout opens the payment widget and waits for its single result.
type Checkout interface {
	Open(ctx context.Context, opts payments.CheckoutOptions) (payments.CheckoutResult, error)
}

// Verifier confirms a completed payment and records the booking server-side.
type Verifier interface {
	Verify(ctx context.Context, req payments.VerifyRequest) error
}

// CheckoutSettings is the static part of the checkout widget configuration.
type CheckoutSettings struct {
	KeyID       string
	Currency    string
	Name        string
	Description string
	ThemeColor  string
}

// GatewayCheckout collects payment before the booking is recorded. The three calls run
// strictly in order: order, checkout, verification.
type GatewayCheckout struct {
	orders   OrderCreator
	checkout Checkout
	verifier Verifier
	settings CheckoutSettings
	now      func() time.Time
}

// NewGatewayCheckout creates the gateway-checkout strategy.
func NewGatewayCheckout(orders OrderCreator, checkout Checkout, verifier Verifier, settings CheckoutSettings) *GatewayCheckout {
	if settings.Currency == "" {
		settings.Currency = "INR"
	}
	return &GatewayCheckout{
		orders:   orders,
		checkout: checkout,
		verifier: verifier,
		settings: settings,
		now:      time.Now,
	}
}

// WithClock overrides the clock used for receipt ids (for testing).
func (s *GatewayCheckout) WithClock(now func() time.Time) *GatewayCheckout {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *GatewayCheckout) Mode() Mode { return ModeGatewayCheckout }

func (s *GatewayCheckout) Dispatch(ctx context.Context, req Request) (Receipt, error) {
	receipt := fmt.Sprintf("receipt_%d", s.now().UnixMilli())
	resp, err := s.orders.CreateOrder(ctx, payments.OrderRequest{Amount: req.AmountMinor, Receipt: receipt})
	if err != nil {
		return Receipt{}, booking.NetworkError(err)
	}
	if resp == nil || !resp.OK || resp.Order == nil || resp.Order.ID == "" {
		return Receipt{}, booking.NetworkError(payments.ErrOrderRejected)
	}

	opts := s.checkoutOptions(req, resp)
	result, err := s.checkout.Open(ctx, opts)
	if err != nil {
		return Receipt{}, booking.NetworkError(err)
	}
	switch result.Status {
	case payments.CheckoutCancelled:
		return Receipt{OrderID: opts.OrderID}, booking.ErrCheckoutDismissed
	case payments.CheckoutSucceeded:
	default:
		return Receipt{OrderID: opts.OrderID}, booking.PaymentFailedError(result.Err)
	}

	err = s.verifier.Verify(ctx, payments.VerifyRequest{PaymentResult: result.Payment, Row: req.Row})
	if err != nil {
		return Receipt{OrderID: opts.OrderID, PaymentID: result.Payment.PaymentID}, booking.VerificationError(err)
	}
	return Receipt{OrderID: opts.OrderID, PaymentID: result.Payment.PaymentID}, nil
}

func (s *GatewayCheckout) checkoutOptions(req Request, resp *payments.OrderResponse) payments.CheckoutOptions {
	key := resp.KeyID
	if key == "" {
		key = s.settings.KeyID
	}
	amount := resp.Order.Amount
	if amount == 0 {
		amount = req.AmountMinor
	}
	currency := resp.Order.Currency
	if currency == "" {
		currency = s.settings.Currency
	}
	return payments.CheckoutOptions{
		Key:         key,
		Amount:      amount,
		Currency:    currency,
		Name:        s.settings.Name,
		Description: s.settings.Description,
		OrderID:     resp.Order.ID,
		Prefill: payments.Prefill{
			Name:    req.Row.Name,
			Email:   req.Row.Email,
			Contact: req.Row.Phone,
		},
		Theme:     payments.Theme{Color: s.settings.ThemeColor},
		Reference: req.Reference,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
