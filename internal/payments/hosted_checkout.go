package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/starring-booking/pkg/logging"
)

// HostedCheckout bridges the browser-side checkout widget to the submission flow. Open parks
// the widget options under the caller's reference and blocks until the browser reports the
// widget's outcome through Complete, Dismiss or Fail, or until ctx ends.
type HostedCheckout struct {
	mu      sync.Mutex
	pending map[string]*pendingCheckout
	logger  *logging.Logger
}

type pendingCheckout struct {
	options  CheckoutOptions
	openedAt time.Time
	result   chan CheckoutResult
}

// NewHostedCheckout creates an empty checkout registry.
func NewHostedCheckout(logger *logging.Logger) *HostedCheckout {
	if logger == nil {
		logger = logging.Default()
	}
	return &HostedCheckout{
		pending: make(map[string]*pendingCheckout),
		logger:  logger,
	}
}

// Open publishes opts for the browser and waits for the widget's result.
func (h *HostedCheckout) Open(ctx context.Context, opts CheckoutOptions) (CheckoutResult, error) {
	if opts.Reference == "" {
		return CheckoutResult{Status: CheckoutFailed}, fmt.Errorf("payments: hosted checkout requires a reference")
	}
	if opts.OrderID == "" {
		return CheckoutResult{Status: CheckoutFailed}, fmt.Errorf("payments: hosted checkout requires an order id")
	}

	p := &pendingCheckout{
		options:  opts,
		openedAt: time.Now().UTC(),
		result:   make(chan CheckoutResult, 1),
	}
	h.mu.Lock()
	h.pending[opts.Reference] = p
	h.mu.Unlock()
	h.logger.Info("checkout opened", "session_id", opts.Reference, "order_id", opts.OrderID, "amount_minor", opts.Amount)

	defer func() {
		h.mu.Lock()
		if h.pending[opts.Reference] == p {
			delete(h.pending, opts.Reference)
		}
		h.mu.Unlock()
	}()

	select {
	case res := <-p.result:
		return res, nil
	case <-ctx.Done():
		return CheckoutResult{Status: CheckoutFailed, Err: ctx.Err()}, ctx.Err()
	}
}

// Pending returns the widget options waiting for reference.
func (h *HostedCheckout) Pending(reference string) (CheckoutOptions, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pending[reference]
	if !ok {
		return CheckoutOptions{}, false
	}
	return p.options, true
}

// Complete delivers the widget's success payload. The order id must match the pending order.
func (h *HostedCheckout) Complete(reference string, payment PaymentResult) error {
	if !payment.Complete() {
		return fmt.Errorf("payments: incomplete checkout result")
	}
	return h.resolve(reference, func(p *pendingCheckout) (CheckoutResult, error) {
		if payment.OrderID != p.options.OrderID {
			return CheckoutResult{}, fmt.Errorf("payments: order id mismatch")
		}
		return CheckoutResult{Status: CheckoutSucceeded, Payment: payment}, nil
	})
}

// Dismiss reports that the customer closed the widget.
func (h *HostedCheckout) Dismiss(reference string) error {
	return h.resolve(reference, func(*pendingCheckout) (CheckoutResult, error) {
		return CheckoutResult{Status: CheckoutCancelled}, nil
	})
}

// Fail reports a payment failure raised by the widget.
func (h *HostedCheckout) Fail(reference, reason string) error {
	return h.resolve(reference, func(*pendingCheckout) (CheckoutResult, error) {
		return CheckoutResult{Status: CheckoutFailed, Err: fmt.Errorf("payments: gateway failure: %s", reason)}, nil
	})
}

func (h *HostedCheckout) resolve(reference string, build func(*pendingCheckout) (CheckoutResult, error)) error {
	h.mu.Lock()
	p, ok := h.pending[reference]
	if !ok {
		h.mu.Unlock()
		return ErrNoPendingCheckout
	}
	res, err := build(p)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	delete(h.pending, reference)
	h.mu.Unlock()

	p.result <- res
	h.logger.Info("checkout resolved", "session_id", reference, "status", res.Status, "waited_ms", time.Since(p.openedAt).Milliseconds())
	return nil
}
