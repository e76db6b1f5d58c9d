package submission

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/starring-booking/internal/booking"
	"github.com/wolfman30/starring-booking/internal/observability/metrics"
	"github.com/wolfman30/starring-booking/internal/pricing"
	"github.com/wolfman30/starring-booking/internal/records"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

// Request is a validated, priced submission handed to a Strategy.
type Request struct {
	Reference   string
	Draft       booking.Draft
	Category    string
	AmountMinor int64
	Row         records.Row
}

// Receipt identifies what a strategy did on success.
type Receipt struct {
	OrderID   string
	PaymentID string
}

// Strategy performs the outbound side of one submission. Returned errors carry a booking
// error class.
type Strategy interface {
	Mode() Mode
	Dispatch(ctx context.Context, req Request) (Receipt, error)
}

// Config wires a Dispatcher.
type Config struct {
	Strategy Strategy
	Prices   pricing.Table
	Metrics  *metrics.BookingMetrics
	Logger   *logging.Logger
	Tracer   trace.Tracer
}

// Dispatcher validates and prices a finished draft, then hands it to the configured strategy.
// It does not guard against concurrent calls; callers disable re-entrant submission.
type Dispatcher struct {
	strategy Strategy
	prices   pricing.Table
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	tracer   trace.Tracer
}

// NewDispatcher constructs a dispatcher. A strategy is required.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Strategy == nil {
		panic("submission: strategy required")
	}
	if cfg.Prices == nil {
		cfg.Prices = pricing.DefaultTable()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("starring.internal.submission")
	}
	return &Dispatcher{
		strategy: cfg.Strategy,
		prices:   cfg.Prices,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
	}
}

// Mode returns the active submission mode.
func (d *Dispatcher) Mode() Mode { return d.strategy.Mode() }

// Submit runs one submission attempt for the draft of the session identified by reference.
// Precondition failures return before any network activity.
func (d *Dispatcher) Submit(ctx context.Context, reference string, draft booking.Draft) Outcome {
	start := time.Now()
	mode := d.strategy.Mode()
	ctx, span := d.tracer.Start(ctx, "submission.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("starring.session_id", reference),
		attribute.String("starring.mode", string(mode)),
	)

	outcome := d.submit(ctx, reference, draft)
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
	}
	span.SetAttributes(attribute.String("starring.outcome", string(outcome.Status)))
	d.metrics.ObserveSubmission(string(mode), string(outcome.Status), booking.ClassName(outcome.Err), time.Since(start).Seconds())

	logger := d.logger.ForSession(reference).With("mode", mode, "category", outcome.Category)
	switch {
	case outcome.Succeeded():
		logger.Info("booking submitted", "order_id", outcome.OrderID, "payment_id", outcome.PaymentID, "duration_ms", time.Since(start).Milliseconds())
	case errors.Is(outcome.Err, booking.ErrVerification):
		logger.Error("payment taken but booking not verified", "error", outcome.Err)
	case outcome.Status == StatusCancelled:
		logger.Info("checkout cancelled by customer")
	case errors.Is(outcome.Err, booking.ErrValidation):
		logger.Debug("submission blocked", "reason", outcome.Message)
	default:
		logger.Warn("booking submission failed", "error", outcome.Err)
	}
	return outcome
}

func (d *Dispatcher) submit(ctx context.Context, reference string, draft booking.Draft) Outcome {
	mode := d.strategy.Mode()
	if err := CheckPreconditions(draft); err != nil {
		return failed(mode, "", 0, err)
	}

	category := pricing.Key(draft.DeviceType, draft.EditType)
	amount, err := d.prices.Price(draft.DeviceType, draft.EditType)
	if err != nil {
		return failed(mode, category, 0, err)
	}

	req := Request{
		Reference:   reference,
		Draft:       draft,
		Category:    category,
		AmountMinor: amount,
		Row:         records.RowFromDraft(draft, category),
	}
	receipt, err := d.strategy.Dispatch(ctx, req)
	if err != nil {
		if booking.Class(err) == nil {
			err = booking.NetworkError(err)
		}
		return failed(mode, category, amount, err)
	}
	return succeeded(mode, category, amount, receipt)
}

// CheckPreconditions validates a draft before any outbound call.
func CheckPreconditions(d booking.Draft) error {
	if !d.HasPreferences() {
		return booking.ErrIncompletePreviousStep
	}
	if !d.HasSchedule() {
		return booking.ErrMissingSchedule
	}
	if !d.HasContact() {
		return booking.ErrMissingContact
	}
	return d.ValidateSchedule()
}
