package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/starring-booking/pkg/logging"
)

var endpointTracer = otel.Tracer("starring.internal.payments.endpoints")

// EndpointClient talks to the order-creation and verification endpoints that sit in front
// of the payment gateway.
type EndpointClient struct {
	orderURL   string
	verifyURL  string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewEndpointClient creates a client for the two endpoints. A zero timeout leaves requests unbounded.
func NewEndpointClient(orderURL, verifyURL string, timeout time.Duration, logger *logging.Logger) *EndpointClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &EndpointClient{
		orderURL:   strings.TrimSpace(orderURL),
		verifyURL:  strings.TrimSpace(verifyURL),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CreateOrder requests a gateway order for amount. Transport failures, non-2xx answers and
// ok=false replies are all errors.
func (c *EndpointClient) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	ctx, span := endpointTracer.Start(ctx, "payments.create_order")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("starring.amount_minor", req.Amount),
		attribute.String("starring.receipt", req.Receipt),
	)

	var out OrderResponse
	if err := c.postJSON(ctx, c.orderURL, req, &out); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("payments: create order: %w", err)
	}
	if !out.OK || out.Order == nil || out.Order.ID == "" {
		err := fmt.Errorf("%w: %s", ErrOrderRejected, out.Error)
		span.RecordError(err)
		return nil, err
	}

	c.logger.Info("gateway order created", "order_id", out.Order.ID, "amount_minor", out.Order.Amount, "receipt", req.Receipt)
	return &out, nil
}

// Verify submits the gateway's signed identifiers with the booking row.
func (c *EndpointClient) Verify(ctx context.Context, req VerifyRequest) error {
	ctx, span := endpointTracer.Start(ctx, "payments.verify")
	defer span.End()
	span.SetAttributes(
		attribute.String("starring.order_id", req.OrderID),
		attribute.String("starring.payment_id", req.PaymentID),
	)

	var out VerifyResponse
	if err := c.postJSON(ctx, c.verifyURL, req, &out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("payments: verify: %w", err)
	}
	if !out.OK {
		err := fmt.Errorf("%w: %s", ErrVerificationRejected, out.Error)
		span.RecordError(err)
		return err
	}
	return nil
}

func (c *EndpointClient) postJSON(ctx context.Context, endpoint string, in, out any) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint not configured")
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
