package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/starring-booking/pkg/logging"
)

var razorpayTracer = otel.Tracer("starring.internal.payments.razorpay")

// RazorpayOrdersClient creates orders through the Razorpay Orders API.
type RazorpayOrdersClient struct {
	keyID      string
	keySecret  string
	currency   string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	dryRun     bool
}

// NewRazorpayOrdersClient creates a new orders client.
func NewRazorpayOrdersClient(keyID, keySecret, currency string, logger *logging.Logger) *RazorpayOrdersClient {
	if logger == nil {
		logger = logging.Default()
	}
	if currency == "" {
		currency = "INR"
	}
	dryRun := strings.EqualFold(os.Getenv("RAZORPAY_DRY_RUN"), "true") || os.Getenv("RAZORPAY_DRY_RUN") == "1"
	return &RazorpayOrdersClient{
		keyID:      keyID,
		keySecret:  keySecret,
		currency:   strings.ToUpper(currency),
		baseURL:    "https://api.razorpay.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		dryRun:     dryRun,
	}
}

// WithBaseURL overrides the Razorpay API base URL (for testing).
func (c *RazorpayOrdersClient) WithBaseURL(baseURL string) *RazorpayOrdersClient {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// WithDryRun enables dry-run mode (returns fake orders without calling Razorpay).
func (c *RazorpayOrdersClient) WithDryRun(enabled bool) *RazorpayOrdersClient {
	c.dryRun = enabled
	return c
}

// KeyID is the public key the checkout widget is configured with.
func (c *RazorpayOrdersClient) KeyID() string { return c.keyID }

// CreateOrder creates an order for amount minor units under receipt.
func (c *RazorpayOrdersClient) CreateOrder(ctx context.Context, amount int64, receipt string) (*Order, error) {
	ctx, span := razorpayTracer.Start(ctx, "razorpay.create_order")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("starring.amount_minor", amount),
		attribute.String("starring.receipt", receipt),
	)

	if amount <= 0 {
		return nil, fmt.Errorf("payments: razorpay amount must be positive")
	}
	if c.dryRun {
		order := &Order{ID: "order_dryrun_" + uuid.New().String()[:8], Amount: amount, Currency: c.currency}
		c.logger.Info("razorpay dry run: skipping order creation", "order_id", order.ID, "amount_minor", amount)
		return order, nil
	}

	payload, err := json.Marshal(razorpayOrderRequest{Amount: amount, Currency: c.currency, Receipt: receipt})
	if err != nil {
		return nil, fmt.Errorf("payments: razorpay encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("payments: razorpay request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("payments: razorpay http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr razorpayErrorResponse
		body, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(body, &apiErr)
		err := fmt.Errorf("payments: razorpay api status %d: %s", resp.StatusCode, apiErr.message(body))
		span.RecordError(err)
		return nil, err
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("payments: razorpay decode: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("payments: razorpay response missing order id")
	}
	return &order, nil
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (e razorpayErrorResponse) message(raw []byte) string {
	if e.Error.Description != "" {
		return e.Error.Code + ": " + e.Error.Description
	}
	return strings.TrimSpace(string(raw))
}
