package bootstrap

import (
	"fmt"
	"strings"

	appconfig "github.com/wolfman30/starring-booking/internal/config"
	"github.com/wolfman30/starring-booking/internal/payments"
	"github.com/wolfman30/starring-booking/internal/pricing"
	"github.com/wolfman30/starring-booking/internal/records"
	"github.com/wolfman30/starring-booking/internal/submission"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

// BuildPriceTable returns the configured price table, or the default one.
func BuildPriceTable(cfg *appconfig.Config) (pricing.Table, error) {
	if cfg == nil || strings.TrimSpace(cfg.PriceTableJSON) == "" {
		return pricing.DefaultTable(), nil
	}
	table, err := pricing.ParseTable(cfg.PriceTableJSON)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: price table: %w", err)
	}
	return table, nil
}

// Submission is the wired submission strategy. Hosted is set when the browser completes
// checkout through the session callback endpoints.
type Submission struct {
	Strategy submission.Strategy
	Hosted   *payments.HostedCheckout
}

// BuildSubmission selects the one strategy named by SUBMISSION_MODE.
func BuildSubmission(cfg *appconfig.Config, logger *logging.Logger) (*Submission, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	mode, err := submission.ParseMode(cfg.SubmissionMode)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	switch mode {
	case submission.ModeDirectRecord:
		recorder := records.NewHTTPRecorder(cfg.RecordEndpointURL, records.ParseEncoding(cfg.RecordEncoding), cfg.HTTPClientTimeout, logger)
		return &Submission{Strategy: submission.NewDirectRecord(recorder, cfg.ProcessingDelay, nil)}, nil

	case submission.ModeHiddenFrame:
		recorder := records.NewOpaqueRecorder(cfg.RecordEndpointURL, cfg.HTTPClientTimeout, logger)
		return &Submission{Strategy: submission.NewHiddenFrame(recorder)}, nil

	case submission.ModeGatewayCheckout:
		endpoints := payments.NewEndpointClient(cfg.OrderEndpointURL, cfg.VerifyEndpointURL, cfg.HTTPClientTimeout, logger)
		settings := submission.CheckoutSettings{
			KeyID:       cfg.RazorpayKeyID,
			Currency:    cfg.Currency,
			Name:        cfg.BusinessName,
			Description: cfg.BookingDescription,
			ThemeColor:  cfg.ThemeColor,
		}
		out := &Submission{}
		var checkout submission.Checkout
		if cfg.AllowFakePayments {
			logger.Warn("fake payments enabled; checkout completes without the gateway")
			checkout = payments.NewFakeCheckout(cfg.RazorpayKeySecret, logger)
		} else {
			out.Hosted = payments.NewHostedCheckout(logger)
			checkout = out.Hosted
		}
		out.Strategy = submission.NewGatewayCheckout(endpoints, checkout, endpoints, settings)
		return out, nil
	}
	return nil, fmt.Errorf("bootstrap: unsupported submission mode %q", mode)
}

// BuildGatewayHandler serves /payments when Razorpay credentials are configured.
// Verified bookings are recorded at RECORD_ENDPOINT_URL.
func BuildGatewayHandler(cfg *appconfig.Config, logger *logging.Logger) *payments.GatewayHandler {
	if cfg == nil || !cfg.RazorpayConfigured() {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.RecordEndpointURL) == "" {
		logger.Warn("razorpay configured without RECORD_ENDPOINT_URL; gateway endpoints disabled")
		return nil
	}
	orders := payments.NewRazorpayOrdersClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.Currency, logger).
		WithBaseURL(cfg.RazorpayBaseURL).
		WithDryRun(cfg.RazorpayDryRun)
	recorder := records.NewHTTPRecorder(cfg.RecordEndpointURL, records.ParseEncoding(cfg.RecordEncoding), cfg.HTTPClientTimeout, logger)
	return payments.NewGatewayHandler(orders, cfg.RazorpayKeySecret, recorder, logger)
}
