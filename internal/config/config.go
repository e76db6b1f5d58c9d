package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/starring-booking/internal/submission"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Submission
	SubmissionMode     string
	ProcessingDelay    time.Duration
	RecordEndpointURL  string
	RecordEncoding     string
	OrderEndpointURL   string
	VerifyEndpointURL  string
	HTTPClientTimeout  time.Duration
	SubmitWriteTimeout time.Duration
	PriceTableJSON     string

	// Razorpay checkout
	RazorpayKeyID      string
	RazorpayKeySecret  string
	RazorpayBaseURL    string
	RazorpayDryRun     bool
	Currency           string
	BusinessName       string
	BookingDescription string
	ThemeColor         string
	AllowFakePayments  bool

	// Session storage
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	// HTTP edge
	CORSAllowedOrigins []string
	// Empty header and method lists keep the middleware defaults.
	CORSAllowedHeaders []string
	CORSAllowedMethods []string
	CORSMaxAge         time.Duration
	SubmitRatePerSec   float64
	SubmitRateBurst    int

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables. An optional dotenv file
// (ENV_FILE, default .env) is loaded first; variables already set take precedence.
func Load() *Config {
	loadDotEnv(getEnv("ENV_FILE", ".env"))

	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),

		SubmissionMode:     strings.ToLower(strings.TrimSpace(getEnv("SUBMISSION_MODE", "direct-record"))),
		ProcessingDelay:    getEnvAsDuration("PROCESSING_DELAY", 3*time.Second),
		RecordEndpointURL:  getEnv("RECORD_ENDPOINT_URL", ""),
		RecordEncoding:     strings.ToLower(getEnv("RECORD_ENCODING", "form")),
		OrderEndpointURL:   getEnv("ORDER_ENDPOINT_URL", ""),
		VerifyEndpointURL:  getEnv("VERIFY_ENDPOINT_URL", ""),
		HTTPClientTimeout:  getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second),
		SubmitWriteTimeout: getEnvAsDuration("SUBMIT_WRITE_TIMEOUT", 10*time.Minute),
		PriceTableJSON:     getEnv("PRICE_TABLE_JSON", ""),

		RazorpayKeyID:      getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:  getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL:    getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		RazorpayDryRun:     getEnvAsBool("RAZORPAY_DRY_RUN", false),
		Currency:           strings.ToUpper(getEnv("CURRENCY", "INR")),
		BusinessName:       getEnv("BUSINESS_NAME", "Starring"),
		BookingDescription: getEnv("BOOKING_DESCRIPTION", "Shoot booking"),
		ThemeColor:         getEnv("THEME_COLOR", "#000000"),
		AllowFakePayments:  getEnvAsBool("ALLOW_FAKE_PAYMENTS", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedHeaders: getEnvAsList("CORS_ALLOWED_HEADERS", nil),
		CORSAllowedMethods: getEnvAsList("CORS_ALLOWED_METHODS", nil),
		CORSMaxAge:         getEnvAsDuration("CORS_MAX_AGE", 10*time.Minute),
		SubmitRatePerSec:   getEnvAsFloat("SUBMIT_RATE_PER_SEC", 0.5),
		SubmitRateBurst:    getEnvAsInt("SUBMIT_RATE_BURST", 3),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Starring"),
	}
}

// RazorpayConfigured reports whether gateway credentials are present.
func (c *Config) RazorpayConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	mode, err := submission.ParseMode(c.SubmissionMode)
	if err != nil {
		errs = append(errs, fmt.Errorf("config: unknown SUBMISSION_MODE %q", c.SubmissionMode))
	}
	switch mode {
	case submission.ModeDirectRecord, submission.ModeHiddenFrame:
		if c.RecordEndpointURL == "" {
			errs = append(errs, fmt.Errorf("config: RECORD_ENDPOINT_URL is required for %s mode", mode))
		}
	case submission.ModeGatewayCheckout:
		if c.OrderEndpointURL == "" {
			errs = append(errs, errors.New("config: ORDER_ENDPOINT_URL is required for gateway-checkout mode"))
		}
		if c.VerifyEndpointURL == "" {
			errs = append(errs, errors.New("config: VERIFY_ENDPOINT_URL is required for gateway-checkout mode"))
		}
		if c.RazorpayKeyID == "" {
			errs = append(errs, errors.New("config: RAZORPAY_KEY_ID is required for gateway-checkout mode"))
		}
	}
	switch c.RecordEncoding {
	case "form", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown RECORD_ENCODING %q", c.RecordEncoding))
	}
	if c.AllowFakePayments && c.Env == "production" {
		errs = append(errs, errors.New("config: ALLOW_FAKE_PAYMENTS cannot be enabled in production"))
	}
	if c.ProcessingDelay < 0 {
		errs = append(errs, errors.New("config: PROCESSING_DELAY must not be negative"))
	}
	return errors.Join(errs...)
}

func loadDotEnv(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
