package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/starring-booking/internal/booking"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

var recordsTracer = otel.Tracer("starring.internal.records")

// ErrRejected is returned when the endpoint answers but does not accept the row.
var ErrRejected = errors.New("records: endpoint rejected row")

// Encoding selects how a row is sent to the endpoint.
type Encoding string

const (
	EncodingForm Encoding = "form"
	EncodingJSON Encoding = "json"
)

// ParseEncoding maps a config value onto an Encoding. Unknown values fall back to form.
func ParseEncoding(value string) Encoding {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return EncodingJSON
	default:
		return EncodingForm
	}
}

// Row is one spreadsheet row. The JSON/form names are the endpoint's fixed contract.
type Row struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Category     string `json:"category"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Requirements string `json:"requirements"`
}

// RowFromDraft flattens a draft and its category key into a Row.
func RowFromDraft(d booking.Draft, category string) Row {
	return Row{
		Name:         strings.TrimSpace(d.Name),
		Email:        strings.TrimSpace(d.Email),
		Phone:        strings.TrimSpace(d.Phone),
		Category:     category,
		Date:         strings.TrimSpace(d.Date),
		Time:         strings.TrimSpace(d.TimeSlot),
		Requirements: d.Idea,
	}
}

// Values returns the row as form values.
func (r Row) Values() url.Values {
	v := url.Values{}
	v.Set("name", r.Name)
	v.Set("email", r.Email)
	v.Set("phone", r.Phone)
	v.Set("category", r.Category)
	v.Set("date", r.Date)
	v.Set("time", r.Time)
	v.Set("requirements", r.Requirements)
	return v
}

// Recorder appends a booking row to the external store.
type Recorder interface {
	Record(ctx context.Context, row Row) error
}

// HTTPRecorder posts rows to a spreadsheet script endpoint.
type HTTPRecorder struct {
	endpoint   string
	encoding   Encoding
	httpClient *http.Client
	logger     *logging.Logger
}

// NewHTTPRecorder creates a recorder for endpoint. A zero timeout leaves requests unbounded.
func NewHTTPRecorder(endpoint string, encoding Encoding, timeout time.Duration, logger *logging.Logger) *HTTPRecorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPRecorder{
		endpoint:   strings.TrimSpace(endpoint),
		encoding:   encoding,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithHTTPClient overrides the HTTP client (for testing).
func (r *HTTPRecorder) WithHTTPClient(client *http.Client) *HTTPRecorder {
	if client != nil {
		r.httpClient = client
	}
	return r
}

// Record sends one row. A 2xx answer is success unless the body is JSON carrying "ok": false.
func (r *HTTPRecorder) Record(ctx context.Context, row Row) error {
	ctx, span := recordsTracer.Start(ctx, "records.append")
	defer span.End()
	span.SetAttributes(
		attribute.String("starring.category", row.Category),
		attribute.String("starring.encoding", string(r.encoding)),
	)

	req, err := newRowRequest(ctx, r.endpoint, r.encoding, row)
	if err != nil {
		span.RecordError(err)
		return err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("records: http: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(body)))
		span.RecordError(err)
		return err
	}
	if ok, found := okFlag(body); found && !ok {
		err := fmt.Errorf("%w: ok=false", ErrRejected)
		span.RecordError(err)
		return err
	}

	r.logger.Debug("booking row recorded", "category", row.Category, "date", row.Date, "time", row.Time)
	return nil
}

// OpaqueRecorder posts a form the way a hidden-iframe submission does: the response cannot
// be read, so only transport failures are reported.
type OpaqueRecorder struct {
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewOpaqueRecorder creates a fire-and-forget form recorder.
func NewOpaqueRecorder(endpoint string, timeout time.Duration, logger *logging.Logger) *OpaqueRecorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &OpaqueRecorder{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithHTTPClient overrides the HTTP client (for testing).
func (r *OpaqueRecorder) WithHTTPClient(client *http.Client) *OpaqueRecorder {
	if client != nil {
		r.httpClient = client
	}
	return r
}

func (r *OpaqueRecorder) Record(ctx context.Context, row Row) error {
	ctx, span := recordsTracer.Start(ctx, "records.append_opaque")
	defer span.End()

	req, err := newRowRequest(ctx, r.endpoint, EncodingForm, row)
	if err != nil {
		span.RecordError(err)
		return err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("records: http: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	r.logger.Debug("booking row posted", "category", row.Category, "status", resp.StatusCode)
	return nil
}

func newRowRequest(ctx context.Context, endpoint string, encoding Encoding, row Row) (*http.Request, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("records: endpoint not configured")
	}

	var (
		body        io.Reader
		contentType string
	)
	switch encoding {
	case EncodingJSON:
		payload, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("records: encode row: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	default:
		body = strings.NewReader(row.Values().Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("records: request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return req, nil
}

// okFlag reads a top-level boolean "ok" from a JSON body. found is false for non-JSON bodies
// or bodies without the field.
func okFlag(body []byte) (ok bool, found bool) {
	var parsed struct {
		OK *bool `json:"ok"`
	}
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &parsed) != nil || parsed.OK == nil {
		return false, false
	}
	return *parsed.OK, true
}
