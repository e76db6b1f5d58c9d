package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpmiddleware "github.com/wolfman30/starring-booking/internal/http/middleware"
	"github.com/wolfman30/starring-booking/internal/payments"
	"github.com/wolfman30/starring-booking/internal/records"
	"github.com/wolfman30/starring-booking/internal/submission"
	"github.com/wolfman30/starring-booking/internal/wizard"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

type memoryRecorder struct {
	rows chan records.Row
}

func (m *memoryRecorder) Record(ctx context.Context, row records.Row) error {
	m.rows <- row
	return nil
}

type stubOrders struct{}

func (stubOrders) CreateOrder(ctx context.Context, amount int64, receipt string) (*payments.Order, error) {
	return &payments.Order{ID: "order_1", Amount: amount, Currency: "INR"}, nil
}

func (stubOrders) KeyID() string { return "rzp_test" }

const keySecret = "router-secret"

type testEnv struct {
	handler  http.Handler
	recorder *memoryRecorder
}

// newHostedEnv wires gateway-checkout mode whose order and verify calls loop back into
// the same router.
func newHostedEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logging.New("error")
	env := &testEnv{recorder: &memoryRecorder{rows: make(chan records.Row, 4)}}

	self := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.handler.ServeHTTP(w, r)
	}))
	t.Cleanup(self.Close)

	endpoints := payments.NewEndpointClient(self.URL+"/payments/orders", self.URL+"/payments/verify", 5*time.Second, logger)
	hosted := payments.NewHostedCheckout(logger)
	strategy := submission.NewGatewayCheckout(endpoints, hosted, endpoints, submission.CheckoutSettings{
		KeyID: "rzp_test", Currency: "INR", Name: "Starring", Description: "Shoot booking", ThemeColor: "#111111",
	})
	dispatcher := submission.NewDispatcher(submission.Config{Strategy: strategy, Logger: logger})
	service := wizard.NewService(wizard.NewMemoryStore(time.Hour), dispatcher, logger)

	env.handler = New(&Config{
		Logger:          logger,
		BookingHandler:  wizard.NewHandler(service, logger),
		CheckoutHandler: payments.NewCheckoutHandler(hosted, logger),
		GatewayHandler:  payments.NewGatewayHandler(stubOrders{}, keySecret, env.recorder, logger),
		CORS:            httpmiddleware.CORSConfig{AllowedOrigins: []string{"*"}},
		SubmitLimiter:   httpmiddleware.RateLimit(100, 100, logger),
	})
	return env
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func readySession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/bookings/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var view wizard.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	base := "/bookings/sessions/" + view.ID
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPatch, base+"/fields", map[string]string{
		"name": "Ravi", "email": "ravi@example.com", "phone": "90000",
		"deviceType": "Camera", "editType": "Pro",
		"date": "2024-07-15", "timeSlot": "03:00 PM",
	}).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/advance", nil).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, base+"/advance", nil).Code)
	return base
}

func waitForCheckout(t *testing.T, h http.Handler, base string) payments.CheckoutOptions {
	t.Helper()
	var opts payments.CheckoutOptions
	require.Eventually(t, func() bool {
		rec := do(t, h, http.MethodGet, base+"/checkout", nil)
		if rec.Code != http.StatusOK {
			return false
		}
		return json.Unmarshal(rec.Body.Bytes(), &opts) == nil
	}, 2*time.Second, 5*time.Millisecond)
	return opts
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := New(&Config{})

	rr := do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestRouterOptionalRoutesAbsent(t *testing.T) {
	router := New(&Config{})
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/bookings/sessions", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/payments/orders", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/metrics", nil).Code)
}

func TestRouterHostedCheckoutSuccess(t *testing.T) {
	env := newHostedEnv(t)
	base := readySession(t, env.handler)

	type result struct {
		code int
		resp wizard.SubmitResponse
	}
	done := make(chan result, 1)
	go func() {
		rec := do(t, env.handler, http.MethodPost, base+"/submit", nil)
		var resp wizard.SubmitResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		done <- result{rec.Code, resp}
	}()

	opts := waitForCheckout(t, env.handler, base)
	assert.Equal(t, "order_1", opts.OrderID)
	assert.Equal(t, int64(499900), opts.Amount)
	assert.Equal(t, "Ravi", opts.Prefill.Name)
	assert.Equal(t, "90000", opts.Prefill.Contact)

	inFlight := do(t, env.handler, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusConflict, inFlight.Code)

	payment := payments.PaymentResult{
		PaymentID: "pay_1",
		OrderID:   opts.OrderID,
		Signature: payments.Sign(keySecret, opts.OrderID, "pay_1"),
	}
	require.Equal(t, http.StatusNoContent, do(t, env.handler, http.MethodPost, base+"/checkout/complete", payment).Code)

	res := <-done
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, submission.StatusSucceeded, res.resp.Status)

	row := <-env.recorder.rows
	assert.Equal(t, "camera-pro", row.Category)
	assert.Equal(t, "03:00 PM", row.Time)
}

func TestRouterHostedCheckoutDismissed(t *testing.T) {
	env := newHostedEnv(t)
	base := readySession(t, env.handler)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- do(t, env.handler, http.MethodPost, base+"/submit", nil) }()

	waitForCheckout(t, env.handler, base)
	require.Equal(t, http.StatusNoContent, do(t, env.handler, http.MethodPost, base+"/checkout/dismiss", nil).Code)

	rec := <-done
	require.Equal(t, http.StatusOK, rec.Code)
	var resp wizard.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, submission.StatusCancelled, resp.Status)
	assert.Equal(t, "payment cancelled", resp.Message)
	require.NotNil(t, resp.View)
	assert.Equal(t, "Ravi", resp.View.Draft.Name, "cancellation keeps the draft")
	assert.Empty(t, env.recorder.rows)
}

func TestRouterHostedCheckoutTamperedSignature(t *testing.T) {
	env := newHostedEnv(t)
	base := readySession(t, env.handler)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- do(t, env.handler, http.MethodPost, base+"/submit", nil) }()

	opts := waitForCheckout(t, env.handler, base)
	payment := payments.PaymentResult{PaymentID: "pay_1", OrderID: opts.OrderID, Signature: payments.Sign("wrong", opts.OrderID, "pay_1")}
	require.Equal(t, http.StatusNoContent, do(t, env.handler, http.MethodPost, base+"/checkout/complete", payment).Code)

	rec := <-done
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "payment verification failed - booking not saved")
	assert.Empty(t, env.recorder.rows)
}
