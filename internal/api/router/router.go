package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/starring-booking/internal/http/middleware"
	"github.com/wolfman30/starring-booking/internal/payments"
	"github.com/wolfman30/starring-booking/internal/wizard"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	BookingHandler *wizard.Handler
	// CheckoutHandler is set when the hosted gateway checkout is active.
	CheckoutHandler *payments.CheckoutHandler
	// GatewayHandler serves the order and verification endpoints when Razorpay credentials are set.
	GatewayHandler *payments.GatewayHandler
	MetricsHandler http.Handler
	// CORS is installed when it names at least one origin.
	CORS httpmiddleware.CORSConfig
	// SubmitLimiter throttles submissions per client; nil disables it.
	SubmitLimiter func(http.Handler) http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORS))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.BookingHandler != nil {
		r.Route("/bookings/sessions", func(sessions chi.Router) {
			sessions.Post("/", cfg.BookingHandler.Create)
			sessions.Route("/{sessionID}", func(s chi.Router) {
				s.Get("/", cfg.BookingHandler.Get)
				s.Patch("/fields", cfg.BookingHandler.SetFields)
				s.Post("/advance", cfg.BookingHandler.Advance)
				submit := s
				if cfg.SubmitLimiter != nil {
					submit = s.With(cfg.SubmitLimiter)
				}
				submit.Post("/submit", cfg.BookingHandler.Submit)
				if cfg.CheckoutHandler != nil {
					s.Mount("/checkout", cfg.CheckoutHandler.Routes())
				}
			})
		})
	}

	if cfg.GatewayHandler != nil {
		r.Mount("/payments", cfg.GatewayHandler.Routes())
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
