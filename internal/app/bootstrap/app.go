package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/starring-booking/internal/api/router"
	appconfig "github.com/wolfman30/starring-booking/internal/config"
	httpmiddleware "github.com/wolfman30/starring-booking/internal/http/middleware"
	"github.com/wolfman30/starring-booking/internal/observability/metrics"
	"github.com/wolfman30/starring-booking/internal/payments"
	"github.com/wolfman30/starring-booking/internal/submission"
	"github.com/wolfman30/starring-booking/internal/wizard"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

const janitorInterval = 5 * time.Minute

// App is the assembled booking API.
type App struct {
	Handler    http.Handler
	Service    *wizard.Service
	Dispatcher *submission.Dispatcher

	redis    *redis.Client
	sweepers []Sweeper
	logger   *logging.Logger
}

// Build wires every component from cfg. A nil registry uses the prometheus default.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, registry *prometheus.Registry) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if registry != nil {
		registerer, gatherer = registry, registry
	}
	bookingMetrics := metrics.NewBookingMetrics(registerer)

	prices, err := BuildPriceTable(cfg)
	if err != nil {
		return nil, err
	}
	sub, err := BuildSubmission(cfg, logger)
	if err != nil {
		return nil, err
	}
	dispatcher := submission.NewDispatcher(submission.Config{
		Strategy: sub.Strategy,
		Prices:   prices,
		Metrics:  bookingMetrics,
		Logger:   logger,
	})

	app := &App{Dispatcher: dispatcher, logger: logger}
	app.redis = BuildRedisClient(ctx, cfg, logger, true)
	store := BuildSessionStore(app.redis, cfg, logger)
	if mem, ok := store.(*wizard.MemoryStore); ok {
		app.sweepers = append(app.sweepers, mem.Sweep)
	}

	confirmer, err := BuildConfirmer(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.Service = wizard.NewService(store, dispatcher, logger).WithMetrics(bookingMetrics)
	if confirmer != nil {
		app.Service.WithConfirmer(confirmer)
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.SubmitRatePerSec, cfg.SubmitRateBurst)
	app.sweepers = append(app.sweepers, func() int { return limiter.Evict(10 * time.Minute) })

	routerCfg := &router.Config{
		Logger:         logger,
		BookingHandler: wizard.NewHandler(app.Service, logger),
		GatewayHandler: BuildGatewayHandler(cfg, logger),
		MetricsHandler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		CORS: httpmiddleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedHeaders: cfg.CORSAllowedHeaders,
			AllowedMethods: cfg.CORSAllowedMethods,
			MaxAge:         cfg.CORSMaxAge,
		},
		SubmitLimiter: limiter.Middleware(logger),
	}
	if sub.Hosted != nil {
		routerCfg.CheckoutHandler = payments.NewCheckoutHandler(sub.Hosted, logger)
	}
	app.Handler = router.New(routerCfg)

	logger.Info("booking api wired",
		"mode", dispatcher.Mode(),
		"gateway_endpoints", routerCfg.GatewayHandler != nil,
		"hosted_checkout", routerCfg.CheckoutHandler != nil,
		"confirmations", confirmer != nil,
	)
	return app, nil
}

// Run performs background housekeeping until ctx is done.
func (a *App) Run(ctx context.Context) {
	RunJanitor(ctx, janitorInterval, a.logger, a.sweepers...)
}

// Close releases external connections.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
