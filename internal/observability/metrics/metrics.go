package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking wizard and submissions.
type BookingMetrics struct {
	stepAdvanceTotal   *prometheus.CounterVec
	submissionsTotal   *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
	sessionsCreated    prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		stepAdvanceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "starring",
			Subsystem: "booking",
			Name:      "step_advance_total",
			Help:      "Wizard continue attempts by step and result",
		}, []string{"step", "result"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "starring",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking submission attempts by mode, outcome and error class",
		}, []string{"mode", "outcome", "error_class"}),
		submissionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "starring",
			Subsystem: "booking",
			Name:      "submission_duration_seconds",
			Help:      "Duration of booking submission attempts",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		}, []string{"mode"}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "starring",
			Subsystem: "booking",
			Name:      "sessions_created_total",
			Help:      "Booking wizard sessions started",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.stepAdvanceTotal, m.submissionsTotal, m.submissionDuration, m.sessionsCreated)
	return m
}

func (m *BookingMetrics) ObserveStepAdvance(step string, allowed bool) {
	if m == nil {
		return
	}
	result := "blocked"
	if allowed {
		result = "allowed"
	}
	m.stepAdvanceTotal.WithLabelValues(step, result).Inc()
}

func (m *BookingMetrics) ObserveSubmission(mode, outcome, errorClass string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(mode, outcome, errorClass).Inc()
	m.submissionDuration.WithLabelValues(mode).Observe(seconds)
}

func (m *BookingMetrics) ObserveSessionCreated() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}
