package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API server.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	})
	reg.MustRegister(duration, requests, inFlight)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
		inFlight: inFlight,
	}
}

// ObserveRequest records a completed request.
func (h *HTTPMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	method = normalizeLabel(method)
	route = normalizeLabel(route)
	h.duration.WithLabelValues(method, route).Observe(duration.Seconds())
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// IncInFlight marks a request as started.
func (h *HTTPMetrics) IncInFlight() {
	if h == nil || h.inFlight == nil {
		return
	}
	h.inFlight.Inc()
}

// DecInFlight marks a request as finished.
func (h *HTTPMetrics) DecInFlight() {
	if h == nil || h.inFlight == nil {
		return
	}
	h.inFlight.Dec()
}

// EngineMetrics counts cost, pricing, and decision computations.
type EngineMetrics struct {
	computations *prometheus.CounterVec
	infeasible   prometheus.Counter
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_computations_total",
		Help: "Engine computations by kind (costing, pricing, reverse, decision).",
	}, []string{"kind"})
	infeasible := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_infeasible_targets_total",
		Help: "Reverse pricing requests whose target could not be met.",
	})
	reg.MustRegister(computations, infeasible)
	return &EngineMetrics{
		computations: computations,
		infeasible:   infeasible,
	}
}

// IncComputation increments the counter for the named computation kind.
func (e *EngineMetrics) IncComputation(kind string) {
	if e == nil || e.computations == nil {
		return
	}
	e.computations.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncInfeasibleTarget counts a reverse pricing target that has no feasible price.
func (e *EngineMetrics) IncInfeasibleTarget() {
	if e == nil || e.infeasible == nil {
		return
	}
	e.infeasible.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
