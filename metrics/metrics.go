// Package metrics wires Prometheus collectors for every observability
// point the call-plane defines (spec.md §4.6 "Hooks", §4.7 "Prometheus",
// §6 "Metrics namespace"): request latency, circuit breaker state/errors,
// and cache hit/miss/latency, all sharing one configurable name prefix
// (the reference prefix is "blacksmith_"). Uses
// github.com/prometheus/client_golang, promoted from an indirect teacher
// dependency to a direct one (DESIGN.md).
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zoobzio/forge/breaker"
	"github.com/zoobzio/forge/cache"
	"github.com/zoobzio/forge/httpmsg"
	"github.com/zoobzio/forge/middleware"
)

// DefaultBuckets matches prometheus.DefBuckets; exposed so callers can
// override via Options.Buckets.
var DefaultBuckets = prometheus.DefBuckets

// Options configures the collector set.
type Options struct {
	// Namespace is the shared name prefix, e.g. "blacksmith". Collector
	// names are Namespace + "_" + suffix.
	Namespace string
	Buckets   []float64
	Version   string
	Registerer prometheus.Registerer
}

// Metrics owns every Prometheus collector the call-plane emits.
type Metrics struct {
	requestLatency      *prometheus.HistogramVec
	circuitBreakerState *prometheus.GaugeVec
	circuitBreakerError *prometheus.CounterVec
	cacheHit            *prometheus.CounterVec
	cacheMiss           *prometheus.CounterVec
	cacheLatency        *prometheus.HistogramVec
}

// New registers every collector against opts.Registerer (defaults to
// prometheus.DefaultRegisterer) and returns the bound Metrics.
func New(opts Options) *Metrics {
	if opts.Namespace == "" {
		opts.Namespace = "blacksmith"
	}
	if len(opts.Buckets) == 0 {
		opts.Buckets = DefaultBuckets
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "request_latency_seconds",
			Help:      "Latency of outbound call-plane requests.",
			Buckets:   opts.Buckets,
		}, []string{"client", "method", "path", "status"}),
		circuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0=closed, 1=half-open, 2=open.",
		}, []string{"client"}),
		circuitBreakerError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "circuit_breaker_error",
			Help:      "Count of breaker-counted call failures.",
		}, []string{"client"}),
		cacheHit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "cache_hit_total",
			Help:      "Count of HTTP cache hits.",
		}, []string{"client", "method", "path", "status"}),
		cacheMiss: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "cache_miss_total",
			Help:      "Count of HTTP cache misses.",
		}, []string{"client", "state", "method", "path", "status"}),
		cacheLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "cache_latency_seconds",
			Help:      "Latency of cache-hit responses.",
			Buckets:   opts.Buckets,
		}, []string{"client", "method", "path", "status"}),
	}

	info := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   opts.Namespace,
		Name:        "info",
		Help:        "Constant info metric carrying the implementation version.",
		ConstLabels: prometheus.Labels{"version": opts.Version},
	}, func() float64 { return 1 })

	reg.MustRegister(m.requestLatency, m.circuitBreakerState, m.circuitBreakerError,
		m.cacheHit, m.cacheMiss, m.cacheLatency, info)
	return m
}

// Wrap implements the Prometheus observability middleware (spec.md §4.7):
// always records request_latency_seconds; on error the status is derived
// from the error's response (500 for a transport failure without one).
func (m *Metrics) Wrap() middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req *httpmsg.Request, info middleware.CallInfo) (*httpmsg.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req, info)
			if ctx.Err() != nil {
				return resp, err // cancelled calls are never observed (spec.md §5)
			}
			status := statusOf(resp, err)
			m.requestLatency.WithLabelValues(info.ClientName, string(info.Method), info.Path, status).
				Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

func statusOf(resp *httpmsg.Response, err error) string {
	if resp != nil {
		return strconv.Itoa(resp.StatusCode)
	}
	if err != nil {
		return "500"
	}
	return "0"
}

// BreakerHook returns a breaker.Subscriber mapping breaker events to the
// circuit_breaker_state gauge and circuit_breaker_error counter
// (spec.md §4.6 "A built-in Prometheus hook").
func (m *Metrics) BreakerHook() breaker.Subscriber {
	return func(ev breaker.Event) {
		switch ev.Type {
		case breaker.StateChanged:
			m.circuitBreakerState.WithLabelValues(ev.CircuitName).Set(ev.NewState.GaugeValue())
		case breaker.Failed:
			m.circuitBreakerError.WithLabelValues(ev.CircuitName).Inc()
		}
	}
}

// Miss implements cache.Recorder.
func (m *Metrics) Miss(client string, state cache.MissState, method, path string, status int) {
	m.cacheMiss.WithLabelValues(client, string(state), method, path, strconv.Itoa(status)).Inc()
}

// Hit implements cache.Recorder.
func (m *Metrics) Hit(client, method, path string, status int, latency time.Duration) {
	m.cacheHit.WithLabelValues(client, method, path, strconv.Itoa(status)).Inc()
	m.cacheLatency.WithLabelValues(client, method, path, strconv.Itoa(status)).Observe(latency.Seconds())
}

var _ cache.Recorder = (*Metrics)(nil)
