// Package metrics exports node statistics in the Prometheus text format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/keys"
)

const namespace = "tuplekv"

// Metrics owns a private registry so tests and several servers in one
// process do not collide on the global one.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	backendOps    *prometheus.HistogramVec
	backendErrors *prometheus.CounterVec
	scannedItems  prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		backendOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "op_duration_seconds",
			Help:      "Backend call latency by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"op"}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "errors_total",
			Help:      "Failed backend calls by operation.",
		}, []string{"op"}),
		scannedItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "scan_entries",
			Help:      "Entries returned per range scan.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	m.reg.MustRegister(
		m.requests, m.latency,
		m.backendOps, m.backendErrors, m.scannedItems,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware counts requests by chi route pattern, so query strings and
// keys never become label values.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(code)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Instrument wraps b so every call is timed and failures are counted.
func (m *Metrics) Instrument(b backend.Backend) backend.Backend {
	return &instrumented{b: b, m: m}
}

type instrumented struct {
	b backend.Backend
	m *Metrics
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.m.backendOps.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		i.m.backendErrors.WithLabelValues(op).Inc()
	}
}

func (i *instrumented) RangeScan(start, end keys.Key) ([]backend.Entry, error) {
	t := time.Now()
	entries, err := i.b.RangeScan(start, end)
	i.observe("range_scan", t, err)
	if err == nil {
		i.m.scannedItems.Observe(float64(len(entries)))
	}
	return entries, err
}

func (i *instrumented) Write(key keys.Key, value []byte) error {
	op := "write"
	if value == nil {
		op = "delete"
	}
	t := time.Now()
	err := i.b.Write(key, value)
	i.observe(op, t, err)
	return err
}

func (i *instrumented) Clear() error {
	t := time.Now()
	err := i.b.Clear()
	i.observe("clear", t, err)
	return err
}
