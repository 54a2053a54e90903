package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrafedash_dataset_loads_total",
		Help: "Dataset load attempts by result",
	}, []string{"result"})

	DatasetLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "terrafedash_dataset_load_duration_seconds",
		Help:    "Time spent reading and normalizing both sources",
		Buckets: prometheus.DefBuckets,
	})

	DatasetRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terrafedash_dataset_rows",
		Help: "Rows in the currently loaded dataset by table",
	}, []string{"table"})

	DatasetLoadedAt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terrafedash_dataset_loaded_timestamp_seconds",
		Help: "Unix time of the dataset currently served",
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrafedash_exports_total",
		Help: "Report exports to the sink by result",
	}, []string{"result"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrafedash_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terrafedash_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Instrument records request counts and latency labelled by chi route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
