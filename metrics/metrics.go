// ABOUTME: Prometheus collectors for hierarchy writes, aggregations and HTTP traffic
// ABOUTME: Uses a dedicated registry exposed by the web server at /metrics
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "officecrm"

// Registry holds every officecrm collector plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

var (
	// ReportsLogged counts reports by calltype and the hierarchy level they were logged against.
	ReportsLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_logged_total",
			Help:      "Total number of reports logged",
		},
		[]string{"calltype", "target"},
	)

	// Deletes counts owner subtree and employee deletions.
	Deletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletes_total",
			Help:      "Total number of hierarchy deletions",
		},
		[]string{"entity"},
	)

	// AggregationDuration records how long each dashboard aggregate takes.
	AggregationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of aggregation queries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"aggregate"},
	)

	// HTTPRequests counts web requests by method, route and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration records web request latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ReportsLogged,
		Deletes,
		AggregationDuration,
		HTTPRequests,
		HTTPRequestDuration,
	)
}

// ObserveAggregation records the time elapsed since start for the named aggregate.
func ObserveAggregation(aggregate string, start time.Time) {
	AggregationDuration.WithLabelValues(aggregate).Observe(time.Since(start).Seconds())
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
