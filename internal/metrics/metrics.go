// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Invitation outcomes.
const (
	InvitationIssued         = "issued"
	InvitationDeliveryFailed = "delivery_failed"
	InvitationAccepted       = "accepted"
	InvitationRejected       = "rejected"
	InvitationResent         = "resent"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	gatherer    prometheus.Gatherer
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	invitations *prometheus.CounterVec
}

// New registers the collectors on reg. A *prometheus.Registry satisfies both
// arguments; pass prometheus.DefaultRegisterer and DefaultGatherer in main.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supacoach",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "supacoach",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	invitations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supacoach",
		Name:      "invitations_total",
		Help:      "Invitation lifecycle events by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(requests, duration, invitations)
	return &Metrics{
		gatherer:    gatherer,
		requests:    requests,
		duration:    duration,
		invitations: invitations,
	}
}

// ObserveRequest records one finished request. route is the matched
// pattern, never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) IncInvitation(outcome string) {
	if m == nil || m.invitations == nil {
		return
	}
	m.invitations.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
