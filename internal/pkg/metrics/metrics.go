// Package metrics exposes Prometheus collectors for order transitions,
// scheduled jobs and the HTTP surface.
package metrics

import (
	"context"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fulfillment"

// Transitions counts committed order status changes.
type Transitions struct {
	total *prometheus.CounterVec
}

func NewTransitions(reg prometheus.Registerer) *Transitions {
	if reg == nil {
		return &Transitions{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Committed order status transitions.",
	}, []string{"from", "to", "role"})
	reg.MustRegister(total)
	return &Transitions{total: total}
}

// OrderTransitioned implements ports.TransitionObserver.
func (t *Transitions) OrderTransitioned(_ context.Context, change order.StatusChange) {
	if t == nil || t.total == nil {
		return
	}
	t.total.WithLabelValues(change.From.String(), change.To.String(), string(change.Actor.Role())).Inc()
}

// Jobs records scheduled job executions.
type Jobs struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

func NewJobs(reg prometheus.Registerer) *Jobs {
	if reg == nil {
		return &Jobs{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Duration of scheduled jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_success_total",
		Help:      "Successful scheduled job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_failure_total",
		Help:      "Failed scheduled job executions.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &Jobs{duration: duration, success: success, failure: failure}
}

// Observe records one execution of job.
func (j *Jobs) Observe(job string, took time.Duration, err error) {
	if j == nil || j.duration == nil {
		return
	}
	job = normalizeLabel(job)
	j.duration.WithLabelValues(job).Observe(took.Seconds())
	if err != nil {
		j.failure.WithLabelValues(job).Inc()
		return
	}
	j.success.WithLabelValues(job).Inc()
}

// HTTP records served requests by route template and status code.
type HTTP struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	if reg == nil {
		return &HTTP{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Served HTTP requests.",
	}, []string{"method", "route", "code"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, latency)
	return &HTTP{requests: requests, latency: latency}
}

func (h *HTTP) Observe(method, route string, code int, took time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	route = normalizeLabel(route)
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.latency.WithLabelValues(method, route).Observe(took.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
