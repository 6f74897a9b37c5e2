// Package metrics exposes Prometheus metrics for the reaction pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	eventsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emojitranslator_events_total",
		Help: "Reaction events received, by inbound surface",
	}, []string{"source"})

	outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emojitranslator_outcomes_total",
		Help: "Terminal pipeline outcomes",
	}, []string{"outcome"})

	translateLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emojitranslator_translate_latency_seconds",
		Help:    "Translation provider latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider"})

	slackCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emojitranslator_slack_calls_total",
		Help: "Slack Web API calls, by method and status",
	}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(eventsReceived, outcomes, translateLatency, slackCalls)
}

// Handler renders all registered metrics in Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }

func IncEvent(source string) { eventsReceived.WithLabelValues(source).Inc() }

func IncOutcome(outcome string) { outcomes.WithLabelValues(outcome).Inc() }

func ObserveTranslate(provider string, d time.Duration) {
	translateLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// IncSlackCall records a Slack API call; status is "ok" or "error".
func IncSlackCall(method string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	slackCalls.WithLabelValues(method, status).Inc()
}
