// Package metrics holds the Prometheus collectors of the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeModelError = "model_error"
	OutcomeBusy       = "busy"
	OutcomeError      = "error"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmbot_turns_total",
			Help: "Total number of turns by outcome.",
		},
		[]string{"outcome"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dmbot_llm_request_duration_seconds",
			Help:    "Duration of model requests.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"status"},
	)

	DirectiveParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dmbot_directive_parse_failures_total",
		Help: "Total number of responses whose CHANGES object could not be decoded.",
	})
)

// ObserveLLMRequest records one model call.
func ObserveLLMRequest(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	LLMRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
