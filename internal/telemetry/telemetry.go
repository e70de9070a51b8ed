// Package telemetry tracks pipeline health: request outcomes, search
// degradations and per-model generation attempts. Metrics register on
// the default prometheus registry and surface on /metrics.
package telemetry

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telemetry is the shared metrics sink for the pipeline.
type Telemetry struct {
	enabled bool
	logger  *log.Logger

	requestsTotal    prometheus.Counter
	requestsFailed   prometheus.Counter
	requestDuration  prometheus.Histogram
	searchRequests   prometheus.Counter
	searchTimeouts   prometheus.Counter
	llmAttempts      *prometheus.CounterVec
	llmFailures      *prometheus.CounterVec
	chainExhaustions prometheus.Counter
}

// New registers the metric set. With enabled=false every record call
// is a no-op, which keeps tests free of registry collisions.
func New(enabled bool, logger *log.Logger) *Telemetry {
	if logger == nil {
		logger = log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags)
	}
	t := &Telemetry{enabled: enabled, logger: logger}
	if !enabled {
		return t
	}
	t.requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pravobot_requests_total", Help: "Queries handled end to end.",
	})
	t.requestsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pravobot_requests_failed_total", Help: "Queries answered with the generic apology.",
	})
	t.requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "pravobot_request_duration_seconds", Help: "End-to-end query latency.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})
	t.searchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pravobot_search_requests_total", Help: "Web searches issued.",
	})
	t.searchTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pravobot_search_timeouts_total", Help: "Web searches degraded to empty context.",
	})
	t.llmAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pravobot_llm_attempts_total", Help: "Generation attempts per model.",
	}, []string{"model"})
	t.llmFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pravobot_llm_failures_total", Help: "Failed generation attempts per model.",
	}, []string{"model"})
	t.chainExhaustions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pravobot_llm_chain_exhausted_total", Help: "Requests where every model in the chain failed.",
	})
	return t
}

// RecordRequest counts one handled query and its latency.
func (t *Telemetry) RecordRequest(d time.Duration, failed bool) {
	if !t.enabled {
		return
	}
	t.requestsTotal.Inc()
	t.requestDuration.Observe(d.Seconds())
	if failed {
		t.requestsFailed.Inc()
	}
}

// RecordSearch counts one issued web search and whether it degraded.
func (t *Telemetry) RecordSearch(timedOut bool) {
	if !t.enabled {
		return
	}
	t.searchRequests.Inc()
	if timedOut {
		t.searchTimeouts.Inc()
	}
}

// RecordLLMAttempt counts one model try.
func (t *Telemetry) RecordLLMAttempt(model string, failed bool) {
	if !t.enabled {
		return
	}
	t.llmAttempts.WithLabelValues(model).Inc()
	if failed {
		t.llmFailures.WithLabelValues(model).Inc()
	}
}

// RecordChainExhausted counts a request where no model answered.
func (t *Telemetry) RecordChainExhausted() {
	if !t.enabled {
		return
	}
	t.chainExhaustions.Inc()
}

// Logger returns a component logger with a bracketed prefix.
func Logger(component string) *log.Logger {
	return log.New(log.Writer(), "["+component+"] ", log.LstdFlags)
}
