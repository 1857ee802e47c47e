// Package metrics exposes Prometheus instrumentation for plamo clients.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidhbaek/plamo-translate/plamo"
)

type Collector struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	retries  prometheus.Counter
}

var _ plamo.Recorder = &Collector{}

// NewCollector registers the plamo metrics with reg. A nil reg leaves them
// unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plamo_completions_requests_total",
				Help: "Completions requests by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "plamo_completions_duration_seconds",
				Help:    "Time spent waiting on the completions endpoint",
				Buckets: prometheus.DefBuckets,
			},
		),
		retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "plamo_translate_retries_total",
				Help: "Relaxed-sampling retries after an empty or reserved-token completion",
			},
		),
	}

	if reg == nil {
		return c, nil
	}

	for _, collector := range []prometheus.Collector{c.requests, c.duration, c.retries} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ObserveCompletion and IncRetry are no-ops on a nil Collector.
func (c *Collector) ObserveCompletion(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(outcome).Inc()
	c.duration.Observe(elapsed.Seconds())
}

func (c *Collector) IncRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

func (c *Collector) Requests(outcome string) prometheus.Counter {
	return c.requests.WithLabelValues(outcome)
}

func (c *Collector) Retries() prometheus.Counter {
	return c.retries
}
