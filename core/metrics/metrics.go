// Package metrics collects and exposes Prometheus metrics for the bot.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the collection interface used by routers and services.
type Recorder interface {
	RecordUpdate()
	RecordTurn(handler, outcome string, duration time.Duration)
	RecordRateFetch(err error)
	RecordFormCommit()
}

// Collector implements Recorder on top of a Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	updates     prometheus.Counter
	turns       *prometheus.CounterVec
	turnLatency prometheus.Histogram
	rateFetch   *prometheus.CounterVec
	formCommits prometheus.Counter
}

// NewCollector creates a Collector with its own private registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finbot_updates_received_total",
			Help: "Total inbound Telegram updates.",
		}),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finbot_turns_total",
			Help: "Processed turns by handler and outcome.",
		}, []string{"handler", "outcome"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbot_turn_duration_seconds",
			Help:    "Turn processing latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		rateFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finbot_rate_fetch_total",
			Help: "Exchange-rate provider calls by outcome.",
		}, []string{"outcome"}),
		formCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finbot_form_commits_total",
			Help: "Completed expense dialogues committed to storage.",
		}),
	}

	reg.MustRegister(
		c.updates,
		c.turns,
		c.turnLatency,
		c.rateFetch,
		c.formCommits,
	)

	return c
}

// RecordUpdate counts one inbound update.
func (c *Collector) RecordUpdate() {
	c.updates.Inc()
}

// RecordTurn counts a processed turn and observes its latency.
func (c *Collector) RecordTurn(handler, outcome string, duration time.Duration) {
	c.turns.WithLabelValues(handler, outcome).Inc()
	c.turnLatency.Observe(duration.Seconds())
}

// RecordRateFetch counts an exchange-rate provider call.
func (c *Collector) RecordRateFetch(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "fail"
	}
	c.rateFetch.WithLabelValues(outcome).Inc()
}

// RecordFormCommit counts a committed expense dialogue.
func (c *Collector) RecordFormCommit() {
	c.formCommits.Inc()
}

// Gatherer exposes the underlying registry for scrape handlers.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Handler returns the Prometheus scrape handler for the collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Nop is a Recorder that drops all observations; it keeps wiring simple in tests.
type Nop struct{}

func (Nop) RecordUpdate()                            {}
func (Nop) RecordTurn(string, string, time.Duration) {}
func (Nop) RecordRateFetch(error)                    {}
func (Nop) RecordFormCommit()                        {}
