package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/callisto/pkg/config"
)

// Collector owns the pipeline's Prometheus metrics. All updates are cheap
// counter increments safe for concurrent use from application goroutines
// and the queue consumer alike.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	entriesEnqueued prometheus.Counter
	entriesDropped  prometheus.Counter
	entriesDrained  prometheus.Counter
	formatFailures  prometheus.Counter
	maskingFailures prometheus.Counter
	queueDepth      prometheus.GaugeFunc
}

// NewCollector creates and registers the pipeline collectors. If registry
// is nil a fresh one is created. queueDepth reports the live queue length.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry, queueDepth func() float64) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if queueDepth == nil {
		queueDepth = func() float64 { return 0 }
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		entriesEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "entries_enqueued_total",
			Help:      "Total number of log entries accepted by the background queue",
		}),
		entriesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "entries_dropped_total",
			Help:      "Total number of log entries dropped because the queue was full",
		}),
		entriesDrained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "entries_drained_total",
			Help:      "Total number of log entries handed to the formatting pipeline",
		}),
		formatFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "format_failures_total",
			Help:      "Total number of formatting attempts that fell back or failed",
		}),
		maskingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "masking_failures_total",
			Help:      "Total number of masking attempts that hit the failure policy",
		}),
	}

	c.queueDepth = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Name:      "queue_depth",
		Help:      "Current number of log entries waiting in the background queue",
	}, queueDepth)

	registry.MustRegister(
		c.entriesEnqueued,
		c.entriesDropped,
		c.entriesDrained,
		c.formatFailures,
		c.maskingFailures,
		c.queueDepth,
	)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordEnqueued counts one accepted entry.
func (c *Collector) RecordEnqueued() { c.entriesEnqueued.Inc() }

// RecordDropped counts one rejected entry.
func (c *Collector) RecordDropped() { c.entriesDropped.Inc() }

// RecordDrained counts entries handed to the formatting pipeline.
func (c *Collector) RecordDrained(n int) { c.entriesDrained.Add(float64(n)) }

// RecordFormatFailure counts one formatting failure or fallback.
func (c *Collector) RecordFormatFailure() { c.formatFailures.Inc() }

// RecordMaskingFailure counts one masking failure.
func (c *Collector) RecordMaskingFailure() { c.maskingFailures.Inc() }
