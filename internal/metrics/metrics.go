// Package metrics holds the Prometheus instrumentation of the bridge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "sigbridge"

// Config configures the collectors.
type Config struct {
	// Namespace prefixes every metric name (default: "sigbridge").
	Namespace string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets of the drain batch size histogram.
	Buckets []float64
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

func defaultConfig() Config {
	return Config{
		Namespace: defaultNamespace,
		Buckets:   []float64{1, 2, 4, 8, 16, 64, 256, 1024},
	}
}

// Metrics are the collectors shared by every bridge of a process.
type Metrics struct {
	ItemsSent        prometheus.Counter
	ItemsApplied     prometheus.Counter
	ItemsDropped     prometheus.Counter
	WritesRejected   prometheus.Counter
	WakeupsRequested prometheus.Counter
	WakeupsCoalesced prometheus.Counter
	Drains           prometheus.Counter

	FeedersActive prometheus.Gauge

	DrainBatchSize prometheus.Histogram
}

// New registers the bridge collectors with reg.
// It panics if they are already registered, like promauto does.
func New(reg prometheus.Registerer, opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		ItemsSent:        counter("items_sent_total", "Items handed from feeders to a bridge channel"),
		ItemsApplied:     counter("items_applied_total", "Items written into their destination cell"),
		ItemsDropped:     counter("items_dropped_total", "Items a feeder could not send because the bridge was disposed"),
		WritesRejected:   counter("writes_rejected_total", "Drained items the destination cell refused"),
		WakeupsRequested: counter("wakeups_requested_total", "Wake-up requests made by feeders"),
		WakeupsCoalesced: counter("wakeups_coalesced_total", "Wake-up requests merged into one already pending"),
		Drains:           counter("drains_total", "Executions of the drain loop"),

		FeedersActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "feeders_active",
			Help:        "Feeder tasks currently running",
			ConstLabels: config.ConstLabels,
		}),

		DrainBatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "drain_batch_size",
			Help:        "Items applied by a single drain",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Discard returns collectors that are not registered anywhere.
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}
