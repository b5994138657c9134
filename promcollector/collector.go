package promcollector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/unboxed"
)

// Collector implements unboxed.MetricsCollector with Prometheus metrics.
// Register it with a prometheus.Registerer; it is itself a
// prometheus.Collector.
type Collector struct {
	allocs      *prometheus.CounterVec
	allocBytes  prometheus.Counter
	grows       *prometheus.CounterVec
	growElems   prometheus.Counter
	freezes     prometheus.Counter
	frozenElems prometheus.Counter
	thaws       *prometheus.CounterVec
}

var _ unboxed.MetricsCollector = (*Collector)(nil)

// New creates a collector. namespace prefixes every metric name
// ("unboxed" if empty).
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "unboxed"
	}
	return &Collector{
		allocs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Column allocation attempts",
		}, []string{"status"}),
		allocBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocated_bytes_total",
			Help:      "Bytes allocated for columns",
		}),
		grows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grows_total",
			Help:      "Successful Grow calls",
		}, []string{"mode"}),
		growElems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grown_elements_total",
			Help:      "Elements added by Grow",
		}),
		freezes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "freezes_total",
			Help:      "Vectors frozen",
		}),
		frozenElems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frozen_elements_total",
			Help:      "Elements in frozen vectors",
		}),
		thaws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thaws_total",
			Help:      "Thaw attempts",
		}, []string{"status"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordAlloc implements unboxed.MetricsCollector.
func (c *Collector) RecordAlloc(bytes int64, err error) {
	c.allocs.WithLabelValues(status(err)).Inc()
	if err == nil {
		c.allocBytes.Add(float64(bytes))
	}
}

// RecordGrow implements unboxed.MetricsCollector.
func (c *Collector) RecordGrow(extra int, inPlace bool) {
	mode := "realloc"
	if inPlace {
		mode = "in_place"
	}
	c.grows.WithLabelValues(mode).Inc()
	c.growElems.Add(float64(extra))
}

// RecordFreeze implements unboxed.MetricsCollector.
func (c *Collector) RecordFreeze(n int) {
	c.freezes.Inc()
	c.frozenElems.Add(float64(n))
}

// RecordThaw implements unboxed.MetricsCollector.
func (c *Collector) RecordThaw(_ int, err error) {
	c.thaws.WithLabelValues(status(err)).Inc()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.allocs.Describe(ch)
	c.allocBytes.Describe(ch)
	c.grows.Describe(ch)
	c.growElems.Describe(ch)
	c.freezes.Describe(ch)
	c.frozenElems.Describe(ch)
	c.thaws.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.allocs.Collect(ch)
	c.allocBytes.Collect(ch)
	c.grows.Collect(ch)
	c.growElems.Collect(ch)
	c.freezes.Collect(ch)
	c.frozenElems.Collect(ch)
	c.thaws.Collect(ch)
}
