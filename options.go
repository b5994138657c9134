package unboxed

import (
	"github.com/hupe1980/unboxed/resource"
)

type options struct {
	controller *resource.Controller
	logger     *Logger
	metrics    MetricsCollector
	growth     GrowthPolicy
}

func defaultOptions() options {
	return options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		growth:  DoublingGrowth,
	}
}

// Option configures a primitive column family (see Of).
type Option func(*options)

// WithController charges every allocation against the controller's memory
// budget. Allocations that do not fit fail with ErrAllocation. The reserved
// bytes are returned to the controller once the storage is garbage collected.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithLogger configures the logger used for allocation and growth events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for allocation,
// growth, freeze and thaw events.
//
// Example with BasicMetricsCollector:
//
//	metrics := &unboxed.BasicMetricsCollector{}
//	f := unboxed.Of[float64](unboxed.WithMetricsCollector(metrics))
//	// ...
//	stats := metrics.GetStats()
//
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithGrowthPolicy configures how Grow sizes reallocated storage.
//
// If nil is passed, DoublingGrowth is used.
func WithGrowthPolicy(p GrowthPolicy) Option {
	return func(o *options) {
		if p == nil {
			p = DoublingGrowth
		}
		o.growth = p
	}
}
