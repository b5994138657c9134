package unboxed

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting storage metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus (see package promcollector).
//
// Implementations must be safe for concurrent use: GenerateConcurrent and
// concurrent readers of frozen vectors share the family's collector.
type MetricsCollector interface {
	// RecordAlloc is called after each column allocation attempt.
	// bytes is the requested size, err is nil if successful.
	RecordAlloc(bytes int64, err error)

	// RecordGrow is called after a successful Grow. inPlace is true when the
	// existing buffer had spare capacity.
	RecordGrow(extra int, inPlace bool)

	// RecordFreeze is called after a vector of n elements is frozen.
	RecordFreeze(n int)

	// RecordThaw is called after each thaw attempt of n elements.
	RecordThaw(n int, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int64, error) {}
func (NoopMetricsCollector) RecordGrow(int, bool)     {}
func (NoopMetricsCollector) RecordFreeze(int)         {}
func (NoopMetricsCollector) RecordThaw(int, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	AllocCount     atomic.Int64
	AllocErrors    atomic.Int64
	AllocBytes     atomic.Int64
	GrowCount      atomic.Int64
	GrowInPlace    atomic.Int64
	GrowElements   atomic.Int64
	FreezeCount    atomic.Int64
	FrozenElements atomic.Int64
	ThawCount      atomic.Int64
	ThawErrors     atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(bytes int64, err error) {
	b.AllocCount.Add(1)
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocBytes.Add(bytes)
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(extra int, inPlace bool) {
	b.GrowCount.Add(1)
	b.GrowElements.Add(int64(extra))
	if inPlace {
		b.GrowInPlace.Add(1)
	}
}

// RecordFreeze implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFreeze(n int) {
	b.FreezeCount.Add(1)
	b.FrozenElements.Add(int64(n))
}

// RecordThaw implements MetricsCollector.
func (b *BasicMetricsCollector) RecordThaw(_ int, err error) {
	b.ThawCount.Add(1)
	if err != nil {
		b.ThawErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocCount:     b.AllocCount.Load(),
		AllocErrors:    b.AllocErrors.Load(),
		AllocBytes:     b.AllocBytes.Load(),
		GrowCount:      b.GrowCount.Load(),
		GrowInPlace:    b.GrowInPlace.Load(),
		GrowElements:   b.GrowElements.Load(),
		FreezeCount:    b.FreezeCount.Load(),
		FrozenElements: b.FrozenElements.Load(),
		ThawCount:      b.ThawCount.Load(),
		ThawErrors:     b.ThawErrors.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount     int64
	AllocErrors    int64
	AllocBytes     int64
	GrowCount      int64
	GrowInPlace    int64
	GrowElements   int64
	FreezeCount    int64
	FrozenElements int64
	ThawCount      int64
	ThawErrors     int64
}
