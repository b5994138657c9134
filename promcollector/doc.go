// Package promcollector exports unboxed storage metrics to Prometheus.
//
//	c := promcollector.New("")
//	prometheus.MustRegister(c)
//	f := unboxed.Of[float64](unboxed.WithMetricsCollector(c))
package promcollector
