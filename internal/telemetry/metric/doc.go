// Package metric exposes shardtab metrics in Prometheus format.
//
//   - prometheus.go: registry, HTTP request and operation metrics, handler
//   - collector.go: scrape-time collector over cmap shard statistics
//
// Metrics are served at /metrics by the HTTP service.
package metric
