package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/shardtab/pkg/cmap"
)

// SummaryFunc returns the current shard summary of a container, e.g.
// (*cmap.Set).Summary or (*intern.Table).Stats.
type SummaryFunc func() cmap.Summary

// Collector reports cmap shard statistics at scrape time. Every metric
// carries a "table" label so several containers can share a registry.
type Collector struct {
	source SummaryFunc

	entries    *prometheus.Desc
	capacity   *prometheus.Desc
	nonEmpty   *prometheus.Desc
	maxSize    *prometheus.Desc
	rehashes   *prometheus.Desc
	loadFactor *prometheus.Desc
}

// NewCollector creates a collector for the container named table.
func NewCollector(table string, source SummaryFunc) *Collector {
	labels := prometheus.Labels{"table": table}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cmap", name), help, nil, labels)
	}
	return &Collector{
		source:     source,
		entries:    desc("entries", "Values stored across all shards."),
		capacity:   desc("capacity", "Allocated slots across all shards."),
		nonEmpty:   desc("nonempty_shards", "Shards holding at least one value."),
		maxSize:    desc("max_shard_size", "Values in the fullest shard."),
		rehashes:   desc("rehashes_total", "Shard table growths since creation."),
		loadFactor: desc("load_factor", "Entries divided by capacity."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.nonEmpty
	ch <- c.maxSize
	ch <- c.rehashes
	ch <- c.loadFactor
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.nonEmpty, prometheus.GaugeValue, float64(s.NonEmpty))
	ch <- prometheus.MustNewConstMetric(c.maxSize, prometheus.GaugeValue, float64(s.MaxSize))
	ch <- prometheus.MustNewConstMetric(c.rehashes, prometheus.CounterValue, float64(s.Rehashes))
	ch <- prometheus.MustNewConstMetric(c.loadFactor, prometheus.GaugeValue, s.LoadFactor)
}
