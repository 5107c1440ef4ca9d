package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Philipp01105/firelogger/core"
)

// Collector exports Stats as Prometheus counters. Register it once per
// Stats instance:
//
//	prometheus.MustRegister(handler.NewCollector(capture.Stats(), "myapp"))
type Collector struct {
	stats *Stats

	sessions    *prometheus.Desc
	captured    *prometheus.Desc
	records     *prometheus.Desc
	dropped     *prometheus.Desc
	headers     *prometheus.Desc
	headerBytes *prometheus.Desc
	errors      *prometheus.Desc
	blocked     *prometheus.Desc
	processed   *prometheus.Desc
}

// NewCollector creates a collector for stats. namespace may be empty.
func NewCollector(stats *Stats, namespace string) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "firelogger", name), help, labels, nil)
	}
	return &Collector{
		stats:       stats,
		sessions:    desc("requests_total", "Requests seen by the capture middleware"),
		captured:    desc("captured_requests_total", "Requests whose records were captured"),
		records:     desc("records_total", "Records emitted as headers", "level"),
		dropped:     desc("dropped_records_total", "Records dropped by a full console queue", "level"),
		headers:     desc("headers_total", "FireLogger headers emitted"),
		headerBytes: desc("header_bytes_total", "Bytes of FireLogger header values emitted"),
		errors:      desc("errors_total", "Failed handler calls"),
		blocked:     desc("blocked_total", "Console writes that blocked on a full queue"),
		processed:   desc("console_records_total", "Records written by console handlers"),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sessions
	ch <- c.captured
	ch <- c.records
	ch <- c.dropped
	ch <- c.headers
	ch <- c.headerBytes
	ch <- c.errors
	ch <- c.blocked
	ch <- c.processed
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.GetSnapshot()
	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	counter(c.sessions, snap.SessionsTotal)
	counter(c.captured, snap.CapturedTotal)
	counter(c.headers, snap.HeadersTotal)
	counter(c.headerBytes, snap.HeaderBytesTotal)
	counter(c.errors, snap.ErrorsTotal)
	counter(c.blocked, snap.BlockedTotal)
	counter(c.processed, snap.ProcessedTotal)
	for i := 0; i < numLevels; i++ {
		level := core.Level(i)
		counter(c.records, snap.RecordsTotal[level], level.String())
		counter(c.dropped, snap.DroppedTotal[level], level.String())
	}
}
