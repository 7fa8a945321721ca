package mempool

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes pool statistics as Prometheus metrics. The underlying
// counters are lock-free atomics, so collection never contends with
// allocation.
type Collector struct {
	pool *Pool

	totalAllocated *prometheus.Desc
	totalUsed      *prometheus.Desc
	blocks         *prometheus.Desc
}

// NewCollector creates a collector for p. Register it with a
// prometheus.Registerer; one collector per pool.
func NewCollector(p *Pool) *Collector {
	return &Collector{
		pool: p,
		totalAllocated: prometheus.NewDesc(
			"tagwire_pool_allocated_bytes",
			"Bytes reserved from the system across blocks and large allocations",
			nil, nil,
		),
		totalUsed: prometheus.NewDesc(
			"tagwire_pool_used_bytes",
			"Bytes handed out since the last pool reset",
			nil, nil,
		),
		blocks: prometheus.NewDesc(
			"tagwire_pool_blocks",
			"Blocks currently in the pool chain",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalAllocated
	ch <- c.totalUsed
	ch <- c.blocks
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.totalAllocated, prometheus.GaugeValue, float64(s.TotalAllocated))
	ch <- prometheus.MustNewConstMetric(c.totalUsed, prometheus.GaugeValue, float64(s.TotalUsed))
	ch <- prometheus.MustNewConstMetric(c.blocks, prometheus.GaugeValue, float64(s.Blocks))
}
