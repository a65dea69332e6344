// Package metrics provides Prometheus instrumentation for colcodec column
// functions.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("base64Decode")
//	timer := metrics.NewTimer()
//	out, stats, err := codec.TransformWithStats(block, codec.Decode, be)
//	collector.RecordBlock(metrics.Block{
//	    Rows:          stats.Rows,
//	    InvalidRows:   stats.InvalidRows,
//	    InputBytes:    stats.InputBytes,
//	    OutputBytes:   stats.OutputBytes,
//	    ReservedBytes: stats.ReservedBytes,
//	    Duration:      timer.Stop(),
//	    Failed:        err != nil,
//	})
//
// All metrics are registered on the default Prometheus registry and are safe
// for concurrent use.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "colcodec"

var (
	// RowsProcessed counts rows by function and outcome.
	// Labels: function, status (ok/invalid)
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_processed_total",
			Help:      "Total number of rows processed",
		},
		[]string{"function", "status"},
	)

	// BlocksProcessed counts blocks by function and outcome.
	// Labels: function, status (success/failure)
	BlocksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Total number of blocks processed",
		},
		[]string{"function", "status"},
	)

	// BytesProcessed counts data bytes, sentinels included.
	// Labels: function, direction (in/out)
	BytesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Total number of data bytes read and written",
		},
		[]string{"function", "direction"},
	)

	// BlockLatency tracks the distribution of per-block latencies in nanoseconds.
	BlockLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "block_latency_nanoseconds",
			Help:      "Block transform latency in nanoseconds",
			Buckets: []float64{
				1000,   // 1μs
				10000,  // 10μs
				100000, // 100μs
				1e6,    // 1ms
				1e7,    // 10ms
				1e8,    // 100ms
				1e9,    // 1s
			},
		},
		[]string{"function"},
	)

	// ReservedSlack tracks reserved output bytes that were trimmed away.
	ReservedSlack = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reserved_slack_bytes",
			Help:      "Output bytes reserved by the size estimate but not written",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		},
		[]string{"function"},
	)
)

// Block describes the outcome of one block transform
type Block struct {
	Rows          int
	InvalidRows   int
	InputBytes    int
	OutputBytes   int
	ReservedBytes int
	Duration      time.Duration
	Failed        bool
}

// Collector records block outcomes for one function
type Collector struct {
	function    string
	rowsOK      prometheus.Counter
	rowsInvalid prometheus.Counter
	success     prometheus.Counter
	failure     prometheus.Counter
	bytesIn     prometheus.Counter
	bytesOut    prometheus.Counter
	latency     prometheus.Observer
	slack       prometheus.Observer
}

// NewCollector creates a collector with the label values bound up front
func NewCollector(function string) *Collector {
	return &Collector{
		function:    function,
		rowsOK:      RowsProcessed.WithLabelValues(function, "ok"),
		rowsInvalid: RowsProcessed.WithLabelValues(function, "invalid"),
		success:     BlocksProcessed.WithLabelValues(function, "success"),
		failure:     BlocksProcessed.WithLabelValues(function, "failure"),
		bytesIn:     BytesProcessed.WithLabelValues(function, "in"),
		bytesOut:    BytesProcessed.WithLabelValues(function, "out"),
		latency:     BlockLatency.WithLabelValues(function),
		slack:       ReservedSlack.WithLabelValues(function),
	}
}

// Function returns the function label
func (c *Collector) Function() string { return c.function }

// RecordBlock records one block. A failed block only counts the failure and
// its latency since it produced no rows.
func (c *Collector) RecordBlock(b Block) {
	c.latency.Observe(float64(b.Duration.Nanoseconds()))
	if b.Failed {
		c.failure.Inc()
		return
	}

	c.success.Inc()
	c.rowsOK.Add(float64(b.Rows - b.InvalidRows))
	if b.InvalidRows > 0 {
		c.rowsInvalid.Add(float64(b.InvalidRows))
	}
	c.bytesIn.Add(float64(b.InputBytes))
	c.bytesOut.Add(float64(b.OutputBytes))
	if b.ReservedBytes >= b.OutputBytes {
		c.slack.Observe(float64(b.ReservedBytes - b.OutputBytes))
	}
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It can be called
// more than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
