package nsbench

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Result is the aggregate of a whole run, produced once after all workers
// have drained.
type Result struct {
	// Snapshot is the final read of the shared counters.
	Snapshot Snapshot
	// Elapsed is the true wall time of the run, including the drain after
	// the deadline fired.
	Elapsed time.Duration
	// Workers is the effective worker count.
	Workers int
	// Hist is the merged latency histogram of all workers.
	Hist *hdrhistogram.Histogram
	// Intervals are the per-period counter deltas, they sum up to the final
	// totals.
	Intervals []Interval
}

// SuccessRate reports the percentage of successful attempts. A run with no
// attempts has a rate of zero.
func (r *Result) SuccessRate() float64 {
	total := r.Snapshot.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Snapshot.Successes) / float64(total) * 100
}

// Throughput reports the attempts per second over the elapsed wall time.
func (r *Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Snapshot.Total()) / r.Elapsed.Seconds()
}
