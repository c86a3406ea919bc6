package nsbench

import (
	"sync/atomic"
	"time"
)

// Counters is the statistics register shared by all workers of a run.
// Workers increment it, the coordinator snapshots it. All mutation is via
// lock-free atomic adds, so a snapshot never blocks the hot request loops.
type Counters struct {
	successes   atomic.Int64
	failures    atomic.Int64
	lastLatency atomic.Int64
}

// NewCounters returns an empty register.
func NewCounters() *Counters {
	return &Counters{}
}

// RecordSuccess counts one successful attempt and stores its latency as the
// most recent sample.
func (c *Counters) RecordSuccess(latency time.Duration) {
	c.successes.Add(1)
	c.lastLatency.Store(latency.Nanoseconds())
}

// RecordFailure counts one failed attempt. Failed attempts do not contribute
// a latency sample, their duration is dominated by the configured timeout.
func (c *Counters) RecordFailure() {
	c.failures.Add(1)
}

// Snapshot returns a point-in-time read of the register. Counters are
// monotonically non-decreasing, so deltas between two consecutive snapshots
// are never negative.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Successes:   c.successes.Load(),
		Failures:    c.failures.Load(),
		LastLatency: time.Duration(c.lastLatency.Load()),
	}
}

// Snapshot is a consistent read of the shared Counters.
type Snapshot struct {
	Successes   int64
	Failures    int64
	LastLatency time.Duration
}

// Total reports the number of attempts observed by the snapshot.
func (s Snapshot) Total() int64 {
	return s.Successes + s.Failures
}

// Delta computes the interval gained between prev and s.
func (s Snapshot) Delta(prev Snapshot) Interval {
	return Interval{
		Successes: s.Successes - prev.Successes,
		Failures:  s.Failures - prev.Failures,
		Latency:   s.LastLatency,
	}
}

// Interval holds the counter deltas of one reporting period plus the most
// recent latency sample observed at the end of the period.
type Interval struct {
	Successes int64
	Failures  int64
	Latency   time.Duration
}

// Total reports the number of attempts gained during the interval.
func (i Interval) Total() int64 {
	return i.Successes + i.Failures
}
