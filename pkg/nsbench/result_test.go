package nsbench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResult_SuccessRate(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   float64
	}{
		{
			name:   "all successes",
			result: Result{Snapshot: Snapshot{Successes: 100}},
			want:   100,
		},
		{
			name:   "all failures",
			result: Result{Snapshot: Snapshot{Failures: 50}},
			want:   0,
		},
		{
			name:   "no attempts",
			result: Result{},
			want:   0,
		},
		{
			name:   "mixed",
			result: Result{Snapshot: Snapshot{Successes: 3, Failures: 1}},
			want:   75,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.result.SuccessRate(), 0.001)
		})
	}
}

func TestResult_Throughput(t *testing.T) {
	r := Result{Snapshot: Snapshot{Successes: 150, Failures: 50}, Elapsed: 2 * time.Second}
	assert.InDelta(t, 100, r.Throughput(), 0.001)

	zero := Result{Snapshot: Snapshot{Successes: 10}}
	assert.Zero(t, zero.Throughput(), "a run without elapsed time reports no throughput")
}
