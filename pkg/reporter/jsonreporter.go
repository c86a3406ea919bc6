package reporter

import (
	"encoding/json"
	"fmt"
	"time"
)

type jsonReporter struct{}

type latencyStats struct {
	MinMs  int64 `json:"minMs"`
	MeanMs int64 `json:"meanMs"`
	StdMs  int64 `json:"stdMs"`
	MaxMs  int64 `json:"maxMs"`
	P99Ms  int64 `json:"p99Ms"`
	P95Ms  int64 `json:"p95Ms"`
	P90Ms  int64 `json:"p90Ms"`
	P75Ms  int64 `json:"p75Ms"`
	P50Ms  int64 `json:"p50Ms"`
}

type jsonResult struct {
	Nameserver        string        `json:"nameserver"`
	Host              string        `json:"host"`
	CPUsUsed          int           `json:"cpusUsed"`
	Successes         int64         `json:"successes"`
	Failures          int64         `json:"failures"`
	TotalRequests     int64         `json:"totalRequests"`
	SuccessRate       float64       `json:"successRate"`
	RuntimeSeconds    float64       `json:"runtimeSeconds"`
	RequestsPerSecond float64       `json:"requestsPerSecond"`
	LatencyStats      *latencyStats `json:"latencyStats,omitempty"`
}

func (j *jsonReporter) print(params reportParameters) error {
	res := params.result

	out := jsonResult{
		Nameserver:        params.benchmark.Server,
		Host:              params.benchmark.Host,
		CPUsUsed:          res.Workers,
		Successes:         res.Snapshot.Successes,
		Failures:          res.Snapshot.Failures,
		TotalRequests:     res.Snapshot.Total(),
		SuccessRate:       res.SuccessRate(),
		RuntimeSeconds:    res.Elapsed.Seconds(),
		RequestsPerSecond: res.Throughput(),
	}

	if res.Hist.TotalCount() > 0 {
		out.LatencyStats = &latencyStats{
			MinMs:  time.Duration(res.Hist.Min()).Milliseconds(),
			MeanMs: time.Duration(int64(res.Hist.Mean())).Milliseconds(),
			StdMs:  time.Duration(int64(res.Hist.StdDev())).Milliseconds(),
			MaxMs:  time.Duration(res.Hist.Max()).Milliseconds(),
			P99Ms:  time.Duration(res.Hist.ValueAtQuantile(99)).Milliseconds(),
			P95Ms:  time.Duration(res.Hist.ValueAtQuantile(95)).Milliseconds(),
			P90Ms:  time.Duration(res.Hist.ValueAtQuantile(90)).Milliseconds(),
			P75Ms:  time.Duration(res.Hist.ValueAtQuantile(75)).Milliseconds(),
			P50Ms:  time.Duration(res.Hist.ValueAtQuantile(50)).Milliseconds(),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	fmt.Fprintln(params.outputWriter, string(data))
	return nil
}
