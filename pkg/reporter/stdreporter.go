package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/erikh/nsbench/pkg/nsbench"
	"github.com/erikh/nsbench/pkg/printutils"
)

type standardReporter struct{}

func (s *standardReporter) print(params reportParameters) error {
	b := params.benchmark
	res := params.result
	w := params.outputWriter

	printutils.NeutralFprintf(w, "Nameserver: %s\n", printutils.HighlightSprint(b.Server))
	printutils.NeutralFprintf(w, "Host: %s\n", printutils.HighlightSprint(b.Host))
	printutils.NeutralFprintf(w, "CPUs Used: %s\n", printutils.HighlightSprint(res.Workers))
	printutils.SuccessFprintf(w, "Successes: %d\n", res.Snapshot.Successes)
	printutils.ErrFprintf(w, "Failures: %d\n", res.Snapshot.Failures)
	printutils.NeutralFprintf(w, "Success Rate: %s\n", printutils.HighlightSprintf("%.2f%%", res.SuccessRate()))
	printutils.NeutralFprintf(w, "Runtime: %s\n", printutils.HighlightSprint(roundDuration(res.Elapsed)))
	printutils.NeutralFprintf(w, "Requests: %s/s\n", printutils.HighlightSprint(int64(res.Throughput())))

	if b.HistDisplay {
		printDistribution(w, res)
	}

	return nil
}

func printDistribution(w io.Writer, res *nsbench.Result) {
	if tc := res.Hist.TotalCount(); tc > 0 {
		printutils.NeutralFprintf(w, "\nLatency distribution, %s datapoints\n", printutils.HighlightSprint(tc))
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Percentile", "Latency"})
		for _, p := range []float64{50, 75, 90, 95, 99, 99.9} {
			latency := time.Duration(res.Hist.ValueAtQuantile(p))
			table.Append([]string{fmt.Sprintf("p%v", p), roundDuration(latency).String()})
		}
		table.Render()
	}

	totals := make([]float64, 0, len(res.Intervals))
	for _, iv := range res.Intervals {
		totals = append(totals, float64(iv.Total()))
	}
	if len(totals) > 1 {
		intervalStats(w, totals)
	}
}

func intervalStats(w io.Writer, totals []float64) {
	minReq, _ := stats.Min(totals)
	meanReq, _ := stats.Mean(totals)
	maxReq, _ := stats.Max(totals)
	sd, _ := stats.StandardDeviation(totals)
	printutils.NeutralFprintf(w, "\nInterval requests: min %s, mean %s, max %s, stddev %s\n",
		printutils.HighlightSprintf("%.0f", minReq),
		printutils.HighlightSprintf("%.1f", meanReq),
		printutils.HighlightSprintf("%.0f", maxReq),
		printutils.HighlightSprintf("%.1f", sd))
}

// roundDuration trims report durations to a readable precision, keeping
// roughly three significant digits at every magnitude.
func roundDuration(dur time.Duration) time.Duration {
	switch {
	case dur > time.Minute:
		return dur.Round(10 * time.Second)
	case dur > time.Second:
		return dur.Round(10 * time.Millisecond)
	case dur > time.Millisecond:
		return dur.Round(10 * time.Microsecond)
	case dur > time.Microsecond:
		return dur.Round(10 * time.Nanosecond)
	default:
		return dur
	}
}
