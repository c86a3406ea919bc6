package nsbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"os"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/fatih/color"
	"github.com/miekg/dns"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"

	"github.com/erikh/nsbench/internal/sysutil"
)

// Benchmark is the configuration of one load-generation run. It is mutated
// only by init at the start of Run, afterwards it is shared read-only by all
// workers and the coordinator.
type Benchmark struct {
	// Server is the nameserver under test, IP or host, port 53 is appended
	// when missing. DoH servers are given as https:// URLs, DoQ servers with
	// a quic:// prefix.
	Server string
	// Host is the name queried on every request.
	Host string

	// Duration is how long load is generated.
	Duration time.Duration
	// Workers is the number of concurrent query loops, at least 1. The CLI
	// defaults it to the host CPU count.
	Workers int
	// Timeout bounds every single resolution attempt.
	Timeout time.Duration
	// Interval is the period of the progress report lines.
	Interval time.Duration

	TCP bool
	DOT bool

	DohMethod   string
	DohProtocol string

	Insecure bool

	// Rate caps the global queries per second when positive. Zero leaves the
	// workers unthrottled.
	Rate int

	RequestLogEnabled bool
	RequestLogPath    string

	Silent bool
	Color  bool

	// JSON switches the final report to JSON output.
	JSON bool
	// HistDisplay adds a latency distribution section to the final report.
	HistDisplay bool

	HistMin time.Duration
	HistMax time.Duration
	HistPre int

	// Writer is where progress lines are printed, defaults to os.Stdout.
	Writer io.Writer

	// internal variables so we do not have to parse the address with each request.
	useDoH  bool
	useQuic bool

	requestLog *log.Logger
}

func (b *Benchmark) init() error {
	b.useDoH = strings.HasPrefix(b.Server, "http://") || strings.HasPrefix(b.Server, "https://")
	b.useQuic = strings.HasPrefix(b.Server, "quic://")
	if b.useQuic {
		b.Server = strings.TrimPrefix(b.Server, "quic://")
	}

	if len(b.Server) == 0 {
		return errors.New("nameserver address is required")
	}
	if len(b.Host) == 0 {
		return errors.New("query host name is required")
	}
	b.Host = dns.Fqdn(b.Host)

	b.addPortIfMissing()

	if b.Duration <= 0 {
		return fmt.Errorf("run duration must be positive, got %v", b.Duration)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", b.Timeout)
	}
	if b.Workers < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", b.Workers)
	}
	if b.Rate < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", b.Rate)
	}

	if b.Interval == 0 {
		b.Interval = DefaultReportInterval
	}
	if b.HistMin == 0 {
		b.HistMin = DefaultHistMin
	}
	if b.HistMax == 0 {
		b.HistMax = DefaultHistMax
	}
	if b.HistPre == 0 {
		b.HistPre = DefaultHistPrecision
	}
	if b.Writer == nil {
		b.Writer = os.Stdout
	}

	if b.RequestLogEnabled {
		if len(b.RequestLogPath) == 0 {
			b.RequestLogPath = DefaultRequestLogPath
		}
		f, err := os.OpenFile(b.RequestLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open request log file: %w", err)
		}
		b.requestLog = log.New(f, "", log.LstdFlags)
	}

	return nil
}

// Run executes the benchmark. It returns an error when the run could not be
// started or when a worker terminated abnormally, otherwise the aggregated
// Result of the whole run is returned.
func (b *Benchmark) Run(ctx context.Context) (*Result, error) {
	if err := b.init(); err != nil {
		return nil, err
	}

	color.NoColor = !b.Color

	b.checkFdHeadroom()

	var limit ratelimit.Limiter
	if b.Rate > 0 {
		limit = ratelimit.New(b.Rate)
	}

	factory := workerResolverFactory(b)
	counters := NewCounters()

	hists := make([]*hdrhistogram.Histogram, b.Workers)
	for w := range hists {
		hists[w] = hdrhistogram.New(b.HistMin.Nanoseconds(), b.HistMax.Nanoseconds(), b.HistPre)
	}

	runCtx, cancel := context.WithTimeout(ctx, b.Duration)
	defer cancel()

	g, runCtx := errgroup.WithContext(runCtx)
	for w := 0; w < b.Workers; w++ {
		g.Go(b.workerFunc(runCtx, w, factory(), counters, hists[w], limit))
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	var prev Snapshot
	var intervals []Interval
	var runErr error
loop:
	for {
		select {
		case <-ticker.C:
			snap := counters.Snapshot()
			iv := snap.Delta(prev)
			intervals = append(intervals, iv)
			if !b.Silent {
				fmt.Fprintf(b.Writer, "%v latency: %v | Successes: %d | Failures: %d | Total Req: %d\n",
					b.Interval, iv.Latency, iv.Successes, iv.Failures, snap.Total())
			}
			prev = snap
		case runErr = <-done:
			break loop
		}
	}
	elapsed := time.Since(start)

	if runErr != nil {
		return nil, fmt.Errorf("benchmark run failed: %w", runErr)
	}

	final := counters.Snapshot()
	// close the last partial interval so the interval deltas sum up to the
	// final totals exactly
	if closing := final.Delta(prev); closing.Total() > 0 || len(intervals) == 0 {
		intervals = append(intervals, closing)
	}

	hist := hdrhistogram.New(b.HistMin.Nanoseconds(), b.HistMax.Nanoseconds(), b.HistPre)
	for _, h := range hists {
		hist.Merge(h)
	}

	return &Result{
		Snapshot:  final,
		Elapsed:   elapsed,
		Workers:   b.Workers,
		Hist:      hist,
		Intervals: intervals,
	}, nil
}

// workerFunc builds the query loop of a single worker. The loop issues
// serial requests as fast as possible until the run context is done and
// folds every completed attempt into the shared counters.
func (b *Benchmark) workerFunc(ctx context.Context, id int, query queryFunc, counters *Counters, hist *hdrhistogram.Histogram, limit ratelimit.Limiter) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("worker %d terminated abnormally: %v", id, r)
			}
		}()

		// a lock free rand source for this goroutine, used for query ids
		// nolint:gosec
		rando := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))

		for {
			if ctx.Err() != nil {
				return nil
			}
			if limit != nil {
				limit.Take()
			}

			m := dns.Msg{}
			m.RecursionDesired = true
			m.Question = []dns.Question{{Name: b.Host, Qtype: dns.TypeA, Qclass: dns.ClassINET}}
			if b.useQuic {
				m.Id = 0
			} else {
				m.Id = uint16(rando.Uint32())
			}

			start := time.Now()
			r, qerr := query(ctx, &m)
			dur := time.Since(start)

			if b.requestLog != nil {
				b.logRequest(id, m, r, qerr, dur)
			}

			if qerr != nil {
				if ctx.Err() != nil {
					// the attempt was cut short by the run deadline, not by
					// its own timeout, so it is not counted
					return nil
				}
				counters.RecordFailure()
				observeRequest(dur, false)
				continue
			}
			if r.Rcode != dns.RcodeSuccess {
				counters.RecordFailure()
				observeRequest(dur, false)
				continue
			}

			counters.RecordSuccess(dur)
			recordHist(hist, dur)
			observeRequest(dur, true)
		}
	}
}

func recordHist(hist *hdrhistogram.Histogram, dur time.Duration) {
	ns := dur.Nanoseconds()
	if ns > hist.HighestTrackableValue() {
		ns = hist.HighestTrackableValue()
	}
	hist.RecordValue(ns)
}

func (b *Benchmark) addPortIfMissing() {
	if b.useDoH {
		// HTTPS and HTTP use the default ports 443 and 80 if no other port is specified
		return
	}
	if _, _, err := net.SplitHostPort(b.Server); err != nil {
		if b.DOT || b.useQuic {
			// https://www.rfc-editor.org/rfc/rfc7858
			b.Server = net.JoinHostPort(b.Server, "853")
			return
		}
		b.Server = net.JoinHostPort(b.Server, "53")
		return
	}
	if ip := net.ParseIP(b.Server); ip != nil {
		b.Server = net.JoinHostPort(ip.String(), "53")
	}
}

// checkFdHeadroom warns when the file descriptor limit leaves no room for
// one socket per worker.
func (b *Benchmark) checkFdHeadroom() {
	limit, err := sysutil.RlimitNofile()
	if err != nil {
		return
	}
	// stdio plus some slack for the transports
	const reserved = 16
	if uint64(b.Workers)+reserved > limit {
		if !b.Silent {
			fmt.Fprintf(b.Writer, "Warning: %d workers need more file descriptors than the current limit of %d allows\n", b.Workers, limit)
		}
	}
}
