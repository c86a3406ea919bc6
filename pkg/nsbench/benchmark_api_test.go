package nsbench_test

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/suite"

	"github.com/erikh/nsbench/pkg/nsbench"
)

var progressLineRegex = regexp.MustCompile(`^1s latency: [^|]+ \| Successes: (\d+) \| Failures: (\d+) \| Total Req: (\d+)$`)

type BenchmarkTestSuite struct {
	suite.Suite
}

func TestBenchmarkTestSuite(t *testing.T) {
	suite.Run(t, new(BenchmarkTestSuite))
}

func (suite *BenchmarkTestSuite) TestRun_allSuccesses() {
	s := NewServer(nsbench.UDPTransport, nil, func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetReply(r)
		ret.Answer = append(ret.Answer, A("example.org. IN A 127.0.0.1"))
		w.WriteMsg(ret)
	})
	defer s.Close()

	buf := bytes.Buffer{}
	bench := nsbench.Benchmark{
		Server:   s.Addr,
		Host:     "example.org",
		Duration: 2 * time.Second,
		Workers:  4,
		Timeout:  time.Second,
		Writer:   &buf,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := bench.Run(ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(res)

	suite.Positive(res.Snapshot.Successes, "local stub always answers, successes expected")
	suite.Zero(res.Snapshot.Failures)
	suite.InDelta(100.0, res.SuccessRate(), 0.001)
	suite.Equal(4, res.Workers)
	suite.GreaterOrEqual(res.Elapsed, 2*time.Second, "the run must last at least the configured duration")
	suite.Less(res.Elapsed, 10*time.Second, "shutdown is bounded")
	suite.EqualValues(res.Snapshot.Successes, res.Hist.TotalCount(), "every success is sampled into the histogram")

	var successes, failures int64
	for _, iv := range res.Intervals {
		suite.GreaterOrEqual(iv.Successes, int64(0))
		suite.GreaterOrEqual(iv.Failures, int64(0))
		successes += iv.Successes
		failures += iv.Failures
	}
	suite.Equal(res.Snapshot.Successes, successes, "interval deltas sum to the final totals")
	suite.Equal(res.Snapshot.Failures, failures)

	assertProgressLines(suite, &buf)
}

func (suite *BenchmarkTestSuite) TestRun_timeoutsAreFailures() {
	s := NewServer(nsbench.UDPTransport, nil, func(w dns.ResponseWriter, r *dns.Msg) {
		time.Sleep(200 * time.Millisecond)
		ret := new(dns.Msg)
		ret.SetReply(r)
		w.WriteMsg(ret)
	})
	defer s.Close()

	bench := nsbench.Benchmark{
		Server:   s.Addr,
		Host:     "example.org",
		Duration: time.Second,
		Workers:  2,
		Timeout:  50 * time.Millisecond,
		Silent:   true,
	}

	res, err := bench.Run(context.Background())

	suite.Require().NoError(err)
	suite.Zero(res.Snapshot.Successes, "no answer arrives within the timeout")
	suite.Positive(res.Snapshot.Failures, "timed out attempts are counted as failures")
	suite.InDelta(0.0, res.SuccessRate(), 0.001)
}

func (suite *BenchmarkTestSuite) TestRun_unreachableNameserver() {
	bench := nsbench.Benchmark{
		Server:   "127.0.0.1:1",
		Host:     "example.org",
		Duration: time.Second,
		Workers:  2,
		Timeout:  50 * time.Millisecond,
		Silent:   true,
	}

	res, err := bench.Run(context.Background())

	suite.Require().NoError(err)
	suite.Zero(res.Snapshot.Successes)
	suite.Positive(res.Snapshot.Failures)
	suite.InDelta(0.0, res.SuccessRate(), 0.001)
}

func (suite *BenchmarkTestSuite) TestRun_badRcodeIsFailure() {
	s := NewServer(nsbench.UDPTransport, nil, func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetRcode(r, dns.RcodeServerFailure)
		w.WriteMsg(ret)
	})
	defer s.Close()

	bench := nsbench.Benchmark{
		Server:   s.Addr,
		Host:     "example.org",
		Duration: time.Second,
		Workers:  1,
		Timeout:  time.Second,
		Silent:   true,
	}

	res, err := bench.Run(context.Background())

	suite.Require().NoError(err)
	suite.Zero(res.Snapshot.Successes)
	suite.Positive(res.Snapshot.Failures, "non NOERROR responses are counted as failures")
}

func (suite *BenchmarkTestSuite) TestRun_repeatedRunsReportSameRate() {
	s := NewServer(nsbench.UDPTransport, nil, func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetReply(r)
		ret.Answer = append(ret.Answer, A("example.org. IN A 127.0.0.1"))
		w.WriteMsg(ret)
	})
	defer s.Close()

	bench := nsbench.Benchmark{
		Server:   s.Addr,
		Host:     "example.org",
		Duration: time.Second,
		Workers:  2,
		Timeout:  time.Second,
		Silent:   true,
	}

	first, err := bench.Run(context.Background())
	suite.Require().NoError(err)
	second, err := bench.Run(context.Background())
	suite.Require().NoError(err)

	suite.Positive(first.Snapshot.Successes)
	suite.Positive(second.Snapshot.Successes)
	suite.Equal(first.SuccessRate(), second.SuccessRate(), "a stub that always answers yields the same ratio on every run")
	suite.Equal(
		fmt.Sprintf("%.2f%%", first.SuccessRate()),
		fmt.Sprintf("%.2f%%", second.SuccessRate()),
		"the formatted success rate does not drift between runs",
	)
}

func (suite *BenchmarkTestSuite) TestRun_cancellation() {
	s := NewServer(nsbench.UDPTransport, nil, func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetReply(r)
		w.WriteMsg(ret)
	})
	defer s.Close()

	bench := nsbench.Benchmark{
		Server:   s.Addr,
		Host:     "example.org",
		Duration: time.Minute,
		Workers:  2,
		Timeout:  time.Second,
		Silent:   true,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res, err := bench.Run(ctx)

	suite.Require().NoError(err, "an interrupted run still reports what it measured")
	suite.Require().NotNil(res)
	suite.Less(time.Since(start), 10*time.Second, "cancellation stops the run well before the deadline")
}

func assertProgressLines(suite *BenchmarkTestSuite, buf *bytes.Buffer) {
	scanner := bufio.NewScanner(buf)
	var lines int
	var lastTotal int64
	for scanner.Scan() {
		matches := progressLineRegex.FindStringSubmatch(scanner.Text())
		suite.Require().Len(matches, 4, "unexpected progress line %q", scanner.Text())

		total, err := strconv.ParseInt(matches[3], 10, 64)
		suite.Require().NoError(err)
		suite.GreaterOrEqual(total, lastTotal, "cumulative totals are monotonic")
		lastTotal = total
		lines++
	}
	suite.Positive(lines, "a 2s run emits at least one progress line")
}
