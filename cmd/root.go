package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/erikh/nsbench/pkg/nsbench"
	"github.com/erikh/nsbench/pkg/printutils"
	"github.com/erikh/nsbench/pkg/reporter"
)

// Version is set during release of project during build process.
var Version = "development"

var (
	pApp = kingpin.New("nsbench", "A nameserver benchmarking and flooding tool.")

	benchmark nsbench.Benchmark
)

func init() {
	pApp.Flag("duration", "How long to run the test. The duration is specified in GO duration format e.g. 10s, 15m, 1h.").
		Short('t').Default(nsbench.DefaultDuration.String()).DurationVar(&benchmark.Duration)

	pApp.Flag("cpus", "Number of concurrent workers issuing queries. Defaults to the number of CPUs of the host.").
		Short('l').Default(fmt.Sprint(nsbench.DefaultWorkers())).IntVar(&benchmark.Workers)

	pApp.Flag("timeout", "Duration to wait before considering a single request failed, specified in GO duration format e.g. 500us, 50ms.").
		Default(nsbench.DefaultTimeout.String()).DurationVar(&benchmark.Timeout)

	pApp.Flag("tcp", "Use TCP for DNS requests.").Default("false").BoolVar(&benchmark.TCP)

	pApp.Flag("dot", "Use DoT (DNS over TLS) for DNS requests.").Default("false").BoolVar(&benchmark.DOT)

	pApp.Flag("doh-method", "HTTP method to use for DoH requests. Supported values: get, post.").
		Default(nsbench.DefaultDohMethod).EnumVar(&benchmark.DohMethod, nsbench.GetHTTPMethod, nsbench.PostHTTPMethod)

	pApp.Flag("doh-protocol", "HTTP protocol to use for DoH requests. Supported values: 1.1, 2 and 3.").
		Default(nsbench.DefaultDohProtocol).EnumVar(&benchmark.DohProtocol, nsbench.HTTP1Proto, nsbench.HTTP2Proto, nsbench.HTTP3Proto)

	pApp.Flag("insecure", "Disables server TLS certificate validation. Applicable for DoT, DoH and DoQ.").
		Default("false").BoolVar(&benchmark.Insecure)

	pApp.Flag("rate-limit", "Apply a global queries / second rate limit. 0 leaves the workers unthrottled.").
		Short('r').Default("0").IntVar(&benchmark.Rate)

	pApp.Flag("distribution", "Display latency distribution of the run in the final report.").
		Default("false").BoolVar(&benchmark.HistDisplay)

	pApp.Flag("json", "Report the final result as JSON.").BoolVar(&benchmark.JSON)

	pApp.Flag("silent", "Disable stdout.").Default("false").BoolVar(&benchmark.Silent)

	pApp.Flag("color", "ANSI Color output. Enabled by default.").
		Default("true").BoolVar(&benchmark.Color)

	pApp.Flag("log-requests", "Log every request to a file.").Default("false").BoolVar(&benchmark.RequestLogEnabled)

	pApp.Flag("log-requests-path", "Path to the request log file.").
		Default(nsbench.DefaultRequestLogPath).StringVar(&benchmark.RequestLogPath)

	pApp.Arg("nameserver", "DNS server IP:port to flood. The port 53 is appended when missing. IPv6 is also supported, for example '[fddd:dddd::]:53'. "+
		"DoH servers are supported such as `https://1.1.1.1/dns-query`, DoQ servers with the `quic://` prefix.").
		Required().StringVar(&benchmark.Server)

	pApp.Arg("host", "Host name queried on every request.").Required().StringVar(&benchmark.Host)
}

// Execute starts main logic of command.
func Execute() {
	pApp.Version(Version)
	kingpin.MustParse(pApp.Parse(os.Args[1:]))

	sigsInt := make(chan os.Signal, 8)
	signal.Notify(sigsInt, syscall.SIGINT)

	defer close(sigsInt)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_, ok := <-sigsInt
		if !ok {
			// standard exit based on channel close
			return
		}
		fmt.Fprintf(os.Stderr, "\nCancelling benchmark ^C, again to terminate now.\n")
		cancel()
		<-sigsInt
		os.Exit(1)
	}()

	res, err := benchmark.Run(ctx)
	if err != nil {
		printutils.ErrFprintf(os.Stderr, "There was an error while starting the benchmark: %s\n", err.Error())
		os.Exit(1)
	}

	if err := reporter.PrintReport(&benchmark, res); err != nil {
		printutils.ErrFprintf(os.Stderr, "There was an error while printing the report: %s\n", err.Error())
		os.Exit(1)
	}
}
