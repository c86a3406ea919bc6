package nsbench

import (
	"runtime"
	"time"
)

const (
	// DefaultDuration is the default length of a run.
	DefaultDuration = 60 * time.Second

	// DefaultTimeout is the default per-request timeout (500000ns).
	DefaultTimeout = 500 * time.Microsecond

	// DefaultReportInterval is the period of the progress report lines.
	DefaultReportInterval = time.Second

	// DefaultRequestLogPath is a default path to the file, where the requests will be logged.
	DefaultRequestLogPath = "requests.log"

	// DefaultHistMin is a default minimum value for the latency histogram.
	DefaultHistMin = time.Microsecond

	// DefaultHistMax is a default maximum value for the latency histogram.
	DefaultHistMax = time.Minute

	// DefaultHistPrecision is a default precision for the latency histogram.
	DefaultHistPrecision = 1

	// DefaultDohMethod is a default HTTP method for DoH requests.
	DefaultDohMethod = PostHTTPMethod

	// DefaultDohProtocol is a default HTTP protocol version for DoH requests.
	DefaultDohProtocol = HTTP1Proto
)

// DefaultWorkers reports the default worker count, one per host CPU.
func DefaultWorkers() int {
	return runtime.NumCPU()
}
