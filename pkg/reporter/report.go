package reporter

import (
	"io"

	"github.com/erikh/nsbench/pkg/nsbench"
)

type reportParameters struct {
	benchmark    *nsbench.Benchmark
	result       *nsbench.Result
	outputWriter io.Writer
}

type reportPrinter interface {
	print(params reportParameters) error
}

// PrintReport prints the formatted final report of a finished run to the
// benchmark's writer. If there is a fatal error while printing the report, an
// error is returned.
func PrintReport(b *nsbench.Benchmark, res *nsbench.Result) error {
	if b.Silent {
		return nil
	}

	params := reportParameters{
		benchmark:    b,
		result:       res,
		outputWriter: b.Writer,
	}
	return printer(b).print(params)
}

func printer(b *nsbench.Benchmark) reportPrinter {
	if b.JSON {
		return &jsonReporter{}
	}
	return &standardReporter{}
}
