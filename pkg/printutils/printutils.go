package printutils

import "github.com/fatih/color"

var (
	// ErrFprintf is a wrapper for printing errors in red.
	ErrFprintf = color.New(color.FgRed).FprintfFunc()
	// SuccessFprintf is a wrapper for printing successes in green.
	SuccessFprintf = color.New(color.FgGreen).FprintfFunc()
	// NeutralFprintf is a wrapper for printing uncolored output.
	NeutralFprintf = color.New().FprintfFunc()
	// HighlightSprint is a wrapper for highlighting values with color.
	HighlightSprint = color.New(color.FgYellow).SprintFunc()
	// HighlightSprintf is a wrapper for highlighting formatted values with color.
	HighlightSprintf = color.New(color.FgYellow).SprintfFunc()
)
