// labelsort re-orders a bulk export of shipping labels to follow a dispatch
// guide, stamping every label with a marker image and its order number.
//
// The guide is any PDF listing the orders to ship, in order. The source is
// the label export: label pages mixed with other pages, often a metadata page
// after each label. Labels whose order appears in the guide come first, in
// guide order; the remaining labels follow as extras.
//
// Usage:
//
//	labelsort sort --guide guide.pdf --source labels.pdf --marker marker.png --output sorted.pdf [options]
//	labelsort inspect --pdf labels.pdf
//	labelsort config init [--path labelsort.yaml]
//	labelsort config validate --config labelsort.yaml
//
// Sort options:
//
//	--include-remainder     Append pages that are not labels after the extras
//	--prefix string         Order prefix applied to every identifier (default "PO-")
//	--no-prefix             Compare identifiers without a prefix
//	--unidentified string   Labels without a readable order: drop, extra or remainder
//	--lookahead-first       Read the page after a label before the label itself
//	--vertical-offset float Vertical offset of the marker image
//	--overwrite             Overwrite the output PDF if it already exists
//
// Global options:
//
//	--config string         YAML or TOML configuration file
//	--log-file string       Also write a structured log to this file
//	--log-level string      debug, info, warn or error
//	--log-format string     console or json
//
// Missing orders are reported but do not fail the run. The exit code is 1
// only when the run could not complete.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
