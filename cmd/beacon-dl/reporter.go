package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/Postmodum37/beacon-dl/internal/download"
)

// consoleReporter renders pipeline events for a terminal. Progress is
// throttled to whole-percent steps so logs stay readable when output is
// redirected.
type consoleReporter struct {
	out         io.Writer
	lastPercent map[string]int
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out, lastPercent: make(map[string]int)}
}

func (r *consoleReporter) ItemStarted(item download.Item, index, total int) {
	if total > 1 {
		fmt.Fprintf(r.out, "[%d/%d] %s\n", index, total, item.RawTitle)
		return
	}
	fmt.Fprintf(r.out, "==> %s\n", item.RawTitle)
}

func (r *consoleReporter) ItemProgress(item download.Item, percent float64) {
	step := int(percent) / 10 * 10
	if step <= r.lastPercent[item.ContentID] {
		return
	}
	r.lastPercent[item.ContentID] = step
	fmt.Fprintf(r.out, "    downloading %d%%\n", step)
}

func (r *consoleReporter) ItemSkipped(item download.Item, filename string) {
	fmt.Fprintf(r.out, "    already downloaded: %s\n", filename)
}

func (r *consoleReporter) ItemSucceeded(item download.Item, filename string, sizeBytes int64) {
	fmt.Fprintf(r.out, "    done: %s (%s)\n", filename, humanize.IBytes(uint64(sizeBytes)))
}

func (r *consoleReporter) ItemFailed(item download.Item, reason string, err error) {
	fmt.Fprintf(r.out, "    failed (%s): %v\n", reason, err)
}

func (r *consoleReporter) BatchFinished(summary download.Summary) {
	if summary.Total <= 1 && summary.Failed == 0 {
		return
	}
	fmt.Fprintf(r.out, "\n%d item(s): %d succeeded, %d skipped, %d failed\n",
		summary.Total, summary.Succeeded, summary.Skipped, summary.Failed)
	for _, failure := range summary.Failures {
		fmt.Fprintf(r.out, "  failed: %s (%s)\n", failure.Title, failure.Reason)
	}
}
