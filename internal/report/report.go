// Package report renders verification results for the console. The
// pipeline never prints; everything user-visible flows through here.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/docsentry/docsentry/internal/check"
)

// DisplayWidth bounds how much of a link the failure table shows.
const DisplayWidth = 60

// ellipsis marks the elided middle of a long link.
const ellipsis = "..."

var (
	passColor   = color.New(color.FgGreen)
	failColor   = color.New(color.FgRed)
	headerColor = color.New(color.Bold)
)

// Render writes the per-file outcome listing, the failure table, and the
// run totals. Reports must already be in discovery order.
func Render(w io.Writer, reports []check.FileReport, summary check.RunSummary) {
	for _, r := range reports {
		fmt.Fprintf(w, "%s\n", headerColor.Sprint(r.SourceFile))
		for _, o := range r.Outcomes {
			mark := passColor.Sprint("✓")
			if !o.Success() {
				mark = failColor.Sprint("✗")
			}
			fmt.Fprintf(w, "  %s %-4s %s\n", mark, StatusLabel(o), o.Original)
		}
		fmt.Fprintln(w)
	}

	if summary.Failed() {
		renderFailures(w, summary.Failures)
	}

	fmt.Fprintf(w, "%d links checked across %d files, %d failing\n",
		summary.TotalLinks, summary.TotalFiles, len(summary.Failures))
}

func renderFailures(w io.Writer, failures []check.Outcome) {
	fmt.Fprintln(w, headerColor.Sprint("failing links"))
	fmt.Fprintf(w, "  %-6s %-*s %s\n", "STATUS", DisplayWidth, "LINK", "FILE")
	for _, o := range failures {
		fmt.Fprintf(w, "  %-6s %-*s %s\n",
			StatusLabel(o), DisplayWidth, Shorten(o.Original, DisplayWidth), o.SourceFile)
	}
	fmt.Fprintln(w)
}

// StatusLabel renders the numeric status, or a placeholder when the
// check never obtained one.
func StatusLabel(o check.Outcome) string {
	if o.Status == 0 {
		return "ERR"
	}
	return fmt.Sprintf("%d", o.Status)
}

// Shorten elides the middle of s so it fits within width runes,
// preserving the head and tail of the original string.
func Shorten(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width || width <= len(ellipsis) {
		return s
	}
	keep := width - len(ellipsis)
	head := keep / 2
	tail := keep - head
	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}
