// Package report renders finished reports to the console and to export
// targets.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/zonetls/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	zoneStyle = lipgloss.NewStyle().
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
)

// Console streams per-zone blocks as zones complete and, optionally, a
// global summary at the end of the run.
type Console struct {
	w       io.Writer
	summary bool
}

// NewConsole creates a console reporter writing to w. When summary is set,
// a cross-zone total block is printed after the last zone.
func NewConsole(w io.Writer, summary bool) *Console {
	return &Console{w: w, summary: summary}
}

// Header prints the run parameters before the first query.
func Header(w io.Writer, rng models.TimeWindow, limit int, zoneFilter string) {
	fmt.Fprintln(w, titleStyle.Render("Cloudflare multi-zone TLS statistics"))
	fmt.Fprintf(w, "Time range: %s to %s (%.1f days)\n",
		rng.Start.UTC().Format("2006-01-02 15:04:05"),
		rng.End.UTC().Format("2006-01-02 15:04:05"),
		rng.Duration().Hours()/24)
	fmt.Fprintf(w, "Limit per query: %d\n", limit)
	if zoneFilter != "" {
		fmt.Fprintf(w, "Zone filter: %s\n", zoneFilter)
	}
	fmt.Fprintln(w)
}

// ZoneCompleted prints one zone's protocol breakdown.
func (c *Console) ZoneCompleted(report models.ZoneReport) error {
	fmt.Fprintf(c.w, "%s %s\n",
		zoneStyle.Render(report.Zone.Name),
		mutedStyle.Render("("+report.Zone.Tag+")"))

	if report.Empty() {
		fmt.Fprintf(c.w, "  %s\n\n", warnStyle.Render("no TLS data for this time period"))
		return nil
	}

	total := report.Counts.Total()
	fmt.Fprintf(c.w, "  total requests: %s\n", humanize.Comma(total))
	writeBreakdown(c.w, report.Counts, total)
	fmt.Fprintln(c.w)
	return nil
}

// RunCompleted prints the global summary when enabled.
func (c *Console) RunCompleted(report models.GlobalReport) error {
	if !c.summary {
		return nil
	}

	fmt.Fprintln(c.w, titleStyle.Render("Global summary across all zones"))
	if len(report.Counts) == 0 {
		fmt.Fprintf(c.w, "  %s\n", warnStyle.Render("no TLS data in any zone"))
		return nil
	}

	total := report.Counts.Total()
	fmt.Fprintf(c.w, "  zones: %d, total requests: %s\n", report.Zones, humanize.Comma(total))
	writeBreakdown(c.w, report.Counts, total)
	return nil
}

func writeBreakdown(w io.Writer, counts models.ProtocolCount, total int64) {
	for _, entry := range counts.Sorted() {
		percent := 0.0
		if total > 0 {
			percent = float64(entry.Requests) / float64(total) * 100
		}
		fmt.Fprintf(w, "  %-15s %14s requests (%6.2f%%)\n",
			entry.Protocol, humanize.Comma(entry.Requests), percent)
	}
}
