/*
PURPOSE:
  Renders the narrative summary (summary.md) of a run.
  Metadata, preflight, status counts, the results table and the exit code
  legend.

REQUIREMENTS:
  User-specified:
  - Title "# Linux Benchmark Report" followed by run metadata bullets.
  - Preflight block, or a "skipped" line when there is no preflight.
  - One results row per selected category with its key metrics.
  - The three exit code lines, verbatim.

  Implementation-discovered:
  - Table cells escape "|" and flatten newlines so rows keep four columns.
  - Preflight counts are printed only when status_counts is non-empty.

ARCHITECTURE INTEGRATION:
  - Called by: WriteReport
  - Uses: internal/model (KeyMetricsString, StatusHistogram)

ERROR HANDLING:
  - ErrNilWriter for a nil writer; otherwise only the final write can fail.

IMPLEMENTATION RULES:
  - Build the document in memory, write once.
  - Output is deterministic for identical inputs.

USAGE:
  err := output.WriteSummaryMarkdown(w, summary, hist)

RELATED FILES:
  - internal/output/report.go
  - internal/model/keymetrics.go
*/

package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/daryltucker/bee-pagoda/internal/model"
)

// ReportTitle heads the narrative summary.
const ReportTitle = "# Linux Benchmark Report"

// exitSemantics documents the process exit codes in every narrative summary.
var exitSemantics = []string{
	"- `0`: selected steps completed without `failed` status",
	"- `1`: one or more selected benchmark steps failed",
	"- `2`: usage/config error",
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// WriteSummaryMarkdown writes the narrative summary (summary.md): run
// metadata, preflight, status counts, a results table with key metrics, and
// the exit code legend.
func WriteSummaryMarkdown(w io.Writer, s *model.RunSummary, hist model.StatusHistogram) error {
	if w == nil {
		return ErrNilWriter
	}

	var md mdBuilder
	md.line(ReportTitle)
	md.line("")
	md.linef("- **Profile:** `%s`", s.Profile)
	md.linef("- **Generated (UTC):** `%s`", s.GeneratedAt)
	md.linef("- **Run directory:** `%s`", s.RunDir)
	md.linef("- **Selected categories:** `%s`", strings.Join(s.SelectedCategories, ", "))
	md.linef("- **Suite interpreter:** `%s`", s.SuiteInterpreter)
	md.line("")

	md.line("## Preflight")
	md.line("")
	writePreflight(&md, s.Preflight)
	md.line("")

	md.line("## Status Summary")
	md.line("")
	for _, status := range model.Statuses {
		md.linef("- %s: %d", status, hist.Get(status))
	}
	md.line("")

	md.line("## Results")
	md.line("")
	md.row("Category", "Status", "Benchmark", "Key Metrics")
	md.line("|---|---|---|---|")
	for _, category := range s.SelectedCategories {
		res, _ := s.Results.Get(category)
		md.row(category, res.Text("status"), res.Text("benchmark"), model.KeyMetricsString(res))
	}
	md.line("")

	md.line("## Exit Semantics")
	for _, l := range exitSemantics {
		md.line(l)
	}

	_, err := w.Write(md.Bytes())
	return err
}

func writePreflight(md *mdBuilder, p *model.Preflight) {
	if p == nil || p.Empty() {
		md.line("- status: skipped (preflight artifact not found)")
		return
	}

	md.linef("- status: %s", p.Status())
	if _, ok := p.StatusCounts(); ok {
		for _, name := range []string{"present", "missing", "version-mismatch", "optional-missing"} {
			md.linef("- %s: %s", name, p.Count(name))
		}
	}
	if v := p.Interpreter(); v != "" {
		md.linef("- interpreter: %s", v)
	}
	if v := p.Notes(); v != "" {
		md.linef("- notes: %s", v)
	}

	checks := p.Checks()
	if len(checks) == 0 {
		return
	}
	md.line("")
	md.row("Dependency", "Status", "Version", "Path")
	md.line("|---|---|---|---|")
	for _, c := range checks {
		md.row(c.Name, c.Status, c.Version, c.Path)
	}
}

type mdBuilder struct {
	bytes.Buffer
}

func (b *mdBuilder) line(s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

func (b *mdBuilder) linef(format string, args ...any) {
	b.line(fmt.Sprintf(format, args...))
}

// row writes a table row, escaping cell content.
func (b *mdBuilder) row(cells ...string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = cellEscaper.Replace(c)
	}
	b.line("| " + strings.Join(escaped, " | ") + " |")
}
