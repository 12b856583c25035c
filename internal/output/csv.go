/*
PURPOSE:
  Writes the tabular run summary (summary.csv).
  One row per selected category with a fixed column schema.

REQUIREMENTS:
  User-specified:
  - Fixed 15-column header.
  - Rows in selection order.
  - Missing fields render as empty strings, never null or placeholder text.
  - Records end in CRLF, like the spreadsheet-dialect CSV other tools emit.

  Implementation-discovered:
  - The category column falls back to the selection key when the raw
    record omits its own category field.

ARCHITECTURE INTEGRATION:
  - Called by: WriteReport
  - Consumes: internal/model.RunSummary

ERROR HANDLING:
  - Returns error on write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.

USAGE:
  err := output.WriteSummaryCSV(w, summary)

SELF-HEALING INSTRUCTIONS:
  - If the CSV schema changes, update SummaryHeader only; rows follow it.

RELATED FILES:
  - internal/model/types.go
*/

package output

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/daryltucker/bee-pagoda/internal/model"
)

// SummaryHeader is the column schema of summary.csv.
var SummaryHeader = []string{
	"category", "status", "benchmark", "backend", "primary_metric",
	"data_source", "score", "fps", "frametime_ms", "prompt_tps",
	"eval_tps", "model", "context_size", "batch_size", "notes",
}

// WriteSummaryCSV writes the header and one row per selected category.
func WriteSummaryCSV(w io.Writer, s *model.RunSummary) error {
	if w == nil {
		return ErrNilWriter
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}

	for _, category := range s.SelectedCategories {
		res, _ := s.Results.Get(category)
		record := make([]string, len(SummaryHeader))
		for i, column := range SummaryHeader {
			record[i] = res.Text(column)
		}
		if _, ok := res.Field("category"); !ok {
			record[0] = category
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
