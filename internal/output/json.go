/*
PURPOSE:
  Writes the structured run summary (summary.json).
  This is the canonical machine-readable artifact of a report.

REQUIREMENTS:
  User-specified:
  - Stable key ordering so reruns diff cleanly.

  Implementation-discovered:
  - Raw probe records are embedded verbatim; HTML escaping would rewrite
    strings like "<" in notes, so it is disabled.

ARCHITECTURE INTEGRATION:
  - Called by: WriteReport
  - Read back by: the show command

ERROR HANDLING:
  - Returns error on encode or write failure.

USAGE:
  err := output.WriteSummaryJSON(w, summary)
*/

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/daryltucker/bee-pagoda/internal/model"
)

// ErrNilWriter indicates that a nil writer was provided to a renderer.
var ErrNilWriter = errors.New("output: nil writer")

// WriteSummaryJSON writes s as two-space indented JSON.
func WriteSummaryJSON(w io.Writer, s *model.RunSummary) error {
	if w == nil {
		return ErrNilWriter
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	normalized := *s
	if normalized.SelectedCategories == nil {
		normalized.SelectedCategories = []string{}
	}
	if normalized.Results == nil {
		normalized.Results = model.ResultSet{}
	}
	if err := enc.Encode(&normalized); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// ReadSummaryJSON decodes a summary previously written by WriteSummaryJSON.
func ReadSummaryJSON(r io.Reader) (*model.RunSummary, error) {
	var s model.RunSummary
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
