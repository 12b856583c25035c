/*
PURPOSE:
  Derives the key metric strings shown per category in the markdown
  results table and the console view.

IMPLEMENTATION RULES:
  - Order: scalar metrics, subtests, backend sources, composite formula,
    notes. Falsy fields are skipped.
*/

package model

import (
	"fmt"
	"strings"
)

// keyMetricFields are the scalar fields shown as name=value, in display
// priority order.
var keyMetricFields = []string{
	"score",
	"fps",
	"frametime_ms",
	"prompt_tps",
	"eval_tps",
	"backend",
	"data_source",
	"model",
}

// KeyMetricsSeparator joins key metrics into one display cell.
const KeyMetricsSeparator = "; "

// KeyMetrics derives the ordered display strings for a result: scalar
// metrics, subtests, backend sources, the composite formula and finally the
// notes. Absent or falsy fields are skipped.
func KeyMetrics(r CategoryResult) []string {
	var out []string
	for _, name := range keyMetricFields {
		if r.fields.Truthy(name) {
			out = append(out, fmt.Sprintf("%s=%s", name, r.Text(name)))
		}
	}

	for _, sub := range r.Subtests() {
		out = append(out, sub.Name+":"+sub.Status)
	}

	if backends := r.BackendResults(); len(backends) > 0 {
		labels := make([]string, len(backends))
		for i, br := range backends {
			labels[i] = br.Backend + ":" + br.DataSource + ":" + br.Status
		}
		out = append(out, "backend_sources="+strings.Join(labels, ","))
	}

	if formula, ok := r.CompositeFormula(); ok {
		out = append(out, "composite_formula="+formula)
	}

	if r.fields.Truthy("notes") {
		out = append(out, r.Text("notes"))
	}
	return out
}

// KeyMetricsString joins KeyMetrics with KeyMetricsSeparator.
func KeyMetricsString(r CategoryResult) string {
	return strings.Join(KeyMetrics(r), KeyMetricsSeparator)
}
