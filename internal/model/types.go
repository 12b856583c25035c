/*
PURPOSE:
  Defines the core data structures used throughout bee-pagoda.
  These models represent per-category benchmark results, the optional
  preflight record and the aggregated run summary.

REQUIREMENTS:
  User-specified:
  - Categories may carry any subset of the known metric fields.
  - Absent artifacts become "missing" placeholders, never dropped entries.

  Implementation-discovered:
  - Raw records must round-trip verbatim (diagnostics, unknown keys), so
    results are backed by an ordered JSON Object instead of fixed structs.
  - Subtests must iterate in source order for reproducible reports.

ARCHITECTURE INTEGRATION:
  - Used by: internal/store, internal/registry, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data). Decoding errors surface from Object.UnmarshalJSON.

IMPLEMENTATION RULES:
  - Values are never mutated after construction; WithDigest returns a copy.
  - JSON field order of RunSummary is part of the output contract.

USAGE:
  res := model.MissingResult("ai")
  hist := model.Tally(results)

SELF-HEALING INSTRUCTIONS:
  - If a new metric must appear in the CSV, add it to output.SummaryHeader.

RELATED FILES:
  - internal/model/object.go
  - internal/output/csv.go
  - internal/output/markdown.go

MAINTENANCE:
  - Update Statuses when the status taxonomy changes.
*/

package model

import (
	"encoding/json"
	"time"
)

// Status is a category outcome.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
	StatusMissing  Status = "missing"
)

// Statuses is the closed status taxonomy in reporting order.
var Statuses = []Status{StatusOK, StatusDegraded, StatusSkipped, StatusFailed, StatusMissing}

// Known reports whether s belongs to the status taxonomy.
func (s Status) Known() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Data sources a backend metric may come from.
const (
	DataSourceRealModel      = "real_model"
	DataSourceSyntheticProxy = "synthetic_proxy"
)

// BackendLlamaCpp is the only backend whose results default to real_model.
const BackendLlamaCpp = "llama.cpp"

// MissingNotes is the note attached to synthesized placeholders.
const MissingNotes = "raw json not found"

// CategoryResult is the outcome of one benchmark category.
type CategoryResult struct {
	fields Object
	digest string
}

// NewCategoryResult wraps a decoded raw record.
func NewCategoryResult(fields Object) CategoryResult {
	return CategoryResult{fields: fields}
}

// MissingResult is the placeholder for a category without a raw artifact.
func MissingResult(category string) CategoryResult {
	var fields Object
	fields.SetString("category", category)
	fields.SetString("status", string(StatusMissing))
	fields.SetString("notes", MissingNotes)
	return CategoryResult{fields: fields}
}

// WithDigest returns a copy of r carrying the digest of its source artifact.
func (r CategoryResult) WithDigest(digest string) CategoryResult {
	r.digest = digest
	return r
}

// Digest returns the source artifact digest, or "" for placeholders.
func (r CategoryResult) Digest() string { return r.digest }

// Fields exposes the underlying record.
func (r CategoryResult) Fields() Object { return r.fields }

// Field returns a raw field value.
func (r CategoryResult) Field(name string) (Value, bool) { return r.fields.Get(name) }

// Text returns the display text of a field, "" when absent or null.
func (r CategoryResult) Text(name string) string { return r.fields.Text(name) }

// Category returns the record's own category field.
func (r CategoryResult) Category() string { return r.Text("category") }

// Status returns the record's status field.
func (r CategoryResult) Status() Status { return Status(r.Text("status")) }

// Subtest is one entry of a result's subtests mapping.
type Subtest struct {
	Name   string
	Status string
}

// Subtests returns the subtests in source order. Entries without a status
// report "unknown".
func (r CategoryResult) Subtests() []Subtest {
	v, ok := r.Field("subtests")
	if !ok || !v.Truthy() {
		return nil
	}
	obj, ok := v.Object()
	if !ok {
		return nil
	}
	out := make([]Subtest, 0, obj.Len())
	for _, name := range obj.Keys() {
		status := "unknown"
		entry, _ := obj.Get(name)
		if sub, ok := entry.Object(); ok {
			if s, ok := sub.Get("status"); ok {
				status = s.Text()
			}
		}
		out = append(out, Subtest{Name: name, Status: status})
	}
	return out
}

// BackendResult is one entry of backend_results with its data source
// resolved.
type BackendResult struct {
	Backend    string
	DataSource string
	Status     string
}

// BackendResults returns backend_results in order. A missing data_source is
// derived from the backend: llama.cpp is a real model, anything else a
// synthetic proxy.
func (r CategoryResult) BackendResults() []BackendResult {
	v, ok := r.Field("backend_results")
	if !ok || !v.Truthy() {
		return nil
	}
	items, ok := v.Array()
	if !ok {
		return nil
	}
	out := make([]BackendResult, 0, len(items))
	for _, item := range items {
		entry, ok := item.Object()
		if !ok {
			continue
		}
		br := BackendResult{Backend: "?", Status: "unknown"}
		if b, ok := entry.Get("backend"); ok {
			br.Backend = b.Text()
		}
		if s, ok := entry.Get("status"); ok {
			br.Status = s.Text()
		}
		switch {
		case entry.Truthy("data_source"):
			br.DataSource = entry.Text("data_source")
		case br.Backend == BackendLlamaCpp:
			br.DataSource = DataSourceRealModel
		default:
			br.DataSource = DataSourceSyntheticProxy
		}
		out = append(out, br)
	}
	return out
}

// CompositeFormula returns composite.formula when present.
func (r CategoryResult) CompositeFormula() (string, bool) {
	v, ok := r.Field("composite")
	if !ok {
		return "", false
	}
	composite, ok := v.Object()
	if !ok || !composite.Truthy("formula") {
		return "", false
	}
	return composite.Text("formula"), true
}

func (r CategoryResult) MarshalJSON() ([]byte, error) { return r.fields.MarshalJSON() }

func (r *CategoryResult) UnmarshalJSON(data []byte) error {
	return r.fields.UnmarshalJSON(data)
}

// ResultEntry pairs a selected category with its result.
type ResultEntry struct {
	Category string
	Result   CategoryResult
}

// ResultSet holds results in selection order and encodes as a JSON object
// keyed by category.
type ResultSet []ResultEntry

// Get returns the result for category.
func (rs ResultSet) Get(category string) (CategoryResult, bool) {
	for _, e := range rs {
		if e.Category == category {
			return e.Result, true
		}
	}
	return CategoryResult{}, false
}

// Categories returns the category keys in order.
func (rs ResultSet) Categories() []string {
	out := make([]string, len(rs))
	for i, e := range rs {
		out[i] = e.Category
	}
	return out
}

func (rs ResultSet) MarshalJSON() ([]byte, error) {
	var obj Object
	for _, e := range rs {
		raw, err := e.Result.MarshalJSON()
		if err != nil {
			return nil, err
		}
		obj.SetRaw(e.Category, raw)
	}
	return obj.MarshalJSON()
}

func (rs *ResultSet) UnmarshalJSON(data []byte) error {
	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	out := make(ResultSet, 0, obj.Len())
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		var res CategoryResult
		if err := json.Unmarshal(v, &res); err != nil {
			return err
		}
		out = append(out, ResultEntry{Category: key, Result: res})
	}
	*rs = out
	return nil
}

// Preflight is the optional dependency-check record.
type Preflight struct {
	fields Object
	digest string
}

// NewPreflight wraps a decoded preflight record.
func NewPreflight(fields Object, digest string) *Preflight {
	return &Preflight{fields: fields, digest: digest}
}

// Check is one dependency row of the preflight record.
type Check struct {
	Name    string
	Status  string
	Version string
	Path    string
}

func (p *Preflight) Digest() string { return p.digest }

// Empty reports whether the record has no fields at all.
func (p *Preflight) Empty() bool { return p.fields.Len() == 0 }

// Status returns the overall preflight status, "unknown" when absent.
func (p *Preflight) Status() string {
	if _, ok := p.fields.Get("status"); !ok {
		return "unknown"
	}
	return p.fields.Text("status")
}

// StatusCounts returns the status_counts object when it is non-empty.
func (p *Preflight) StatusCounts() (Object, bool) {
	v, ok := p.fields.Get("status_counts")
	if !ok || !v.Truthy() {
		return Object{}, false
	}
	return v.Object()
}

// Count returns a single status count for display, "0" when absent.
func (p *Preflight) Count(name string) string {
	counts, ok := p.StatusCounts()
	if !ok {
		return "0"
	}
	if _, ok := counts.Get(name); !ok {
		return "0"
	}
	return counts.Text(name)
}

// Interpreter returns the interpreter recorded by the preflight tool.
func (p *Preflight) Interpreter() string { return p.truthyText("interpreter") }

// Notes returns preflight notes.
func (p *Preflight) Notes() string { return p.truthyText("notes") }

func (p *Preflight) truthyText(key string) string {
	if !p.fields.Truthy(key) {
		return ""
	}
	return p.fields.Text(key)
}

// Checks returns the dependency checks in order.
func (p *Preflight) Checks() []Check {
	v, ok := p.fields.Get("checks")
	if !ok {
		return nil
	}
	items, ok := v.Array()
	if !ok {
		return nil
	}
	out := make([]Check, 0, len(items))
	for _, item := range items {
		entry, ok := item.Object()
		if !ok {
			continue
		}
		out = append(out, Check{
			Name:    entry.Text("name"),
			Status:  entry.Text("status"),
			Version: entry.Text("version"),
			Path:    entry.Text("path"),
		})
	}
	return out
}

func (p Preflight) MarshalJSON() ([]byte, error) { return p.fields.MarshalJSON() }

func (p *Preflight) UnmarshalJSON(data []byte) error { return p.fields.UnmarshalJSON(data) }

// RunSummary is the canonical structured report. Field order is the JSON
// key order of summary.json.
type RunSummary struct {
	GeneratedAt        string     `json:"generated_at"`
	Profile            string     `json:"profile"`
	RunDir             string     `json:"run_dir"`
	SelectedCategories []string   `json:"selected_categories"`
	SuiteInterpreter   string     `json:"suite_interpreter"`
	Preflight          *Preflight `json:"preflight"`
	Results            ResultSet  `json:"results"`
	// ArtifactDigests maps each category whose raw artifact existed (and
	// "preflight") to the BLAKE3 digest of the artifact bytes.
	ArtifactDigests Object `json:"artifact_digests"`
}

// TimestampLayout formats generated_at as UTC ISO-8601 with microseconds and
// an explicit +00:00 offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// StatusHistogram counts results per known status.
type StatusHistogram struct {
	OK       int `json:"ok"`
	Degraded int `json:"degraded"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Missing  int `json:"missing"`
}

// Get returns the count for s; unknown statuses count zero.
func (h StatusHistogram) Get(s Status) int {
	switch s {
	case StatusOK:
		return h.OK
	case StatusDegraded:
		return h.Degraded
	case StatusSkipped:
		return h.Skipped
	case StatusFailed:
		return h.Failed
	case StatusMissing:
		return h.Missing
	}
	return 0
}

// Total sums all counts.
func (h StatusHistogram) Total() int {
	return h.OK + h.Degraded + h.Skipped + h.Failed + h.Missing
}
