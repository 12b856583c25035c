package output

import (
	"testing"

	"github.com/daryltucker/bee-pagoda/internal/model"
)

func mustResult(t *testing.T, raw string) model.CategoryResult {
	t.Helper()
	fields, err := model.ParseObject([]byte(raw))
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return model.NewCategoryResult(fields)
}

func mustPreflight(t *testing.T, raw string) *model.Preflight {
	t.Helper()
	fields, err := model.ParseObject([]byte(raw))
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return model.NewPreflight(fields, "")
}

// sampleSummary is the cpu-ok / ai-failed run used across renderer tests.
func sampleSummary(t *testing.T) (*model.RunSummary, model.StatusHistogram) {
	t.Helper()
	results := model.ResultSet{
		{Category: "cpu", Result: mustResult(t, `{"category":"cpu","status":"ok","score":987}`)},
		{Category: "ai", Result: mustResult(t, `{"category":"ai","status":"failed","notes":"oom"}`)},
	}
	s := &model.RunSummary{
		GeneratedAt:        "2026-10-18T12:00:00.000000+00:00",
		Profile:            "quick",
		RunDir:             "/runs/r1",
		SelectedCategories: []string{"cpu", "ai"},
		SuiteInterpreter:   "/usr/bin/python3",
		Results:            results,
	}
	return s, model.Tally(results)
}
