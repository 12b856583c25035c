/*
PURPOSE:
  High-level runner that orchestrates report generation.
  Selection -> per-category collection -> preflight -> tally -> render.

REQUIREMENTS:
  User-specified:
  - Every selected category appears in the report, missing or not.
  - Reports are written as JSON, CSV and Markdown together.
  - Exit code follows the failed count.

  Implementation-discovered:
  - The run directory is validated before touching any artifact so that
    usage problems never produce partial output.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/registry, internal/store, internal/model, internal/output

ERROR HANDLING:
  - UsageError for an unusable run directory.
  - AbortError wrapping any load or render failure; nothing is written.

IMPLEMENTATION RULES:
  - Sequential, one category at a time.
  - Configuration arrives fully resolved; the environment is not consulted.

USAGE:
  outcome, err := engine.Run(cfg, registry.Default())

RELATED FILES:
  - internal/engine/exit.go
  - internal/output/report.go
*/

package engine

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/daryltucker/bee-pagoda/internal/config"
	"github.com/daryltucker/bee-pagoda/internal/model"
	"github.com/daryltucker/bee-pagoda/internal/output"
	"github.com/daryltucker/bee-pagoda/internal/registry"
	"github.com/daryltucker/bee-pagoda/internal/store"
)

// Outcome is the result of a successful report run.
type Outcome struct {
	Summary   *model.RunSummary
	Histogram model.StatusHistogram
	Paths     output.Paths
	ExitCode  int
}

// Run generates the report for cfg.RunDir.
func Run(cfg *config.Config, reg *registry.Registry) (*Outcome, error) {
	if err := checkRunDir(cfg.RunDir); err != nil {
		return nil, err
	}

	st := store.New(cfg.RunDir, cfg.RawDir)
	categories := store.SelectCategories(st, reg.Names(), cfg.Categories)
	output.Logger.Info("Collecting raw results", "run_dir", cfg.RunDir, "categories", strings.Join(categories, ","))

	results, digests, err := Collect(cfg, reg, categories)
	if err != nil {
		return nil, &AbortError{Err: err}
	}

	preflight, err := st.LoadPreflight()
	if err != nil {
		return nil, &AbortError{Err: err}
	}
	if preflight == nil {
		output.Logger.Info("Preflight artifact not found", "path", st.Path(store.PreflightName))
	} else {
		digests.SetString(store.PreflightName, preflight.Digest())
	}

	summary := &model.RunSummary{
		GeneratedAt:        model.FormatTimestamp(cfg.Timestamp()),
		Profile:            cfg.Profile,
		RunDir:             cfg.RunDir,
		SelectedCategories: slices.Clone(categories),
		SuiteInterpreter:   cfg.Interpreter,
		Preflight:          preflight,
		Results:            results,
		ArtifactDigests:    digests,
	}
	hist := model.Tally(results)

	paths, err := output.WriteReport(cfg.ReportPath(), summary, hist)
	if err != nil {
		return nil, &AbortError{Err: err}
	}

	code := ExitCode(hist)
	output.Logger.Info("Report written",
		"markdown", paths.Markdown,
		"ok", hist.OK,
		"degraded", hist.Degraded,
		"skipped", hist.Skipped,
		"failed", hist.Failed,
		"missing", hist.Missing,
		"exit_code", code,
	)

	return &Outcome{
		Summary:   summary,
		Histogram: hist,
		Paths:     paths,
		ExitCode:  code,
	}, nil
}

// Collect runs the provider of every category in order and returns the
// results together with the digests of the artifacts that were present.
func Collect(cfg *config.Config, reg *registry.Registry, categories []string) (model.ResultSet, model.Object, error) {
	results := make(model.ResultSet, 0, len(categories))
	var digests model.Object

	for _, category := range categories {
		res, err := reg.Resolve(category).Run(cfg)
		if err != nil {
			return nil, model.Object{}, fmt.Errorf("collecting %s: %w", category, err)
		}
		if d := res.Digest(); d != "" {
			digests.SetString(category, d)
		} else if res.Status() == model.StatusMissing {
			output.Logger.Warn("Raw artifact not found", "category", category)
		}
		if status := res.Status(); !status.Known() {
			output.Logger.Warn("Unrecognized status, not counted", "category", category, "status", string(status))
		}
		results = append(results, model.ResultEntry{Category: category, Result: res})
	}
	return results, digests, nil
}

func checkRunDir(dir string) error {
	if dir == "" {
		return Usagef("run directory must not be empty")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return &UsageError{Err: fmt.Errorf("unreadable run directory: %w", err)}
	}
	if !info.IsDir() {
		return Usagef("run directory %s is not a directory", dir)
	}
	if _, err := os.ReadDir(dir); err != nil {
		return &UsageError{Err: fmt.Errorf("unreadable run directory: %w", err)}
	}
	return nil
}
