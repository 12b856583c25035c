package engine

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daryltucker/bee-pagoda/internal/config"
	"github.com/daryltucker/bee-pagoda/internal/model"
	"github.com/daryltucker/bee-pagoda/internal/output"
	"github.com/daryltucker/bee-pagoda/internal/registry"
	"github.com/daryltucker/bee-pagoda/internal/store"
)

func TestMain(m *testing.M) {
	output.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func newRun(t *testing.T, artifacts map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	if err := os.MkdirAll(raw, 0755); err != nil {
		t.Fatal(err)
	}
	for name, body := range artifacts {
		if err := os.WriteFile(filepath.Join(raw, name+".json"), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := config.DefaultConfig()
	cfg.RunDir = dir
	cfg.Profile = "balanced"
	cfg.Interpreter = "/usr/bin/python3"
	cfg.Now = func() time.Time { return fixedNow }
	return cfg
}

func mustRun(t *testing.T, cfg *config.Config) *Outcome {
	t.Helper()
	outcome, err := Run(cfg, registry.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return outcome
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRunMissingCategory(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"cpu": `{"category":"cpu","status":"ok","score":987}`,
	})
	cfg.Categories = []string{"cpu", "ai"}

	outcome := mustRun(t, cfg)

	ai, ok := outcome.Summary.Results.Get("ai")
	if !ok || ai.Status() != model.StatusMissing {
		t.Fatalf("ai result = %+v (present %v), want missing", ai.Fields(), ok)
	}
	want := model.StatusHistogram{OK: 1, Missing: 1}
	if outcome.Histogram != want {
		t.Fatalf("histogram = %+v, want %+v", outcome.Histogram, want)
	}
	if outcome.ExitCode != ExitOK {
		t.Fatalf("exit code = %d, want 0", outcome.ExitCode)
	}
	if d, ok := outcome.Summary.ArtifactDigests.Get("cpu"); !ok || !strings.HasPrefix(d.Text(), "blake3:") {
		t.Fatalf("cpu digest missing: %v", outcome.Summary.ArtifactDigests.Keys())
	}
	if _, ok := outcome.Summary.ArtifactDigests.Get("ai"); ok {
		t.Fatal("missing artifact must not have a digest")
	}
}

func TestRunFailedCategory(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"cpu": `{"category":"cpu","status":"ok","score":987}`,
		"ai":  `{"category":"ai","status":"failed","notes":"oom"}`,
	})
	cfg.Categories = []string{"cpu", "ai"}

	outcome := mustRun(t, cfg)
	if outcome.Histogram.Failed != 1 {
		t.Fatalf("failed = %d, want 1", outcome.Histogram.Failed)
	}
	if outcome.ExitCode != ExitFailed {
		t.Fatalf("exit code = %d, want 1", outcome.ExitCode)
	}

	md := readFile(t, outcome.Paths.Markdown)
	if !strings.Contains(md, "| ai | failed |  | oom |") {
		t.Fatalf("ai row with oom missing from summary.md:\n%s", md)
	}
}

func TestRunBackendSources(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"disk": `{"category":"disk","status":"ok","backend_results":[{"backend":"llama.cpp","status":"ok"}]}`,
	})

	outcome := mustRun(t, cfg)
	disk, _ := outcome.Summary.Results.Get("disk")
	if got := model.KeyMetricsString(disk); !strings.Contains(got, "backend_sources=llama.cpp:real_model:ok") {
		t.Fatalf("key metrics = %q", got)
	}
}

func TestRunDiscoversPresentCategories(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"memory": `{"status":"ok"}`,
		"cpu":    `{"status":"degraded"}`,
		"extra":  `{"status":"ok"}`,
	})

	outcome := mustRun(t, cfg)
	got := strings.Join(outcome.Summary.SelectedCategories, ",")
	if got != "cpu,memory" {
		t.Fatalf("selected = %s, want cpu,memory", got)
	}
}

func TestRunNothingPresentSelectsAllKnown(t *testing.T) {
	cfg := newRun(t, nil)

	outcome := mustRun(t, cfg)
	if got, want := strings.Join(outcome.Summary.SelectedCategories, ","), strings.Join(registry.KnownCategories, ","); got != want {
		t.Fatalf("selected = %s, want %s", got, want)
	}
	if outcome.Histogram.Missing != len(registry.KnownCategories) {
		t.Fatalf("missing = %d, want %d", outcome.Histogram.Missing, len(registry.KnownCategories))
	}
	if outcome.ExitCode != ExitOK {
		t.Fatalf("exit code = %d, want 0", outcome.ExitCode)
	}
}

func TestRunRawDirAbsent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RunDir = t.TempDir()
	cfg.Categories = []string{"cpu"}

	outcome := mustRun(t, cfg)
	if outcome.Histogram != (model.StatusHistogram{Missing: 1}) {
		t.Fatalf("histogram = %+v", outcome.Histogram)
	}
}

func TestRunHistogramCoversSelection(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"cpu":         `{"status":"ok"}`,
		"gpu_compute": `{"status":"skipped"}`,
		"gpu_game":    `{"status":"degraded"}`,
		"ai":          `{"status":"failed"}`,
	})
	cfg.Categories = []string{"cpu", "gpu_compute", "gpu_game", "ai", "memory", " cpu "}

	outcome := mustRun(t, cfg)
	if got := len(outcome.Summary.SelectedCategories); got != 5 {
		t.Fatalf("selected %d categories, want 5", got)
	}
	if outcome.Histogram.Total() != len(outcome.Summary.SelectedCategories) {
		t.Fatalf("histogram total %d != selection %d", outcome.Histogram.Total(), len(outcome.Summary.SelectedCategories))
	}
}

func TestRunUnknownStatusIsShownButNotCounted(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"cpu":      `{"status":"ok"}`,
		"gpu_game": `{"status":"flaky"}`,
	})
	cfg.Categories = []string{"cpu", "gpu_game"}

	outcome := mustRun(t, cfg)
	if outcome.Histogram.Total() != 1 {
		t.Fatalf("histogram total = %d, want 1", outcome.Histogram.Total())
	}

	rows, err := csv.NewReader(strings.NewReader(readFile(t, outcome.Paths.CSV))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[2][0] != "gpu_game" || rows[2][1] != "flaky" {
		t.Fatalf("csv rows = %q", rows)
	}
}

func TestRunIdempotent(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"cpu": `{"category":"cpu","status":"ok","score":987,"subtests":{"single":{"status":"ok"}}}`,
		"ai":  `{"category":"ai","status":"failed","notes":"oom"}`,
	})
	preflight := `{"status":"ok","checks":[{"name":"sysbench","status":"present"}]}`
	if err := os.WriteFile(filepath.Join(cfg.RawPath(), "preflight.json"), []byte(preflight), 0644); err != nil {
		t.Fatal(err)
	}

	first := mustRun(t, cfg)
	jsonA, csvA, mdA := readFile(t, first.Paths.JSON), readFile(t, first.Paths.CSV), readFile(t, first.Paths.Markdown)

	cfg.Now = func() time.Time { return fixedNow.Add(time.Hour) }
	second := mustRun(t, cfg)
	jsonB, csvB, mdB := readFile(t, second.Paths.JSON), readFile(t, second.Paths.CSV), readFile(t, second.Paths.Markdown)

	if csvA != csvB {
		t.Fatalf("summary.csv differs between runs:\n%s\n---\n%s", csvA, csvB)
	}
	if dropLines(jsonA, "generated_at") != dropLines(jsonB, "generated_at") {
		t.Fatal("summary.json differs beyond generated_at")
	}
	if dropLines(mdA, "Generated (UTC)") != dropLines(mdB, "Generated (UTC)") {
		t.Fatal("summary.md differs beyond the generated line")
	}
	if jsonA == jsonB {
		t.Fatal("generated_at did not change")
	}
}

func dropLines(s, marker string) string {
	var kept []string
	for _, l := range strings.Split(s, "\n") {
		if !strings.Contains(l, marker) {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func TestRunWritesSummaryJSON(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"cpu": `{"category":"cpu","status":"ok","score":987}`,
	})
	outcome := mustRun(t, cfg)

	data, err := os.ReadFile(outcome.Paths.JSON)
	if err != nil {
		t.Fatal(err)
	}
	s, err := output.ReadSummaryJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadSummaryJSON: %v", err)
	}
	if s.GeneratedAt != "2026-10-18T09:30:00.000000+00:00" {
		t.Errorf("generated_at = %q", s.GeneratedAt)
	}
	if s.Profile != "balanced" || s.SuiteInterpreter != "/usr/bin/python3" || s.RunDir != cfg.RunDir {
		t.Errorf("metadata = %q %q %q", s.Profile, s.SuiteInterpreter, s.RunDir)
	}
	if s.Preflight != nil {
		t.Errorf("preflight = %+v, want null", s.Preflight)
	}
	if !strings.Contains(string(data), `"preflight": null`) {
		t.Errorf("summary.json should carry an explicit null preflight:\n%s", data)
	}
	cpu, _ := s.Results.Get("cpu")
	if cpu.Text("score") != "987" {
		t.Errorf("cpu score = %q", cpu.Text("score"))
	}
}

func TestRunMalformedArtifactAborts(t *testing.T) {
	for _, name := range []string{"cpu", store.PreflightName} {
		t.Run(name, func(t *testing.T) {
			cfg := newRun(t, map[string]string{
				"ai": `{"status":"ok"}`,
				name: `{"status": "ok",`,
			})
			cfg.Categories = []string{"cpu", "ai"}

			_, err := Run(cfg, registry.Default())
			var abort *AbortError
			if !errors.As(err, &abort) {
				t.Fatalf("err = %v, want AbortError", err)
			}
			var malformed *store.MalformedArtifactError
			if !errors.As(err, &malformed) {
				t.Fatalf("err = %v, want MalformedArtifactError", err)
			}
			if ResolveExitCode(err) != ExitAbort {
				t.Fatalf("exit code = %d", ResolveExitCode(err))
			}
			if _, err := os.Stat(cfg.ReportPath()); !os.IsNotExist(err) {
				t.Fatalf("report dir exists after abort: %v", err)
			}
		})
	}
}

func TestRunNullPreflightIsSkipped(t *testing.T) {
	cfg := newRun(t, map[string]string{
		"cpu":               `{"category":"cpu","status":"ok","score":987}`,
		store.PreflightName: `null`,
	})

	outcome, err := Run(cfg, registry.Default())
	if err != nil {
		t.Fatalf("Run: %v (exit %d)", err, ResolveExitCode(err))
	}
	if outcome.Summary.Preflight != nil {
		t.Fatalf("preflight = %+v, want nil", outcome.Summary.Preflight)
	}
	if _, ok := outcome.Summary.ArtifactDigests.Get(store.PreflightName); ok {
		t.Fatal("null preflight must not have a digest")
	}
	if js := readFile(t, outcome.Paths.JSON); !strings.Contains(js, `"preflight": null`) {
		t.Fatalf("summary.json:\n%s", js)
	}
	if md := readFile(t, outcome.Paths.Markdown); !strings.Contains(md, "- status: skipped (preflight artifact not found)") {
		t.Fatalf("summary.md:\n%s", md)
	}
}

func TestRunMalformedKeepsPreviousReport(t *testing.T) {
	cfg := newRun(t, map[string]string{"cpu": `{"status":"ok"}`})
	first := mustRun(t, cfg)
	before := readFile(t, first.Paths.Markdown)

	if err := os.WriteFile(filepath.Join(cfg.RawPath(), "cpu.json"), []byte(`[1,2]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Run(cfg, registry.Default()); err == nil {
		t.Fatal("expected abort for non-object artifact")
	}
	if after := readFile(t, first.Paths.Markdown); after != before {
		t.Fatal("previous report was modified by an aborted run")
	}
}

func TestRunBadRunDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	for name, dir := range map[string]string{
		"empty":   "",
		"missing": filepath.Join(t.TempDir(), "nope"),
		"regular": file,
	} {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.RunDir = dir

			_, err := Run(cfg, registry.Default())
			var usage *UsageError
			if !errors.As(err, &usage) {
				t.Fatalf("err = %v, want UsageError", err)
			}
			if ResolveExitCode(err) != ExitUsage {
				t.Fatalf("exit code = %d, want 2", ResolveExitCode(err))
			}
		})
	}
}

type stubProvider struct {
	name   string
	fields string
	err    error
}

func (p stubProvider) Name() string { return p.name }

func (p stubProvider) Run(*config.Config) (model.CategoryResult, error) {
	if p.err != nil {
		return model.CategoryResult{}, p.err
	}
	fields, err := model.ParseObject([]byte(p.fields))
	return model.NewCategoryResult(fields), err
}

func TestCollectUsesRegisteredProviders(t *testing.T) {
	cfg := newRun(t, map[string]string{"cpu": `{"status":"ok"}`})
	reg := registry.New()
	if err := reg.Register(stubProvider{name: "npu", fields: `{"category":"npu","status":"degraded","score":3}`}); err != nil {
		t.Fatal(err)
	}

	results, digests, err := Collect(cfg, reg, []string{"npu", "cpu", "ai"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got := strings.Join(results.Categories(), ","); got != "npu,cpu,ai" {
		t.Fatalf("order = %s", got)
	}
	statuses := []model.Status{model.StatusDegraded, model.StatusOK, model.StatusMissing}
	for i, want := range statuses {
		if got := results[i].Result.Status(); got != want {
			t.Errorf("%s status = %s, want %s", results[i].Category, got, want)
		}
	}
	if got := strings.Join(digests.Keys(), ","); got != "cpu" {
		t.Errorf("digests for %s, want cpu only", got)
	}
}

func TestCollectProviderError(t *testing.T) {
	cfg := newRun(t, nil)
	reg := registry.New()
	boom := errors.New("probe crashed")
	if err := reg.Register(stubProvider{name: "cpu", err: boom}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Collect(cfg, reg, []string{"cpu"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
