/*
PURPOSE:
  Publishes the three report artifacts (summary.json, summary.csv,
  summary.md) into the report directory as one unit.

REQUIREMENTS:
  User-specified:
  - Either all three artifacts are written, or none.
  - Re-running on the same inputs replaces the previous report.

  Implementation-discovered:
  - Rendering happens in memory first so a render error never touches disk.
  - A target that exists but is not a regular file (a directory, a socket)
    is refused before anything is renamed.
  - Previous artifacts are parked under backup names while the new ones are
    renamed in, and restored if any rename fails.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine.Run
  - Calls: WriteSummaryJSON, WriteSummaryCSV, WriteSummaryMarkdown

ERROR HANDLING:
  - Returns the first staging or publishing error after rolling back.
  - Staged temp files and backups are removed on every path.

IMPLEMENTATION RULES:
  - Temp files live in the report directory so renames stay on one
    filesystem.
  - Files are published with mode 0644.

USAGE:
  paths, err := output.WriteReport(cfg.ReportPath(), summary, hist)

RELATED FILES:
  - internal/output/json.go
  - internal/output/csv.go
  - internal/output/markdown.go
*/

package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daryltucker/bee-pagoda/internal/model"
)

// Artifact file names inside the report directory.
const (
	SummaryJSONName     = "summary.json"
	SummaryCSVName      = "summary.csv"
	SummaryMarkdownName = "summary.md"
)

// renameFunc moves files during publishing. Tests override it to inject
// failures.
var renameFunc = os.Rename

// Paths locates the written report artifacts.
type Paths struct {
	JSON     string
	CSV      string
	Markdown string
}

// publication tracks one artifact through staging and publishing.
type publication struct {
	path      string
	data      []byte
	tmp       string
	backup    string
	published bool
}

// WriteReport renders the three report artifacts into dir. Everything is
// rendered in memory first, then staged as temp files and renamed into
// place. A failure leaves the previous report (or no report) behind rather
// than a mix.
func WriteReport(dir string, s *model.RunSummary, hist model.StatusHistogram) (Paths, error) {
	var jsonBuf, csvBuf, mdBuf bytes.Buffer
	if err := WriteSummaryJSON(&jsonBuf, s); err != nil {
		return Paths{}, fmt.Errorf("rendering %s: %w", SummaryJSONName, err)
	}
	if err := WriteSummaryCSV(&csvBuf, s); err != nil {
		return Paths{}, fmt.Errorf("rendering %s: %w", SummaryCSVName, err)
	}
	if err := WriteSummaryMarkdown(&mdBuf, s, hist); err != nil {
		return Paths{}, fmt.Errorf("rendering %s: %w", SummaryMarkdownName, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return Paths{}, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	paths := Paths{
		JSON:     filepath.Join(dir, SummaryJSONName),
		CSV:      filepath.Join(dir, SummaryCSVName),
		Markdown: filepath.Join(dir, SummaryMarkdownName),
	}
	pubs := []*publication{
		{path: paths.JSON, data: jsonBuf.Bytes()},
		{path: paths.CSV, data: csvBuf.Bytes()},
		{path: paths.Markdown, data: mdBuf.Bytes()},
	}

	for _, p := range pubs {
		if err := checkTarget(p.path); err != nil {
			return Paths{}, err
		}
	}

	defer func() {
		for _, p := range pubs {
			if p.tmp != "" {
				os.Remove(p.tmp)
			}
		}
	}()
	for _, p := range pubs {
		tmp, err := stage(dir, filepath.Base(p.path), p.data)
		if err != nil {
			return Paths{}, err
		}
		p.tmp = tmp
	}

	if err := publish(pubs); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

// checkTarget refuses targets that a rename cannot replace.
func checkTarget(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot replace %s: not a regular file", path)
	}
	return nil
}

// publish parks existing targets under backup names, renames the staged
// files in and drops the backups. On failure everything is put back.
func publish(pubs []*publication) error {
	for _, p := range pubs {
		if _, err := os.Lstat(p.path); err != nil {
			continue
		}
		backup := p.path + ".bak"
		if err := renameFunc(p.path, backup); err != nil {
			rollback(pubs)
			return fmt.Errorf("backing up %s: %w", p.path, err)
		}
		p.backup = backup
	}

	for _, p := range pubs {
		if err := renameFunc(p.tmp, p.path); err != nil {
			rollback(pubs)
			return fmt.Errorf("publishing %s: %w", p.path, err)
		}
		p.tmp = ""
		p.published = true
	}

	for _, p := range pubs {
		if p.backup != "" {
			os.Remove(p.backup)
		}
	}
	return nil
}

func rollback(pubs []*publication) {
	for _, p := range pubs {
		if p.published {
			os.Remove(p.path)
			p.published = false
		}
		if p.backup != "" {
			if err := renameFunc(p.backup, p.path); err != nil {
				Logger.Error("Failed to restore previous report artifact", "path", p.path, "backup", p.backup, "error", err)
				continue
			}
			p.backup = ""
		}
	}
}

func stage(dir, name string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	return tmpPath, nil
}
