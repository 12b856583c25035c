/*
PURPOSE:
  Reads the raw artifacts written by benchmark probes from a run directory.
  One JSON file per category plus an optional preflight file.

REQUIREMENTS:
  User-specified:
  - An absent category artifact becomes a "missing" placeholder.
  - A present but unparseable artifact aborts the report.
  - An absent preflight artifact is not an error.

  Implementation-discovered:
  - Digests of the artifact bytes are recorded so reports can be traced back
    to the exact inputs they were built from.

ARCHITECTURE INTEGRATION:
  - Called by: internal/registry (category providers), internal/engine
  - Produces: internal/model.CategoryResult, internal/model.Preflight

ERROR HANDLING:
  - MalformedArtifactError for parse failures and non-object documents.
  - A null preflight document is treated like an absent one.
  - Other read errors are wrapped and returned.

IMPLEMENTATION RULES:
  - Pure filesystem reads, sequential, no process or network I/O.

USAGE:
  s := store.New(runDir, "raw")
  res, err := s.LoadCategory("cpu")

RELATED FILES:
  - internal/model/types.go
*/

package store

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/zeebo/blake3"

	"github.com/daryltucker/bee-pagoda/internal/model"
)

// PreflightName is the artifact name of the preflight record.
const PreflightName = "preflight"

// MalformedArtifactError reports an artifact that exists but cannot be used.
type MalformedArtifactError struct {
	Path string
	Err  error
}

func (e *MalformedArtifactError) Error() string {
	return fmt.Sprintf("malformed artifact %s: %v", e.Path, e.Err)
}

func (e *MalformedArtifactError) Unwrap() error { return e.Err }

// Store reads artifacts from <runDir>/<rawDir>.
type Store struct {
	dir string
}

// New creates a Store for a run directory.
func New(runDir, rawDir string) *Store {
	return &Store{dir: filepath.Join(runDir, rawDir)}
}

// Path returns the artifact path for name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Available reports whether an artifact file exists for name.
func (s *Store) Available(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// LoadCategory reads the artifact for category, or synthesizes the missing
// placeholder when there is none.
func (s *Store) LoadCategory(category string) (model.CategoryResult, error) {
	fields, digest, found, err := s.read(category)
	if err != nil {
		return model.CategoryResult{}, err
	}
	if !found {
		return model.MissingResult(category), nil
	}
	return model.NewCategoryResult(fields).WithDigest(digest), nil
}

// LoadPreflight reads the preflight artifact. It returns nil without error
// when the artifact does not exist or holds JSON null.
func (s *Store) LoadPreflight() (*model.Preflight, error) {
	data, found, err := s.readFile(PreflightName)
	if err != nil || !found {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	fields, err := s.parse(PreflightName, data)
	if err != nil {
		return nil, err
	}
	return model.NewPreflight(fields, Digest(data)), nil
}

func (s *Store) read(name string) (model.Object, string, bool, error) {
	data, found, err := s.readFile(name)
	if err != nil || !found {
		return model.Object{}, "", false, err
	}
	fields, err := s.parse(name, data)
	if err != nil {
		return model.Object{}, "", false, err
	}
	return fields, Digest(data), true, nil
}

func (s *Store) readFile(name string) ([]byte, bool, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}

func (s *Store) parse(name string, data []byte) (model.Object, error) {
	fields, err := model.ParseObject(data)
	if err != nil {
		return model.Object{}, &MalformedArtifactError{Path: s.Path(name), Err: err}
	}
	return fields, nil
}

// Digest returns the BLAKE3 digest of data as "blake3:<hex>".
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return "blake3:" + hex.EncodeToString(sum[:])
}

// SelectCategories resolves the categories to report on. Requested names are
// trimmed and de-duplicated in order. With no request, the known categories
// that have an artifact are used, or every known category when none do.
func SelectCategories(s *Store, known, requested []string) []string {
	names := lo.Uniq(lo.Filter(
		lo.Map(requested, func(name string, _ int) string { return strings.TrimSpace(name) }),
		func(name string, _ int) bool { return name != "" },
	))
	if len(names) > 0 {
		return names
	}

	present := lo.Filter(known, func(name string, _ int) bool { return s.Available(name) })
	if len(present) > 0 {
		return present
	}
	return slices.Clone(known)
}
