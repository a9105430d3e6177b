package orderscrape

import (
	"context"
	"errors"
	"path/filepath"
)

// Format identifies an output artifact format.
type Format string

// Supported output formats.
const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatJSON   Format = "json"
	FormatSQLite Format = "db"
)

// TableWriter persists an orders table to a single file.
type TableWriter interface {
	// WriteTable writes t to path, replacing any previous content.
	WriteTable(ctx context.Context, path string, t *OrderTable) error
}

// Target is one requested output file.
type Target struct {
	Format Format
	Path   string
}

// Artifact is the outcome of writing one target.
type Artifact struct {
	Format Format
	Path   string
	Err    error
}

// ExportResult reports the outcome of every requested target.
// Partial success is a valid outcome; callers must check Err.
type ExportResult struct {
	Artifacts []Artifact
}

// Written returns the artifacts that were written successfully.
func (r *ExportResult) Written() []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Err == nil {
			out = append(out, a)
		}
	}
	return out
}

// Failed returns the artifacts that could not be written.
func (r *ExportResult) Failed() []Artifact {
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Err != nil {
			out = append(out, a)
		}
	}
	return out
}

// Err joins the errors of all failed artifacts. Returns nil on full success.
func (r *ExportResult) Err() error {
	var errs []error
	for _, a := range r.Failed() {
		errs = append(errs, a.Err)
	}
	return errors.Join(errs...)
}

// Exporter writes an orders table to every target in canonical order.
type Exporter struct {
	// Writers maps each format to its writer.
	Writers map[Format]TableWriter

	// SortColumns define the canonical row order.
	SortColumns []string
}

// Export sorts t and writes it to each target. Every target is attempted
// even when an earlier one fails; already written files are left in place.
// Failures are reported as EIO errors on the corresponding artifact.
func (e *Exporter) Export(ctx context.Context, t *OrderTable, targets []Target) *ExportResult {
	sorted := t.SortBy(e.SortColumns...)

	result := &ExportResult{Artifacts: make([]Artifact, 0, len(targets))}
	for _, target := range targets {
		artifact := Artifact{Format: target.Format, Path: target.Path}
		if abs, err := filepath.Abs(target.Path); err == nil {
			artifact.Path = abs
		}

		w, ok := e.Writers[target.Format]
		if !ok {
			artifact.Err = Errorf(EINVALID, "no writer for format %q", target.Format)
		} else if err := w.WriteTable(ctx, artifact.Path, sorted); err != nil {
			artifact.Err = WrapError(EIO, err, "write %s %s", target.Format, artifact.Path)
		}
		result.Artifacts = append(result.Artifacts, artifact)
	}
	return result
}
