package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"AlignmentScorer/internal/domain"
	"AlignmentScorer/internal/ports"
)

// FileExporter writes one rendering of a run to a fixed path.
type FileExporter struct {
	path   string
	kind   string
	render func(io.Writer, domain.RunRecord) error
}

var _ ports.Exporter = (*FileExporter)(nil)

// NewHTMLExporter writes the HTML page to path.
func NewHTMLExporter(path string) *FileExporter {
	return &FileExporter{path: path, kind: "html", render: WriteHTML}
}

// NewPairsExporter writes the per-pair CSV to path.
func NewPairsExporter(path string) *FileExporter {
	return &FileExporter{
		path: path,
		kind: "pairs",
		render: func(w io.Writer, run domain.RunRecord) error {
			return WritePairs(w, run.Outcomes)
		},
	}
}

// NewTextExporter writes the text report to path.
func NewTextExporter(path string) *FileExporter {
	return &FileExporter{
		path: path,
		kind: "text",
		render: func(w io.Writer, run domain.RunRecord) error {
			return WriteText(w, run.Report)
		},
	}
}

// Path is where the export lands.
func (e *FileExporter) Path() string {
	return e.path
}

// Export renders into a temp file next to the target and renames it into
// place, so a watcher never sees a half-written report.
func (e *FileExporter) Export(ctx context.Context, run domain.RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s export: %w", e.kind, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(e.path)+".*")
	if err != nil {
		return fmt.Errorf("%s export: %w", e.kind, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%s export: %w", e.kind, err)
	}
	if err := e.render(tmp, run); err != nil {
		tmp.Close()
		return fmt.Errorf("%s export: %w", e.kind, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s export: %w", e.kind, err)
	}
	if err := os.Rename(tmp.Name(), e.path); err != nil {
		return fmt.Errorf("%s export: %w", e.kind, err)
	}
	return nil
}
