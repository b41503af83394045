package loader

import (
	"io"
	"strings"

	"AlignmentScorer/internal/annotation"
	"AlignmentScorer/internal/domain"
)

var _ annotation.Parser = (*TableParser)(nil)

// TableParser reads "identifier term[,term...]" rows. Terms may be separated
// by commas, tabs or spaces. Set option "header" to "true" to skip the first
// data line.
type TableParser struct{}

// NewTableParser returns the plain-table strategy.
func NewTableParser() *TableParser {
	return &TableParser{}
}

// Name identifies the strategy inside the registry.
func (p *TableParser) Name() string {
	return "table"
}

// Parse requires at least one term per row.
func (p *TableParser) Parse(req annotation.Request, r io.Reader) ([]annotation.Record, error) {
	skipHeader := strings.EqualFold(req.Option("header", "false"), "true")

	var records []annotation.Record
	err := eachLine(req.Path, r, func(line int, text string) error {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!") {
			return nil
		}
		if skipHeader {
			skipHeader = false
			return nil
		}

		fields := strings.FieldsFunc(trimmed, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})
		if len(fields) < 2 {
			return malformed(req.Path, line, "identifier %q has no terms", trimmed)
		}

		rec := annotation.Record{Line: line, ID: domain.AnnotationID(fields[0])}
		for _, f := range fields[1:] {
			rec.Terms = append(rec.Terms, domain.Term(f))
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
