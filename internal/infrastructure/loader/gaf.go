package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"AlignmentScorer/internal/annotation"
	"AlignmentScorer/internal/domain"
)

const (
	gafCommentPrefix   = "!"
	defaultTermPrefix  = "GO:"
	defaultGAFIDColumn = 1
)

var _ annotation.Parser = (*GAFParser)(nil)

// GAFParser reads GO Annotation Files. The identifier comes from a fixed
// column (DB_Object_ID by default) and every field carrying the term prefix
// counts as a term, so both GAF 2.x files and loose whitespace exports work.
//
// Options: "idColumn" (zero-based, default 1), "termPrefix" (default "GO:").
type GAFParser struct{}

// NewGAFParser returns the GAF strategy.
func NewGAFParser() *GAFParser {
	return &GAFParser{}
}

// Name identifies the strategy inside the registry.
func (p *GAFParser) Name() string {
	return "gaf"
}

// Parse returns one record per annotated line. Lines without any term are
// dropped; lines too short to hold the identifier column are malformed.
func (p *GAFParser) Parse(req annotation.Request, r io.Reader) ([]annotation.Record, error) {
	idCol, err := strconv.Atoi(req.Option("idColumn", strconv.Itoa(defaultGAFIDColumn)))
	if err != nil || idCol < 0 {
		return nil, malformed(req.Path, 0, "invalid idColumn option %q", req.Options["idColumn"])
	}
	prefix := req.Option("termPrefix", defaultTermPrefix)

	var records []annotation.Record
	err = eachLine(req.Path, r, func(line int, text string) error {
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, gafCommentPrefix) {
			return nil
		}
		rec, err := parseGAFLine(text, idCol, prefix)
		if err != nil {
			return malformed(req.Path, line, "%v", err)
		}
		if len(rec.Terms) == 0 {
			return nil
		}
		rec.Line = line
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func parseGAFLine(text string, idCol int, prefix string) (annotation.Record, error) {
	fields := splitFields(text, "")
	if idCol >= len(fields) || fields[idCol] == "" {
		return annotation.Record{}, errShortRow(idCol, len(fields))
	}

	rec := annotation.Record{ID: domain.AnnotationID(fields[idCol])}
	for i, field := range fields {
		if i == idCol {
			continue
		}
		if strings.HasPrefix(field, prefix) && len(field) > len(prefix) {
			rec.Terms = append(rec.Terms, domain.Term(field))
		}
	}
	return rec, nil
}

func errShortRow(col, got int) error {
	return fmt.Errorf("identifier column %d missing, row has %d fields", col, got)
}
