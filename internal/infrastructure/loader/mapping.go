package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"AlignmentScorer/internal/domain"
)

// MappingSpec selects which two columns of an identifier table form the
// mapping. From and To accept a header name or a zero-based index.
type MappingSpec struct {
	From      string
	To        string
	Delimiter string
	NoHeader  bool
}

// MappingStats describes what a mapping load kept and dropped.
type MappingStats struct {
	Rows      int
	Mapped    int
	Sparse    int
	Conflicts int
}

// LoadMapping reads an identifier table from path.
func LoadMapping(path string, spec MappingSpec) (domain.MappingTable, MappingStats, error) {
	f, err := openInput(path)
	if err != nil {
		return domain.MappingTable{}, MappingStats{}, err
	}
	defer f.Close()
	return ReadMapping(path, f, spec)
}

// ReadMapping builds a MappingTable. Rows too short to carry both columns, or
// with an empty cell, mean "no mapping known" and are counted as sparse. When
// an identifier repeats, the first mapping wins and the rest count as conflicts.
// The first non-blank line is the header unless spec.NoHeader is set; a
// leading '#' on it is ignored. Later '#' lines and lines repeating the
// header verbatim are skipped.
func ReadMapping(path string, r io.Reader, spec MappingSpec) (domain.MappingTable, MappingStats, error) {
	var (
		stats    MappingStats
		header   string
		from, to = -1, -1
		entries  = map[domain.AlignmentID]domain.AnnotationID{}
	)

	if spec.NoHeader {
		var err error
		if from, err = columnIndex(spec.From, nil); err != nil {
			return domain.MappingTable{}, stats, malformed(path, 0, "%v", err)
		}
		if to, err = columnIndex(spec.To, nil); err != nil {
			return domain.MappingTable{}, stats, malformed(path, 0, "%v", err)
		}
	}

	err := eachLine(path, r, func(line int, text string) error {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}

		if from < 0 {
			header = text
			fields := splitFields(strings.TrimPrefix(strings.TrimLeft(text, " "), "#"), spec.Delimiter)
			var err error
			if from, err = columnIndex(spec.From, fields); err != nil {
				return malformed(path, line, "%v", err)
			}
			if to, err = columnIndex(spec.To, fields); err != nil {
				return malformed(path, line, "%v", err)
			}
			return nil
		}
		if strings.HasPrefix(trimmed, "#") || (header != "" && text == header) {
			return nil
		}
		fields := splitFields(text, spec.Delimiter)

		stats.Rows++
		if from >= len(fields) || to >= len(fields) || fields[from] == "" || fields[to] == "" {
			stats.Sparse++
			return nil
		}
		key := domain.AlignmentID(fields[from])
		if _, seen := entries[key]; seen {
			stats.Conflicts++
			return nil
		}
		entries[key] = domain.AnnotationID(fields[to])
		return nil
	})
	if err != nil {
		return domain.MappingTable{}, stats, err
	}

	stats.Mapped = len(entries)
	return domain.NewMappingTable(entries), stats, nil
}

func columnIndex(spec string, header []string) (int, error) {
	spec = strings.TrimSpace(spec)
	if idx, err := strconv.Atoi(spec); err == nil {
		if idx < 0 {
			return 0, fmt.Errorf("negative column index %d", idx)
		}
		return idx, nil
	}
	if header == nil {
		return 0, fmt.Errorf("column %q needs a header row", spec)
	}
	for i, name := range header {
		if name == spec {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not in header %v", spec, header)
}
