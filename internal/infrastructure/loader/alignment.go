package loader

import (
	"io"
	"strings"

	"AlignmentScorer/internal/domain"
)

// LoadAlignment reads a two-column pair listing from path.
func LoadAlignment(path string) ([]domain.AlignmentPair, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAlignment(path, f)
}

// ReadAlignment parses one pair per line: the first two whitespace-separated
// columns are the species-1 and species-2 proteins, any further columns are
// ignored. Blank lines and '#' comments are skipped. Pairs keep file order.
func ReadAlignment(path string, r io.Reader) ([]domain.AlignmentPair, error) {
	var pairs []domain.AlignmentPair
	err := eachLine(path, r, func(line int, text string) error {
		text = strings.TrimSpace(text)
		if text == "" || strings.HasPrefix(text, "#") {
			return nil
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return malformed(path, line, "expected two protein columns, got %d", len(fields))
		}
		pairs = append(pairs, domain.AlignmentPair{
			Index:    len(pairs),
			Species1: domain.AlignmentID(fields[0]),
			Species2: domain.AlignmentID(fields[1]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, &domain.InputError{Kind: domain.InputEmpty, Path: path, Err: domain.ErrEmptyAlignment}
	}
	return pairs, nil
}
