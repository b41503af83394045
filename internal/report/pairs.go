package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"AlignmentScorer/internal/domain"
)

var pairColumns = []string{
	"position",
	"protein_1",
	"protein_2",
	"mapped_1",
	"mapped_2",
	"terms_1",
	"terms_2",
	"common",
	"union",
	"similarity",
	"reason",
}

// WritePairs writes one CSV row per outcome, in alignment order. The
// similarity column is empty for unscored pairs.
func WritePairs(w io.Writer, outcomes []domain.PairOutcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pairColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, o := range outcomes {
		if err := cw.Write(pairRow(o)); err != nil {
			return fmt.Errorf("write pair %d: %w", o.Pair.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func pairRow(o domain.PairOutcome) []string {
	similarity := ""
	if o.Scored {
		similarity = strconv.FormatFloat(o.Similarity, 'f', 6, 64)
	}
	return []string{
		strconv.Itoa(o.Pair.Index + 1),
		string(o.Pair.Species1),
		string(o.Pair.Species2),
		string(o.Species1.Mapped),
		string(o.Species2.Mapped),
		strconv.Itoa(o.Species1.TermCount),
		strconv.Itoa(o.Species2.TermCount),
		strconv.Itoa(o.Common),
		strconv.Itoa(o.Union),
		similarity,
		string(o.Reason),
	}
}
