// Package report renders quality reports for people: a plain text report,
// an HTML page and a per-pair CSV table.
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"AlignmentScorer/internal/domain"
)

const undefined = "undefined"

// printer groups thousands the way the case-study reports do (7,034).
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// WriteText renders the full text report.
func WriteText(w io.Writer, r domain.QualityReport) error {
	_, err := io.WriteString(w, Text(r))
	return err
}

// Text returns the full text report.
func Text(r domain.QualityReport) string {
	p := printer()
	var b strings.Builder

	b.WriteString("Network Alignment Quality Report\n")
	b.WriteString("================================\n\n")

	b.WriteString("Alignment Statistics:\n")
	p.Fprintf(&b, "- Similarity metric: %s\n", metricName(r.Metric))
	p.Fprintf(&b, "- Total alignment pairs: %d\n", r.TotalPairs)
	p.Fprintf(&b, "- Successfully scored pairs: %d\n", r.ScoredPairs)
	p.Fprintf(&b, "- Coverage: %s\n", percent(r.Coverage))
	p.Fprintf(&b, "- Unmappable proteins (species1): %d\n", r.Unmappable1)
	p.Fprintf(&b, "- Unmappable proteins (species2): %d\n", r.Unmappable2)

	if unscored := r.TotalPairs - r.ScoredPairs; unscored > 0 {
		b.WriteString("\nUnscored Pairs:\n")
		for _, reason := range domain.Reasons {
			p.Fprintf(&b, "- %s: %d\n", reason, r.Reasons[reason])
		}
	}

	b.WriteString("\nSimilarity Scores:\n")
	p.Fprintf(&b, "- Total score: %.4f\n", r.TotalScore)
	fmt.Fprintf(&b, "- Mean similarity: %s\n", stat(r, r.MeanSimilarity))
	fmt.Fprintf(&b, "- Median similarity: %s\n", stat(r, r.Median))
	fmt.Fprintf(&b, "- Standard deviation: %s\n", stat(r, r.StdDev))
	fmt.Fprintf(&b, "- Range: %s to %s\n", stat(r, r.Min), stat(r, r.Max))
	p.Fprintf(&b, "- High-quality pairs (>= %.2f): %d\n", r.HighQualityThreshold, r.HighQualityPairs)

	c := r.Comparison
	b.WriteString("\nSpecies Comparison:\n")
	p.Fprintf(&b, "- Annotated proteins: %d (species1), %d (species2)\n", c.Species1Proteins, c.Species2Proteins)
	p.Fprintf(&b, "- Distinct GO terms: %d (species1), %d (species2)\n", c.Species1Terms, c.Species2Terms)
	p.Fprintf(&b, "- Common GO terms: %d\n", c.CommonTerms)
	p.Fprintf(&b, "- GO term overlap: %s\n", percent(c.TermOverlap))

	b.WriteString("\nQuality Assessment:\n")
	fmt.Fprintf(&b, "- Mean similarity: %s (threshold %.2f)\n", r.SimilarityVerdict, r.SimilarityThreshold)
	fmt.Fprintf(&b, "- Coverage: %s (threshold %.2f)\n", r.CoverageVerdict, r.CoverageThreshold)

	return b.String()
}

// Summary is a short Markdown digest for chat notifications.
func Summary(run domain.RunRecord) string {
	r := run.Report
	p := printer()
	var b strings.Builder
	p.Fprintf(&b, "*Alignment run* `%s`\n", run.ID)
	p.Fprintf(&b, "Scored %d of %d pairs (%s coverage, %s)\n", r.ScoredPairs, r.TotalPairs, percent(r.Coverage), r.CoverageVerdict)
	fmt.Fprintf(&b, "Mean %s: %s (%s)\n", metricName(r.Metric), stat(r, r.MeanSimilarity), r.SimilarityVerdict)
	p.Fprintf(&b, "Unmappable proteins: %d / %d", r.Unmappable1, r.Unmappable2)
	return b.String()
}

// stat formats a similarity statistic, which is undefined when nothing scored.
func stat(r domain.QualityReport, v float64) string {
	if !r.HasMean() {
		return undefined
	}
	return fmt.Sprintf("%.4f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func metricName(m string) string {
	if m == "" {
		return "jaccard"
	}
	return m
}
