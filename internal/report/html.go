package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"AlignmentScorer/internal/domain"
)

// MaxHTMLPairs caps the pair table; the CSV export carries every row.
const MaxHTMLPairs = 250

const skeleton = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title></title></head>
<body>
<h1>Network Alignment Quality Report</h1>
<p class="run"></p>
<h2>Alignment Statistics</h2>
<table id="statistics"><tbody></tbody></table>
<h2>Unscored Pairs</h2>
<table id="reasons"><thead><tr><th>Reason</th><th>Pairs</th></tr></thead><tbody></tbody></table>
<h2>Species Comparison</h2>
<table id="species"><thead><tr><th></th><th>Species 1</th><th>Species 2</th></tr></thead><tbody></tbody></table>
<h2>Quality Assessment</h2>
<ul id="verdicts"></ul>
<h2>Top Pairs</h2>
<table id="pairs"><thead><tr><th>#</th><th>Protein 1</th><th>Protein 2</th><th>Common</th><th>Union</th><th>Similarity</th></tr></thead><tbody></tbody></table>
</body>
</html>`

// WriteHTML renders the run as a standalone HTML page.
func WriteHTML(w io.Writer, run domain.RunRecord) error {
	page, err := HTML(run)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, page)
	return err
}

// HTML fills the report skeleton with the run's figures.
func HTML(run domain.RunRecord) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(skeleton))
	if err != nil {
		return "", fmt.Errorf("parse html skeleton: %w", err)
	}

	r := run.Report
	p := printer()

	doc.Find("title").SetText("Alignment run " + run.ID.String())
	doc.Find("p.run").SetText(fmt.Sprintf("Run %s finished %s", run.ID, run.FinishedAt.UTC().Format("2006-01-02 15:04:05 MST")))

	stats := doc.Find("#statistics tbody")
	addRow(stats, "Similarity metric", metricName(r.Metric))
	addRow(stats, "Total alignment pairs", p.Sprintf("%d", r.TotalPairs))
	addRow(stats, "Successfully scored pairs", p.Sprintf("%d", r.ScoredPairs))
	addRow(stats, "Coverage", percent(r.Coverage))
	addRow(stats, "Unmappable proteins (species1)", p.Sprintf("%d", r.Unmappable1))
	addRow(stats, "Unmappable proteins (species2)", p.Sprintf("%d", r.Unmappable2))
	addRow(stats, "Total score", p.Sprintf("%.4f", r.TotalScore))
	addRow(stats, "Mean similarity", stat(r, r.MeanSimilarity))
	addRow(stats, "Median similarity", stat(r, r.Median))
	addRow(stats, "Standard deviation", stat(r, r.StdDev))
	addRow(stats, "High-quality pairs", p.Sprintf("%d", r.HighQualityPairs))

	reasons := doc.Find("#reasons tbody")
	for _, reason := range domain.Reasons {
		addRow(reasons, string(reason), p.Sprintf("%d", r.Reasons[reason]))
	}

	c := r.Comparison
	species := doc.Find("#species tbody")
	addRow(species, "Annotated proteins", p.Sprintf("%d", c.Species1Proteins), p.Sprintf("%d", c.Species2Proteins))
	addRow(species, "Distinct GO terms", p.Sprintf("%d", c.Species1Terms), p.Sprintf("%d", c.Species2Terms))
	addRow(species, "Common GO terms", p.Sprintf("%d", c.CommonTerms), "")
	addRow(species, "GO term overlap", percent(c.TermOverlap), "")

	verdicts := doc.Find("#verdicts")
	addVerdict(verdicts, "Mean similarity", r.SimilarityVerdict)
	addVerdict(verdicts, "Coverage", r.CoverageVerdict)

	pairs := doc.Find("#pairs tbody")
	for _, o := range topPairs(run.Outcomes, MaxHTMLPairs) {
		addRow(pairs,
			fmt.Sprint(o.Pair.Index+1),
			string(o.Pair.Species1),
			string(o.Pair.Species2),
			fmt.Sprint(o.Common),
			fmt.Sprint(o.Union),
			fmt.Sprintf("%.4f", o.Similarity))
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return out, nil
}

// addRow appends a row whose first cell is a header. Cell text is escaped
// by SetText, so protein ids never reach the markup unescaped.
func addRow(body *goquery.Selection, label string, cells ...string) {
	body.AppendHtml("<tr><th></th></tr>")
	row := body.Children().Last()
	row.Find("th").SetText(label)
	for _, cell := range cells {
		row.AppendHtml("<td></td>")
		row.Children().Last().SetText(cell)
	}
}

func addVerdict(list *goquery.Selection, label string, v domain.Verdict) {
	list.AppendHtml("<li></li>")
	item := list.Children().Last()
	item.SetText(fmt.Sprintf("%s: %s", label, v))
	if v == domain.VerdictGood {
		item.AddClass("good")
	} else {
		item.AddClass("needs-improvement")
	}
}

// topPairs returns the best scored pairs, ties kept in input order.
func topPairs(outcomes []domain.PairOutcome, limit int) []domain.PairOutcome {
	var scored []domain.PairOutcome
	for _, o := range outcomes {
		if o.Scored {
			scored = append(scored, o)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
