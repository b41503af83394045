package scoring

import (
	"fmt"
	"math"
	"sort"

	"AlignmentScorer/internal/domain"
)

// Policy holds the verdict thresholds. Their 0.5 defaults are conventions of
// the reference case study, not derived values.
type Policy struct {
	SimilarityThreshold  float64
	CoverageThreshold    float64
	HighQualityThreshold float64
}

// DefaultPolicy returns the reference thresholds.
func DefaultPolicy() Policy {
	return Policy{
		SimilarityThreshold:  0.5,
		CoverageThreshold:    0.5,
		HighQualityThreshold: 0.5,
	}
}

// Validate rejects thresholds outside [0,1].
func (p Policy) Validate() error {
	for name, v := range map[string]float64{
		"similarity":   p.SimilarityThreshold,
		"coverage":     p.CoverageThreshold,
		"high quality": p.HighQualityThreshold,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%s threshold %v outside [0,1]", name, v)
		}
	}
	return nil
}

// tally accumulates per-run counters in a single pass.
type tally struct {
	total       int
	scores      []float64
	sum         float64
	highQuality int
	reasons     map[domain.Reason]int
	unmappable1 map[domain.AlignmentID]struct{}
	unmappable2 map[domain.AlignmentID]struct{}
}

func newTally() *tally {
	return &tally{
		reasons:     make(map[domain.Reason]int, len(domain.Reasons)),
		unmappable1: map[domain.AlignmentID]struct{}{},
		unmappable2: map[domain.AlignmentID]struct{}{},
	}
}

func (t *tally) add(o domain.PairOutcome, highQuality float64) {
	t.total++
	if o.Scored {
		t.scores = append(t.scores, o.Similarity)
		t.sum += o.Similarity
		if o.Similarity >= highQuality {
			t.highQuality++
		}
	} else {
		t.reasons[o.Reason]++
	}
	// A protein recurs across many pairs; count it once per species.
	if !o.Species1.Usable() {
		t.unmappable1[o.Species1.Protein] = struct{}{}
	}
	if !o.Species2.Usable() {
		t.unmappable2[o.Species2.Protein] = struct{}{}
	}
}

// Aggregate derives the quality statistics from a sequence of outcomes.
func Aggregate(outcomes []domain.PairOutcome, policy Policy) domain.QualityReport {
	t := newTally()
	for _, o := range outcomes {
		t.add(o, policy.HighQualityThreshold)
	}

	report := domain.QualityReport{
		TotalPairs:           t.total,
		ScoredPairs:          len(t.scores),
		TotalScore:           t.sum,
		MeanSimilarity:       math.NaN(),
		Median:               math.NaN(),
		StdDev:               math.NaN(),
		Min:                  math.NaN(),
		Max:                  math.NaN(),
		Unmappable1:          len(t.unmappable1),
		Unmappable2:          len(t.unmappable2),
		Reasons:              t.reasons,
		HighQualityPairs:     t.highQuality,
		HighQualityThreshold: policy.HighQualityThreshold,
		SimilarityThreshold:  policy.SimilarityThreshold,
		CoverageThreshold:    policy.CoverageThreshold,
	}
	if t.total > 0 {
		report.Coverage = float64(len(t.scores)) / float64(t.total)
	}
	if n := len(t.scores); n > 0 {
		mean := t.sum / float64(n)
		report.MeanSimilarity = mean
		report.Median = median(t.scores)
		report.StdDev = stddev(t.scores, mean)
		report.Min, report.Max = bounds(t.scores)
	}

	report.SimilarityVerdict = verdict(report.MeanSimilarity, policy.SimilarityThreshold)
	report.CoverageVerdict = verdict(report.Coverage, policy.CoverageThreshold)
	return report
}

// QualityReport aggregates a scoring result and adds the species comparison.
func QualityReport(result domain.ScoringResult, policy Policy) domain.QualityReport {
	report := Aggregate(result.Outcomes, policy)
	report.Metric = result.Metric
	report.Comparison = compareSpecies(result.Species1, result.Species2)
	return report
}

// HighQuality returns the scored pairs at or above threshold, in input order.
func HighQuality(outcomes []domain.PairOutcome, threshold float64) []domain.AlignmentPair {
	var pairs []domain.AlignmentPair
	for _, o := range outcomes {
		if o.Scored && o.Similarity >= threshold {
			pairs = append(pairs, o.Pair)
		}
	}
	return pairs
}

// verdict is NEEDS IMPROVEMENT for an undefined (NaN) value.
func verdict(value, threshold float64) domain.Verdict {
	if value >= threshold {
		return domain.VerdictGood
	}
	return domain.VerdictNeedsImprovement
}

func compareSpecies(a, b domain.SpeciesProvenance) domain.SpeciesComparison {
	common, union := Overlap(a.Universe, b.Universe)
	cmp := domain.SpeciesComparison{
		Species1Proteins: a.AnnotatedProteins,
		Species2Proteins: b.AnnotatedProteins,
		Species1Terms:    a.Universe.Len(),
		Species2Terms:    b.Universe.Len(),
		CommonTerms:      common,
	}
	if union > 0 {
		cmp.TermOverlap = float64(common) / float64(union)
	}
	return cmp
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// stddev is the population standard deviation.
func stddev(values []float64, mean float64) float64 {
	var acc float64
	for _, v := range values {
		d := v - mean
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(values)))
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
