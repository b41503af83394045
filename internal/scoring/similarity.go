package scoring

import (
	"fmt"
	"math"
	"strings"

	"AlignmentScorer/internal/domain"
)

// Metric names a set similarity measure.
type Metric string

const (
	MetricJaccard Metric = "jaccard"
	MetricCosine  Metric = "cosine"
)

// ParseMetric accepts a metric name case-insensitively; empty means Jaccard.
func ParseMetric(name string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(name))) {
	case "", MetricJaccard:
		return MetricJaccard, nil
	case MetricCosine:
		return MetricCosine, nil
	default:
		return "", fmt.Errorf("unknown similarity metric %q", name)
	}
}

// Overlap returns |a ∩ b| and |a ∪ b|.
func Overlap(a, b domain.TermSet) (common, union int) {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	for t := range small {
		if _, ok := large[t]; ok {
			common++
		}
	}
	return common, len(a) + len(b) - common
}

// Jaccard is |a ∩ b| / |a ∪ b|. Two empty sets have no defined similarity
// and yield 0; the scorer never calls it that way.
func Jaccard(a, b domain.TermSet) float64 {
	common, union := Overlap(a, b)
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// Cosine treats both sets as binary vectors: |a ∩ b| / sqrt(|a|·|b|).
func Cosine(a, b domain.TermSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common, _ := Overlap(a, b)
	v := float64(common) / math.Sqrt(float64(len(a))*float64(len(b)))
	return math.Min(v, 1)
}

// Similarity evaluates the metric on two term sets.
func (m Metric) Similarity(a, b domain.TermSet) float64 {
	if m == MetricCosine {
		return Cosine(a, b)
	}
	return Jaccard(a, b)
}
