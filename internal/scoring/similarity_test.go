package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlignmentScorer/internal/domain"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.TermSet
		want float64
	}{
		{"identical", terms("A", "B"), terms("A", "B"), 1.0},
		{"disjoint", terms("A", "B"), terms("C"), 0.0},
		{"half", terms("A", "B", "C"), terms("B", "C", "D"), 0.5},
		{"subset", terms("A"), terms("A", "B", "C", "D"), 0.25},
		{"both empty", terms(), terms(), 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Jaccard(tc.a, tc.b))
		})
	}
}

func TestSimilarity_SymmetricAndBounded(t *testing.T) {
	sets := []domain.TermSet{
		terms("A"),
		terms("A", "B"),
		terms("B", "C", "D"),
		terms("E", "F", "G", "H", "A"),
		terms("X"),
	}

	for _, m := range []Metric{MetricJaccard, MetricCosine} {
		for i, a := range sets {
			for j, b := range sets {
				name := fmt.Sprintf("%s/%d-%d", m, i, j)
				ab, ba := m.Similarity(a, b), m.Similarity(b, a)
				assert.Equal(t, ab, ba, name)
				assert.GreaterOrEqual(t, ab, 0.0, name)
				assert.LessOrEqual(t, ab, 1.0, name)
				if i == j {
					assert.Equal(t, 1.0, ab, name)
				}
			}
		}
	}
}

func TestOverlap(t *testing.T) {
	common, union := Overlap(terms("A", "B", "C"), terms("C", "D"))
	assert.Equal(t, 1, common)
	assert.Equal(t, 4, union)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricJaccard, m)

	m, err = ParseMetric(" Cosine ")
	require.NoError(t, err)
	assert.Equal(t, MetricCosine, m)

	_, err = ParseMetric("resnik")
	assert.Error(t, err)
}
