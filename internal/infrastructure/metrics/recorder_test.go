package metrics

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlignmentScorer/internal/domain"
)

func testRun() domain.RunRecord {
	return domain.RunRecord{
		FinishedAt: time.Unix(1_700_000_000, 0),
		Report: domain.QualityReport{
			TotalPairs:     4,
			ScoredPairs:    2,
			Coverage:       0.5,
			MeanSimilarity: 0.6,
			Unmappable1:    1,
			Unmappable2:    3,
			Reasons: map[domain.Reason]int{
				domain.ReasonUnmappedSpecies1:     1,
				domain.ReasonNoAnnotationSpecies2: 1,
			},
		},
		Outcomes: []domain.PairOutcome{
			{Scored: true, Similarity: 0.4},
			{Scored: true, Similarity: 0.8},
			{Reason: domain.ReasonUnmappedSpecies1},
			{Reason: domain.ReasonNoAnnotationSpecies2},
		},
	}
}

func TestRecorder_ObserveRun(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	require.NoError(t, rec.ObserveRun(testRun(), 250*time.Millisecond))
	require.NoError(t, rec.ObserveRun(testRun(), time.Second))

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.runs))
	assert.Equal(t, 4.0, testutil.ToFloat64(rec.pairs.WithLabelValues("scored", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.pairs.WithLabelValues("unscored", "unmapped_species1")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.pairs.WithLabelValues("unscored", "unmapped_species2")))
	assert.Equal(t, 0.5, testutil.ToFloat64(rec.coverage))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.unmappable.WithLabelValues("species2")))
	assert.Equal(t, 1_700_000_000.0, testutil.ToFloat64(rec.lastSuccess))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.similarity))
}

func TestRecorder_UndefinedMean(t *testing.T) {
	t.Parallel()

	run := testRun()
	run.Report.MeanSimilarity = math.NaN()
	rec := NewRecorder()
	require.NoError(t, rec.ObserveRun(run, 0))
	assert.True(t, math.IsNaN(testutil.ToFloat64(rec.meanScore)))
}

func TestTextfileObserver(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alignment.prom")
	obs := NewTextfileObserver(NewRecorder(), path)
	require.NoError(t, obs.ObserveRun(testRun(), time.Second))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "alignment_scorer_runs_total 1")
	assert.Contains(t, text, `alignment_scorer_unmappable_proteins{species="species1"} 1`)
	assert.True(t, strings.Contains(text, "alignment_scorer_coverage_ratio 0.5"))
}
