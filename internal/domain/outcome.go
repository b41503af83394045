package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Reason explains why a pair could not be scored.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonUnmappedSpecies1     Reason = "unmapped_species1"
	ReasonUnmappedSpecies2     Reason = "unmapped_species2"
	ReasonNoAnnotationSpecies1 Reason = "no_annotation_species1"
	ReasonNoAnnotationSpecies2 Reason = "no_annotation_species2"
)

// Reasons lists every unscored reason in attribution order.
var Reasons = []Reason{
	ReasonUnmappedSpecies1,
	ReasonUnmappedSpecies2,
	ReasonNoAnnotationSpecies1,
	ReasonNoAnnotationSpecies2,
}

// Resolution records how one side of a pair went through Mapper and Index.
type Resolution struct {
	Protein   AlignmentID
	Mapped    AnnotationID
	IsMapped  bool
	TermCount int
}

// Usable reports whether this side produced a non-empty term set.
func (r Resolution) Usable() bool {
	return r.IsMapped && r.TermCount > 0
}

// PairOutcome is the result of scoring one alignment pair.
type PairOutcome struct {
	Pair       AlignmentPair
	Scored     bool
	Similarity float64
	Reason     Reason
	Species1   Resolution
	Species2   Resolution
	Common     int
	Union      int
}

// SpeciesProvenance summarises the annotation table behind one species.
type SpeciesProvenance struct {
	MappedIdentifiers int
	AnnotatedProteins int
	Annotations       int
	Universe          TermSet
}

// ScoringResult is the ordered per-pair outcome list plus the provenance
// needed to report on it.
type ScoringResult struct {
	Metric   string
	Outcomes []PairOutcome
	Species1 SpeciesProvenance
	Species2 SpeciesProvenance
}

// Verdict is a categorical quality assessment.
type Verdict string

const (
	VerdictGood             Verdict = "GOOD"
	VerdictNeedsImprovement Verdict = "NEEDS IMPROVEMENT"
)

// SpeciesComparison contrasts the two annotation universes.
type SpeciesComparison struct {
	Species1Proteins int
	Species2Proteins int
	Species1Terms    int
	Species2Terms    int
	CommonTerms      int
	TermOverlap      float64
}

// QualityReport holds the aggregate statistics of a scoring run.
// Similarity statistics are NaN when no pair was scored; use HasMean.
type QualityReport struct {
	Metric         string
	TotalPairs     int
	ScoredPairs    int
	Coverage       float64
	TotalScore     float64
	MeanSimilarity float64
	Median         float64
	StdDev         float64
	Min            float64
	Max            float64

	Unmappable1 int
	Unmappable2 int
	Reasons     map[Reason]int

	HighQualityPairs     int
	HighQualityThreshold float64

	SimilarityThreshold float64
	CoverageThreshold   float64
	SimilarityVerdict   Verdict
	CoverageVerdict     Verdict

	Comparison SpeciesComparison
}

// HasMean reports whether the similarity statistics are defined.
func (q QualityReport) HasMean() bool {
	return q.ScoredPairs > 0 && !math.IsNaN(q.MeanSimilarity)
}

// RunRecord is a completed scoring run as persisted and published.
type RunRecord struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Report     QualityReport
	Outcomes   []PairOutcome
}

// RunSummary is the stored header of a run, without its pairs.
type RunSummary struct {
	ID                uuid.UUID
	FinishedAt        time.Time
	Metric            string
	TotalPairs        int
	ScoredPairs       int
	Coverage          float64
	MeanSimilarity    *float64
	Unmappable1       int
	Unmappable2       int
	SimilarityVerdict Verdict
	CoverageVerdict   Verdict
}
