package scoring

import (
	"golang.org/x/sync/errgroup"

	"AlignmentScorer/internal/domain"
)

// minShardSize keeps small alignments on a single goroutine.
const minShardSize = 2048

// Tables carries the four lookup tables for one run.
type Tables struct {
	Mapping1    domain.MappingTable
	Mapping2    domain.MappingTable
	Annotation1 domain.AnnotationTable
	Annotation2 domain.AnnotationTable
}

// Options tune a Scorer.
type Options struct {
	Metric  Metric
	Workers int
}

// Scorer composes Mapper and Index for both species of every pair.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	tables  Tables
	metric  Metric
	workers int
}

// NewScorer builds a scorer; zero options mean Jaccard on one goroutine.
func NewScorer(tables Tables, opts Options) *Scorer {
	metric := opts.Metric
	if metric == "" {
		metric = MetricJaccard
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Scorer{tables: tables, metric: metric, workers: workers}
}

// Score evaluates one pair. Checks run in a fixed order and the first failure
// names the reason: species-1 mapping, species-2 mapping, species-1
// annotation, species-2 annotation. Both sides are always resolved so the
// outcome can report each species' own failure.
func (s *Scorer) Score(pair domain.AlignmentPair) domain.PairOutcome {
	side1, terms1 := resolveSide(s.tables.Mapping1, s.tables.Annotation1, pair.Species1)
	side2, terms2 := resolveSide(s.tables.Mapping2, s.tables.Annotation2, pair.Species2)

	out := domain.PairOutcome{Pair: pair, Species1: side1, Species2: side2}

	switch {
	case !side1.IsMapped:
		out.Reason = domain.ReasonUnmappedSpecies1
	case !side2.IsMapped:
		out.Reason = domain.ReasonUnmappedSpecies2
	case side1.TermCount == 0:
		out.Reason = domain.ReasonNoAnnotationSpecies1
	case side2.TermCount == 0:
		out.Reason = domain.ReasonNoAnnotationSpecies2
	default:
		out.Common, out.Union = Overlap(terms1, terms2)
		out.Similarity = clampUnit(s.metric.Similarity(terms1, terms2))
		out.Scored = true
	}
	return out
}

// ScoreAlignment scores every pair and returns outcomes in input order.
func (s *Scorer) ScoreAlignment(pairs []domain.AlignmentPair) domain.ScoringResult {
	outcomes := make([]domain.PairOutcome, len(pairs))

	shards := s.workers
	if len(pairs) < minShardSize*2 || shards == 1 {
		shards = 1
	}

	if shards == 1 {
		for i, p := range pairs {
			outcomes[i] = s.Score(p)
		}
	} else {
		size := (len(pairs) + shards - 1) / shards
		var g errgroup.Group
		g.SetLimit(s.workers)
		for start := 0; start < len(pairs); start += size {
			lo, hi := start, min(start+size, len(pairs))
			g.Go(func() error {
				for i := lo; i < hi; i++ {
					outcomes[i] = s.Score(pairs[i])
				}
				return nil
			})
		}
		// Score cannot fail, so every worker returns nil.
		g.Wait()
	}

	return domain.ScoringResult{
		Metric:   string(s.metric),
		Outcomes: outcomes,
		Species1: provenance(s.tables.Mapping1, s.tables.Annotation1),
		Species2: provenance(s.tables.Mapping2, s.tables.Annotation2),
	}
}

// ScoreAlignment is the one-shot form with Jaccard on a single goroutine.
func ScoreAlignment(pairs []domain.AlignmentPair, map1, map2 domain.MappingTable, ann1, ann2 domain.AnnotationTable) domain.ScoringResult {
	return NewScorer(Tables{
		Mapping1:    map1,
		Mapping2:    map2,
		Annotation1: ann1,
		Annotation2: ann2,
	}, Options{}).ScoreAlignment(pairs)
}

func resolveSide(m domain.MappingTable, a domain.AnnotationTable, id domain.AlignmentID) (domain.Resolution, domain.TermSet) {
	res := domain.Resolution{Protein: id}
	mapped, ok := Resolve(m, id)
	if !ok {
		return res, nil
	}
	res.Mapped = mapped
	res.IsMapped = true
	terms := Lookup(a, mapped)
	res.TermCount = terms.Len()
	return res, terms
}

func provenance(m domain.MappingTable, a domain.AnnotationTable) domain.SpeciesProvenance {
	return domain.SpeciesProvenance{
		MappedIdentifiers: m.Len(),
		AnnotatedProteins: a.Len(),
		Annotations:       a.TotalAnnotations(),
		Universe:          a.Universe(),
	}
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
