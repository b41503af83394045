package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"AlignmentScorer/internal/domain"
	"AlignmentScorer/internal/ports"
)

const namespace = "alignment_scorer"

// Recorder keeps run metrics in its own registry so they can be dumped to a
// node_exporter textfile after each run.
type Recorder struct {
	registry *prometheus.Registry

	runs        prometheus.Counter
	pairs       *prometheus.CounterVec
	similarity  prometheus.Histogram
	coverage    prometheus.Gauge
	meanScore   prometheus.Gauge
	unmappable  *prometheus.GaugeVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

var _ ports.RunObserver = (*Recorder)(nil)

// NewRecorder creates and registers the run metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed scoring runs.",
		}),
		pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_total",
			Help:      "Alignment pairs by outcome; reason is empty for scored pairs.",
		}, []string{"outcome", "reason"}),
		similarity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pair_similarity",
			Help:      "Similarity of scored pairs.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		coverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coverage_ratio",
			Help:      "Scored pairs over total pairs in the last run.",
		}),
		meanScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_similarity",
			Help:      "Mean similarity of the last run, NaN when nothing scored.",
		}),
		unmappable: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unmappable_proteins",
			Help:      "Distinct proteins whose mapping or annotation failed in the last run.",
		}, []string{"species"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a scoring run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
	r.registry.MustRegister(
		r.runs,
		r.pairs,
		r.similarity,
		r.coverage,
		r.meanScore,
		r.unmappable,
		r.duration,
		r.lastSuccess,
	)
	return r
}

// Registry exposes the underlying registry, e.g. for a /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun folds one run into the metrics.
func (r *Recorder) ObserveRun(run domain.RunRecord, elapsed time.Duration) error {
	rep := run.Report

	r.runs.Inc()
	r.pairs.WithLabelValues("scored", "").Add(float64(rep.ScoredPairs))
	for _, reason := range domain.Reasons {
		r.pairs.WithLabelValues("unscored", string(reason)).Add(float64(rep.Reasons[reason]))
	}
	for _, o := range run.Outcomes {
		if o.Scored {
			r.similarity.Observe(o.Similarity)
		}
	}

	r.coverage.Set(rep.Coverage)
	r.meanScore.Set(rep.MeanSimilarity)
	r.unmappable.WithLabelValues(domain.Species1.String()).Set(float64(rep.Unmappable1))
	r.unmappable.WithLabelValues(domain.Species2.String()).Set(float64(rep.Unmappable2))
	r.duration.Observe(elapsed.Seconds())
	if !run.FinishedAt.IsZero() {
		r.lastSuccess.Set(float64(run.FinishedAt.Unix()))
	}
	return nil
}

// WriteTextfile dumps the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// TextfileObserver records a run and then rewrites the textfile.
type TextfileObserver struct {
	*Recorder
	path string
}

var _ ports.RunObserver = (*TextfileObserver)(nil)

// NewTextfileObserver wraps rec so every observed run lands in path.
func NewTextfileObserver(rec *Recorder, path string) *TextfileObserver {
	return &TextfileObserver{Recorder: rec, path: path}
}

// ObserveRun records the run and writes the textfile.
func (t *TextfileObserver) ObserveRun(run domain.RunRecord, elapsed time.Duration) error {
	if err := t.Recorder.ObserveRun(run, elapsed); err != nil {
		return err
	}
	return t.WriteTextfile(t.path)
}
