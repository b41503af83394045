package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"AlignmentScorer/internal/domain"
	"AlignmentScorer/internal/ports"
	"AlignmentScorer/internal/report"
	"AlignmentScorer/internal/scoring"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.InputSource
	Repository ports.RunRepository
	Exporters  []ports.Exporter
	Notifiers  []ports.Notifier
	Observer   ports.RunObserver

	// Report receives the text report; nil skips it.
	Report io.Writer

	Scoring scoring.Options
	Policy  scoring.Policy
	Logger  *slog.Logger

	// Now and NewID default to time.Now and uuid.New.
	Now   func() time.Time
	NewID func() uuid.UUID
}

// Pipeline implements one scoring run: load, score, aggregate, publish.
type Pipeline struct {
	source     ports.InputSource
	repository ports.RunRepository
	exporters  []ports.Exporter
	notifiers  []ports.Notifier
	observer   ports.RunObserver
	report     io.Writer
	scoring    scoring.Options
	policy     scoring.Policy
	logger     *slog.Logger
	now        func() time.Time
	newID      func() uuid.UUID
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		exporters:  deps.Exporters,
		notifiers:  deps.Notifiers,
		observer:   deps.Observer,
		report:     deps.Report,
		scoring:    deps.Scoring,
		policy:     deps.Policy,
		logger:     deps.Logger,
		now:        deps.Now,
		newID:      deps.NewID,
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.newID == nil {
		p.newID = uuid.New
	}
	return p
}

// Run executes one scoring run. Loading, the report, exports and
// persistence fail the run; metrics and notifications are best effort.
func (p *Pipeline) Run(ctx context.Context) (domain.RunRecord, error) {
	if p.source == nil {
		return domain.RunRecord{}, fmt.Errorf("pipeline has no input source")
	}

	started := p.now()
	run := domain.RunRecord{ID: p.newID(), StartedAt: started}

	inputs, err := p.source.Load(ctx)
	if err != nil {
		return run, fmt.Errorf("load inputs: %w", err)
	}
	p.debug("inputs loaded",
		"pairs", len(inputs.Pairs),
		"mapped_species1", inputs.Mapping1.Len(),
		"mapped_species2", inputs.Mapping2.Len(),
		"annotated_species1", inputs.Annotation1.Len(),
		"annotated_species2", inputs.Annotation2.Len())

	if err := ctx.Err(); err != nil {
		return run, err
	}

	scorer := scoring.NewScorer(scoring.Tables{
		Mapping1:    inputs.Mapping1,
		Mapping2:    inputs.Mapping2,
		Annotation1: inputs.Annotation1,
		Annotation2: inputs.Annotation2,
	}, p.scoring)
	result := scorer.ScoreAlignment(inputs.Pairs)

	run.Outcomes = result.Outcomes
	run.Report = scoring.QualityReport(result, p.policy)
	run.FinishedAt = p.now()
	elapsed := run.FinishedAt.Sub(started)

	p.info("alignment scored",
		"run", run.ID,
		"metric", run.Report.Metric,
		"pairs", run.Report.TotalPairs,
		"scored", run.Report.ScoredPairs,
		"coverage", run.Report.Coverage,
		"mean", run.Report.MeanSimilarity,
		"elapsed", elapsed)

	if p.report != nil {
		if err := report.WriteText(p.report, run.Report); err != nil {
			return run, fmt.Errorf("write report: %w", err)
		}
	}

	for _, exporter := range p.exporters {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		if err := exporter.Export(ctx, run); err != nil {
			return run, fmt.Errorf("export run %s: %w", run.ID, err)
		}
	}

	if p.observer != nil {
		if err := p.observer.ObserveRun(run, elapsed); err != nil {
			p.warn("record metrics", "run", run.ID, "error", err)
		}
	}

	if p.repository != nil {
		if err := p.repository.SaveRun(ctx, run); err != nil {
			return run, fmt.Errorf("persist run %s: %w", run.ID, err)
		}
		p.debug("run persisted", "run", run.ID, "pairs", len(run.Outcomes))
	}

	if len(p.notifiers) == 0 {
		return run, nil
	}

	digest := report.Summary(run)
	for _, notifier := range p.notifiers {
		if err := notifier.PublishRun(ctx, run, digest); err != nil {
			p.warn("notify run", "run", run.ID, "error", err)
		}
	}

	return run, nil
}

func (p *Pipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
