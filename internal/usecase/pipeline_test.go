package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlignmentScorer/internal/domain"
	"AlignmentScorer/internal/ports"
	"AlignmentScorer/internal/scoring"
)

type stubSource struct {
	inputs domain.Inputs
	err    error
}

func (s stubSource) Load(context.Context) (domain.Inputs, error) {
	return s.inputs, s.err
}

type recordingRepo struct {
	saved []domain.RunRecord
	err   error
}

func (r *recordingRepo) SaveRun(_ context.Context, run domain.RunRecord) error {
	r.saved = append(r.saved, run)
	return r.err
}

func (r *recordingRepo) ListRuns(context.Context, int) ([]domain.RunSummary, error) {
	return nil, nil
}

type recordingNotifier struct {
	digests []string
	err     error
}

func (n *recordingNotifier) PublishRun(_ context.Context, _ domain.RunRecord, rendered string) error {
	n.digests = append(n.digests, rendered)
	return n.err
}

type recordingExporter struct {
	runs []uuid.UUID
	err  error
}

func (e *recordingExporter) Export(_ context.Context, run domain.RunRecord) error {
	e.runs = append(e.runs, run.ID)
	return e.err
}

type recordingObserver struct {
	elapsed []time.Duration
}

func (o *recordingObserver) ObserveRun(_ domain.RunRecord, elapsed time.Duration) error {
	o.elapsed = append(o.elapsed, elapsed)
	return errors.New("textfile not writable")
}

func referenceInputs() domain.Inputs {
	return domain.Inputs{
		Pairs: []domain.AlignmentPair{
			{Index: 0, Species1: "P1", Species2: "Q1"},
			{Index: 1, Species1: "P9", Species2: "Q1"},
		},
		Mapping1:    domain.NewMappingTable(map[domain.AlignmentID]domain.AnnotationID{"P1": "U1"}),
		Mapping2:    domain.NewMappingTable(map[domain.AlignmentID]domain.AnnotationID{"Q1": "V1"}),
		Annotation1: domain.NewAnnotationTable(map[domain.AnnotationID]domain.TermSet{"U1": domain.NewTermSet("GO:A", "GO:B", "GO:C")}),
		Annotation2: domain.NewAnnotationTable(map[domain.AnnotationID]domain.TermSet{"V1": domain.NewTermSet("GO:B", "GO:C", "GO:D")}),
	}
}

func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("11111111-2222-4333-8444-555555555555")
	repo := &recordingRepo{}
	notifier := &recordingNotifier{}
	exporter := &recordingExporter{}
	observer := &recordingObserver{}
	var out bytes.Buffer

	p := NewPipeline(PipelineDeps{
		Source:     stubSource{inputs: referenceInputs()},
		Repository: repo,
		Exporters:  []ports.Exporter{exporter},
		Notifiers:  []ports.Notifier{notifier},
		Observer:   observer,
		Report:     &out,
		Policy:     scoring.DefaultPolicy(),
		Now:        fixedClock(),
		NewID:      func() uuid.UUID { return id },
	})

	run, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, id, run.ID)
	assert.Equal(t, time.Second, run.FinishedAt.Sub(run.StartedAt))
	require.Len(t, run.Outcomes, 2)
	assert.InDelta(t, 0.5, run.Outcomes[0].Similarity, 1e-12)
	assert.Equal(t, domain.ReasonUnmappedSpecies1, run.Outcomes[1].Reason)
	assert.Equal(t, 0.5, run.Report.Coverage)
	assert.Equal(t, "jaccard", run.Report.Metric)

	assert.Contains(t, out.String(), "Network Alignment Quality Report")
	assert.Equal(t, []uuid.UUID{id}, exporter.runs)
	assert.Equal(t, []time.Duration{time.Second}, observer.elapsed, "observer failure does not fail the run")
	require.Len(t, repo.saved, 1)
	require.Len(t, notifier.digests, 1)
	assert.Contains(t, notifier.digests[0], id.String())
}

func TestPipeline_Run_Failures(t *testing.T) {
	t.Parallel()

	_, err := NewPipeline(PipelineDeps{}).Run(context.Background())
	assert.Error(t, err)

	loadErr := &domain.InputError{Kind: domain.InputMissingFile, Path: "x.sif", Err: domain.ErrMissingFile}
	_, err = NewPipeline(PipelineDeps{Source: stubSource{err: loadErr}}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingFile))

	repo := &recordingRepo{err: errors.New("db down")}
	notifier := &recordingNotifier{}
	_, err = NewPipeline(PipelineDeps{
		Source:     stubSource{inputs: referenceInputs()},
		Repository: repo,
		Notifiers:  []ports.Notifier{notifier},
		Policy:     scoring.DefaultPolicy(),
	}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist run")
	assert.Empty(t, notifier.digests, "nothing is announced for an unsaved run")

	exporter := &recordingExporter{err: errors.New("disk full")}
	_, err = NewPipeline(PipelineDeps{
		Source:    stubSource{inputs: referenceInputs()},
		Exporters: []ports.Exporter{exporter},
		Policy:    scoring.DefaultPolicy(),
	}).Run(context.Background())
	assert.ErrorContains(t, err, "disk full")
}

func TestPipeline_Run_NotifierErrorsAreNotFatal(t *testing.T) {
	t.Parallel()

	failing := &recordingNotifier{err: errors.New("telegram 429")}
	ok := &recordingNotifier{}
	_, err := NewPipeline(PipelineDeps{
		Source:    stubSource{inputs: referenceInputs()},
		Notifiers: []ports.Notifier{failing, ok},
		Policy:    scoring.DefaultPolicy(),
	}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, ok.digests, 1)
}

func TestPipeline_Run_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPipeline(PipelineDeps{Source: stubSource{inputs: referenceInputs()}}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
