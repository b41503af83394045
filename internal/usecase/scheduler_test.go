package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlignmentScorer/internal/scoring"
)

// manualTrigger fires the job only when the test says so.
type manualTrigger struct {
	job     func(time.Time)
	stopped bool
}

func (m *manualTrigger) Start(_ context.Context, job func(time.Time)) error {
	m.job = job
	return nil
}

func (m *manualTrigger) Stop(context.Context) error {
	m.stopped = true
	return nil
}

func TestScheduler_RunsPipelineOnTrigger(t *testing.T) {
	t.Parallel()

	repo := &recordingRepo{}
	pipeline := NewPipeline(PipelineDeps{
		Source:     stubSource{inputs: referenceInputs()},
		Repository: repo,
		Policy:     scoring.DefaultPolicy(),
	})
	trig := &manualTrigger{}
	s := NewScheduler(trig, pipeline, nil)

	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, trig.job)

	trig.job(time.Now())
	trig.job(time.Now())
	assert.Len(t, repo.saved, 2)
	assert.NotEqual(t, repo.saved[0].ID, repo.saved[1].ID)

	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, trig.stopped)
}

func TestScheduler_FailedRunKeepsWatching(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{Source: stubSource{err: errors.New("half-written file")}})
	trig := &manualTrigger{}
	require.NoError(t, NewScheduler(trig, pipeline, nil).Start(context.Background()))
	assert.NotPanics(t, func() { trig.job(time.Now()) })
}

func TestScheduler_NilParts(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}
