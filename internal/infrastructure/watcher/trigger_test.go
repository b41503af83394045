package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitRun(t *testing.T, runs <-chan time.Time) {
	t.Helper()
	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestFileTrigger_RunsOnStartAndOnChange(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rno.sif")
	require.NoError(t, os.WriteFile(input, []byte("P1 Q1\n"), 0o600))

	runs := make(chan time.Time, 10)
	trig := NewFileTrigger([]string{input}, 50*time.Millisecond, nil)
	ctx := context.Background()
	require.NoError(t, trig.Start(ctx, func(t time.Time) { runs <- t }))
	defer func() { require.NoError(t, trig.Stop(ctx)) }()

	waitRun(t, runs)

	// Three quick writes collapse into one run.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(input, []byte("P1 Q2\n"), 0o600))
	}
	waitRun(t, runs)

	select {
	case <-runs:
		t.Fatal("burst was not debounced")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileTrigger_StartStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.map")
	require.NoError(t, os.WriteFile(input, nil, 0o600))

	trig := NewFileTrigger([]string{input}, 0, nil)
	ctx := context.Background()
	assert.NoError(t, trig.Start(ctx, nil))
	require.NoError(t, trig.Start(ctx, func(time.Time) {}))
	assert.NoError(t, trig.Start(ctx, func(time.Time) {}))
	assert.NoError(t, trig.Stop(ctx))
	assert.NoError(t, trig.Stop(ctx))
}

func TestFileTrigger_MissingDirectory(t *testing.T) {
	trig := NewFileTrigger([]string{filepath.Join(t.TempDir(), "gone", "x.gaf")}, 0, nil)
	assert.Error(t, trig.Start(context.Background(), func(time.Time) {}))
}

func TestRelevant(t *testing.T) {
	t.Parallel()

	abs, err := filepath.Abs("in.gaf")
	require.NoError(t, err)
	watched := map[string]struct{}{abs: {}}

	assert.True(t, relevant(fsnotify.Event{Name: "in.gaf", Op: fsnotify.Write}, watched))
	assert.True(t, relevant(fsnotify.Event{Name: abs, Op: fsnotify.Create}, watched))
	assert.False(t, relevant(fsnotify.Event{Name: abs, Op: fsnotify.Chmod}, watched))
	assert.False(t, relevant(fsnotify.Event{Name: "other.gaf", Op: fsnotify.Write}, watched))
}
