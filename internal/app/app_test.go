package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlignmentScorer/internal/config"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func fixtureConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.Load(write(t, dir, "config.yaml", "scoring:\n  workers: 2\n"))
	require.NoError(t, err)

	cfg.Inputs.Alignment = write(t, dir, "rno-mmu.sif", "P1 Q1\nP2 Q1\n")
	cfg.Inputs.Species1.Mapping.Path = write(t, dir, "rno.map", "Ensembl UniProt\nP1 U1\n")
	cfg.Inputs.Species1.Annotation.Paths = []string{write(t, dir, "rno.gaf", "DB U1 x GO:A GO:B GO:C\n")}
	cfg.Inputs.Species2.Mapping.Path = write(t, dir, "mmu.map", "Ensembl UniProt\nQ1 V1\n")
	cfg.Inputs.Species2.Annotation.Paths = []string{write(t, dir, "mmu.gaf", "DB V1 x GO:B GO:C GO:D\n")}
	cfg.Output.HTMLPath = filepath.Join(dir, "out", "report.html")
	cfg.Output.PairsPath = filepath.Join(dir, "out", "pairs.csv")
	cfg.Output.MetricsTextfile = filepath.Join(dir, "alignment.prom")
	return cfg
}

func TestApplication_Run(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	var stdout bytes.Buffer
	a, err := New(context.Background(), cfg, nil, &stdout)
	require.NoError(t, err)
	defer a.Close()

	run, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, run.Report.TotalPairs)
	assert.Equal(t, 1, run.Report.ScoredPairs)
	assert.Contains(t, stdout.String(), "Mean similarity: 0.5000")

	for _, p := range []string{cfg.Output.HTMLPath, cfg.Output.PairsPath, cfg.Output.MetricsTextfile} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestApplication_ReportPathReplacesStdout(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	cfg.Output.ReportPath = filepath.Join(t.TempDir(), "report.txt")
	var stdout bytes.Buffer
	a, err := New(context.Background(), cfg, nil, &stdout)
	require.NoError(t, err)

	_, err = a.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	raw, err := os.ReadFile(cfg.Output.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Network Alignment Quality Report")
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := fixtureConfig(t)
	cfg.Scoring.Metric = "dice"
	_, err := New(context.Background(), cfg, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRuns_NeedsDatabase(t *testing.T) {
	t.Parallel()

	_, err := Runs(context.Background(), config.Config{}, 10)
	assert.ErrorContains(t, err, "database.dsn")
}
