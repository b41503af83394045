package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlignmentScorer/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "alignmentscorer version "+Version+"\n", out)
}

func TestScore_PositionalArguments(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}
	sif := write("a.sif", "P1 Q1\nP2 Q2\n")
	go1 := write("rno.gaf", "DB U1 x GO:A GO:B GO:C\n")
	go2 := write("mmu.gaf", "DB V1 x GO:B GO:C GO:D\n")
	map1 := write("rno.map", "id uniprot\nP1 U1\n")
	map2 := write("mmu.map", "id uniprot\nQ1 V1\n")

	out, err := execute(t, "score", "--log-level", "error", "--metric", "cosine", sif, go1, go2, map1, map2)
	require.NoError(t, err)
	assert.Contains(t, out, "Similarity metric: cosine")
	assert.Contains(t, out, "Successfully scored pairs: 1")
	assert.Contains(t, out, "Unmappable proteins (species1): 1")
}

func TestScore_WrongArgumentCount(t *testing.T) {
	_, err := execute(t, "score", "a.sif", "b.gaf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 0 or 5 arguments")
}

func TestApplyPositional(t *testing.T) {
	var cfg config.Config
	applyPositional([]string{"s", "g1", "g2", "m1", "m2"}, &cfg)
	assert.Equal(t, "s", cfg.Inputs.Alignment)
	assert.Equal(t, []string{"g1"}, cfg.Inputs.Species1.Annotation.Paths)
	assert.Equal(t, []string{"g2"}, cfg.Inputs.Species2.Annotation.Paths)
	assert.Equal(t, "m1", cfg.Inputs.Species1.Mapping.Path)
	assert.Equal(t, "m2", cfg.Inputs.Species2.Mapping.Path)

	applyPositional(nil, &cfg)
	assert.Equal(t, "s", cfg.Inputs.Alignment)
}
