package loader

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlignmentScorer/internal/domain"
)

func TestReadAlignment(t *testing.T) {
	t.Parallel()

	input := "# rno-mmu\nENSRNOP1 ENSMUSP1\n\nENSRNOP2\tENSMUSP2\textra\nENSRNOP1 ENSMUSP1\n"
	pairs, err := ReadAlignment("a.sif", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	assert.Equal(t, domain.AlignmentPair{Index: 0, Species1: "ENSRNOP1", Species2: "ENSMUSP1"}, pairs[0])
	assert.Equal(t, domain.AlignmentPair{Index: 1, Species1: "ENSRNOP2", Species2: "ENSMUSP2"}, pairs[1])
	assert.Equal(t, 2, pairs[2].Index, "duplicate rows stay distinct")
}

func TestReadAlignment_Errors(t *testing.T) {
	t.Parallel()

	_, err := ReadAlignment("a.sif", strings.NewReader("P1 Q1\nP2\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedRow))
	assert.Contains(t, err.Error(), "a.sif:2")

	_, err = ReadAlignment("empty.sif", strings.NewReader("# nothing\n\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyAlignment))

	_, err = LoadAlignment(filepath.Join(t.TempDir(), "absent.sif"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingFile))
	assert.True(t, domain.IsInputError(err))
}
