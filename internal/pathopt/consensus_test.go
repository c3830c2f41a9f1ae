package pathopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-allocator/internal/types"
)

func proposal(id string, score float64, level int) types.CertificateRanking {
	return types.CertificateRanking{
		Certificate:    types.Certificate{ID: id},
		Score:          score,
		SuggestedLevel: level,
	}
}

func TestBuildConsensus_ThresholdFilters(t *testing.T) {
	proposals := [][]types.CertificateRanking{
		{proposal("cert-popular", 0.8, 2), proposal("cert-rare", 0.9, 1)},
		{proposal("cert-popular", 0.7, 2)},
		{proposal("cert-popular", 0.9, 3)},
	}

	consensus := buildConsensus(proposals, 3)
	require.Len(t, consensus, 1)
	assert.Equal(t, "cert-popular", consensus[0].Certificate.ID)
}

func TestBuildConsensus_MeanScoreAndModeLevel(t *testing.T) {
	// Three agents propose the certificate at levels 2, 2, 3: the consensus
	// level is the mode 2 and the score is the mean.
	proposals := [][]types.CertificateRanking{
		{proposal("cert-a", 0.6, 2)},
		{proposal("cert-a", 0.8, 2)},
		{proposal("cert-a", 0.7, 3)},
	}

	consensus := buildConsensus(proposals, 3)
	require.Len(t, consensus, 1)
	assert.InDelta(t, 0.7, consensus[0].Score, 1e-9)
	assert.Equal(t, 2, consensus[0].SuggestedLevel)
}

func TestBuildConsensus_SortedByMeanScoreDescending(t *testing.T) {
	proposals := [][]types.CertificateRanking{
		{proposal("cert-low", 0.4, 1), proposal("cert-high", 0.9, 1)},
		{proposal("cert-low", 0.4, 1), proposal("cert-high", 0.9, 1)},
		{proposal("cert-low", 0.4, 1), proposal("cert-high", 0.9, 1)},
	}

	consensus := buildConsensus(proposals, 3)
	require.Len(t, consensus, 2)
	assert.Equal(t, "cert-high", consensus[0].Certificate.ID)
	assert.Equal(t, "cert-low", consensus[1].Certificate.ID)
}

func TestBuildConsensus_EmptyProposals(t *testing.T) {
	assert.Empty(t, buildConsensus(nil, 3))
	assert.Empty(t, buildConsensus([][]types.CertificateRanking{{}, {}}, 3))
}

func TestModeLevel_TieBreaksFirstSeen(t *testing.T) {
	assert.Equal(t, 2, modeLevel([]int{2, 3, 2, 3}))
	assert.Equal(t, 3, modeLevel([]int{3, 2, 2, 3, 3}))
	assert.Equal(t, 0, modeLevel(nil))
}
