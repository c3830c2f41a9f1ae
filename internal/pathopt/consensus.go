package pathopt

import (
	"sort"

	"github.com/jonathan/talent-allocator/internal/types"
)

// ConsensusThreshold is the minimum number of agents that must propose a
// certificate for it to reach consensus and become eligible for placement.
const ConsensusThreshold = 3

// certVote accumulates the ensemble's votes for one certificate.
type certVote struct {
	ranking    types.CertificateRanking
	frequency  int
	totalScore float64
	levels     []int
}

// buildConsensus merges per-agent proposals into the consensus certificate
// set: only certificates proposed by at least threshold agents survive. Each
// survivor carries the mean of its proposed scores and the mode of its
// proposed levels, and the result is sorted by mean score descending.
func buildConsensus(proposals [][]types.CertificateRanking, threshold int) []types.CertificateRanking {
	votes := make(map[string]*certVote)
	order := make([]string, 0)

	for _, agentProposals := range proposals {
		for _, r := range agentProposals {
			id := r.Certificate.ID
			v, ok := votes[id]
			if !ok {
				v = &certVote{ranking: r}
				votes[id] = v
				order = append(order, id)
			}
			v.frequency++
			v.totalScore += r.Score
			v.levels = append(v.levels, r.SuggestedLevel)
		}
	}

	consensus := make([]types.CertificateRanking, 0, len(order))
	for _, id := range order {
		v := votes[id]
		if v.frequency < threshold {
			continue
		}
		r := v.ranking
		r.Score = v.totalScore / float64(v.frequency)
		r.SuggestedLevel = modeLevel(v.levels)
		consensus = append(consensus, r)
	}

	sort.SliceStable(consensus, func(i, j int) bool {
		return consensus[i].Score > consensus[j].Score
	})
	return consensus
}

// modeLevel returns the statistical mode of the proposed levels, breaking
// ties in favor of the level seen first.
func modeLevel(levels []int) int {
	counts := make(map[int]int, len(levels))
	best := 0
	bestCount := 0
	for _, level := range levels {
		counts[level]++
		if counts[level] > bestCount {
			best = level
			bestCount = counts[level]
		}
	}
	return best
}
