// Package partition divides a candidate pool into disjoint groups, one per
// evaluation agent.
package partition

import (
	"math"
	"math/rand"

	"github.com/jonathan/talent-allocator/internal/types"
)

const (
	minAgents = 4
	maxAgents = 20
)

// AgentCount computes the number of agents for a pool of the given size:
// clamp(4, 20, floor(log2(poolSize+1) * 2)).
func AgentCount(poolSize int) int {
	if poolSize < 0 {
		poolSize = 0
	}
	count := int(math.Floor(math.Log2(float64(poolSize+1)) * 2))
	if count < minAgents {
		return minAgents
	}
	if count > maxAgents {
		return maxAgents
	}
	return count
}

// Split shuffles the candidate pool uniformly with the injected source of
// randomness and deals it round-robin into the requested number of disjoint
// groups. Groups beyond the pool size come back empty. The input slice is
// never mutated.
func Split(pool []types.Employee, groups int, rng *rand.Rand) [][]types.Employee {
	if groups <= 0 {
		return nil
	}

	shuffled := make([]types.Employee, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	result := make([][]types.Employee, groups)
	for i, employee := range shuffled {
		g := i % groups
		result[g] = append(result[g], employee)
	}
	return result
}
