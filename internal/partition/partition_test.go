package partition

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-allocator/internal/types"
)

func makePool(n int) []types.Employee {
	pool := make([]types.Employee, n)
	for i := range pool {
		pool[i] = types.Employee{ID: fmt.Sprintf("emp-%d", i)}
	}
	return pool
}

func TestAgentCount(t *testing.T) {
	tests := []struct {
		poolSize int
		want     int
	}{
		{0, 4},
		{1, 4},
		{5, 5},    // floor(log2(6)*2) = floor(5.17) = 5
		{15, 8},   // floor(log2(16)*2) = 8
		{100, 13}, // floor(log2(101)*2) = floor(13.31) = 13
		{100000, 20},
		{-3, 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("pool_%d", tt.poolSize), func(t *testing.T) {
			assert.Equal(t, tt.want, AgentCount(tt.poolSize))
		})
	}
}

func TestSplit_DisjointAndComplete(t *testing.T) {
	pool := makePool(17)
	rng := rand.New(rand.NewSource(42))

	groups := Split(pool, 5, rng)
	require.Len(t, groups, 5)

	seen := make(map[string]int)
	for _, group := range groups {
		for _, e := range group {
			seen[e.ID]++
		}
	}
	require.Len(t, seen, 17, "every employee should be dealt exactly once")
	for id, count := range seen {
		assert.Equal(t, 1, count, "employee %s appears in more than one group", id)
	}
}

func TestSplit_BalancedSizes(t *testing.T) {
	pool := makePool(10)
	rng := rand.New(rand.NewSource(1))

	groups := Split(pool, 4, rng)
	// Round-robin: sizes differ by at most one.
	for _, group := range groups {
		assert.InDelta(t, 2.5, float64(len(group)), 0.5)
	}
}

func TestSplit_MoreGroupsThanCandidates(t *testing.T) {
	pool := makePool(3)
	rng := rand.New(rand.NewSource(7))

	groups := Split(pool, 6, rng)
	require.Len(t, groups, 6)

	nonEmpty := 0
	for _, group := range groups {
		if len(group) > 0 {
			nonEmpty++
			assert.Len(t, group, 1)
		}
	}
	assert.Equal(t, 3, nonEmpty)
}

func TestSplit_DoesNotMutateInput(t *testing.T) {
	pool := makePool(8)
	original := make([]types.Employee, len(pool))
	copy(original, pool)

	Split(pool, 3, rand.New(rand.NewSource(9)))
	assert.Equal(t, original, pool)
}

func TestSplit_SeedDeterminism(t *testing.T) {
	pool := makePool(12)

	first := Split(pool, 4, rand.New(rand.NewSource(1234)))
	second := Split(pool, 4, rand.New(rand.NewSource(1234)))
	assert.Equal(t, first, second)
}

func TestSplit_ZeroGroups(t *testing.T) {
	assert.Nil(t, Split(makePool(5), 0, rand.New(rand.NewSource(1))))
}
