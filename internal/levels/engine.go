// Package levels places consensus certificate rankings into ordered learning
// levels, enforcing per-level capacity and difficulty progression.
package levels

import (
	"fmt"
	"sort"

	"github.com/jonathan/talent-allocator/internal/types"
)

// Engine defaults.
const (
	DefaultLevelCount  = 5
	DefaultMaxPerLevel = 4
	DefaultMinScore    = 0.3

	// progressionTolerance is the mean-difficulty inversion allowed between
	// adjacent levels before the progression pass swaps certificates.
	progressionTolerance = 0.5
)

// Engine assigns ranked certificates to difficulty levels.
type Engine struct {
	levelCount  int
	maxPerLevel int
	minScore    float64
}

// NewEngine validates the placement configuration and builds an engine.
func NewEngine(levelCount, maxPerLevel int, minScore float64) (*Engine, error) {
	if levelCount <= 0 {
		return nil, &types.ConfigurationError{Field: "level_count", Message: "must be positive"}
	}
	if maxPerLevel <= 0 {
		return nil, &types.ConfigurationError{Field: "max_per_level", Message: "must be positive"}
	}
	if minScore < 0 || minScore > 1 {
		return nil, &types.ConfigurationError{Field: "min_score", Message: "must be within [0,1]"}
	}
	return &Engine{levelCount: levelCount, maxPerLevel: maxPerLevel, minScore: minScore}, nil
}

// Assign runs the full placement pipeline: score filter, primary placement,
// overflow placement, balance pass, and a single progression correction pass.
// Every ranking that survives the score filter is placed somewhere; the
// per-level cap is a soft invariant that can only be exceeded when the total
// eligible certificates exceed levelCount*maxPerLevel.
func (e *Engine) Assign(rankings []types.CertificateRanking) []types.LearningLevel {
	eligible := make([]types.CertificateRanking, 0, len(rankings))
	for _, r := range rankings {
		if r.Score >= e.minScore {
			eligible = append(eligible, r)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].SuggestedLevel != eligible[j].SuggestedLevel {
			return eligible[i].SuggestedLevel < eligible[j].SuggestedLevel
		}
		return eligible[i].Score > eligible[j].Score
	})

	buckets := make([][]types.CertificateRanking, e.levelCount)
	for _, r := range eligible {
		e.place(buckets, r)
	}

	e.balance(buckets)
	e.correctProgression(buckets)

	return e.toLevels(buckets)
}

// place puts a ranking into its suggested level when it has spare capacity,
// otherwise into the nearest alternative, preferring the lower neighbor
// before the higher one. When every level is full the ranking stays at its
// target; the balance pass resolves the excess.
func (e *Engine) place(buckets [][]types.CertificateRanking, r types.CertificateRanking) {
	target := r.SuggestedLevel
	if target < 1 {
		target = 1
	}
	if target > e.levelCount {
		target = e.levelCount
	}

	if len(buckets[target-1]) < e.maxPerLevel {
		buckets[target-1] = append(buckets[target-1], r)
		return
	}

	for distance := 1; distance < e.levelCount; distance++ {
		lower := target - distance
		if lower >= 1 && len(buckets[lower-1]) < e.maxPerLevel {
			buckets[lower-1] = append(buckets[lower-1], r)
			return
		}
		higher := target + distance
		if higher <= e.levelCount && len(buckets[higher-1]) < e.maxPerLevel {
			buckets[higher-1] = append(buckets[higher-1], r)
			return
		}
	}

	buckets[target-1] = append(buckets[target-1], r)
}

// balance moves the tail excess of any over-capacity level to the nearest
// levels with remaining capacity, in proximity order. With no capacity left
// anywhere, excess flows to the globally least-populated level until that no
// longer reduces the imbalance.
func (e *Engine) balance(buckets [][]types.CertificateRanking) {
	for i := 0; i < e.levelCount; i++ {
		for len(buckets[i]) > e.maxPerLevel {
			moved := buckets[i][len(buckets[i])-1]

			dest := -1
			for distance := 1; distance < e.levelCount; distance++ {
				lower := i - distance
				if lower >= 0 && len(buckets[lower]) < e.maxPerLevel {
					dest = lower
					break
				}
				higher := i + distance
				if higher < e.levelCount && len(buckets[higher]) < e.maxPerLevel {
					dest = higher
					break
				}
			}

			if dest < 0 {
				dest = leastPopulated(buckets, i)
				if dest < 0 || len(buckets[dest])+1 >= len(buckets[i]) {
					// Moving would not reduce the imbalance; capacity is
					// globally exhausted and the soft invariant yields.
					break
				}
			}

			buckets[i] = buckets[i][:len(buckets[i])-1]
			buckets[dest] = append(buckets[dest], moved)
		}
	}
}

// leastPopulated returns the index of the smallest bucket, excluding one.
func leastPopulated(buckets [][]types.CertificateRanking, exclude int) int {
	best := -1
	for i := range buckets {
		if i == exclude {
			continue
		}
		if best < 0 || len(buckets[i]) < len(buckets[best]) {
			best = i
		}
	}
	return best
}

// correctProgression runs one bounded pass over adjacent level pairs: when a
// level's mean difficulty sits more than the tolerance below its
// predecessor's, the single easiest certificate above swaps with the single
// hardest certificate below. Global monotonicity is not guaranteed.
func (e *Engine) correctProgression(buckets [][]types.CertificateRanking) {
	for i := 1; i < e.levelCount; i++ {
		prev, curr := buckets[i-1], buckets[i]
		if len(prev) == 0 || len(curr) == 0 {
			continue
		}

		if meanDifficulty(curr) >= meanDifficulty(prev)-progressionTolerance {
			continue
		}

		easiest := indexOfEasiest(curr)
		hardest := indexOfHardest(prev)
		curr[easiest], prev[hardest] = prev[hardest], curr[easiest]
	}
}

func meanDifficulty(bucket []types.CertificateRanking) float64 {
	total := 0.0
	for _, r := range bucket {
		total += r.Difficulty
	}
	return total / float64(len(bucket))
}

func indexOfEasiest(bucket []types.CertificateRanking) int {
	idx := 0
	for i := range bucket {
		if bucket[i].Difficulty < bucket[idx].Difficulty {
			idx = i
		}
	}
	return idx
}

func indexOfHardest(bucket []types.CertificateRanking) int {
	idx := 0
	for i := range bucket {
		if bucket[i].Difficulty > bucket[idx].Difficulty {
			idx = i
		}
	}
	return idx
}

// toLevels converts internal buckets into the persisted representation.
// Every level after the first lists its predecessor as a prerequisite.
func (e *Engine) toLevels(buckets [][]types.CertificateRanking) []types.LearningLevel {
	result := make([]types.LearningLevel, e.levelCount)
	for i := 0; i < e.levelCount; i++ {
		ids := make([]string, 0, len(buckets[i]))
		for _, r := range buckets[i] {
			ids = append(ids, r.Certificate.ID)
		}

		level := types.LearningLevel{
			Number:         i + 1,
			Name:           fmt.Sprintf("Level %d", i+1),
			Description:    fmt.Sprintf("Difficulty tier %d of %d", i+1, e.levelCount),
			CertificateIDs: ids,
		}
		if i > 0 {
			level.PrerequisiteLevels = []int{i}
		}
		result[i] = level
	}
	return result
}
