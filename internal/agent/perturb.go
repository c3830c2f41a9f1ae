package agent

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/jonathan/talent-allocator/internal/scoring"
	"github.com/jonathan/talent-allocator/internal/types"
)

// jitterRange is the relative random perturbation applied to every factor
// after specialization (+/-10%).
const jitterRange = 0.1

// specialization names, selected by agentIndex mod 5.
var specializationNames = [5]string{
	"coverage",
	"progression",
	"difficulty",
	"market",
	"efficiency",
}

// specializationBoosts multiplies the factors each specialist emphasizes
// before renormalization.
var specializationBoosts = [5]map[string]float64{
	{scoring.FactorSkillCoverage: 1.5, scoring.FactorSkillRelevance: 1.3},
	{scoring.FactorProgression: 1.5, scoring.FactorSkillDepth: 1.3},
	{scoring.FactorDifficultyFit: 1.5, scoring.FactorPrerequisiteFit: 1.3},
	{scoring.FactorMarketDemand: 1.5, scoring.FactorCareerImpact: 1.5},
	{scoring.FactorDurationFit: 1.5, scoring.FactorPathCoherence: 1.3},
}

// Perturb derives an agent-specific weight vector from a base vector: a fixed
// specialization multiplier chosen by agentIndex mod 5, then a +/-10% random
// jitter per factor, renormalized so the result sums to 1.0. This guarantees
// agent diversity without distinct implementations.
func Perturb(base *types.AgentWeights, agentIndex int, rng *rand.Rand) (*types.AgentWeights, error) {
	if base == nil {
		return nil, &types.ConfigurationError{Field: "weights", Message: "base weight vector is required"}
	}
	if agentIndex < 0 {
		agentIndex = -agentIndex
	}

	kind := agentIndex % len(specializationBoosts)
	boosts := specializationBoosts[kind]

	// Draw jitter in sorted factor order so a seeded run is reproducible
	// regardless of map iteration order.
	names := make([]string, 0, len(base.Factors))
	for factor := range base.Factors {
		names = append(names, factor)
	}
	sort.Strings(names)

	perturbed := make(map[string]float64, len(base.Factors))
	sum := 0.0
	for _, factor := range names {
		weight := base.Factors[factor]
		if boost, ok := boosts[factor]; ok {
			weight *= boost
		}
		jitter := 1 + (rng.Float64()*2-1)*jitterRange
		weight *= jitter
		perturbed[factor] = weight
		sum += weight
	}

	if sum <= 0 {
		return nil, &types.ConfigurationError{Field: "weights", Message: "perturbed weights sum to zero"}
	}
	for factor := range perturbed {
		perturbed[factor] /= sum
	}

	name := fmt.Sprintf("%s_%s_%d", base.Name, specializationNames[kind], agentIndex)
	return types.NewAgentWeights(name, perturbed)
}
