package scoring

import (
	"math"
	"sort"

	"github.com/jonathan/talent-allocator/internal/types"
)

const (
	// depthFloor credits refresher value when a certificate teaches a skill
	// at or below the learner's current level.
	depthFloor = 0.1

	// prereqReadyRatio is the fraction of a prerequisite level the learner
	// must already hold for that prerequisite to count as satisfied.
	prereqReadyRatio = 0.7

	// durationMidpoint is the sweet spot of the 0-100 normalized duration range.
	durationMidpoint = 50.0

	// maxDifficulty is the top of the certificate difficulty scale.
	maxDifficulty = 5.0
)

// LearnerContext carries the per-user signals a certificate model scores
// against: current skill levels, external market demand, and the number of
// learning levels available for placement.
type LearnerContext struct {
	SkillLevels  map[string]int
	MarketDemand map[string]float64
	LevelCount   int
}

// CertificateModel scores certificates against a career path as a weighted
// sum of named sub-factors, each normalized to [0,1].
type CertificateModel struct {
	weights *types.AgentWeights
}

// NewCertificateModel builds a model from a validated weight vector.
func NewCertificateModel(weights *types.AgentWeights) (*CertificateModel, error) {
	if weights == nil {
		return nil, &types.ConfigurationError{Field: "weights", Message: "weight vector is required"}
	}
	return &CertificateModel{weights: weights}, nil
}

// Rank scores a single certificate against the path, returning the composite
// ranking including the suggested placement level.
func (m *CertificateModel) Rank(cert *types.Certificate, path *types.CareerPath, learner *LearnerContext) types.CertificateRanking {
	coverage, matched := computeSkillCoverage(cert, path)

	factors := map[string]float64{
		FactorSkillCoverage:   coverage,
		FactorSkillDepth:      computeSkillDepth(cert, path, learner),
		FactorSkillRelevance:  computeSkillRelevance(cert, path),
		FactorDifficultyFit:   computeDifficultyFit(cert.Difficulty),
		FactorPrerequisiteFit: computePrerequisiteFit(cert, learner),
		FactorDurationFit:     computeDurationFit(cert.DurationHours),
		FactorPathCoherence:   computePathCoherence(cert, path),
		FactorProgression:     computeProgression(cert, path, learner),
		FactorMarketDemand:    computeMarketDemand(cert, learner),
		FactorCareerImpact:    computeCareerImpact(cert, path),
	}

	// Sum in a fixed order so equal inputs produce bit-identical scores.
	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)

	score := 0.0
	for _, name := range names {
		score += m.weights.Factor(name) * factors[name]
	}

	return types.CertificateRanking{
		Certificate:    *cert,
		Score:          clamp01(score),
		Coverage:       coverage,
		Difficulty:     cert.Difficulty,
		RelevanceCount: matched,
		SuggestedLevel: suggestLevel(cert, path, learner),
	}
}

// computeSkillCoverage measures how well the certificate's skills cover the
// path's requirements: min(certLevel, requiredLevel)/requiredLevel per matched
// skill, weighted by the requirement weight and averaged over matched skills.
// Returns the coverage score and the number of matched skills.
func computeSkillCoverage(cert *types.Certificate, path *types.CareerPath) (float64, int) {
	matchedWeight := 0.0
	coveredWeight := 0.0
	matched := 0

	for _, cs := range cert.Skills {
		req := path.SkillByID(cs.SkillID)
		if req == nil || req.RequiredLevel <= 0 {
			continue
		}
		matched++
		ratio := math.Min(float64(cs.Level), float64(req.RequiredLevel)) / float64(req.RequiredLevel)
		coveredWeight += ratio * req.Weight
		matchedWeight += req.Weight
	}

	if matchedWeight == 0 {
		return 0, matched
	}
	return clamp01(coveredWeight / matchedWeight), matched
}

// computeSkillDepth rewards level advancement beyond the learner's current
// level: min(gap/2, 1) per matched skill, with a floor crediting refresher
// value when there is no gap.
func computeSkillDepth(cert *types.Certificate, path *types.CareerPath, learner *LearnerContext) float64 {
	total := 0.0
	matched := 0

	for _, cs := range cert.Skills {
		if path.SkillByID(cs.SkillID) == nil {
			continue
		}
		matched++
		gap := float64(cs.Level - learner.SkillLevels[cs.SkillID])
		if gap <= 0 {
			total += depthFloor
			continue
		}
		total += math.Min(gap/2, 1)
	}

	if matched == 0 {
		return 0
	}
	return clamp01(total / float64(matched))
}

// computeSkillRelevance is the fraction of the path's required skills the
// certificate addresses.
func computeSkillRelevance(cert *types.Certificate, path *types.CareerPath) float64 {
	if len(path.Skills) == 0 {
		return 0
	}
	matched := 0
	for _, cs := range cert.Skills {
		if path.SkillByID(cs.SkillID) != nil {
			matched++
		}
	}
	return clamp01(float64(matched) / float64(len(path.Skills)))
}

// computeDifficultyFit is a bell curve peaking at difficulty 3 on the 1-5 scale.
func computeDifficultyFit(difficulty float64) float64 {
	return clamp01(1 - math.Abs(difficulty/maxDifficulty-0.6)/0.6)
}

// computePrerequisiteFit is the fraction of the certificate's prerequisite
// skills for which the learner already meets at least 70% of the required
// level. Certificates with no prerequisites fit perfectly.
func computePrerequisiteFit(cert *types.Certificate, learner *LearnerContext) float64 {
	prereqs := cert.PrerequisiteSkills()
	if len(prereqs) == 0 {
		return 1
	}
	ready := 0
	for _, p := range prereqs {
		if float64(learner.SkillLevels[p.SkillID]) >= prereqReadyRatio*float64(p.Level) {
			ready++
		}
	}
	return clamp01(float64(ready) / float64(len(prereqs)))
}

// computeDurationFit is a bell curve peaking near 50 duration-units on a
// 0-100 normalized range.
func computeDurationFit(durationHours float64) float64 {
	normalized := math.Max(0, math.Min(100, durationHours))
	return clamp01(1 - math.Abs(normalized-durationMidpoint)/durationMidpoint)
}

// computePathCoherence penalizes irrelevant breadth: the fraction of the
// certificate's total skills that the path actually requires.
func computePathCoherence(cert *types.Certificate, path *types.CareerPath) float64 {
	if len(cert.Skills) == 0 {
		return 0
	}
	relevant := 0
	for _, cs := range cert.Skills {
		if path.SkillByID(cs.SkillID) != nil {
			relevant++
		}
	}
	return clamp01(float64(relevant) / float64(len(cert.Skills)))
}

// computeProgression rewards a 1-2 level gap between the learner's current
// level and the certificate's skill level, a smaller reward for bigger jumps,
// and a minimal reward at or below the current level.
func computeProgression(cert *types.Certificate, path *types.CareerPath, learner *LearnerContext) float64 {
	total := 0.0
	matched := 0

	for _, cs := range cert.Skills {
		if path.SkillByID(cs.SkillID) == nil {
			continue
		}
		matched++
		gap := cs.Level - learner.SkillLevels[cs.SkillID]
		switch {
		case gap >= 1 && gap <= 2:
			total += 1.0
		case gap > 2:
			total += 0.4
		default:
			total += 0.1
		}
	}

	if matched == 0 {
		return 0
	}
	return clamp01(total / float64(matched))
}

// computeMarketDemand averages the external demand signal over the
// certificate's skills. Skills without a demand entry score neutral.
func computeMarketDemand(cert *types.Certificate, learner *LearnerContext) float64 {
	if len(cert.Skills) == 0 {
		return 0
	}
	total := 0.0
	for _, cs := range cert.Skills {
		if demand, ok := learner.MarketDemand[cs.SkillID]; ok {
			total += clamp01(demand)
		} else {
			total += 0.5
		}
	}
	return clamp01(total / float64(len(cert.Skills)))
}

// computeCareerImpact is the maximum requirement priority among the
// certificate's matched skills, normalized by the path's top priority.
func computeCareerImpact(cert *types.Certificate, path *types.CareerPath) float64 {
	maxPriority := 0
	for _, req := range path.Skills {
		if req.Priority > maxPriority {
			maxPriority = req.Priority
		}
	}
	if maxPriority == 0 {
		return 0
	}

	best := 0
	for _, cs := range cert.Skills {
		if req := path.SkillByID(cs.SkillID); req != nil && req.Priority > best {
			best = req.Priority
		}
	}
	return clamp01(float64(best) / float64(maxPriority))
}

// suggestLevel proposes a placement level: ceil(difficulty), nudged down for
// advanced learners (average relevant-skill level >= 3) and up for novices
// (<= 1), clamped to [1, levelCount].
func suggestLevel(cert *types.Certificate, path *types.CareerPath, learner *LearnerContext) int {
	level := int(math.Ceil(cert.Difficulty))

	totalLevel := 0
	matched := 0
	for _, cs := range cert.Skills {
		if path.SkillByID(cs.SkillID) == nil {
			continue
		}
		matched++
		totalLevel += learner.SkillLevels[cs.SkillID]
	}
	if matched > 0 {
		avg := float64(totalLevel) / float64(matched)
		if avg >= 3 {
			level--
		} else if avg <= 1 {
			level++
		}
	}

	if level < 1 {
		level = 1
	}
	if learner.LevelCount > 0 && level > learner.LevelCount {
		level = learner.LevelCount
	}
	return level
}
