// Package scoring provides the weighted multi-factor compatibility models used
// by evaluation agents in both allocation domains.
package scoring

import "github.com/jonathan/talent-allocator/internal/types"

// Certificate-domain factor names.
const (
	FactorSkillCoverage   = "skill_coverage"
	FactorSkillDepth      = "skill_depth"
	FactorSkillRelevance  = "skill_relevance"
	FactorDifficultyFit   = "difficulty_fit"
	FactorPrerequisiteFit = "prerequisite_fit"
	FactorDurationFit     = "duration_fit"
	FactorPathCoherence   = "path_coherence"
	FactorProgression     = "progression_logic"
	FactorMarketDemand    = "market_demand"
	FactorCareerImpact    = "career_impact"
)

// Role-domain factor names.
const (
	FactorTenure              = "tenure"
	FactorCompletedProjects   = "completed_projects"
	FactorClientExperience    = "client_experience"
	FactorBaseSkillMatch      = "base_skill_match"
	FactorSkillLevel          = "skill_level"
	FactorComplementarySkills = "complementary_skills"
	FactorSimilarRoles        = "similar_roles"
	FactorCertifications      = "certifications"
	FactorVersatility         = "versatility"
	FactorCorroboration       = "corroboration"
)

// DefaultCertificateWeights returns the base weight vector for certificate
// ranking agents before specialization and jitter are applied.
func DefaultCertificateWeights() (*types.AgentWeights, error) {
	return types.NewAgentWeights("certificate_base", map[string]float64{
		FactorSkillCoverage:   0.20,
		FactorSkillDepth:      0.10,
		FactorSkillRelevance:  0.15,
		FactorDifficultyFit:   0.10,
		FactorPrerequisiteFit: 0.10,
		FactorDurationFit:     0.05,
		FactorPathCoherence:   0.10,
		FactorProgression:     0.10,
		FactorMarketDemand:    0.05,
		FactorCareerImpact:    0.05,
	})
}

// DefaultRoleWeights returns the weight vector for role-assignment agents.
func DefaultRoleWeights() (*types.AgentWeights, error) {
	return types.NewAgentWeights("role_base", map[string]float64{
		FactorTenure:              0.10,
		FactorCompletedProjects:   0.10,
		FactorClientExperience:    0.10,
		FactorBaseSkillMatch:      0.15,
		FactorSkillLevel:          0.15,
		FactorComplementarySkills: 0.10,
		FactorSimilarRoles:        0.10,
		FactorCertifications:      0.10,
		FactorVersatility:         0.05,
		FactorCorroboration:       0.05,
	})
}

// clamp01 bounds a score to the [0,1] contract shared by every factor.
func clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
