package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/talent-allocator/internal/types"
)

// Normalization caps for the default role factor implementations. The exact
// sub-score formulas are owned by whoever owns the employee data model; these
// defaults honor the [0,1] contract and can be swapped per factor.
const (
	tenureCapYears        = 10.0
	projectCapCount       = 20.0
	complementaryCapCount = 5.0
	similarRoleCapCount   = 2.0
	certificationCapCount = 3.0
	versatilityCapCount   = 10.0
	corroborationCapCount = 3.0

	certificationSource = "certification"
)

// Factor computes one named compatibility sub-score in [0,1] for an employee
// against a role requirement. Implementations must be pure and safe for
// concurrent use.
type Factor interface {
	Name() string
	Score(employee *types.Employee, role *types.RoleRequirement) (float64, error)
}

// RoleModel combines pluggable factors into a weighted compatibility score.
type RoleModel struct {
	weights *types.AgentWeights
	factors []Factor
}

// NewRoleModel builds a model over the given factors. Passing no factors
// installs the default set covering every named role weight.
func NewRoleModel(weights *types.AgentWeights, factors ...Factor) (*RoleModel, error) {
	if weights == nil {
		return nil, &types.ConfigurationError{Field: "weights", Message: "weight vector is required"}
	}
	if len(factors) == 0 {
		factors = DefaultRoleFactors()
	}
	return &RoleModel{weights: weights, factors: factors}, nil
}

// Score computes the weighted compatibility of an employee for a role,
// clamped to [0,1]. A factor error aborts scoring for this candidate only;
// the caller decides whether to drop the candidate.
func (m *RoleModel) Score(employee *types.Employee, role *types.RoleRequirement) (float64, error) {
	total := 0.0
	for _, factor := range m.factors {
		value, err := factor.Score(employee, role)
		if err != nil {
			return 0, err
		}
		total += m.weights.Factor(factor.Name()) * clamp01(value)
	}
	return clamp01(total), nil
}

// DefaultRoleFactors returns the built-in implementations for the ten named
// role compatibility factors.
func DefaultRoleFactors() []Factor {
	return []Factor{
		tenureFactor{},
		completedProjectsFactor{},
		clientExperienceFactor{},
		baseSkillMatchFactor{},
		skillLevelFactor{},
		complementarySkillsFactor{},
		similarRolesFactor{},
		certificationsFactor{},
		versatilityFactor{},
		corroborationFactor{},
	}
}

type tenureFactor struct{}

func (tenureFactor) Name() string { return FactorTenure }

func (tenureFactor) Score(e *types.Employee, _ *types.RoleRequirement) (float64, error) {
	return math.Min(e.TenureYears/tenureCapYears, 1), nil
}

type completedProjectsFactor struct{}

func (completedProjectsFactor) Name() string { return FactorCompletedProjects }

func (completedProjectsFactor) Score(e *types.Employee, _ *types.RoleRequirement) (float64, error) {
	return math.Min(float64(e.CompletedProjects)/projectCapCount, 1), nil
}

type clientExperienceFactor struct{}

func (clientExperienceFactor) Name() string { return FactorClientExperience }

func (clientExperienceFactor) Score(e *types.Employee, r *types.RoleRequirement) (float64, error) {
	if e.HasWorkedForClient(r.ClientID) {
		return 1, nil
	}
	return 0, nil
}

// baseSkillMatchFactor measures requirement coverage at any level: the
// weighted fraction of required skills the employee has at all.
type baseSkillMatchFactor struct{}

func (baseSkillMatchFactor) Name() string { return FactorBaseSkillMatch }

func (baseSkillMatchFactor) Score(e *types.Employee, r *types.RoleRequirement) (float64, error) {
	totalWeight := 0.0
	matchedWeight := 0.0
	for _, req := range r.Skills {
		totalWeight += req.Weight
		if e.SkillLevel(req.SkillID) > 0 {
			matchedWeight += req.Weight
		}
	}
	if totalWeight == 0 {
		return 0, nil
	}
	return matchedWeight / totalWeight, nil
}

// skillLevelFactor measures how close the employee's levels come to the
// required levels, weighted by requirement weight.
type skillLevelFactor struct{}

func (skillLevelFactor) Name() string { return FactorSkillLevel }

func (skillLevelFactor) Score(e *types.Employee, r *types.RoleRequirement) (float64, error) {
	totalWeight := 0.0
	achieved := 0.0
	for _, req := range r.Skills {
		if req.RequiredLevel <= 0 {
			continue
		}
		totalWeight += req.Weight
		level := math.Min(float64(e.SkillLevel(req.SkillID)), float64(req.RequiredLevel))
		achieved += req.Weight * level / float64(req.RequiredLevel)
	}
	if totalWeight == 0 {
		return 0, nil
	}
	return achieved / totalWeight, nil
}

// complementarySkillsFactor rewards skills beyond the role's requirements.
type complementarySkillsFactor struct{}

func (complementarySkillsFactor) Name() string { return FactorComplementarySkills }

func (complementarySkillsFactor) Score(e *types.Employee, r *types.RoleRequirement) (float64, error) {
	required := make(map[string]bool, len(r.Skills))
	for _, req := range r.Skills {
		required[req.SkillID] = true
	}
	extra := 0
	for _, s := range e.Skills {
		if !required[s.SkillID] {
			extra++
		}
	}
	return math.Min(float64(extra)/complementaryCapCount, 1), nil
}

type similarRolesFactor struct{}

func (similarRolesFactor) Name() string { return FactorSimilarRoles }

func (similarRolesFactor) Score(e *types.Employee, r *types.RoleRequirement) (float64, error) {
	roleName := strings.ToLower(r.Name)
	if roleName == "" {
		return 0, nil
	}
	count := 0
	for _, h := range e.RoleHistory {
		held := strings.ToLower(h.RoleName)
		if held == roleName || strings.Contains(held, roleName) || strings.Contains(roleName, held) {
			count++
		}
	}
	return math.Min(float64(count)/similarRoleCapCount, 1), nil
}

// certificationsFactor counts required skills backed by a certification
// validation source.
type certificationsFactor struct{}

func (certificationsFactor) Name() string { return FactorCertifications }

func (certificationsFactor) Score(e *types.Employee, r *types.RoleRequirement) (float64, error) {
	required := make(map[string]bool, len(r.Skills))
	for _, req := range r.Skills {
		required[req.SkillID] = true
	}
	certified := 0
	for _, s := range e.Skills {
		if required[s.SkillID] && strings.EqualFold(s.ValidationSource, certificationSource) {
			certified++
		}
	}
	return math.Min(float64(certified)/certificationCapCount, 1), nil
}

type versatilityFactor struct{}

func (versatilityFactor) Name() string { return FactorVersatility }

func (versatilityFactor) Score(e *types.Employee, _ *types.RoleRequirement) (float64, error) {
	distinct := make(map[string]bool, len(e.Skills))
	for _, s := range e.Skills {
		distinct[s.SkillID] = true
	}
	return math.Min(float64(len(distinct))/versatilityCapCount, 1), nil
}

// corroborationFactor rewards skills confirmed by multiple sources.
type corroborationFactor struct{}

func (corroborationFactor) Name() string { return FactorCorroboration }

func (corroborationFactor) Score(e *types.Employee, _ *types.RoleRequirement) (float64, error) {
	if len(e.Skills) == 0 {
		return 0, nil
	}
	total := 0.0
	for _, s := range e.Skills {
		total += math.Min(float64(s.SourceCount)/corroborationCapCount, 1)
	}
	return total / float64(len(e.Skills)), nil
}
