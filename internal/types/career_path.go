package types

// CareerPath represents the target skill profile a learning path must satisfy.
type CareerPath struct {
	ID          string              `json:"id"`
	TargetLabel string              `json:"target_label"`
	Skills      []RequiredPathSkill `json:"skills"`
}

// RequiredPathSkill represents one weighted, prioritized skill demand on a path.
type RequiredPathSkill struct {
	SkillID       string  `json:"skill_id"`
	RequiredLevel int     `json:"required_level"`
	Weight        float64 `json:"weight"`
	Priority      int     `json:"priority"` // higher means more career impact
}

// LearningLevel represents an ordered difficulty bucket of certificates.
type LearningLevel struct {
	Number             int      `json:"number"` // 1..N
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	CertificateIDs     []string `json:"certificate_ids"`
	PrerequisiteLevels []int    `json:"prerequisite_levels,omitempty"`
}

// PathOptimizationResult represents the outcome of one certificate path run.
type PathOptimizationResult struct {
	PathID         string          `json:"path_id"`
	PathName       string          `json:"path_name"`
	Levels         []LearningLevel `json:"levels"`
	Score          float64         `json:"score"`
	Evaluations    int             `json:"evaluations"`
	EstimatedHours float64         `json:"estimated_hours"`
	EstimatedCost  float64         `json:"estimated_cost"`
}

// SkillByID returns the required path skill with the given id, or nil.
func (p *CareerPath) SkillByID(skillID string) *RequiredPathSkill {
	for i := range p.Skills {
		if p.Skills[i].SkillID == skillID {
			return &p.Skills[i]
		}
	}
	return nil
}
