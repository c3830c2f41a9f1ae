package types

// Certificate represents a learning certificate available for path placement.
type Certificate struct {
	ID            string             `json:"id"`
	CourseName    string             `json:"course_name"`
	Difficulty    float64            `json:"difficulty"` // 1-5
	DurationHours float64            `json:"duration_hours"`
	Cost          float64            `json:"cost"`
	Skills        []CertificateSkill `json:"skills"`
}

// CertificateSkill represents one skill taught (or required) by a certificate.
type CertificateSkill struct {
	SkillID        string `json:"skill_id"`
	Level          int    `json:"level"`
	IsPrerequisite bool   `json:"is_prerequisite"`
}

// CertificateRanking represents one agent's scored proposal for a certificate.
type CertificateRanking struct {
	Certificate    Certificate `json:"certificate"`
	Score          float64     `json:"score"`
	Coverage       float64     `json:"coverage"`
	Difficulty     float64     `json:"difficulty"`
	RelevanceCount int         `json:"relevance_count"`
	SuggestedLevel int         `json:"suggested_level"`
}

// TaughtSkills returns the certificate's non-prerequisite skills.
func (c *Certificate) TaughtSkills() []CertificateSkill {
	taught := make([]CertificateSkill, 0, len(c.Skills))
	for _, s := range c.Skills {
		if !s.IsPrerequisite {
			taught = append(taught, s)
		}
	}
	return taught
}

// PrerequisiteSkills returns the certificate's prerequisite skills.
func (c *Certificate) PrerequisiteSkills() []CertificateSkill {
	prereqs := make([]CertificateSkill, 0)
	for _, s := range c.Skills {
		if s.IsPrerequisite {
			prereqs = append(prereqs, s)
		}
	}
	return prereqs
}
