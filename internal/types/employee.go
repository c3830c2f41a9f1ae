// Package types provides type definitions for structured data used throughout the talent-allocator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Employee represents an available candidate loaded at the start of a
// simulation run. Employees are read-only for the duration of scoring.
type Employee struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	TenureYears       float64                 `json:"tenure_years"`
	CompletedProjects int                     `json:"completed_projects"`
	Skills            []EmployeeSkill         `json:"skills"`
	RoleHistory       []EmployeeRoleRecord    `json:"role_history,omitempty"`
	ProjectHistory    []EmployeeProjectRecord `json:"project_history,omitempty"`
}

// EmployeeSkill represents a single validated skill experience record.
type EmployeeSkill struct {
	SkillID          string `json:"skill_id"`
	Level            int    `json:"level"` // 1-3
	ValidationSource string `json:"validation_source,omitempty"`
	SourceCount      int    `json:"source_count,omitempty"`
}

// EmployeeRoleRecord represents a role the employee has held before.
type EmployeeRoleRecord struct {
	RoleName  string `json:"role_name"`
	ProjectID string `json:"project_id,omitempty"`
	Months    int    `json:"months,omitempty"`
}

// EmployeeProjectRecord represents a past project engagement.
type EmployeeProjectRecord struct {
	ProjectID string `json:"project_id"`
	ClientID  string `json:"client_id,omitempty"`
	Completed bool   `json:"completed"`
}

// SkillLevel returns the employee's level for a skill, or 0 when the
// skill is not present.
func (e *Employee) SkillLevel(skillID string) int {
	for _, s := range e.Skills {
		if s.SkillID == skillID {
			return s.Level
		}
	}
	return 0
}

// HasWorkedForClient reports whether the employee has any project history
// with the given client.
func (e *Employee) HasWorkedForClient(clientID string) bool {
	if clientID == "" {
		return false
	}
	for _, p := range e.ProjectHistory {
		if p.ClientID == clientID {
			return true
		}
	}
	return false
}
