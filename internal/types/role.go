package types

// RoleRequirement represents an open project role to be filled.
type RoleRequirement struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	ProjectID string             `json:"project_id"`
	ClientID  string             `json:"client_id,omitempty"`
	Skills    []SkillRequirement `json:"skills"`
}

// SkillRequirement represents a single weighted skill demand on a role.
type SkillRequirement struct {
	SkillID       string  `json:"skill_id"`
	RequiredLevel int     `json:"required_level"` // 1-3
	Weight        float64 `json:"weight"`
}

// AssignmentResult represents the winning employee chosen for one role.
type AssignmentResult struct {
	RoleID       string  `json:"role_id"`
	RoleName     string  `json:"role_name"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Score        float64 `json:"score"`
	Evaluations  int     `json:"evaluations"`
}
