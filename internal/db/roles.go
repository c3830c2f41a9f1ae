package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talent-allocator/internal/types"
)

// OpenRoles retrieves the unfilled roles for a project, in provider order.
func (db *DB) OpenRoles(ctx context.Context, projectID string) ([]types.RoleRequirement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, project_id, COALESCE(client_id, '')
		 FROM roles
		 WHERE project_id = $1 AND filled_by IS NULL
		 ORDER BY created_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list open roles: %w", err)
	}
	defer rows.Close()

	var roles []types.RoleRequirement
	for rows.Next() {
		var role types.RoleRequirement
		if err := rows.Scan(&role.ID, &role.Name, &role.ProjectID, &role.ClientID); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// RoleDetails retrieves a single role with its skill requirements, or nil
// when the role does not exist.
func (db *DB) RoleDetails(ctx context.Context, roleID string) (*types.RoleRequirement, error) {
	var role types.RoleRequirement
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, project_id, COALESCE(client_id, '') FROM roles WHERE id = $1`,
		roleID,
	).Scan(&role.ID, &role.Name, &role.ProjectID, &role.ClientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	role.Skills, err = db.RequiredSkillsForRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// RequiredSkillsForRole retrieves the ordered skill requirements for a role.
func (db *DB) RequiredSkillsForRole(ctx context.Context, roleID string) ([]types.SkillRequirement, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_id, required_level, weight
		 FROM role_skills
		 WHERE role_id = $1
		 ORDER BY weight DESC, skill_id ASC`,
		roleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills for role %s: %w", roleID, err)
	}
	defer rows.Close()

	var skills []types.SkillRequirement
	for rows.Next() {
		var s types.SkillRequirement
		if err := rows.Scan(&s.SkillID, &s.RequiredLevel, &s.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan skill requirement: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// AvailableCandidates retrieves employees not currently assigned to a role.
func (db *DB) AvailableCandidates(ctx context.Context) ([]types.Employee, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, tenure_years, completed_projects
		 FROM employees
		 WHERE available = TRUE
		 ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var employees []types.Employee
	for rows.Next() {
		var e types.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.TenureYears, &e.CompletedProjects); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// CandidateSkills retrieves the validated skill records for an employee.
func (db *DB) CandidateSkills(ctx context.Context, employeeID string) ([]types.EmployeeSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_id, level, COALESCE(validation_source, ''), COALESCE(source_count, 0)
		 FROM employee_skills
		 WHERE employee_id = $1`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills for candidate %s: %w", employeeID, err)
	}
	defer rows.Close()

	var skills []types.EmployeeSkill
	for rows.Next() {
		var s types.EmployeeSkill
		if err := rows.Scan(&s.SkillID, &s.Level, &s.ValidationSource, &s.SourceCount); err != nil {
			return nil, fmt.Errorf("failed to scan employee skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// CandidateProjects retrieves an employee's project history.
func (db *DB) CandidateProjects(ctx context.Context, employeeID string) ([]types.EmployeeProjectRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT project_id, COALESCE(client_id, ''), completed
		 FROM employee_projects
		 WHERE employee_id = $1`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for candidate %s: %w", employeeID, err)
	}
	defer rows.Close()

	var projects []types.EmployeeProjectRecord
	for rows.Next() {
		var p types.EmployeeProjectRecord
		if err := rows.Scan(&p.ProjectID, &p.ClientID, &p.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan project record: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CandidateRoleHistory retrieves the roles an employee has held before.
func (db *DB) CandidateRoleHistory(ctx context.Context, employeeID string) ([]types.EmployeeRoleRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT role_name, COALESCE(project_id, ''), COALESCE(months, 0)
		 FROM employee_roles
		 WHERE employee_id = $1`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list role history for candidate %s: %w", employeeID, err)
	}
	defer rows.Close()

	var history []types.EmployeeRoleRecord
	for rows.Next() {
		var r types.EmployeeRoleRecord
		if err := rows.Scan(&r.RoleName, &r.ProjectID, &r.Months); err != nil {
			return nil, fmt.Errorf("failed to scan role record: %w", err)
		}
		history = append(history, r)
	}
	return history, rows.Err()
}

// PersistAssignment records a role assignment and marks the employee taken.
func (db *DB) PersistAssignment(ctx context.Context, projectID, employeeID, roleID string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin assignment transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx,
		`UPDATE roles SET filled_by = $1, filled_at = NOW() WHERE id = $2 AND project_id = $3`,
		employeeID, roleID, projectID,
	); err != nil {
		return fmt.Errorf("failed to fill role %s: %w", roleID, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE employees SET available = FALSE WHERE id = $1`,
		employeeID,
	); err != nil {
		return fmt.Errorf("failed to mark employee %s assigned: %w", employeeID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}
	return nil
}
