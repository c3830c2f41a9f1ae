// Package provider defines the data-provider boundary the allocation engines
// consume. Implementations execute queries against a backing store; the core
// only distinguishes "data returned" from "error propagated".
package provider

import (
	"context"

	"github.com/jonathan/talent-allocator/internal/types"
)

// DataProvider is the external persistence boundary for both allocation
// domains. Every operation takes a context and may fail; retries belong to
// the provider side of the boundary (see WithRetry), never to the core.
type DataProvider interface {
	// Role-assignment domain.
	OpenRoles(ctx context.Context, projectID string) ([]types.RoleRequirement, error)
	AvailableCandidates(ctx context.Context) ([]types.Employee, error)
	CandidateProjects(ctx context.Context, employeeID string) ([]types.EmployeeProjectRecord, error)
	CandidateSkills(ctx context.Context, employeeID string) ([]types.EmployeeSkill, error)
	RequiredSkillsForRole(ctx context.Context, roleID string) ([]types.SkillRequirement, error)
	CandidateRoleHistory(ctx context.Context, employeeID string) ([]types.EmployeeRoleRecord, error)
	RoleDetails(ctx context.Context, roleID string) (*types.RoleRequirement, error)

	// Certificate-path domain.
	AvailableCertificates(ctx context.Context) ([]types.Certificate, error)
	CareerPaths(ctx context.Context) ([]types.CareerPath, error)
	HeldCertificates(ctx context.Context, userID string) ([]string, error)
	UserSkillLevels(ctx context.Context, userID string) (map[string]int, error)
	MarketDemand(ctx context.Context, skillIDs []string) (map[string]float64, error)
	ExistingLevels(ctx context.Context, pathID string) ([]types.LearningLevel, error)

	// Persistence.
	PersistAssignment(ctx context.Context, projectID, employeeID, roleID string) error
	PersistPathOptimization(ctx context.Context, result *types.PathOptimizationResult) error
}
