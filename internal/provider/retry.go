package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/talent-allocator/internal/types"
)

// Default retry policy for provider operations.
const (
	DefaultMaxAttempts = 3
	DefaultBackoffBase = 200 * time.Millisecond
)

// retryProvider decorates a DataProvider with bounded attempts and linear
// backoff. Persistence operations are retried too; the backing store is
// expected to make writes idempotent.
type retryProvider struct {
	inner       DataProvider
	maxAttempts int
	backoffBase time.Duration
}

// WithRetry wraps a provider so every operation is attempted up to
// maxAttempts times, sleeping backoffBase*attempt between attempts.
// Non-positive arguments fall back to the defaults.
func WithRetry(inner DataProvider, maxAttempts int, backoffBase time.Duration) DataProvider {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoffBase <= 0 {
		backoffBase = DefaultBackoffBase
	}
	return &retryProvider{inner: inner, maxAttempts: maxAttempts, backoffBase: backoffBase}
}

// retry runs op with linear backoff, honoring context cancellation between
// attempts.
func retry[T any](ctx context.Context, p *retryProvider, name string, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%s: %w", name, ctx.Err())
		case <-time.After(p.backoffBase * time.Duration(attempt)):
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", name, p.maxAttempts, lastErr)
}

func (p *retryProvider) OpenRoles(ctx context.Context, projectID string) ([]types.RoleRequirement, error) {
	return retry(ctx, p, "open roles", func(ctx context.Context) ([]types.RoleRequirement, error) {
		return p.inner.OpenRoles(ctx, projectID)
	})
}

func (p *retryProvider) AvailableCandidates(ctx context.Context) ([]types.Employee, error) {
	return retry(ctx, p, "available candidates", func(ctx context.Context) ([]types.Employee, error) {
		return p.inner.AvailableCandidates(ctx)
	})
}

func (p *retryProvider) CandidateProjects(ctx context.Context, employeeID string) ([]types.EmployeeProjectRecord, error) {
	return retry(ctx, p, "candidate projects", func(ctx context.Context) ([]types.EmployeeProjectRecord, error) {
		return p.inner.CandidateProjects(ctx, employeeID)
	})
}

func (p *retryProvider) CandidateSkills(ctx context.Context, employeeID string) ([]types.EmployeeSkill, error) {
	return retry(ctx, p, "candidate skills", func(ctx context.Context) ([]types.EmployeeSkill, error) {
		return p.inner.CandidateSkills(ctx, employeeID)
	})
}

func (p *retryProvider) RequiredSkillsForRole(ctx context.Context, roleID string) ([]types.SkillRequirement, error) {
	return retry(ctx, p, "required skills for role", func(ctx context.Context) ([]types.SkillRequirement, error) {
		return p.inner.RequiredSkillsForRole(ctx, roleID)
	})
}

func (p *retryProvider) CandidateRoleHistory(ctx context.Context, employeeID string) ([]types.EmployeeRoleRecord, error) {
	return retry(ctx, p, "candidate role history", func(ctx context.Context) ([]types.EmployeeRoleRecord, error) {
		return p.inner.CandidateRoleHistory(ctx, employeeID)
	})
}

func (p *retryProvider) RoleDetails(ctx context.Context, roleID string) (*types.RoleRequirement, error) {
	return retry(ctx, p, "role details", func(ctx context.Context) (*types.RoleRequirement, error) {
		return p.inner.RoleDetails(ctx, roleID)
	})
}

func (p *retryProvider) AvailableCertificates(ctx context.Context) ([]types.Certificate, error) {
	return retry(ctx, p, "available certificates", func(ctx context.Context) ([]types.Certificate, error) {
		return p.inner.AvailableCertificates(ctx)
	})
}

func (p *retryProvider) CareerPaths(ctx context.Context) ([]types.CareerPath, error) {
	return retry(ctx, p, "career paths", func(ctx context.Context) ([]types.CareerPath, error) {
		return p.inner.CareerPaths(ctx)
	})
}

func (p *retryProvider) HeldCertificates(ctx context.Context, userID string) ([]string, error) {
	return retry(ctx, p, "held certificates", func(ctx context.Context) ([]string, error) {
		return p.inner.HeldCertificates(ctx, userID)
	})
}

func (p *retryProvider) UserSkillLevels(ctx context.Context, userID string) (map[string]int, error) {
	return retry(ctx, p, "user skill levels", func(ctx context.Context) (map[string]int, error) {
		return p.inner.UserSkillLevels(ctx, userID)
	})
}

func (p *retryProvider) MarketDemand(ctx context.Context, skillIDs []string) (map[string]float64, error) {
	return retry(ctx, p, "market demand", func(ctx context.Context) (map[string]float64, error) {
		return p.inner.MarketDemand(ctx, skillIDs)
	})
}

func (p *retryProvider) ExistingLevels(ctx context.Context, pathID string) ([]types.LearningLevel, error) {
	return retry(ctx, p, "existing levels", func(ctx context.Context) ([]types.LearningLevel, error) {
		return p.inner.ExistingLevels(ctx, pathID)
	})
}

func (p *retryProvider) PersistAssignment(ctx context.Context, projectID, employeeID, roleID string) error {
	_, err := retry(ctx, p, "persist assignment", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.inner.PersistAssignment(ctx, projectID, employeeID, roleID)
	})
	return err
}

func (p *retryProvider) PersistPathOptimization(ctx context.Context, result *types.PathOptimizationResult) error {
	_, err := retry(ctx, p, "persist path optimization", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.inner.PersistPathOptimization(ctx, result)
	})
	return err
}
