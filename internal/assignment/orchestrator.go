// Package assignment orchestrates the role-assignment simulation: roles are
// processed strictly sequentially, while each role's candidate partitions are
// evaluated by agents running concurrently.
package assignment

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-allocator/internal/agent"
	"github.com/jonathan/talent-allocator/internal/partition"
	"github.com/jonathan/talent-allocator/internal/provider"
	"github.com/jonathan/talent-allocator/internal/runcache"
	"github.com/jonathan/talent-allocator/internal/scoring"
	"github.com/jonathan/talent-allocator/internal/types"
)

// RoleState tracks where a role sits in the assignment state machine.
type RoleState string

// Role states, in processing order.
const (
	StatePending    RoleState = "PENDING_ROLES"
	StateProcessing RoleState = "PROCESSING_ROLE"
	StateAssigned   RoleState = "ASSIGNED"
	StateSkipped    RoleState = "SKIPPED"
	StateDone       RoleState = "DONE"
)

// defaultAgentTimeout bounds a single agent's evaluation of its partition.
// A timed-out agent is treated as a failed group, never as a failed run.
const defaultAgentTimeout = 30 * time.Second

// ProgressEvent reports a role transitioning through the state machine.
type ProgressEvent struct {
	RoleID     string    `json:"role_id"`
	RoleName   string    `json:"role_name"`
	State      RoleState `json:"state"`
	EmployeeID string    `json:"employee_id,omitempty"`
	Score      float64   `json:"score,omitempty"`
}

// ProgressCallback receives state-machine transitions during a run.
type ProgressCallback func(event ProgressEvent)

// Options configures a role-assignment run.
type Options struct {
	Weights      *types.AgentWeights // nil installs DefaultRoleWeights
	Factors      []scoring.Factor    // nil installs the default factor set
	Seed         int64               // 0 seeds from the clock
	AgentTimeout time.Duration       // 0 uses defaultAgentTimeout
	OnProgress   ProgressCallback
}

// Orchestrator runs role-assignment simulations against a data provider.
type Orchestrator struct {
	provider provider.DataProvider
	opts     Options
}

// NewOrchestrator builds an orchestrator. The provider is required.
func NewOrchestrator(p provider.DataProvider, opts Options) (*Orchestrator, error) {
	if p == nil {
		return nil, &types.ConfigurationError{Field: "provider", Message: "data provider is required"}
	}
	if opts.Weights == nil {
		weights, err := scoring.DefaultRoleWeights()
		if err != nil {
			return nil, err
		}
		opts.Weights = weights
	}
	if opts.AgentTimeout <= 0 {
		opts.AgentTimeout = defaultAgentTimeout
	}
	return &Orchestrator{provider: p, opts: opts}, nil
}

// AssignRoles processes a project's open roles sequentially, assigning each
// to at most one employee and each employee to at most one role. Provider
// failures while loading the run degrade to an empty result list; individual
// candidate or group failures only shrink the pool for that decision.
func (o *Orchestrator) AssignRoles(ctx context.Context, projectID string) []types.AssignmentResult {
	seed := o.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // simulation shuffle, not cryptography

	cache := runcache.New()

	roles, candidates, err := o.loadRun(ctx, cache, projectID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: role assignment aborted: %v\n", err)
		return []types.AssignmentResult{}
	}

	for i := range roles {
		o.emit(ProgressEvent{RoleID: roles[i].ID, RoleName: roles[i].Name, State: StatePending})
	}

	assigned := make(map[string]bool)
	results := make([]types.AssignmentResult, 0, len(roles))

	for i := range roles {
		role := &roles[i]
		o.emit(ProgressEvent{RoleID: role.ID, RoleName: role.Name, State: StateProcessing})

		pool := availablePool(candidates, assigned)
		if len(pool) == 0 {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", &NoCandidateError{RoleID: role.ID, RoleName: role.Name})
			o.emit(ProgressEvent{RoleID: role.ID, RoleName: role.Name, State: StateSkipped})
			continue
		}

		winner, err := o.evaluateRole(ctx, role, pool, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			o.emit(ProgressEvent{RoleID: role.ID, RoleName: role.Name, State: StateSkipped})
			continue
		}

		assigned[winner.EmployeeID] = true
		results = append(results, *winner)
		o.emit(ProgressEvent{
			RoleID:     role.ID,
			RoleName:   role.Name,
			State:      StateAssigned,
			EmployeeID: winner.EmployeeID,
			Score:      winner.Score,
		})

		if err := o.provider.PersistAssignment(ctx, projectID, winner.EmployeeID, role.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to persist assignment for role %s: %v\n", role.ID, err)
		}

		// Every employee placed: the remaining roles can only be skipped.
		if len(assigned) == len(candidates) {
			for j := i + 1; j < len(roles); j++ {
				o.emit(ProgressEvent{RoleID: roles[j].ID, RoleName: roles[j].Name, State: StateSkipped})
			}
			break
		}
	}

	o.emit(ProgressEvent{State: StateDone})
	return results
}

// loadRun fetches roles and the enriched candidate pool through the per-run
// cache, so repeated lookups inside one run hit the provider once.
func (o *Orchestrator) loadRun(ctx context.Context, cache *runcache.Cache, projectID string) ([]types.RoleRequirement, []types.Employee, error) {
	rolesAny, err := cache.GetOrFetch(ctx, "roles:"+projectID, func(ctx context.Context) (any, error) {
		return o.provider.OpenRoles(ctx, projectID)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading open roles: %w", err)
	}
	roles := rolesAny.([]types.RoleRequirement)

	candidatesAny, err := cache.GetOrFetch(ctx, "candidates", func(ctx context.Context) (any, error) {
		return o.provider.AvailableCandidates(ctx)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading candidates: %w", err)
	}
	candidates := candidatesAny.([]types.Employee)

	for i := range roles {
		if len(roles[i].Skills) > 0 {
			continue
		}
		role := &roles[i]
		skillsAny, err := cache.GetOrFetch(ctx, "role_skills:"+role.ID, func(ctx context.Context) (any, error) {
			return o.provider.RequiredSkillsForRole(ctx, role.ID)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("loading skills for role %s: %w", role.ID, err)
		}
		role.Skills = skillsAny.([]types.SkillRequirement)
	}

	for i := range candidates {
		if err := o.enrichCandidate(ctx, cache, &candidates[i]); err != nil {
			return nil, nil, err
		}
	}

	return roles, candidates, nil
}

// enrichCandidate fills in skills, project history, and role history when
// the provider's candidate listing came back shallow.
func (o *Orchestrator) enrichCandidate(ctx context.Context, cache *runcache.Cache, e *types.Employee) error {
	if len(e.Skills) == 0 {
		skillsAny, err := cache.GetOrFetch(ctx, "candidate_skills:"+e.ID, func(ctx context.Context) (any, error) {
			return o.provider.CandidateSkills(ctx, e.ID)
		})
		if err != nil {
			return fmt.Errorf("loading skills for candidate %s: %w", e.ID, err)
		}
		e.Skills = skillsAny.([]types.EmployeeSkill)
	}

	if len(e.ProjectHistory) == 0 {
		projectsAny, err := cache.GetOrFetch(ctx, "candidate_projects:"+e.ID, func(ctx context.Context) (any, error) {
			return o.provider.CandidateProjects(ctx, e.ID)
		})
		if err != nil {
			return fmt.Errorf("loading projects for candidate %s: %w", e.ID, err)
		}
		e.ProjectHistory = projectsAny.([]types.EmployeeProjectRecord)
	}

	if len(e.RoleHistory) == 0 {
		historyAny, err := cache.GetOrFetch(ctx, "candidate_roles:"+e.ID, func(ctx context.Context) (any, error) {
			return o.provider.CandidateRoleHistory(ctx, e.ID)
		})
		if err != nil {
			return fmt.Errorf("loading role history for candidate %s: %w", e.ID, err)
		}
		e.RoleHistory = historyAny.([]types.EmployeeRoleRecord)
	}

	return nil
}

// evaluateRole partitions the pool, runs one agent per partition behind a
// single barrier, and merges the agents' best picks into the role's winner.
func (o *Orchestrator) evaluateRole(ctx context.Context, role *types.RoleRequirement, pool []types.Employee, rng *rand.Rand) (*types.AssignmentResult, error) {
	agentCount := partition.AgentCount(len(pool))
	groups := partition.Split(pool, agentCount, rng)

	agents := make([]*agent.RoleAgent, agentCount)
	for i := 0; i < agentCount; i++ {
		a, err := agent.NewRoleAgent(fmt.Sprintf("role-agent-%d", i), o.opts.Weights, o.opts.Factors...)
		if err != nil {
			return nil, err
		}
		agents[i] = a
	}

	picks := make([]*agent.RolePick, agentCount)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < agentCount; i++ {
		i := i
		g.Go(func() error {
			pick, err := o.runAgent(gctx, agents[i], groups[i], role)
			if err != nil {
				// A failed group is excluded, never fatal.
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				return nil
			}
			picks[i] = pick
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergePicks(role, picks)
}

// runAgent evaluates one partition under the per-agent deadline. Scoring is
// CPU-bound and cannot be interrupted, so a timeout abandons the result and
// reports the group as failed.
func (o *Orchestrator) runAgent(ctx context.Context, a *agent.RoleAgent, group []types.Employee, role *types.RoleRequirement) (*agent.RolePick, error) {
	type outcome struct {
		pick *agent.RolePick
		ok   bool
	}

	done := make(chan outcome, 1)
	panicked := make(chan any, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				panicked <- r
			}
		}()
		pick, ok := a.BestCandidate(group, role)
		done <- outcome{pick: pick, ok: ok}
	}()

	timer := time.NewTimer(o.opts.AgentTimeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if !out.ok {
			return nil, nil
		}
		return out.pick, nil
	case r := <-panicked:
		return nil, &GroupError{AgentID: a.ID, RoleID: role.ID, Cause: fmt.Errorf("panic: %v", r)}
	case <-timer.C:
		return nil, &GroupError{AgentID: a.ID, RoleID: role.ID, Cause: context.DeadlineExceeded}
	case <-ctx.Done():
		return nil, &GroupError{AgentID: a.ID, RoleID: role.ID, Cause: ctx.Err()}
	}
}

// mergePicks groups agent picks by candidate id, averages duplicate scores,
// and selects the maximum average. Under disjoint partitioning each group
// degenerates to a single vote; the averaging shape is kept for overlapping
// sampling strategies.
func mergePicks(role *types.RoleRequirement, picks []*agent.RolePick) (*types.AssignmentResult, error) {
	type vote struct {
		name  string
		total float64
		count int
	}

	votes := make(map[string]*vote)
	order := make([]string, 0, len(picks))
	for _, pick := range picks {
		if pick == nil {
			continue
		}
		v, ok := votes[pick.EmployeeID]
		if !ok {
			v = &vote{name: pick.EmployeeName}
			votes[pick.EmployeeID] = v
			order = append(order, pick.EmployeeID)
		}
		v.total += pick.Score
		v.count++
	}

	if len(votes) == 0 {
		return nil, &NoCandidateError{RoleID: role.ID, RoleName: role.Name}
	}

	sort.Strings(order)
	var winner *types.AssignmentResult
	for _, employeeID := range order {
		v := votes[employeeID]
		avg := v.total / float64(v.count)
		if winner == nil || avg > winner.Score {
			winner = &types.AssignmentResult{
				RoleID:       role.ID,
				RoleName:     role.Name,
				EmployeeID:   employeeID,
				EmployeeName: v.name,
				Score:        avg,
				Evaluations:  v.count,
			}
		}
	}
	return winner, nil
}

func availablePool(candidates []types.Employee, assigned map[string]bool) []types.Employee {
	pool := make([]types.Employee, 0, len(candidates))
	for _, c := range candidates {
		if !assigned[c.ID] {
			pool = append(pool, c)
		}
	}
	return pool
}

func (o *Orchestrator) emit(event ProgressEvent) {
	if o.opts.OnProgress != nil {
		o.opts.OnProgress(event)
	}
}
