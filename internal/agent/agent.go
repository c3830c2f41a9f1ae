// Package agent provides the stateless evaluators that score candidates on
// behalf of the orchestrators. An agent is fully described by its id and its
// weight vector; it holds no mutable state between evaluations.
package agent

import (
	"fmt"
	"os"
	"sort"

	"github.com/jonathan/talent-allocator/internal/scoring"
	"github.com/jonathan/talent-allocator/internal/types"
)

// RolePick is a role agent's single best candidate within its partition.
type RolePick struct {
	EmployeeID   string
	EmployeeName string
	Score        float64
}

// RoleAgent evaluates a disjoint partition of the employee pool against one
// role requirement.
type RoleAgent struct {
	ID    string
	model *scoring.RoleModel
}

// NewRoleAgent constructs a role agent from a validated weight vector.
// Passing no factors installs the default factor set.
func NewRoleAgent(id string, weights *types.AgentWeights, factors ...scoring.Factor) (*RoleAgent, error) {
	model, err := scoring.NewRoleModel(weights, factors...)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", id, err)
	}
	return &RoleAgent{ID: id, model: model}, nil
}

// BestCandidate scores every employee in the agent's partition and returns
// the single best pick. A scoring failure drops that candidate only; it never
// aborts the whole evaluation. The second return is false when no candidate
// could be scored.
func (a *RoleAgent) BestCandidate(partition []types.Employee, role *types.RoleRequirement) (*RolePick, bool) {
	var best *RolePick
	for i := range partition {
		employee := &partition[i]
		score, err := a.model.Score(employee, role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: agent %s dropped candidate %s: %v\n", a.ID, employee.ID, err)
			continue
		}
		if best == nil || score > best.Score {
			best = &RolePick{
				EmployeeID:   employee.ID,
				EmployeeName: employee.Name,
				Score:        score,
			}
		}
	}
	return best, best != nil
}

// CertificateAgent ranks the full certificate set against a career path.
// Certificate agents never partition; every agent sees every candidate.
type CertificateAgent struct {
	ID    string
	model *scoring.CertificateModel
}

// NewCertificateAgent constructs a certificate agent from a validated weight
// vector, typically one produced by Perturb.
func NewCertificateAgent(id string, weights *types.AgentWeights) (*CertificateAgent, error) {
	model, err := scoring.NewCertificateModel(weights)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", id, err)
	}
	return &CertificateAgent{ID: id, model: model}, nil
}

// RankAll scores every certificate and returns the full list sorted by score
// descending.
func (a *CertificateAgent) RankAll(certs []types.Certificate, path *types.CareerPath, learner *scoring.LearnerContext) []types.CertificateRanking {
	rankings := make([]types.CertificateRanking, 0, len(certs))
	for i := range certs {
		rankings = append(rankings, a.model.Rank(&certs[i], path, learner))
	}

	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
	return rankings
}

// TotalScore sums a ranking list's scores; the ensemble uses it as the
// agent's total-optimization score.
func TotalScore(rankings []types.CertificateRanking) float64 {
	total := 0.0
	for _, r := range rankings {
		total += r.Score
	}
	return total
}
