// Package pathopt orchestrates certificate path optimization: a true
// ensemble of perturbed agents ranks the full certificate set concurrently,
// consensus filtering selects the winners, and the levels engine places them
// into an ordered learning path.
package pathopt

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-allocator/internal/agent"
	"github.com/jonathan/talent-allocator/internal/levels"
	"github.com/jonathan/talent-allocator/internal/provider"
	"github.com/jonathan/talent-allocator/internal/runcache"
	"github.com/jonathan/talent-allocator/internal/scoring"
	"github.com/jonathan/talent-allocator/internal/types"
)

const (
	// DefaultAgentCount is the ensemble size.
	DefaultAgentCount = 10

	// consensusBonusPerCert and consensusBonusCap shape the aggregate-score
	// bonus for consensus breadth.
	consensusBonusPerCert = 0.02
	consensusBonusCap     = 0.1
)

// Options configures a path-optimization run.
type Options struct {
	AgentCount  int                 // 0 uses DefaultAgentCount
	Weights     *types.AgentWeights // base vector; nil installs DefaultCertificateWeights
	Seed        int64               // 0 seeds from the clock
	LevelCount  int                 // 0 uses levels.DefaultLevelCount
	MaxPerLevel int                 // 0 uses levels.DefaultMaxPerLevel
	MinScore    float64             // 0 uses levels.DefaultMinScore
}

// Optimizer runs certificate path optimizations against a data provider.
type Optimizer struct {
	provider provider.DataProvider
	opts     Options
}

// NewOptimizer builds an optimizer. The provider is required.
func NewOptimizer(p provider.DataProvider, opts Options) (*Optimizer, error) {
	if p == nil {
		return nil, &types.ConfigurationError{Field: "provider", Message: "data provider is required"}
	}
	if opts.AgentCount <= 0 {
		opts.AgentCount = DefaultAgentCount
	}
	if opts.Weights == nil {
		weights, err := scoring.DefaultCertificateWeights()
		if err != nil {
			return nil, err
		}
		opts.Weights = weights
	}
	if opts.LevelCount <= 0 {
		opts.LevelCount = levels.DefaultLevelCount
	}
	if opts.MaxPerLevel <= 0 {
		opts.MaxPerLevel = levels.DefaultMaxPerLevel
	}
	if opts.MinScore <= 0 {
		opts.MinScore = levels.DefaultMinScore
	}
	return &Optimizer{provider: p, opts: opts}, nil
}

// OptimizePath builds an optimized learning path for a user. When the path
// already has levels the call is a successful no-op (no scoring, no persist)
// returning the existing levels with zero evaluations. Unlike role
// assignment, provider failures here propagate to the caller.
func (o *Optimizer) OptimizePath(ctx context.Context, pathID, userID string) (*types.PathOptimizationResult, error) {
	cache := runcache.New()

	existing, err := o.provider.ExistingLevels(ctx, pathID)
	if err != nil {
		return nil, fmt.Errorf("checking existing levels: %w", err)
	}
	if len(existing) > 0 {
		return &types.PathOptimizationResult{
			PathID: pathID,
			Levels: existing,
		}, nil
	}

	path, certs, learner, err := o.loadRun(ctx, cache, pathID, userID)
	if err != nil {
		return nil, err
	}

	proposals, evaluations, agentTotals, err := o.runEnsemble(ctx, certs, path, learner)
	if err != nil {
		return nil, err
	}

	consensus := buildConsensus(proposals, ConsensusThreshold)

	engine, err := levels.NewEngine(o.opts.LevelCount, o.opts.MaxPerLevel, o.opts.MinScore)
	if err != nil {
		return nil, err
	}
	placed := engine.Assign(consensus)

	result := &types.PathOptimizationResult{
		PathID:      path.ID,
		PathName:    path.TargetLabel,
		Levels:      placed,
		Score:       aggregateScore(agentTotals, len(consensus)),
		Evaluations: evaluations,
	}
	result.EstimatedHours, result.EstimatedCost = estimateTotals(placed, certs)

	if err := o.provider.PersistPathOptimization(ctx, result); err != nil {
		return nil, fmt.Errorf("persisting path optimization: %w", err)
	}
	return result, nil
}

// loadRun gathers the path, the candidate certificates (minus those the user
// already holds), and the learner context, deduplicating lookups through the
// per-run cache. Optional provider signals degrade to empty maps.
func (o *Optimizer) loadRun(ctx context.Context, cache *runcache.Cache, pathID, userID string) (*types.CareerPath, []types.Certificate, *scoring.LearnerContext, error) {
	pathsAny, err := cache.GetOrFetch(ctx, "career_paths", func(ctx context.Context) (any, error) {
		return o.provider.CareerPaths(ctx)
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading career paths: %w", err)
	}

	var path *types.CareerPath
	for _, p := range pathsAny.([]types.CareerPath) {
		if p.ID == pathID {
			path = &p
			break
		}
	}
	if path == nil {
		return nil, nil, nil, fmt.Errorf("career path not found: %s", pathID)
	}

	certsAny, err := cache.GetOrFetch(ctx, "certificates", func(ctx context.Context) (any, error) {
		return o.provider.AvailableCertificates(ctx)
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading certificates: %w", err)
	}

	heldAny, err := cache.GetOrFetch(ctx, "held:"+userID, func(ctx context.Context) (any, error) {
		return o.provider.HeldCertificates(ctx, userID)
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading held certificates: %w", err)
	}
	held := make(map[string]bool)
	for _, id := range heldAny.([]string) {
		held[id] = true
	}

	certs := make([]types.Certificate, 0)
	for _, c := range certsAny.([]types.Certificate) {
		if !held[c.ID] {
			certs = append(certs, c)
		}
	}

	skillLevels, err := o.provider.UserSkillLevels(ctx, userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: user skill levels unavailable, assuming none: %v\n", err)
		skillLevels = map[string]int{}
	}
	if skillLevels == nil {
		skillLevels = map[string]int{}
	}

	skillIDs := make([]string, 0, len(path.Skills))
	for _, s := range path.Skills {
		skillIDs = append(skillIDs, s.SkillID)
	}
	demand, err := o.provider.MarketDemand(ctx, skillIDs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: market demand unavailable, assuming neutral: %v\n", err)
		demand = map[string]float64{}
	}
	if demand == nil {
		demand = map[string]float64{}
	}

	learner := &scoring.LearnerContext{
		SkillLevels:  skillLevels,
		MarketDemand: demand,
		LevelCount:   o.opts.LevelCount,
	}
	return path, certs, learner, nil
}

// runEnsemble runs every perturbed agent over the full certificate set behind
// one barrier and returns each agent's proposals (rankings at or above the
// minimum score), the total evaluation count, and per-agent total scores.
func (o *Optimizer) runEnsemble(ctx context.Context, certs []types.Certificate, path *types.CareerPath, learner *scoring.LearnerContext) ([][]types.CertificateRanking, int, []float64, error) {
	seed := o.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // weight jitter, not cryptography

	agents := make([]*agent.CertificateAgent, o.opts.AgentCount)
	for i := 0; i < o.opts.AgentCount; i++ {
		weights, err := agent.Perturb(o.opts.Weights, i, rng)
		if err != nil {
			return nil, 0, nil, err
		}
		a, err := agent.NewCertificateAgent(fmt.Sprintf("cert-agent-%d", i), weights)
		if err != nil {
			return nil, 0, nil, err
		}
		agents[i] = a
	}

	proposals := make([][]types.CertificateRanking, o.opts.AgentCount)
	totals := make([]float64, o.opts.AgentCount)
	evaluations := 0

	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < o.opts.AgentCount; i++ {
		i := i
		g.Go(func() error {
			rankings := agents[i].RankAll(certs, path, learner)

			kept := make([]types.CertificateRanking, 0, len(rankings))
			total := 0.0
			for _, r := range rankings {
				total += r.Score
				if r.Score >= o.opts.MinScore {
					kept = append(kept, r)
				}
			}
			proposals[i] = kept
			if len(rankings) > 0 {
				totals[i] = total / float64(len(rankings))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, nil, err
	}

	evaluations = o.opts.AgentCount * len(certs)
	return proposals, evaluations, totals, nil
}

// aggregateScore is the mean of all agents' total-optimization scores plus a
// small bonus proportional to consensus breadth, capped at +0.1.
func aggregateScore(agentTotals []float64, consensusCount int) float64 {
	if len(agentTotals) == 0 {
		return 0
	}
	total := 0.0
	for _, t := range agentTotals {
		total += t
	}
	mean := total / float64(len(agentTotals))

	bonus := consensusBonusPerCert * float64(consensusCount)
	if bonus > consensusBonusCap {
		bonus = consensusBonusCap
	}
	return mean + bonus
}

// estimateTotals sums duration and cost over every placed certificate.
func estimateTotals(placed []types.LearningLevel, certs []types.Certificate) (float64, float64) {
	byID := make(map[string]*types.Certificate, len(certs))
	for i := range certs {
		byID[certs[i].ID] = &certs[i]
	}

	hours := 0.0
	cost := 0.0
	for _, level := range placed {
		for _, id := range level.CertificateIDs {
			if c, ok := byID[id]; ok {
				hours += c.DurationHours
				cost += c.Cost
			}
		}
	}
	return hours, cost
}
