package pathopt

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/talent-allocator/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// pathProvider serves an in-memory certificate dataset and records the
// persisted optimization result.
type pathProvider struct {
	paths        []types.CareerPath
	certificates []types.Certificate
	held         []string
	skillLevels  map[string]int
	demand       map[string]float64
	existing     []types.LearningLevel

	failExisting error
	failCerts    error
	failSkills   error
	failPersist  error

	persisted *types.PathOptimizationResult
}

func (p *pathProvider) OpenRoles(context.Context, string) ([]types.RoleRequirement, error) {
	return nil, nil
}

func (p *pathProvider) AvailableCandidates(context.Context) ([]types.Employee, error) {
	return nil, nil
}

func (p *pathProvider) CandidateProjects(context.Context, string) ([]types.EmployeeProjectRecord, error) {
	return nil, nil
}

func (p *pathProvider) CandidateSkills(context.Context, string) ([]types.EmployeeSkill, error) {
	return nil, nil
}

func (p *pathProvider) RequiredSkillsForRole(context.Context, string) ([]types.SkillRequirement, error) {
	return nil, nil
}

func (p *pathProvider) CandidateRoleHistory(context.Context, string) ([]types.EmployeeRoleRecord, error) {
	return nil, nil
}

func (p *pathProvider) RoleDetails(context.Context, string) (*types.RoleRequirement, error) {
	return nil, nil
}

func (p *pathProvider) AvailableCertificates(context.Context) ([]types.Certificate, error) {
	if p.failCerts != nil {
		return nil, p.failCerts
	}
	return p.certificates, nil
}

func (p *pathProvider) CareerPaths(context.Context) ([]types.CareerPath, error) {
	return p.paths, nil
}

func (p *pathProvider) HeldCertificates(context.Context, string) ([]string, error) {
	return p.held, nil
}

func (p *pathProvider) UserSkillLevels(context.Context, string) (map[string]int, error) {
	if p.failSkills != nil {
		return nil, p.failSkills
	}
	return p.skillLevels, nil
}

func (p *pathProvider) MarketDemand(context.Context, []string) (map[string]float64, error) {
	return p.demand, nil
}

func (p *pathProvider) ExistingLevels(context.Context, string) ([]types.LearningLevel, error) {
	if p.failExisting != nil {
		return nil, p.failExisting
	}
	return p.existing, nil
}

func (p *pathProvider) PersistAssignment(context.Context, string, string, string) error {
	return nil
}

func (p *pathProvider) PersistPathOptimization(_ context.Context, result *types.PathOptimizationResult) error {
	if p.failPersist != nil {
		return p.failPersist
	}
	p.persisted = result
	return nil
}

func testProvider() *pathProvider {
	certs := make([]types.Certificate, 8)
	for i := range certs {
		certs[i] = types.Certificate{
			ID:            fmt.Sprintf("cert-%d", i),
			CourseName:    fmt.Sprintf("Course %d", i),
			Difficulty:    float64(i%5) + 1,
			DurationHours: 40 + float64(i)*5,
			Cost:          100 * float64(i+1),
			Skills: []types.CertificateSkill{
				{SkillID: "kubernetes", Level: i%3 + 1},
				{SkillID: "terraform", Level: (i+1)%3 + 1},
			},
		}
	}

	return &pathProvider{
		paths: []types.CareerPath{{
			ID:          "path-cloud",
			TargetLabel: "Cloud Architect",
			Skills: []types.RequiredPathSkill{
				{SkillID: "kubernetes", RequiredLevel: 3, Weight: 1.0, Priority: 3},
				{SkillID: "terraform", RequiredLevel: 2, Weight: 0.8, Priority: 2},
			},
		}},
		certificates: certs,
		skillLevels:  map[string]int{"kubernetes": 1},
		demand:       map[string]float64{"kubernetes": 0.9, "terraform": 0.7},
	}
}

func TestNewOptimizer_RequiresProvider(t *testing.T) {
	_, err := NewOptimizer(nil, Options{})
	require.Error(t, err)
}

func TestOptimizePath_ProducesLevels(t *testing.T) {
	p := testProvider()
	o, err := NewOptimizer(p, Options{Seed: 42})
	require.NoError(t, err)

	result, err := o.OptimizePath(context.Background(), "path-cloud", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "path-cloud", result.PathID)
	assert.Equal(t, "Cloud Architect", result.PathName)
	assert.Len(t, result.Levels, 5)
	assert.Equal(t, DefaultAgentCount*len(p.certificates), result.Evaluations)
	assert.Greater(t, result.Score, 0.0)

	placed := 0
	for _, level := range result.Levels {
		placed += len(level.CertificateIDs)
	}
	assert.Greater(t, placed, 0, "relevant certificates should reach consensus")

	require.NotNil(t, p.persisted, "successful runs persist the result")
	assert.Equal(t, result, p.persisted)
}

func TestOptimizePath_ExistingLevelsNoOp(t *testing.T) {
	p := testProvider()
	p.existing = []types.LearningLevel{
		{Number: 1, Name: "Level 1", CertificateIDs: []string{"cert-old"}},
	}
	o, err := NewOptimizer(p, Options{Seed: 42})
	require.NoError(t, err)

	result, err := o.OptimizePath(context.Background(), "path-cloud", "user-1")
	require.NoError(t, err)

	assert.Equal(t, p.existing, result.Levels)
	assert.Zero(t, result.Evaluations, "no scoring happens on an already-optimized path")
	assert.Nil(t, p.persisted, "no-op runs never persist")
}

func TestOptimizePath_UnknownPath(t *testing.T) {
	p := testProvider()
	o, err := NewOptimizer(p, Options{Seed: 1})
	require.NoError(t, err)

	_, err = o.OptimizePath(context.Background(), "path-missing", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "career path not found")
}

func TestOptimizePath_HeldCertificatesExcluded(t *testing.T) {
	p := testProvider()
	p.held = []string{"cert-0", "cert-1"}
	o, err := NewOptimizer(p, Options{Seed: 42})
	require.NoError(t, err)

	result, err := o.OptimizePath(context.Background(), "path-cloud", "user-1")
	require.NoError(t, err)

	for _, level := range result.Levels {
		assert.NotContains(t, level.CertificateIDs, "cert-0")
		assert.NotContains(t, level.CertificateIDs, "cert-1")
	}
	assert.Equal(t, DefaultAgentCount*6, result.Evaluations,
		"held certificates do not count as evaluations")
}

func TestOptimizePath_ProviderErrorsPropagate(t *testing.T) {
	t.Run("existing levels", func(t *testing.T) {
		p := testProvider()
		p.failExisting = errors.New("db down")
		o, err := NewOptimizer(p, Options{Seed: 1})
		require.NoError(t, err)

		_, err = o.OptimizePath(context.Background(), "path-cloud", "user-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "existing levels")
	})

	t.Run("certificates", func(t *testing.T) {
		p := testProvider()
		p.failCerts = errors.New("db down")
		o, err := NewOptimizer(p, Options{Seed: 1})
		require.NoError(t, err)

		_, err = o.OptimizePath(context.Background(), "path-cloud", "user-1")
		require.Error(t, err)
	})

	t.Run("persist", func(t *testing.T) {
		p := testProvider()
		p.failPersist = errors.New("write conflict")
		o, err := NewOptimizer(p, Options{Seed: 1})
		require.NoError(t, err)

		_, err = o.OptimizePath(context.Background(), "path-cloud", "user-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "persisting path optimization")
	})
}

func TestOptimizePath_SkillLevelFailureDegrades(t *testing.T) {
	p := testProvider()
	p.failSkills = errors.New("profile service down")
	o, err := NewOptimizer(p, Options{Seed: 42})
	require.NoError(t, err)

	result, err := o.OptimizePath(context.Background(), "path-cloud", "user-1")
	require.NoError(t, err, "missing skill levels degrade to an empty profile")
	assert.NotNil(t, result)
}

func TestOptimizePath_SeedDeterminism(t *testing.T) {
	run := func() *types.PathOptimizationResult {
		o, err := NewOptimizer(testProvider(), Options{Seed: 99})
		require.NoError(t, err)
		result, err := o.OptimizePath(context.Background(), "path-cloud", "user-1")
		require.NoError(t, err)
		return result
	}

	assert.Equal(t, run(), run())
}

func TestAggregateScore(t *testing.T) {
	assert.Equal(t, 0.0, aggregateScore(nil, 3))

	// Mean 0.5 plus 2 consensus certificates worth 0.02 each.
	assert.InDelta(t, 0.54, aggregateScore([]float64{0.4, 0.6}, 2), 1e-9)

	// The consensus bonus caps at 0.1.
	assert.InDelta(t, 0.6, aggregateScore([]float64{0.5}, 50), 1e-9)
}

func TestEstimateTotals(t *testing.T) {
	certs := []types.Certificate{
		{ID: "cert-a", DurationHours: 40, Cost: 100},
		{ID: "cert-b", DurationHours: 60, Cost: 200},
		{ID: "cert-unplaced", DurationHours: 500, Cost: 9000},
	}
	placed := []types.LearningLevel{
		{Number: 1, CertificateIDs: []string{"cert-a"}},
		{Number: 2, CertificateIDs: []string{"cert-b"}},
	}

	hours, cost := estimateTotals(placed, certs)
	assert.InDelta(t, 100, hours, 1e-9)
	assert.InDelta(t, 300, cost, 1e-9)
}
