package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-allocator/internal/types"
)

func testRole() *types.RoleRequirement {
	return &types.RoleRequirement{
		ID:       "role-backend",
		Name:     "Backend Engineer",
		ClientID: "client-acme",
		Skills: []types.SkillRequirement{
			{SkillID: "go", RequiredLevel: 3, Weight: 1.0},
			{SkillID: "postgres", RequiredLevel: 2, Weight: 0.6},
		},
	}
}

func strongCandidate() *types.Employee {
	return &types.Employee{
		ID:                "emp-strong",
		Name:              "Alex",
		TenureYears:       8,
		CompletedProjects: 15,
		Skills: []types.EmployeeSkill{
			{SkillID: "go", Level: 3, ValidationSource: "certification", SourceCount: 3},
			{SkillID: "postgres", Level: 2, SourceCount: 2},
			{SkillID: "kafka", Level: 2, SourceCount: 1},
		},
		RoleHistory: []types.EmployeeRoleRecord{
			{RoleName: "Backend Engineer", Months: 18},
			{RoleName: "Senior Backend Engineer", Months: 12},
		},
		ProjectHistory: []types.EmployeeProjectRecord{
			{ProjectID: "p1", ClientID: "client-acme", Completed: true},
		},
	}
}

func defaultRoleModel(t *testing.T) *RoleModel {
	t.Helper()
	weights, err := DefaultRoleWeights()
	require.NoError(t, err)
	model, err := NewRoleModel(weights)
	require.NoError(t, err)
	return model
}

func TestNewRoleModel_RequiresWeights(t *testing.T) {
	_, err := NewRoleModel(nil)
	require.Error(t, err)
}

func TestRoleModel_Score_InRange(t *testing.T) {
	model := defaultRoleModel(t)

	score, err := model.Score(strongCandidate(), testRole())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestRoleModel_Score_OrdersCandidates(t *testing.T) {
	model := defaultRoleModel(t)
	role := testRole()

	weak := &types.Employee{ID: "emp-weak", Name: "Sam", TenureYears: 0.5}

	strong, err := model.Score(strongCandidate(), role)
	require.NoError(t, err)
	weakScore, err := model.Score(weak, role)
	require.NoError(t, err)
	assert.Greater(t, strong, weakScore)
}

type failingFactor struct{}

func (failingFactor) Name() string { return "failing" }

func (failingFactor) Score(*types.Employee, *types.RoleRequirement) (float64, error) {
	return 0, errors.New("factor blew up")
}

func TestRoleModel_Score_PropagatesFactorError(t *testing.T) {
	weights, err := types.NewAgentWeights("test", map[string]float64{"failing": 1.0})
	require.NoError(t, err)
	model, err := NewRoleModel(weights, failingFactor{})
	require.NoError(t, err)

	_, err = model.Score(strongCandidate(), testRole())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factor blew up")
}

func TestTenureFactor(t *testing.T) {
	f := tenureFactor{}

	score, err := f.Score(&types.Employee{TenureYears: 5}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)

	score, err = f.Score(&types.Employee{TenureYears: 25}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score, "tenure beyond the cap saturates")
}

func TestCompletedProjectsFactor(t *testing.T) {
	f := completedProjectsFactor{}

	score, err := f.Score(&types.Employee{CompletedProjects: 10}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestClientExperienceFactor(t *testing.T) {
	f := clientExperienceFactor{}
	role := testRole()

	score, err := f.Score(strongCandidate(), role)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	score, err = f.Score(&types.Employee{}, role)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestBaseSkillMatchFactor(t *testing.T) {
	f := baseSkillMatchFactor{}
	role := testRole()

	// Holds go only: 1.0 of 1.6 total weight.
	partial := &types.Employee{Skills: []types.EmployeeSkill{{SkillID: "go", Level: 1}}}
	score, err := f.Score(partial, role)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/1.6, score, 1e-9)

	score, err = f.Score(&types.Employee{}, role)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestSkillLevelFactor(t *testing.T) {
	f := skillLevelFactor{}
	role := testRole()

	// go at 3/3 weighted 1.0, postgres at 1/2 weighted 0.6.
	e := &types.Employee{Skills: []types.EmployeeSkill{
		{SkillID: "go", Level: 3},
		{SkillID: "postgres", Level: 1},
	}}
	score, err := f.Score(e, role)
	require.NoError(t, err)
	assert.InDelta(t, (1.0+0.6*0.5)/1.6, score, 1e-9)

	// Levels above the requirement do not overshoot.
	over := &types.Employee{Skills: []types.EmployeeSkill{
		{SkillID: "go", Level: 3},
		{SkillID: "postgres", Level: 3},
	}}
	score, err = f.Score(over, role)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestComplementarySkillsFactor(t *testing.T) {
	f := complementarySkillsFactor{}
	role := testRole()

	score, err := f.Score(strongCandidate(), role)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/5.0, score, 1e-9, "kafka is the only skill beyond the requirements")
}

func TestSimilarRolesFactor(t *testing.T) {
	f := similarRolesFactor{}
	role := testRole()

	score, err := f.Score(strongCandidate(), role)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score, "two matching past roles saturate the cap")

	unrelated := &types.Employee{RoleHistory: []types.EmployeeRoleRecord{
		{RoleName: "Designer"},
	}}
	score, err = f.Score(unrelated, role)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestCertificationsFactor(t *testing.T) {
	f := certificationsFactor{}
	role := testRole()

	score, err := f.Score(strongCandidate(), role)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, score, 1e-9, "only go is certification-backed")
}

func TestVersatilityFactor(t *testing.T) {
	f := versatilityFactor{}

	score, err := f.Score(strongCandidate(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.0/10.0, score, 1e-9)
}

func TestCorroborationFactor(t *testing.T) {
	f := corroborationFactor{}

	// Sources 3, 2, 1 against a cap of 3: (1 + 2/3 + 1/3) / 3.
	score, err := f.Score(strongCandidate(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, score, 1e-9)

	score, err = f.Score(&types.Employee{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestDefaultRoleWeights_CoverAllFactors(t *testing.T) {
	w, err := DefaultRoleWeights()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)

	for _, f := range DefaultRoleFactors() {
		assert.Greater(t, w.Factor(f.Name()), 0.0, "factor %s has no weight", f.Name())
	}
}
