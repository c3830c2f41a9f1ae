package observability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/talent-allocator/internal/types"
)

func TestPrintAssignments_Empty(t *testing.T) {
	var buf strings.Builder
	NewPrinter(&buf).PrintAssignments(nil)

	assert.Contains(t, buf.String(), "NO ROLES ASSIGNED")
}

func TestPrintAssignments_ListsRoles(t *testing.T) {
	var buf strings.Builder
	NewPrinter(&buf).PrintAssignments([]types.AssignmentResult{
		{RoleID: "role-1", RoleName: "Backend Engineer", EmployeeID: "emp-1", EmployeeName: "Dana", Score: 0.91, Evaluations: 6},
		{RoleID: "role-2", RoleName: "Data Engineer", EmployeeID: "emp-2", EmployeeName: "Alex", Score: 0.84, Evaluations: 5},
	})

	out := buf.String()
	assert.Contains(t, out, "ROLE ASSIGNMENTS")
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "Dana")
	assert.Contains(t, out, "0.91")
	assert.Contains(t, out, "Data Engineer")
}

func TestPrintAssignments_TruncatesLongLists(t *testing.T) {
	results := make([]types.AssignmentResult, 8)
	for i := range results {
		results[i] = types.AssignmentResult{RoleName: "Role", EmployeeName: "Someone", Evaluations: 1}
	}

	var buf strings.Builder
	NewPrinter(&buf).PrintAssignments(results)
	assert.Contains(t, buf.String(), "and 3 more roles")
}

func TestPrintPathResult(t *testing.T) {
	var buf strings.Builder
	NewPrinter(&buf).PrintPathResult(&types.PathOptimizationResult{
		PathID:         "path-cloud",
		PathName:       "Cloud Architect",
		Score:          0.74,
		Evaluations:    80,
		EstimatedHours: 120,
		EstimatedCost:  900,
		Levels: []types.LearningLevel{
			{Number: 1, Name: "Level 1", CertificateIDs: []string{"cert-a", "cert-b"}},
			{Number: 2, Name: "Level 2", CertificateIDs: []string{"cert-c", "cert-d", "cert-e", "cert-f"}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "OPTIMIZED LEARNING PATH")
	assert.Contains(t, out, "Cloud Architect")
	assert.Contains(t, out, "Level 1 (2 certificates)")
	assert.Contains(t, out, "cert-a")
	assert.Contains(t, out, "... and 1 more", "levels show at most three certificates")
	assert.Contains(t, out, "120 hours")
}

func TestPrintPathResult_Nil(t *testing.T) {
	var buf strings.Builder
	NewPrinter(&buf).PrintPathResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRankings(t *testing.T) {
	var buf strings.Builder
	NewPrinter(&buf).PrintRankings([]types.CertificateRanking{
		{Certificate: types.Certificate{ID: "cert-a", CourseName: "Kubernetes Admin"}, Score: 0.9, SuggestedLevel: 2, Difficulty: 3},
	})

	out := buf.String()
	assert.Contains(t, out, "TOP RANKED CERTIFICATES")
	assert.Contains(t, out, "Kubernetes Admin")
	assert.Contains(t, out, "Level: 2")
}

func TestPrintRankings_Empty(t *testing.T) {
	var buf strings.Builder
	NewPrinter(&buf).PrintRankings(nil)
	assert.Empty(t, buf.String())
}
